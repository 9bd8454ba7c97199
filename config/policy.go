package config

import (
	"fmt"

	"songboard-bot/models"

	"github.com/spf13/viper"
)

// PolicyProvider reads one board's policy for a guild out of the merged viper configuration.
type PolicyProvider struct {
	v     *viper.Viper
	board string
}

// NewPolicyProvider returns a provider for the given board key ("starboard" or "songboard").
func NewPolicyProvider(v *viper.Viper, board string) *PolicyProvider {
	return &PolicyProvider{v: v, board: board}
}

// Policy returns the board policy configured for guildID. Guilds without an entry get
// the zero policy, which is disabled.
func (p *PolicyProvider) Policy(guildID string) (models.BoardPolicy, error) {
	var policy models.BoardPolicy
	key := fmt.Sprintf("guilds.%s.%s", guildID, p.board)
	if !p.v.IsSet(key) {
		return policy, nil
	}
	if err := p.v.UnmarshalKey(key, &policy); err != nil {
		return models.BoardPolicy{}, fmt.Errorf("failed to decode %s policy for guild %s: %w", p.board, guildID, err)
	}
	return policy, nil
}
