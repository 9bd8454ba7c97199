package models

import "strings"

// MatchAllEmoji may be used in place of an emoji list to accept every reaction.
const MatchAllEmoji = "ALL"

// GuildBoards represents the board settings of a single guild in config/guilds.json.
type GuildBoards struct {
	Starboard BoardPolicy `json:"starboard" mapstructure:"starboard"`
	Songboard BoardPolicy `json:"songboard" mapstructure:"songboard"`
}

// BoardPolicy is the promotion policy of one board in one guild.
type BoardPolicy struct {
	Enabled          bool     `json:"enabled" mapstructure:"enabled"`
	Channel          string   `json:"channel" mapstructure:"channel"` // "0" means unset
	ReactionEmoji    []string `json:"reaction_emoji" mapstructure:"reaction_emoji"`
	MatchAll         bool     `json:"match_all" mapstructure:"match_all"`
	MinReactions     int      `json:"min_reactions" mapstructure:"min_reactions"`
	ExcludedChannels []string `json:"excluded_channels" mapstructure:"excluded_channels"`
}

// HasChannel reports whether a board channel is configured.
func (p BoardPolicy) HasChannel() bool {
	return p.Channel != "" && p.Channel != "0"
}

// MatchesAll reports whether every emoji triggers the board.
func (p BoardPolicy) MatchesAll() bool {
	if p.MatchAll {
		return true
	}
	for _, e := range p.ReactionEmoji {
		if strings.EqualFold(strings.TrimSpace(e), MatchAllEmoji) {
			return true
		}
	}
	return false
}

// HasTrigger reports whether an emoji list or the wildcard is configured.
func (p BoardPolicy) HasTrigger() bool {
	if p.MatchesAll() {
		return true
	}
	for _, e := range p.ReactionEmoji {
		if strings.TrimSpace(e) != "" {
			return true
		}
	}
	return false
}
