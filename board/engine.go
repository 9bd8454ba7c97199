package board

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"songboard-bot/metrics"
	"songboard-bot/models"
	"songboard-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/sourcegraph/conc/panics"
)

// Skip reasons. A skipped reaction is a silent no-op.
const (
	ReasonBotUser           = "bot_user"
	ReasonNotInGuild        = "not_in_guild"
	ReasonDisabled          = "disabled"
	ReasonEmojiMismatch     = "emoji_mismatch"
	ReasonExcludedChannel   = "excluded_channel"
	ReasonBoardChannel      = "board_channel"
	ReasonAlreadyPromoted   = "already_promoted"
	ReasonNoSongLinks       = "no_song_links"
	ReasonBelowThreshold    = "below_threshold"
	ReasonBoardChannelUnfit = "board_channel_not_text"
	ReasonNoAuthor          = "no_author"
)

// Result describes what HandleReaction did with an event.
type Result struct {
	Promoted bool
	Reason   string // set when the event was skipped
	Row      *models.PromotedMessage
}

// Engine runs one board: it promotes qualifying messages and applies votes on them.
type Engine struct {
	board    Board
	ledger   Ledger
	policies PolicySource
	platform Platform
	locks    *GuildLocks
}

// NewEngine wires a board engine to its ledger, policy source and platform.
func NewEngine(b Board, ledger Ledger, policies PolicySource, platform Platform) *Engine {
	return &Engine{
		board:    b,
		ledger:   ledger,
		policies: policies,
		platform: platform,
		locks:    NewGuildLocks(),
	}
}

// Board returns the board this engine runs.
func (e *Engine) Board() Board {
	return e.board
}

// Locks exposes the engine's guild lock registry.
func (e *Engine) Locks() *GuildLocks {
	return e.locks
}

func (e *Engine) skip(ev ReactionEvent, reason string) Result {
	metrics.Skips.WithLabelValues(e.board.Name, reason).Inc()
	utils.Debug(e.board.Name, "HandleReaction", fmt.Sprintf("skipping message %s in guild %s: %s", ev.Message.ID, ev.Message.GuildID, reason))
	return Result{Reason: reason}
}

func emojiMatches(policy models.BoardPolicy, emoji Emoji) bool {
	if policy.MatchesAll() {
		return true
	}
	for _, trigger := range policy.ReactionEmoji {
		trigger = strings.TrimSpace(trigger)
		if trigger == "" {
			continue
		}
		if (emoji.ID != "" && emoji.ID == trigger) || (emoji.Name != "" && emoji.Name == trigger) {
			return true
		}
	}
	return false
}

func isExcluded(policy models.BoardPolicy, ref MessageRef) bool {
	if slices.Contains(policy.ExcludedChannels, ref.ChannelID) {
		return true
	}
	for _, parent := range ref.ParentIDs {
		if parent != "" && slices.Contains(policy.ExcludedChannels, parent) {
			return true
		}
	}
	return false
}

// precheck runs the checks that need no platform or ledger round-trip. It returns the
// guild's policy and a skip reason, or an error if the policy could not be read.
func (e *Engine) precheck(ev ReactionEvent) (models.BoardPolicy, string, error) {
	if ev.UserIsBot {
		return models.BoardPolicy{}, ReasonBotUser, nil
	}
	if ev.Message.GuildID == "" {
		return models.BoardPolicy{}, ReasonNotInGuild, nil
	}

	policy, err := e.policies.Policy(ev.Message.GuildID)
	if err != nil {
		return models.BoardPolicy{}, "", fmt.Errorf("failed to read %s policy: %w", e.board.Name, err)
	}
	if !policy.Enabled || !policy.HasChannel() || !policy.HasTrigger() {
		return policy, ReasonDisabled, nil
	}
	if ev.Emoji.Key() == "" || !emojiMatches(policy, ev.Emoji) {
		return policy, ReasonEmojiMismatch, nil
	}
	if isExcluded(policy, ev.Message) {
		return policy, ReasonExcludedChannel, nil
	}
	if ev.Message.ChannelID == policy.Channel {
		return policy, ReasonBoardChannel, nil
	}
	return policy, "", nil
}

// HandleReaction decides whether a reaction promotes its message to the board and, if so,
// publishes the board post and records it in the ledger. Ineligible events return a
// Result with a Reason and a nil error. Evaluations for the same guild are serialized, so
// a message is promoted at most once.
func (e *Engine) HandleReaction(ctx context.Context, ev ReactionEvent) (res Result, err error) {
	policy, reason, err := e.precheck(ev)
	if err != nil {
		return Result{}, err
	}
	if reason != "" {
		return e.skip(ev, reason), nil
	}

	start := time.Now()
	release, err := e.locks.Acquire(ctx, ev.Message.GuildID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to acquire %s lock for guild %s: %w", e.board.Name, ev.Message.GuildID, err)
	}
	defer release()
	metrics.LockWait.WithLabelValues(e.board.Name).Observe(time.Since(start).Seconds())

	var pc panics.Catcher
	pc.Try(func() {
		res, err = e.promote(ctx, ev, policy)
	})
	if r := pc.Recovered(); r != nil {
		res, err = Result{}, fmt.Errorf("promotion of message %s panicked: %w", ev.Message.ID, r.AsError())
	}
	if err != nil {
		metrics.Failures.WithLabelValues(e.board.Name).Inc()
	}
	return res, err
}

// promote runs the checks that need the message and the ledger, then publishes. The
// caller holds the guild lock.
func (e *Engine) promote(ctx context.Context, ev ReactionEvent, policy models.BoardPolicy) (Result, error) {
	msg, err := e.platform.ResolveMessage(ctx, ev.Message)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch message %s: %w", ev.Message.ID, err)
	}

	existing, err := e.ledger.FindByOriginal(ctx, msg.ID, msg.ChannelID, msg.GuildID)
	if err != nil {
		return Result{}, err
	}
	if existing != nil {
		return e.skip(ev, ReasonAlreadyPromoted), nil
	}

	var songs []string
	if e.board.Songs {
		songs = ExtractSongLinks(msg.Content)
		if len(songs) == 0 {
			return e.skip(ev, ReasonNoSongLinks), nil
		}
	}

	count := msg.ReactionCount(ev.Emoji)
	if ev.Count != nil {
		count = *ev.Count
	}
	if count < policy.MinReactions {
		return e.skip(ev, ReasonBelowThreshold), nil
	}

	channel, err := e.platform.Channel(ctx, policy.Channel)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch %s channel %s: %w", e.board.Name, policy.Channel, err)
	}
	if channel == nil || !channel.TextBased() {
		return e.skip(ev, ReasonBoardChannelUnfit), nil
	}

	if msg.Author == nil {
		return e.skip(ev, ReasonNoAuthor), nil
	}

	var post *discordgo.MessageSend
	if e.board.Songs {
		post = composeSongPost(msg, count)
	} else {
		post = composeStarPost(msg, ev.Emoji, count)
	}

	boardMessageID, err := e.platform.Send(ctx, policy.Channel, post)
	if err != nil {
		return Result{}, fmt.Errorf("failed to publish %s post for message %s: %w", e.board.Name, msg.ID, err)
	}

	row, err := e.ledger.Promote(ctx, models.PromotedMessage{
		MessageID:      msg.ID,
		ChannelID:      msg.ChannelID,
		GuildID:        msg.GuildID,
		UserID:         ev.UserID,
		BoardMessageID: boardMessageID,
		Songs:          songs,
	}, func(ctx context.Context, rowID int64) (string, error) {
		return e.attachControl(ctx, policy.Channel, boardMessageID, post, rowID, songs)
	})
	if err != nil {
		utils.Warn(e.board.Name, "HandleReaction", fmt.Sprintf("board message %s in channel %s is orphaned: %v", boardMessageID, policy.Channel, err))
		return Result{}, err
	}

	metrics.Promotions.WithLabelValues(e.board.Name).Inc()
	utils.Debug(e.board.Name, "HandleReaction", fmt.Sprintf("promoted message %s as row %d", msg.ID, row.ID))
	return Result{Promoted: true, Row: row}, nil
}

// attachControl publishes the zero-vote control for a freshly inserted row. The songboard
// sends it with the links as a second message; the starboard adds it to the post itself.
func (e *Engine) attachControl(ctx context.Context, channelID, boardMessageID string, post *discordgo.MessageSend, rowID int64, songs []string) (string, error) {
	row := e.board.VoteRow(rowID, 0, 0)
	if e.board.Songs {
		return e.platform.Send(ctx, channelID, &discordgo.MessageSend{
			Content:    strings.Join(songs, "\n"),
			Components: []discordgo.MessageComponent{row},
		})
	}

	components := append(slices.Clone(post.Components), row)
	if err := e.platform.EditComponents(ctx, channelID, boardMessageID, components); err != nil {
		return "", err
	}
	return "", nil
}
