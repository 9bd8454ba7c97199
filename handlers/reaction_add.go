package handlers

import (
	"context"
	"fmt"

	"songboard-bot/board"
	"songboard-bot/bot"
	"songboard-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/sourcegraph/conc"
	"github.com/spf13/viper"
)

// maxParentDepth bounds the ancestor walk: thread, channel, category.
const maxParentDepth = 3

// parentIDs walks the cached channel hierarchy of channelID, nearest ancestor first.
func parentIDs(state *discordgo.State, channelID string) []string {
	if state == nil {
		return nil
	}
	var parents []string
	current := channelID
	for i := 0; i < maxParentDepth; i++ {
		ch, err := state.Channel(current)
		if err != nil || ch.ParentID == "" {
			break
		}
		parents = append(parents, ch.ParentID)
		current = ch.ParentID
	}
	return parents
}

// toReactionEvent adapts a gateway reaction. Reactions by the bot itself count as bot
// reactions even when the member payload is missing.
func toReactionEvent(r *discordgo.MessageReactionAdd, selfID string, parents []string) board.ReactionEvent {
	isBot := r.UserID == selfID
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		isBot = true
	}
	return board.ReactionEvent{
		Emoji:     toEmoji(&r.Emoji),
		UserID:    r.UserID,
		UserIsBot: isBot,
		Message: board.MessageRef{
			ID:        r.MessageID,
			ChannelID: r.ChannelID,
			GuildID:   r.GuildID,
			ParentIDs: parents,
		},
	}
}

// MessageReactionAdd evaluates every reaction against all boards concurrently. Each board
// serializes its own evaluations per guild.
func MessageReactionAdd(b *bot.Bot) func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	return func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if r.MessageReaction == nil {
			return
		}
		selfID := ""
		if s.State != nil && s.State.User != nil {
			selfID = s.State.User.ID
		}
		ev := toReactionEvent(r, selfID, parentIDs(s.State, r.ChannelID))

		ctx, cancel := context.WithTimeout(context.Background(), viper.GetDuration("bot.reactionTimeout"))
		defer cancel()

		var wg conc.WaitGroup
		for _, brd := range b.Boards {
			engine := brd.Engine
			wg.Go(func() {
				if _, err := engine.HandleReaction(ctx, ev); err != nil {
					utils.Error(engine.Board().Name, "MessageReactionAdd", fmt.Sprintf("message %s in guild %s: %v", ev.Message.ID, ev.Message.GuildID, err))
				}
			})
		}
		wg.Wait()
	}
}
