package handlers

import (
	"context"
	"fmt"

	"songboard-bot/board"
	"songboard-bot/bot"
	"songboard-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// InteractionCreate handles slash commands and vote button presses.
func InteractionCreate(b *bot.Bot) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			CommandDispatcher(b, s, i)
		case discordgo.InteractionMessageComponent:
			handleVoteButton(b, s, i)
		}
	}
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// votePress extracts a vote press from a component interaction.
func votePress(i *discordgo.InteractionCreate) board.VotePress {
	press := board.VotePress{
		CustomID:  i.MessageComponentData().CustomID,
		UserID:    interactionUserID(i),
		ChannelID: i.ChannelID,
	}
	if i.Message != nil {
		press.MessageID = i.Message.ID
		press.Components = i.Message.Components
		if i.Message.ChannelID != "" {
			press.ChannelID = i.Message.ChannelID
		}
	}
	return press
}

func engineFor(b *bot.Bot, customID string) *board.Engine {
	for _, brd := range b.Boards {
		if brd.Engine.Owns(customID) {
			return brd.Engine
		}
	}
	return nil
}

func handleVoteButton(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	press := votePress(i)
	engine := engineFor(b, press.CustomID)
	if engine == nil {
		return
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		utils.Warn(engine.Board().Name, "InteractionCreate", fmt.Sprintf("failed to defer vote of user %s: %v", press.UserID, err))
		return
	}

	press.Respond = func(content string) error {
		_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content})
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), viper.GetDuration("bot.reactionTimeout"))
	defer cancel()
	if _, err := engine.HandleVote(ctx, press); err != nil {
		utils.Error(engine.Board().Name, "InteractionCreate", err.Error())
	}
}
