package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"songboard-bot/bot"
	"songboard-bot/utils"

	"github.com/bwmarrin/discordgo"
)

const defaultStatsDays = 7

// HandlePing handles the logic for the /ping command.
func HandlePing(s *discordgo.Session, i *discordgo.InteractionCreate) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Pong!",
		},
	})
}

// boardStats renders the /boards embed for the last days days.
func boardStats(ctx context.Context, b *bot.Bot, days int, now time.Time) (*discordgo.MessageEmbed, error) {
	window := utils.LastDaysRange(now, days)
	embed := &discordgo.MessageEmbed{
		Title:     "Board statistics",
		Color:     utils.ColorInfo,
		Timestamp: now.Format(time.RFC3339),
	}
	for _, brd := range b.Boards {
		total, err := brd.Ledger.Count(ctx)
		if err != nil {
			return nil, err
		}
		recent, err := brd.Ledger.CountCreated(ctx, window.Start, window.End)
		if err != nil {
			return nil, err
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   brd.Engine.Board().Name,
			Value:  fmt.Sprintf("**%d** promoted (%s)\n**%d** in total\n%d active guild locks", recent, utils.RangeLabel(days), total, brd.Engine.Locks().Len()),
			Inline: true,
		})
	}
	return embed, nil
}

// HandleBoards handles the logic for the /boards command.
func HandleBoards(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	days := defaultStatsDays
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "days" {
			days = int(opt.IntValue())
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	embed, err := boardStats(ctx, b, days, time.Now())
	if err != nil {
		log.Printf("Failed to collect board statistics: %v", err)
		replyEphemeral(s, i, "Failed to collect board statistics, please try again later.")
		return
	}

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}
