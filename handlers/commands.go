package handlers

import (
	"log"

	"songboard-bot/bot"
	"songboard-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// commandPermissions maps each slash command to the level required to run it.
var commandPermissions = map[string]string{
	"ping":   utils.LevelGuest,
	"boards": utils.LevelAdmin,
}

func replyEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Failed to respond to interaction: %v", err)
	}
}

// CommandDispatcher is the central handler for all application command interactions.
// It performs permission checks and then dispatches the interaction to the appropriate handler.
func CommandDispatcher(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	auth, err := utils.NewAuth()
	if err != nil {
		log.Printf("Failed to create auth instance: %v", err)
		replyEphemeral(s, i, "🚫 Internal error: could not load permissions.")
		return
	}

	commandName := i.ApplicationCommandData().Name
	if requiredLevel, ok := commandPermissions[commandName]; ok {
		if !auth.CheckPermission(i, requiredLevel) {
			replyEphemeral(s, i, "🚫 You do not have permission to run this command.")
			return
		}
	}

	switch commandName {
	case "ping":
		HandlePing(s, i)
	case "boards":
		HandleBoards(b, s, i)
	default:
		replyEphemeral(s, i, "🚫 Internal error: unknown command.")
	}
}
