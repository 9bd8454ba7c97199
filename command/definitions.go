package command

import "github.com/bwmarrin/discordgo"

// PingCommand defines the structure for the /ping command.
type PingCommand struct{}

// Definition returns the application command definition.
func (c *PingCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Responds with Pong!",
	}
}

// BoardsCommand defines the structure for the /boards command.
type BoardsCommand struct{}

// Definition returns the application command definition.
func (c *BoardsCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "boards",
		Description: "Show starboard and songboard statistics",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "days",
				Description: "How many days of promotions to count",
				Type:        discordgo.ApplicationCommandOptionInteger,
				Required:    false,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Last day", Value: 1},
					{Name: "Last 3 days", Value: 3},
					{Name: "Last 7 days", Value: 7},
				},
			},
		},
	}
}
