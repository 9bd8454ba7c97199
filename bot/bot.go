package bot

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"songboard-bot/board"
	"songboard-bot/database"
	"songboard-bot/grpc"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// Board pairs a board engine with the ledger it writes to.
type Board struct {
	Engine *board.Engine
	Ledger *database.Ledger
}

// Bot encapsulates the bot's state.
type Bot struct {
	Session  *discordgo.Session
	Commands []*discordgo.ApplicationCommand
	Boards   []Board
	Health   *grpc.HealthServer
	Metrics  *http.Server
}

// NewBot creates a Bot with a configured, unopened Discord session.
func NewBot() (*Bot, error) {
	token := viper.GetString("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("no bot token provided")
	}

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsMessageContent

	return &Bot{Session: dg}, nil
}

// Start opens the bot's session and registers handlers.
func (b *Bot) Start(registerHandlers func(*Bot)) error {
	registerHandlers(b)

	err := b.Session.Open()
	if err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands
	for _, cmd := range b.Commands {
		_, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, "", cmd)
		if err != nil {
			log.Printf("Cannot create '%v' command: %v", cmd.Name, err)
		}
	}

	startScheduler(b)

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully closes the bot's session.
func (b *Bot) Stop() {
	stopScheduler()
	if b.Health != nil {
		b.Health.Stop()
	}
	if b.Metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := b.Metrics.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down metrics server: %v", err)
		}
		cancel()
	}
	if b.Session != nil {
		b.Session.Close()
	}
	fmt.Println("Bot stopped gracefully.")
}

// Run starts b and blocks until SIGINT or SIGTERM.
func Run(b *Bot, registerHandlers func(*Bot)) {
	if err := b.Start(registerHandlers); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	b.Stop()
}
