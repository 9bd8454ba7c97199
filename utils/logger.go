package utils

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

const (
	ColorInfo  = 0x00ff00 // Green
	ColorWarn  = 0xffff00 // Yellow
	ColorError = 0xff0000 // Red
)

var (
	mu        sync.RWMutex
	session   *discordgo.Session
	channelID string
	debug     bool
)

// InitLogger initializes the logger with a Discord session.
func InitLogger(s *discordgo.Session) {
	mu.Lock()
	defer mu.Unlock()

	session = s
	channelID = viper.GetString("bot.adminChannelId")
	debug = viper.GetBool("bot.debug")
	if channelID == "" {
		log.Println("Warning: bot.adminChannelId is not set in config.yaml. Logging to channel will be disabled.")
	}
}

// SetDebug toggles debug traces.
func SetDebug(enabled bool) {
	mu.Lock()
	debug = enabled
	mu.Unlock()
}

// Debug writes a trace line when bot.debug is enabled. Debug output never reaches the admin channel.
func Debug(module, operation, details string) {
	mu.RLock()
	enabled := debug
	mu.RUnlock()
	if enabled {
		log.Printf("[DEBUG] Module: %s, Operation: %s, Details: %s", module, operation, details)
	}
}

// Log sends a log message to the admin channel.
func Log(level, module, operation, details string) {
	mu.RLock()
	s, target := session, channelID
	mu.RUnlock()

	log.Printf("[%s] Module: %s, Operation: %s, Details: %s", level, module, operation, details)
	if s == nil || target == "" {
		return
	}

	var color int
	switch level {
	case "INFO":
		color = ColorInfo
	case "WARN":
		color = ColorWarn
	case "ERROR":
		color = ColorError
	default:
		color = ColorInfo
	}

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("Log Level: %s", level),
		Color:     color,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Module",
				Value:  module,
				Inline: true,
			},
			{
				Name:   "Operation",
				Value:  operation,
				Inline: true,
			},
			{
				Name:  "Details",
				Value: truncate(details, 1024),
			},
		},
	}

	_, err := s.ChannelMessageSendEmbed(target, embed)
	if err != nil {
		log.Printf("Error sending log message to Discord: %v", err)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// Info logs an informational message.
func Info(module, operation, details string) {
	Log("INFO", module, operation, details)
}

// Warn logs a warning message.
func Warn(module, operation, details string) {
	Log("WARN", module, operation, details)
}

// Error logs an error message.
func Error(module, operation, details string) {
	Log("ERROR", module, operation, details)
}
