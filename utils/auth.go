package utils

import (
	"slices"

	"songboard-bot/models"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// Permission levels for slash commands.
const (
	LevelDeveloper = "developer"
	LevelAdmin     = "admin"
	LevelGuest     = "guest"
)

// Auth provides methods for authorization checks.
type Auth struct {
	config models.CommandsConfig
}

// NewAuth creates a new Auth instance with the loaded configuration.
func NewAuth() (*Auth, error) {
	var commandsConfig models.CommandsConfig
	if err := viper.UnmarshalKey("commands", &commandsConfig); err != nil {
		return nil, err
	}
	return &Auth{config: commandsConfig}, nil
}

// IsDeveloper checks if a user is a developer.
func (a *Auth) IsDeveloper(userID string) bool {
	return slices.Contains(a.config.Auth.Developers, userID)
}

// IsAdmin checks if a member has an admin role.
func (a *Auth) IsAdmin(member *discordgo.Member) bool {
	if member == nil {
		return false
	}
	for _, role := range member.Roles {
		if slices.Contains(a.config.Auth.AdminsRoles, role) {
			return true
		}
	}
	return false
}

// IsGuest checks if a user is a guest. An empty list or "0" opens guest commands to everyone.
func (a *Auth) IsGuest(userID string) bool {
	if len(a.config.Auth.Guest) == 0 {
		return true
	}
	return slices.Contains(a.config.Auth.Guest, "0") || slices.Contains(a.config.Auth.Guest, userID)
}

// CheckPermission checks if the user behind an interaction has the required permission level.
func (a *Auth) CheckPermission(i *discordgo.InteractionCreate, requiredLevel string) bool {
	var user *discordgo.User
	switch {
	case i.Member != nil && i.Member.User != nil:
		user = i.Member.User
	case i.User != nil:
		user = i.User
	default:
		return false
	}

	switch requiredLevel {
	case LevelDeveloper:
		return a.IsDeveloper(user.ID)
	case LevelAdmin:
		return a.IsDeveloper(user.ID) || a.IsAdmin(i.Member)
	case LevelGuest:
		return a.IsDeveloper(user.ID) || a.IsAdmin(i.Member) || a.IsGuest(user.ID)
	default:
		return false
	}
}
