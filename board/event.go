package board

import (
	"context"
	"fmt"
	"strings"

	"songboard-bot/models"

	"github.com/bwmarrin/discordgo"
)

// Emoji identifies a reaction. Custom emojis carry an ID, unicode emojis only a Name.
type Emoji struct {
	ID       string
	Name     string
	Animated bool
}

// Key returns the ID for custom emojis and the name otherwise.
func (e Emoji) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return e.Name
}

// Mention renders the emoji for message content.
func (e Emoji) Mention() string {
	if e.ID == "" {
		return e.Name
	}
	if e.Animated {
		return fmt.Sprintf("<a:%s:%s>", e.Name, e.ID)
	}
	return fmt.Sprintf("<:%s:%s>", e.Name, e.ID)
}

// MessageRef is a partial reference to a guild message as delivered by a reaction event.
// ParentIDs lists the channel's ancestors, nearest first (thread parent, category).
type MessageRef struct {
	ID        string
	ChannelID string
	GuildID   string
	ParentIDs []string
}

// URL links to the message in the Discord client.
func (r MessageRef) URL() string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", r.GuildID, r.ChannelID, r.ID)
}

// Author is the resolved author of a message.
type Author struct {
	ID        string
	Username  string
	AvatarURL string
}

// Attachment is a file attached to a message.
type Attachment struct {
	URL         string
	Filename    string
	ContentType string
}

// IsMedia reports whether the attachment can be shown inline.
func (a Attachment) IsMedia() bool {
	return strings.HasPrefix(a.ContentType, "image/") || strings.HasPrefix(a.ContentType, "video/")
}

// ReactionCount is the number of users that reacted with an emoji.
type ReactionCount struct {
	Emoji Emoji
	Count int
}

// Message is a fully resolved message.
type Message struct {
	MessageRef
	Content     string
	Author      *Author
	Attachments []Attachment
	EmbedCount  int
	Reactions   []ReactionCount
}

// ReactionCount returns how many users reacted to the message with e.
func (m *Message) ReactionCount(e Emoji) int {
	for _, r := range m.Reactions {
		if e.ID != "" {
			if r.Emoji.ID == e.ID {
				return r.Count
			}
			continue
		}
		if r.Emoji.ID == "" && r.Emoji.Name == e.Name {
			return r.Count
		}
	}
	return 0
}

// Channel is the subset of channel state the engine needs.
type Channel struct {
	ID   string
	Type discordgo.ChannelType
}

// TextBased reports whether messages can be sent to the channel.
func (c *Channel) TextBased() bool {
	switch c.Type {
	case discordgo.ChannelTypeGuildText,
		discordgo.ChannelTypeGuildNews,
		discordgo.ChannelTypeGuildNewsThread,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread,
		discordgo.ChannelTypeGuildVoice,
		discordgo.ChannelTypeGuildStageVoice:
		return true
	}
	return false
}

// ReactionEvent is a reaction-added event adapted from the gateway. Count is nil when
// the event did not carry a reaction count and it must be resolved from the message.
type ReactionEvent struct {
	Emoji     Emoji
	UserID    string
	UserIsBot bool
	Message   MessageRef
	Count     *int
}

// VotePress is a button press on a vote control.
type VotePress struct {
	CustomID   string
	UserID     string
	ChannelID  string
	MessageID  string
	Components []discordgo.MessageComponent // components currently on the pressed message
	// Respond sends the ephemeral acknowledgment to the pressing user.
	Respond func(content string) error
}

// Platform is the chat platform as seen by the engine.
type Platform interface {
	ResolveMessage(ctx context.Context, ref MessageRef) (*Message, error)
	Channel(ctx context.Context, channelID string) (*Channel, error)
	Send(ctx context.Context, channelID string, msg *discordgo.MessageSend) (string, error)
	EditComponents(ctx context.Context, channelID, messageID string, components []discordgo.MessageComponent) error
}

// Ledger stores promoted messages of one board.
type Ledger interface {
	FindByOriginal(ctx context.Context, messageID, channelID, guildID string) (*models.PromotedMessage, error)
	Promote(ctx context.Context, row models.PromotedMessage, attach func(ctx context.Context, rowID int64) (string, error)) (*models.PromotedMessage, error)
	UpdateVotes(ctx context.Context, id int64, fn func(row *models.PromotedMessage) error) (*models.PromotedMessage, error)
}

// PolicySource supplies the board policy of a guild.
type PolicySource interface {
	Policy(guildID string) (models.BoardPolicy, error)
}
