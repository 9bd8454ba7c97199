package handlers

import (
	"context"
	"fmt"

	"songboard-bot/board"

	"github.com/bwmarrin/discordgo"
)

// SessionPlatform implements board.Platform on top of a discordgo session.
type SessionPlatform struct {
	s *discordgo.Session
}

// NewSessionPlatform wraps s.
func NewSessionPlatform(s *discordgo.Session) *SessionPlatform {
	return &SessionPlatform{s: s}
}

// ResolveMessage fetches the full message behind a reaction event.
func (p *SessionPlatform) ResolveMessage(ctx context.Context, ref board.MessageRef) (*board.Message, error) {
	m, err := p.s.ChannelMessage(ref.ChannelID, ref.ID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return toMessage(m, ref), nil
}

// Channel returns the channel from the state cache, falling back to the API.
func (p *SessionPlatform) Channel(ctx context.Context, channelID string) (*board.Channel, error) {
	if p.s.State != nil {
		if ch, err := p.s.State.Channel(channelID); err == nil {
			return &board.Channel{ID: ch.ID, Type: ch.Type}, nil
		}
	}
	ch, err := p.s.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return &board.Channel{ID: ch.ID, Type: ch.Type}, nil
}

// Send posts msg to channelID and returns the new message id.
func (p *SessionPlatform) Send(ctx context.Context, channelID string, msg *discordgo.MessageSend) (string, error) {
	sent, err := p.s.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return sent.ID, nil
}

// EditComponents replaces the components of a message, leaving its content and embeds alone.
func (p *SessionPlatform) EditComponents(ctx context.Context, channelID, messageID string, components []discordgo.MessageComponent) error {
	edit := discordgo.NewMessageEdit(channelID, messageID)
	edit.Components = &components
	if _, err := p.s.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to edit components of message %s: %w", messageID, err)
	}
	return nil
}

func toEmoji(e *discordgo.Emoji) board.Emoji {
	if e == nil {
		return board.Emoji{}
	}
	return board.Emoji{ID: e.ID, Name: e.Name, Animated: e.Animated}
}

// toMessage converts a fetched message. Messages fetched over REST carry no guild id, so
// the reference's ids are kept.
func toMessage(m *discordgo.Message, ref board.MessageRef) *board.Message {
	msg := &board.Message{
		MessageRef: ref,
		Content:    m.Content,
		EmbedCount: len(m.Embeds),
	}
	if m.Author != nil {
		name := m.Author.GlobalName
		if m.Member != nil && m.Member.Nick != "" {
			name = m.Member.Nick
		}
		if name == "" {
			name = m.Author.Username
		}
		msg.Author = &board.Author{
			ID:        m.Author.ID,
			Username:  name,
			AvatarURL: m.Author.AvatarURL(""),
		}
	}
	for _, a := range m.Attachments {
		if a == nil {
			continue
		}
		msg.Attachments = append(msg.Attachments, board.Attachment{
			URL:         a.URL,
			Filename:    a.Filename,
			ContentType: a.ContentType,
		})
	}
	for _, r := range m.Reactions {
		if r == nil {
			continue
		}
		msg.Reactions = append(msg.Reactions, board.ReactionCount{Emoji: toEmoji(r.Emoji), Count: r.Count})
	}
	return msg
}
