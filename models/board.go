package models

import (
	"errors"
	"time"
)

// ErrNotFound is returned by the ledger when a promoted row does not exist.
var ErrNotFound = errors.New("promoted message not found")

// PromotedMessage is one row of a board ledger: an original message that was
// republished to a board channel, plus the users who voted on it.
type PromotedMessage struct {
	ID                 int64
	MessageID          string
	ChannelID          string
	GuildID            string
	UserID             string // the reacting user that triggered promotion
	BoardMessageID     string
	BoardVoteMessageID string // empty when the control lives on the board message
	Songs              []string
	Upvotes            []string
	Downvotes          []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Score returns upvotes minus downvotes.
func (p *PromotedMessage) Score() int {
	return len(p.Upvotes) - len(p.Downvotes)
}
