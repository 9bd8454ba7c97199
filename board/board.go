// Package board implements reaction boards: promoting messages that collect enough
// qualifying reactions into a board channel, and the up/down-vote control attached to
// every promoted message.
package board

import (
	"strings"
)

// Board describes one board variant.
type Board struct {
	// Name is used for logging, metrics and configuration keys.
	Name string
	// Prefix scopes the custom ids of the board's buttons.
	Prefix string
	// LegacyIDs accepts unprefixed "upvote_<id>" buttons published by older releases.
	LegacyIDs bool
	// Songs restricts promotion to messages with streaming links and publishes the
	// links with the vote control in a second message.
	Songs bool
}

var (
	Starboard = Board{Name: "starboard", Prefix: "starboard"}
	Songboard = Board{Name: "songboard", Prefix: "songboard", LegacyIDs: true, Songs: true}
)

// ParseCustomID splits a button custom id of this board into its action and raw row id.
// ok is false when the id belongs to another board or is not a vote button.
func (b Board) ParseCustomID(customID string) (action Action, rowID string, ok bool) {
	rest, prefixed := strings.CutPrefix(customID, b.Prefix+"_")
	if !prefixed {
		if !b.LegacyIDs {
			return "", "", false
		}
		rest = customID
	}

	name, id, found := strings.Cut(rest, "_")
	if !found || id == "" {
		return "", "", false
	}
	switch Action(name) {
	case ActionUpvote, ActionDownvote:
		return Action(name), id, true
	}
	return "", "", false
}

// ownsComponentID reports whether a component custom id was issued by this board,
// including its disabled score button.
func (b Board) ownsComponentID(customID string) bool {
	if customID == b.Prefix+"_disabled_count" {
		return true
	}
	if b.LegacyIDs && customID == "disabled_count" {
		return true
	}
	_, _, ok := b.ParseCustomID(customID)
	return ok
}
