package board

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"songboard-bot/metrics"
	"songboard-bot/models"
	"songboard-bot/utils"
)

// Action is a vote button action.
type Action string

const (
	ActionUpvote   Action = "upvote"
	ActionDownvote Action = "downvote"
)

// VoteState is a user's standing on one promoted row.
type VoteState int

const (
	VoteNone VoteState = iota
	VoteUp
	VoteDown
)

func (s VoteState) String() string {
	switch s {
	case VoteUp:
		return "upvoted"
	case VoteDown:
		return "downvoted"
	default:
		return "none"
	}
}

// Replies sent to the user pressing a vote button.
const (
	ReplyUpvoted   = "You have successfully upvoted this message."
	ReplyDownvoted = "You have successfully downvoted this message."
	ReplyRetracted = "Your vote has been removed."
	ReplyCorrupted = "The interaction payload is corrupted."
	ReplyFailed    = "Failed to record your vote, please try again later."
)

// StateOf returns userID's vote state given a row's vote sets.
func StateOf(upvotes, downvotes []string, userID string) VoteState {
	switch {
	case slices.Contains(upvotes, userID):
		return VoteUp
	case slices.Contains(downvotes, userID):
		return VoteDown
	default:
		return VoteNone
	}
}

func without(ids []string, userID string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != userID {
			out = append(out, id)
		}
	}
	return out
}

// ApplyVote toggles userID's vote. Pressing the action the user already holds retracts it;
// otherwise the user is added to the action's set and removed from the opposite one.
// The input slices are not modified.
func ApplyVote(upvotes, downvotes []string, userID string, action Action) (newUp, newDown []string, retracted bool) {
	target, opposite := upvotes, downvotes
	if action == ActionDownvote {
		target, opposite = downvotes, upvotes
	}

	retracted = slices.Contains(target, userID)
	target = without(target, userID)
	if !retracted {
		target = append(target, userID)
	}
	opposite = without(opposite, userID)

	if action == ActionDownvote {
		return opposite, target, retracted
	}
	return target, opposite, retracted
}

// VoteResult describes the outcome of a vote press.
type VoteResult struct {
	Action    Action
	RowID     int64
	State     VoteState // the presser's state after the press
	Retracted bool
	Corrupted bool
	Row       *models.PromotedMessage
}

var errForeignControl = errors.New("vote control does not belong to this row")

// carriesControl reports whether messageID is the board message or the vote message of
// row. Presses with no message id are not checked.
func carriesControl(row *models.PromotedMessage, messageID string) bool {
	if messageID == "" {
		return true
	}
	return messageID == row.BoardMessageID || (row.BoardVoteMessageID != "" && messageID == row.BoardVoteMessageID)
}

// Owns reports whether customID is a vote button of this engine's board.
func (e *Engine) Owns(customID string) bool {
	_, _, ok := e.board.ParseCustomID(customID)
	return ok
}

func (e *Engine) respond(press VotePress, content string) {
	if press.Respond == nil {
		return
	}
	if err := press.Respond(content); err != nil {
		utils.Warn(e.board.Name, "HandleVote", fmt.Sprintf("failed to acknowledge vote of user %s: %v", press.UserID, err))
	}
}

// HandleVote applies a vote button press to the ledger, re-renders the vote control on the
// pressed message and acknowledges the press. The ledger is authoritative: failing to
// edit the control or to acknowledge is logged and does not undo the vote.
func (e *Engine) HandleVote(ctx context.Context, press VotePress) (VoteResult, error) {
	action, rawID, ok := e.board.ParseCustomID(press.CustomID)
	if !ok {
		return VoteResult{}, fmt.Errorf("button %q does not belong to the %s", press.CustomID, e.board.Name)
	}

	result := VoteResult{Action: action}
	rowID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		result.Corrupted = true
		metrics.Votes.WithLabelValues(e.board.Name, string(action), "corrupted").Inc()
		e.respond(press, ReplyCorrupted)
		return result, nil
	}
	result.RowID = rowID

	row, err := e.ledger.UpdateVotes(ctx, rowID, func(row *models.PromotedMessage) error {
		if !carriesControl(row, press.MessageID) {
			return errForeignControl
		}
		row.Upvotes, row.Downvotes, result.Retracted = ApplyVote(row.Upvotes, row.Downvotes, press.UserID, action)
		return nil
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, errForeignControl) {
			result.Corrupted = true
			metrics.Votes.WithLabelValues(e.board.Name, string(action), "corrupted").Inc()
			e.respond(press, ReplyCorrupted)
			return result, nil
		}
		metrics.Votes.WithLabelValues(e.board.Name, string(action), "failed").Inc()
		e.respond(press, ReplyFailed)
		return result, fmt.Errorf("failed to record %s on %s row %d: %w", action, e.board.Name, rowID, err)
	}
	result.Row = row
	result.State = StateOf(row.Upvotes, row.Downvotes, press.UserID)

	control := e.board.VoteRow(rowID, len(row.Upvotes), len(row.Downvotes))
	components := e.board.ReplaceVoteRow(press.Components, control)
	if err := e.platform.EditComponents(ctx, press.ChannelID, press.MessageID, components); err != nil {
		utils.Warn(e.board.Name, "HandleVote", fmt.Sprintf("failed to update vote control on message %s: %v", press.MessageID, err))
	}

	outcome := "applied"
	reply := ReplyUpvoted
	switch {
	case result.Retracted:
		outcome = "retracted"
		reply = ReplyRetracted
	case action == ActionDownvote:
		reply = ReplyDownvoted
	}
	metrics.Votes.WithLabelValues(e.board.Name, string(action), outcome).Inc()
	e.respond(press, reply)
	return result, nil
}
