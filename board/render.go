package board

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const (
	starboardColor   = 0xffac33
	maxDescription   = 4096
	maxFieldValue    = 1024
	maxFilenameChars = 100
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func authorBlock(msg *Message) *discordgo.MessageEmbedAuthor {
	return &discordgo.MessageEmbedAuthor{
		Name:    msg.Author.Username,
		IconURL: msg.Author.AvatarURL,
		URL:     msg.URL(),
	}
}

// firstMedia returns the first inline-displayable attachment, if any.
func firstMedia(attachments []Attachment) (Attachment, bool) {
	for _, a := range attachments {
		if a.IsMedia() {
			return a, true
		}
	}
	return Attachment{}, false
}

// composeStarPost builds the starboard post: the message with its author, one media
// attachment and notes about what could not be carried over.
func composeStarPost(msg *Message, emoji Emoji, count int) *discordgo.MessageSend {
	embed := &discordgo.MessageEmbed{
		Author:      authorBlock(msg),
		URL:         msg.URL(),
		Color:       starboardColor,
		Description: clip(msg.Content, maxDescription),
	}

	media, hasMedia := firstMedia(msg.Attachments)
	if hasMedia {
		embed.Image = &discordgo.MessageEmbedImage{URL: media.URL}
	}

	var scrubbed strings.Builder
	nonMedia, extraMedia := 0, 0
	for _, a := range msg.Attachments {
		if a.IsMedia() {
			if a.URL != media.URL {
				extraMedia++
			}
			continue
		}
		name := unsafeFilenameChars.ReplaceAllString(a.Filename, "_")
		fmt.Fprintf(&scrubbed, "- [%s](%s)\n", clip(name, maxFilenameChars), a.URL)
		nonMedia++
	}
	if nonMedia > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%d non-media %s", nonMedia, plural(nonMedia, "attachment", "attachments")),
			Value: clip(scrubbed.String(), maxFieldValue),
		})
	}
	if extraMedia > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "More media",
			Value: fmt.Sprintf("**+ %d** %s in the original message.", extraMedia, plural(extraMedia, "attachment", "attachments")),
		})
	}
	if msg.EmbedCount > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Embeds",
			Value: fmt.Sprintf("**%d** %s scrubbed from the message.", msg.EmbedCount, plural(msg.EmbedCount, "embed was", "embeds were")),
		})
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Message",
		Value: fmt.Sprintf("[Jump to message](%s)", msg.URL()),
	})

	return &discordgo.MessageSend{
		Content: fmt.Sprintf("-# **%d**  %s  %s used to star this message.", count, emoji.Mention(), plural(count, "reaction was", "reactions were")),
		Embeds:  []*discordgo.MessageEmbed{embed},
	}
}

// composeSongPost builds the songboard post. The song links themselves go out in the
// follow-up message that carries the vote control.
func composeSongPost(msg *Message, count int) *discordgo.MessageSend {
	description := StripSongLinks(msg.Content)
	if description == "" && len(msg.Attachments) > 1 {
		description = fmt.Sprintf("**+ %d** attachments", len(msg.Attachments)-1)
	}

	embed := &discordgo.MessageEmbed{
		Author:      authorBlock(msg),
		URL:         msg.URL(),
		Color:       rand.IntN(0xffffff),
		Description: clip(description, maxDescription),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Songs",
				Value:  "Linked below. :arrow_down:",
				Inline: true,
			},
			{
				Name:   "Message",
				Value:  msg.URL(),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d %s | %s", count, plural(count, "reaction", "reactions"), msg.ID),
		},
	}
	if media, ok := firstMedia(msg.Attachments); ok {
		embed.Image = &discordgo.MessageEmbedImage{URL: media.URL}
	}

	return &discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}
}

// VoteRow renders the vote control for a ledger row: upvote, net score and downvote.
func (b Board) VoteRow(rowID int64, upvotes, downvotes int) discordgo.ActionsRow {
	id := strconv.FormatInt(rowID, 10)
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				CustomID: b.Prefix + "_upvote_" + id,
				Label:    fmt.Sprintf("Upvote (%d)", upvotes),
				Style:    discordgo.SecondaryButton,
			},
			discordgo.Button{
				CustomID: b.Prefix + "_disabled_count",
				Label:    strconv.Itoa(upvotes - downvotes),
				Style:    discordgo.SecondaryButton,
				Disabled: true,
			},
			discordgo.Button{
				CustomID: b.Prefix + "_downvote_" + id,
				Label:    fmt.Sprintf("Downvote (%d)", downvotes),
				Style:    discordgo.SecondaryButton,
			},
		},
	}
}

// ReplaceVoteRow swaps this board's vote row in components for row, leaving every other
// component as it is. The row is appended if none was found.
func (b Board) ReplaceVoteRow(components []discordgo.MessageComponent, row discordgo.ActionsRow) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(components)+1)
	replaced := false
	for _, c := range components {
		if !replaced && b.isVoteRow(c) {
			out = append(out, row)
			replaced = true
			continue
		}
		out = append(out, c)
	}
	if !replaced {
		out = append(out, row)
	}
	return out
}

func (b Board) isVoteRow(c discordgo.MessageComponent) bool {
	var children []discordgo.MessageComponent
	switch r := c.(type) {
	case discordgo.ActionsRow:
		children = r.Components
	case *discordgo.ActionsRow:
		children = r.Components
	default:
		return false
	}

	for _, child := range children {
		var customID string
		switch btn := child.(type) {
		case discordgo.Button:
			customID = btn.CustomID
		case *discordgo.Button:
			customID = btn.CustomID
		}
		if customID != "" && b.ownsComponentID(customID) {
			return true
		}
	}
	return false
}
