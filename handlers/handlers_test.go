package handlers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"songboard-bot/board"
	"songboard-bot/bot"
	"songboard-bot/database"
	"songboard-bot/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noPolicies struct{}

func (noPolicies) Policy(string) (models.BoardPolicy, error) { return models.BoardPolicy{}, nil }

func testBot(t *testing.T) *bot.Bot {
	t.Helper()
	db, dialect, err := database.Open("sqlite3", filepath.Join(t.TempDir(), "boards.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	b := &bot.Bot{}
	for _, cfg := range []struct {
		board board.Board
		table string
	}{
		{board.Starboard, database.StarboardTable},
		{board.Songboard, database.SongboardTable},
	} {
		ledger, err := database.NewLedger(db, dialect, cfg.table)
		require.NoError(t, err)
		b.Boards = append(b.Boards, bot.Board{
			Engine: board.NewEngine(cfg.board, ledger, noPolicies{}, nil),
			Ledger: ledger,
		})
	}
	return b
}

func TestToMessage(t *testing.T) {
	ref := board.MessageRef{ID: "m", ChannelID: "c", GuildID: "g"}
	m := &discordgo.Message{
		ID:      "m",
		Content: "hello",
		Author:  &discordgo.User{ID: "u", Username: "alice", GlobalName: "Alice"},
		Member:  &discordgo.Member{Nick: "ally"},
		Attachments: []*discordgo.MessageAttachment{
			{URL: "https://cdn/a.png", Filename: "a.png", ContentType: "image/png"},
		},
		Embeds: []*discordgo.MessageEmbed{{}, {}},
		Reactions: []*discordgo.MessageReactions{
			{Count: 4, Emoji: &discordgo.Emoji{Name: "⭐"}},
			{Count: 2, Emoji: &discordgo.Emoji{ID: "42", Name: "blob"}},
		},
	}

	msg := toMessage(m, ref)
	assert.Equal(t, ref, msg.MessageRef)
	assert.Equal(t, "ally", msg.Author.Username)
	assert.Equal(t, 2, msg.EmbedCount)
	require.Len(t, msg.Attachments, 1)
	assert.True(t, msg.Attachments[0].IsMedia())
	assert.Equal(t, 4, msg.ReactionCount(board.Emoji{Name: "⭐"}))
	assert.Equal(t, 2, msg.ReactionCount(board.Emoji{ID: "42", Name: "renamed"}))

	m.Member = nil
	m.Author.GlobalName = ""
	assert.Equal(t, "alice", toMessage(m, ref).Author.Username)

	m.Author = nil
	assert.Nil(t, toMessage(m, ref).Author)
}

func TestToReactionEvent(t *testing.T) {
	r := &discordgo.MessageReactionAdd{
		MessageReaction: &discordgo.MessageReaction{
			UserID:    "u",
			MessageID: "m",
			ChannelID: "c",
			GuildID:   "g",
			Emoji:     discordgo.Emoji{Name: "🎵"},
		},
	}

	ev := toReactionEvent(r, "self", []string{"cat"})
	assert.False(t, ev.UserIsBot)
	assert.Equal(t, "🎵", ev.Emoji.Key())
	assert.Equal(t, board.MessageRef{ID: "m", ChannelID: "c", GuildID: "g", ParentIDs: []string{"cat"}}, ev.Message)
	assert.Nil(t, ev.Count)

	assert.True(t, toReactionEvent(r, "u", nil).UserIsBot)

	r.Member = &discordgo.Member{User: &discordgo.User{ID: "u", Bot: true}}
	assert.True(t, toReactionEvent(r, "self", nil).UserIsBot)
}

func TestParentIDs(t *testing.T) {
	state := discordgo.NewState()
	require.NoError(t, state.GuildAdd(&discordgo.Guild{ID: "g"}))
	require.NoError(t, state.ChannelAdd(&discordgo.Channel{ID: "cat", GuildID: "g", Type: discordgo.ChannelTypeGuildCategory}))
	require.NoError(t, state.ChannelAdd(&discordgo.Channel{ID: "text", GuildID: "g", ParentID: "cat", Type: discordgo.ChannelTypeGuildText}))
	require.NoError(t, state.ChannelAdd(&discordgo.Channel{ID: "thread", GuildID: "g", ParentID: "text", Type: discordgo.ChannelTypeGuildPublicThread}))

	assert.Equal(t, []string{"text", "cat"}, parentIDs(state, "thread"))
	assert.Equal(t, []string{"cat"}, parentIDs(state, "text"))
	assert.Empty(t, parentIDs(state, "unknown"))
	assert.Empty(t, parentIDs(nil, "thread"))
}

func TestVotePressRouting(t *testing.T) {
	b := testBot(t)
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionMessageComponent,
		ChannelID: "board",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "voter"}},
		Message:   &discordgo.Message{ID: "post", ChannelID: "board"},
		Data:      discordgo.MessageComponentInteractionData{CustomID: "upvote_7"},
	}}

	press := votePress(i)
	assert.Equal(t, "voter", press.UserID)
	assert.Equal(t, "post", press.MessageID)
	assert.Equal(t, "board", press.ChannelID)

	engine := engineFor(b, press.CustomID)
	require.NotNil(t, engine)
	assert.Equal(t, "songboard", engine.Board().Name)
	assert.Equal(t, "starboard", engineFor(b, "starboard_downvote_7").Board().Name)
	assert.Nil(t, engineFor(b, "some_other_button"))
}

func TestBoardStats(t *testing.T) {
	b := testBot(t)
	ctx := context.Background()
	_, err := b.Boards[0].Ledger.Promote(ctx, models.PromotedMessage{
		MessageID: "m", ChannelID: "c", GuildID: "g", BoardMessageID: "p",
	}, func(context.Context, int64) (string, error) { return "", nil })
	require.NoError(t, err)

	embed, err := boardStats(ctx, b, 7, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "starboard", embed.Fields[0].Name)
	assert.Contains(t, embed.Fields[0].Value, "**1** promoted (last 7 days)")
	assert.Contains(t, embed.Fields[1].Value, "**0** in total")
}
