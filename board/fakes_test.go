package board

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"songboard-bot/models"

	"github.com/bwmarrin/discordgo"
)

type memLedger struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.PromotedMessage
}

func newMemLedger() *memLedger {
	return &memLedger{rows: make(map[int64]*models.PromotedMessage)}
}

func (l *memLedger) FindByOriginal(_ context.Context, messageID, channelID, guildID string) (*models.PromotedMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, row := range l.rows {
		if row.MessageID == messageID && row.ChannelID == channelID && row.GuildID == guildID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, nil
}

// Promote releases the mutex while attach runs, like the sqlite ledger, which commits the
// row before publishing the control.
func (l *memLedger) Promote(ctx context.Context, row models.PromotedMessage, attach func(ctx context.Context, rowID int64) (string, error)) (*models.PromotedMessage, error) {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.mu.Unlock()

	voteID, err := attach(ctx, id)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	row.ID = id
	row.BoardVoteMessageID = voteID
	row.Upvotes, row.Downvotes = []string{}, []string{}
	l.rows[id] = &row
	cp := row
	return &cp, nil
}

func (l *memLedger) UpdateVotes(_ context.Context, id int64, fn func(row *models.PromotedMessage) error) (*models.PromotedMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	row, ok := l.rows[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *row
	cp.Upvotes = slices.Clone(row.Upvotes)
	cp.Downvotes = slices.Clone(row.Downvotes)
	if err := fn(&cp); err != nil {
		return nil, err
	}
	l.rows[id] = &cp
	out := cp
	return &out, nil
}

func (l *memLedger) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rows)
}

type sent struct {
	channelID string
	msg       *discordgo.MessageSend
}

type edit struct {
	channelID  string
	messageID  string
	components []discordgo.MessageComponent
}

type fakePlatform struct {
	mu       sync.Mutex
	messages map[string]*Message
	channels map[string]*Channel
	sent     []sent
	edits    []edit

	resolveErr error
	editErr    error
	sendErrAt  int // fail the n-th send (1-based) when > 0
	// beforeSend, if set, runs before every send without holding mu.
	beforeSend func()
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		messages: make(map[string]*Message),
		channels: map[string]*Channel{
			"100": {ID: "100", Type: discordgo.ChannelTypeGuildText},
		},
	}
}

func (p *fakePlatform) ResolveMessage(_ context.Context, ref MessageRef) (*Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.resolveErr != nil {
		return nil, p.resolveErr
	}
	msg, ok := p.messages[ref.ID]
	if !ok {
		return nil, fmt.Errorf("unknown message %s", ref.ID)
	}
	cp := *msg
	return &cp, nil
}

func (p *fakePlatform) Channel(_ context.Context, channelID string) (*Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch, ok := p.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("unknown channel %s", channelID)
	}
	return ch, nil
}

func (p *fakePlatform) Send(_ context.Context, channelID string, msg *discordgo.MessageSend) (string, error) {
	if p.beforeSend != nil {
		p.beforeSend()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sendErrAt > 0 && len(p.sent)+1 == p.sendErrAt {
		p.sendErrAt = 0
		return "", fmt.Errorf("send failed")
	}
	p.sent = append(p.sent, sent{channelID: channelID, msg: msg})
	return fmt.Sprintf("board-%d", len(p.sent)), nil
}

func (p *fakePlatform) EditComponents(_ context.Context, channelID, messageID string, components []discordgo.MessageComponent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.editErr != nil {
		return p.editErr
	}
	p.edits = append(p.edits, edit{channelID: channelID, messageID: messageID, components: components})
	return nil
}

func (p *fakePlatform) sentCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

type staticPolicy map[string]models.BoardPolicy

func (s staticPolicy) Policy(guildID string) (models.BoardPolicy, error) {
	return s[guildID], nil
}
