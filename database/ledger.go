package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"songboard-bot/models"
)

// Ledger table names, one per board.
const (
	StarboardTable = "starboard_messages"
	SongboardTable = "song_messages"
)

const ledgerColumns = `id, message_id, channel_id, guild_id, user_id, board_message_id,
        board_vote_message_id, songs, upvotes, downvotes, created_at, updated_at`

// Ledger persists promoted messages and their vote sets for one board.
type Ledger struct {
	db      *sql.DB
	dialect Dialect
	table   string
}

// NewLedger ensures the ledger table exists and returns a store bound to it.
// table must be one of the package's table constants; it is interpolated into SQL.
func NewLedger(db *sql.DB, dialect Dialect, table string) (*Ledger, error) {
	l := &Ledger{db: db, dialect: dialect, table: table}
	if err := l.createTable(); err != nil {
		return nil, err
	}
	return l, nil
}

// Table returns the ledger's table name.
func (l *Ledger) Table() string {
	return l.table
}

func (l *Ledger) createTable() error {
	query := fmt.Sprintf(`
    CREATE TABLE IF NOT EXISTS %s (
        id %s,
        message_id TEXT NOT NULL,
        channel_id TEXT NOT NULL,
        guild_id TEXT NOT NULL,
        user_id TEXT NOT NULL,
        board_message_id TEXT NOT NULL,
        board_vote_message_id TEXT,
        songs TEXT NOT NULL DEFAULT '[]',
        upvotes TEXT NOT NULL DEFAULT '[]',
        downvotes TEXT NOT NULL DEFAULT '[]',
        created_at BIGINT NOT NULL,
        updated_at BIGINT NOT NULL
    );`, l.table, l.dialect.AutoID)

	if _, err := l.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", l.table, err)
	}

	// The idempotence lookup runs on every qualifying reaction.
	index := fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_original ON %s(message_id, channel_id, guild_id);", l.table, l.table)
	if _, err := l.db.Exec(index); err != nil {
		log.Printf("Warning: failed to create index on %s: %v", l.table, err)
	}

	log.Printf("Table %s ensured to exist and is up to date.", l.table)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPromoted(s rowScanner) (*models.PromotedMessage, error) {
	var (
		row                       models.PromotedMessage
		voteMessageID             sql.NullString
		songs, upvotes, downvotes string
		createdAt, updatedAt      int64
	)
	if err := s.Scan(
		&row.ID, &row.MessageID, &row.ChannelID, &row.GuildID, &row.UserID, &row.BoardMessageID,
		&voteMessageID, &songs, &upvotes, &downvotes, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	row.BoardVoteMessageID = voteMessageID.String
	if err := decodeIDs(songs, &row.Songs); err != nil {
		return nil, fmt.Errorf("row %d has corrupt songs column: %w", row.ID, err)
	}
	if err := decodeIDs(upvotes, &row.Upvotes); err != nil {
		return nil, fmt.Errorf("row %d has corrupt upvotes column: %w", row.ID, err)
	}
	if err := decodeIDs(downvotes, &row.Downvotes); err != nil {
		return nil, fmt.Errorf("row %d has corrupt downvotes column: %w", row.ID, err)
	}
	row.CreatedAt = time.UnixMilli(createdAt)
	row.UpdatedAt = time.UnixMilli(updatedAt)
	return &row, nil
}

func encodeIDs(ids []string) string {
	if len(ids) == 0 {
		return "[]"
	}
	data, err := json.Marshal(ids)
	if err != nil {
		// []string always marshals.
		return "[]"
	}
	return string(data)
}

func decodeIDs(raw string, dst *[]string) error {
	if raw == "" {
		*dst = []string{}
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return err
	}
	if ids == nil {
		ids = []string{}
	}
	*dst = ids
	return nil
}

// FindByOriginal returns the row promoted from the given original message, or nil if
// the message has not been promoted yet.
func (l *Ledger) FindByOriginal(ctx context.Context, messageID, channelID, guildID string) (*models.PromotedMessage, error) {
	query := l.dialect.Rebind(fmt.Sprintf(`SELECT %s FROM %s
        WHERE message_id = ? AND channel_id = ? AND guild_id = ? LIMIT 1`, ledgerColumns, l.table))

	row, err := scanPromoted(l.db.QueryRowContext(ctx, query, messageID, channelID, guildID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query %s for message %s: %w", l.table, messageID, err)
	}
	return row, nil
}

// Get loads a row by its surrogate id. It returns models.ErrNotFound if the row does not exist.
func (l *Ledger) Get(ctx context.Context, id int64) (*models.PromotedMessage, error) {
	query := l.dialect.Rebind(fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, ledgerColumns, l.table))

	row, err := scanPromoted(l.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query %s row %d: %w", l.table, id, err)
	}
	return row, nil
}

// Promote records row and then calls attach with the new row id. attach publishes the vote
// control and returns the id of the message that carries it, or "" when the control was
// added to the board message itself.
//
// The insert is committed before attach runs, so no database lock is held across the
// platform call and a row id is never handed out twice. If attach fails the row is
// deleted again; once attach has succeeded the row is kept even if the caller's context
// expires, since the published control already points at it.
func (l *Ledger) Promote(ctx context.Context, row models.PromotedMessage, attach func(ctx context.Context, rowID int64) (string, error)) (*models.PromotedMessage, error) {
	now := time.Now()
	insert := l.dialect.Rebind(fmt.Sprintf(`
    INSERT INTO %s (
        message_id, channel_id, guild_id, user_id, board_message_id, songs, upvotes, downvotes, created_at, updated_at
    ) VALUES (?, ?, ?, ?, ?, ?, '[]', '[]', ?, ?) RETURNING id;`, l.table))

	if err := l.db.QueryRowContext(ctx, insert,
		row.MessageID,
		row.ChannelID,
		row.GuildID,
		row.UserID,
		row.BoardMessageID,
		encodeIDs(row.Songs),
		now.UnixMilli(),
		now.UnixMilli(),
	).Scan(&row.ID); err != nil {
		return nil, fmt.Errorf("failed to insert into %s for message %s: %w", l.table, row.MessageID, err)
	}

	voteMessageID, err := attach(ctx, row.ID)
	if err != nil {
		l.discard(context.WithoutCancel(ctx), row.ID)
		return nil, fmt.Errorf("failed to attach vote control for %s row %d: %w", l.table, row.ID, err)
	}

	row.CreatedAt = time.UnixMilli(now.UnixMilli())
	row.UpdatedAt = row.CreatedAt
	if voteMessageID != "" {
		updatedAt := time.Now().UnixMilli()
		update := l.dialect.Rebind(fmt.Sprintf(`UPDATE %s SET board_vote_message_id = ?, updated_at = ? WHERE id = ?`, l.table))
		if _, err := l.db.ExecContext(context.WithoutCancel(ctx), update, voteMessageID, updatedAt, row.ID); err != nil {
			log.Printf("Warning: %s row %d has no vote message recorded (%s): %v", l.table, row.ID, voteMessageID, err)
		} else {
			row.BoardVoteMessageID = voteMessageID
			row.UpdatedAt = time.UnixMilli(updatedAt)
		}
	}

	row.Upvotes = []string{}
	row.Downvotes = []string{}
	return &row, nil
}

// discard deletes a row whose vote control could not be published.
func (l *Ledger) discard(ctx context.Context, id int64) {
	query := l.dialect.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, l.table))
	if _, err := l.db.ExecContext(ctx, query, id); err != nil {
		log.Printf("Warning: failed to remove %s row %d after a failed promotion: %v", l.table, id, err)
	}
}

// UpdateVotes performs a locked read-modify-write of a row's vote sets. fn receives the
// current row and mutates Upvotes/Downvotes in place; both sets are written back in a
// single update. It returns models.ErrNotFound if the row does not exist.
func (l *Ledger) UpdateVotes(ctx context.Context, id int64, fn func(row *models.PromotedMessage) error) (*models.PromotedMessage, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin vote transaction: %w", err)
	}
	defer tx.Rollback()

	query := l.dialect.Rebind(fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?%s`, ledgerColumns, l.table, l.dialect.ForUpdate))
	row, err := scanPromoted(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock %s row %d: %w", l.table, id, err)
	}

	if err := fn(row); err != nil {
		return nil, err
	}

	row.UpdatedAt = time.UnixMilli(time.Now().UnixMilli())
	update := l.dialect.Rebind(fmt.Sprintf(`UPDATE %s SET upvotes = ?, downvotes = ?, updated_at = ? WHERE id = ?`, l.table))
	if _, err := tx.ExecContext(ctx, update, encodeIDs(row.Upvotes), encodeIDs(row.Downvotes), row.UpdatedAt.UnixMilli(), id); err != nil {
		return nil, fmt.Errorf("failed to update votes of %s row %d: %w", l.table, id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit votes of %s row %d: %w", l.table, id, err)
	}
	return row, nil
}

// Count returns the number of promoted messages in the ledger.
func (l *Ledger) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := l.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", l.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", l.table, err)
	}
	return n, nil
}

// CountCreated returns the number of rows created in [from, to).
func (l *Ledger) CountCreated(ctx context.Context, from, to time.Time) (int64, error) {
	query := l.dialect.Rebind(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE created_at >= ? AND created_at < ?", l.table))
	var n int64
	if err := l.db.QueryRowContext(ctx, query, from.UnixMilli(), to.UnixMilli()).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count new rows in %s: %w", l.table, err)
	}
	return n, nil
}
