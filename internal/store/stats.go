package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cesargomez89/lyricbot/internal/domain"
)

const statColumns = `chat_id, username, answers, success_answers, created_at, updated_at`

// UpsertZeroStat creates the chat's row or zeroes an existing one.
func (db *DB) UpsertZeroStat(ctx context.Context, chatID int64, username string) error {
	now := db.now()
	_, err := db.ExecContext(ctx, `
		INSERT INTO stats (chat_id, username, answers, success_answers, created_at, updated_at)
		VALUES (?, ?, 0, 0, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			username = COALESCE(excluded.username, stats.username),
			answers = 0,
			success_answers = 0,
			updated_at = excluded.updated_at
	`, chatID, nullString(username), now, now)
	return err
}

// FindStatByChatID returns nil without error when the chat has no row.
func (db *DB) FindStatByChatID(ctx context.Context, chatID int64) (*domain.Stat, error) {
	stat := &domain.Stat{}
	err := db.GetContext(ctx, stat, "SELECT "+statColumns+" FROM stats WHERE chat_id = ?", chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return stat, nil
}

// IncrementAnswers records one scored answer, creating the row if needed.
func (db *DB) IncrementAnswers(ctx context.Context, chatID int64, username string, success bool) error {
	successDelta := 0
	if success {
		successDelta = 1
	}
	now := db.now()
	_, err := db.ExecContext(ctx, `
		INSERT INTO stats (chat_id, username, answers, success_answers, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			username = COALESCE(excluded.username, stats.username),
			answers = stats.answers + 1,
			success_answers = stats.success_answers + excluded.success_answers,
			updated_at = excluded.updated_at
	`, chatID, nullString(username), successDelta, now, now)
	return err
}

// ResetCounters zeroes the counters and keeps the row.
func (db *DB) ResetCounters(ctx context.Context, chatID int64) error {
	_, err := db.ExecContext(ctx,
		"UPDATE stats SET answers = 0, success_answers = 0, updated_at = ? WHERE chat_id = ?",
		db.now(), chatID)
	return err
}

// TopStats lists chats by correct answers.
func (db *DB) TopStats(ctx context.Context, limit int) ([]*domain.Stat, error) {
	var stats []*domain.Stat
	err := db.SelectContext(ctx, &stats, `
		SELECT `+statColumns+` FROM stats
		WHERE answers > 0
		ORDER BY success_answers DESC, answers ASC, chat_id ASC
		LIMIT ?
	`, limit)
	return stats, err
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
