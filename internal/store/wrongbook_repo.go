package store

import (
	"context"
	"fmt"
)

// WrongEntry is one wrong-book row: how often and when a hexagram was missed.
type WrongEntry struct {
	HexagramID   int   `db:"hexagram_id"`
	WrongCount   int   `db:"wrong_count"`
	FirstWrongAt int64 `db:"first_wrong_at"`
	LastWrongAt  int64 `db:"last_wrong_at"`
	LastReviewAt int64 `db:"last_review_at"`
}

// WrongBookRepository persists the wrong-answer tally. Implements
// quiz.WrongBookStore.
type WrongBookRepository struct {
	db *DB
}

// NewWrongBookRepository creates a repository over the shared connection.
func NewWrongBookRepository(db *DB) *WrongBookRepository {
	return &WrongBookRepository{db: db}
}

// RecordWrong inserts or bumps the tally for a missed hexagram.
func (r *WrongBookRepository) RecordWrong(ctx context.Context, hexagramID int, now int64) error {
	_, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO wrong_book (hexagram_id, wrong_count, first_wrong_at, last_wrong_at)
		VALUES (?, 1, ?, ?)
		ON CONFLICT(hexagram_id) DO UPDATE SET
			wrong_count = wrong_count + 1,
			last_wrong_at = excluded.last_wrong_at`,
		hexagramID, now, now,
	)
	if err != nil {
		return fmt.Errorf("record wrong answer %d: %w", hexagramID, err)
	}
	return nil
}

// MarkReviewed stamps the last review time on an entry.
func (r *WrongBookRepository) MarkReviewed(ctx context.Context, hexagramID int, now int64) error {
	_, err := r.db.conn.ExecContext(ctx,
		`UPDATE wrong_book SET last_review_at = ? WHERE hexagram_id = ?`, now, hexagramID)
	if err != nil {
		return fmt.Errorf("mark wrong-book entry %d reviewed: %w", hexagramID, err)
	}
	return nil
}

// IDs returns every hexagram id in the wrong book. Feeds deck reinforcement.
func (r *WrongBookRepository) IDs(ctx context.Context) ([]int, error) {
	var ids []int
	err := r.db.conn.SelectContext(ctx, &ids,
		`SELECT hexagram_id FROM wrong_book ORDER BY hexagram_id`)
	if err != nil {
		return nil, fmt.Errorf("load wrong-book ids: %w", err)
	}
	return ids, nil
}

// Entries returns the wrong book ordered by most-missed first, ties broken by
// most recent miss.
func (r *WrongBookRepository) Entries(ctx context.Context) ([]WrongEntry, error) {
	var entries []WrongEntry
	err := r.db.conn.SelectContext(ctx, &entries, `
		SELECT hexagram_id, wrong_count, first_wrong_at, last_wrong_at, last_review_at
		FROM wrong_book ORDER BY wrong_count DESC, last_wrong_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("load wrong book: %w", err)
	}
	return entries, nil
}

// Remove deletes one entry, e.g. after the hexagram is mastered and the user
// clears it manually.
func (r *WrongBookRepository) Remove(ctx context.Context, hexagramID int) error {
	_, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM wrong_book WHERE hexagram_id = ?`, hexagramID)
	if err != nil {
		return fmt.Errorf("remove wrong-book entry %d: %w", hexagramID, err)
	}
	return nil
}
