package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zhouyilab/hexquiz/internal/srs"
)

// ReviewRepository persists srs.State rows. Implements quiz.ReviewStore.
type ReviewRepository struct {
	db *DB
}

// NewReviewRepository creates a repository over the shared connection.
func NewReviewRepository(db *DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Get loads the state for a hexagram, or nil when it has never been reviewed.
func (r *ReviewRepository) Get(ctx context.Context, hexagramID int) (*srs.State, error) {
	var state srs.State
	err := r.db.conn.GetContext(ctx, &state,
		`SELECT hexagram_id, bucket, due_at, last_reviewed_at, consecutive_correct, total_reviews
		 FROM srs_states WHERE hexagram_id = ?`, hexagramID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load review state %d: %w", hexagramID, err)
	}
	return &state, nil
}

// Upsert writes the state, replacing any prior row for the hexagram.
func (r *ReviewRepository) Upsert(ctx context.Context, state srs.State) error {
	_, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO srs_states (hexagram_id, bucket, due_at, last_reviewed_at, consecutive_correct, total_reviews)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(hexagram_id) DO UPDATE SET
			bucket = excluded.bucket,
			due_at = excluded.due_at,
			last_reviewed_at = excluded.last_reviewed_at,
			consecutive_correct = excluded.consecutive_correct,
			total_reviews = excluded.total_reviews`,
		state.HexagramID, state.Bucket, state.DueAt, state.LastReviewedAt,
		state.ConsecutiveCorrect, state.TotalReviews,
	)
	if err != nil {
		return fmt.Errorf("save review state %d: %w", state.HexagramID, err)
	}
	return nil
}

// All returns every stored review state.
func (r *ReviewRepository) All(ctx context.Context) ([]srs.State, error) {
	var states []srs.State
	err := r.db.conn.SelectContext(ctx, &states,
		`SELECT hexagram_id, bucket, due_at, last_reviewed_at, consecutive_correct, total_reviews
		 FROM srs_states`)
	if err != nil {
		return nil, fmt.Errorf("load review states: %w", err)
	}
	return states, nil
}

// Due returns states with due_at at or before the given instant, pre-sorted
// by urgency.
func (r *ReviewRepository) Due(ctx context.Context, now int64) ([]srs.State, error) {
	var states []srs.State
	err := r.db.conn.SelectContext(ctx, &states,
		`SELECT hexagram_id, bucket, due_at, last_reviewed_at, consecutive_correct, total_reviews
		 FROM srs_states WHERE due_at <= ? ORDER BY bucket ASC, due_at ASC`, now)
	if err != nil {
		return nil, fmt.Errorf("load due review states: %w", err)
	}
	return states, nil
}

// CountByBucket returns the number of states per bucket.
func (r *ReviewRepository) CountByBucket(ctx context.Context) (map[int]int, error) {
	rows := []struct {
		Bucket int `db:"bucket"`
		N      int `db:"n"`
	}{}
	err := r.db.conn.SelectContext(ctx, &rows,
		`SELECT bucket, COUNT(*) AS n FROM srs_states GROUP BY bucket`)
	if err != nil {
		return nil, fmt.Errorf("count review states: %w", err)
	}
	counts := make(map[int]int, srs.MaxBucket)
	for b := srs.MinBucket; b <= srs.MaxBucket; b++ {
		counts[b] = 0
	}
	for _, row := range rows {
		counts[row.Bucket] = row.N
	}
	return counts, nil
}
