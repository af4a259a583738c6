package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zhouyilab/hexquiz/internal/quiz"
)

// AttemptRepository persists the answer log. Implements quiz.AttemptStore.
type AttemptRepository struct {
	db *DB
}

// NewAttemptRepository creates a repository over the shared connection.
func NewAttemptRepository(db *DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Insert appends one attempt. Option ids are stored as a JSON array so the
// full question can be reconstructed later.
func (r *AttemptRepository) Insert(ctx context.Context, attempt quiz.Attempt) error {
	optionIDs, err := json.Marshal(attempt.OptionIDs)
	if err != nil {
		return fmt.Errorf("encode option ids: %w", err)
	}
	_, err = r.db.conn.ExecContext(ctx, `
		INSERT INTO attempts (hexagram_id, ts, correct, chosen_slot, correct_slot, option_ids, mode)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		attempt.HexagramID, attempt.Timestamp, attempt.Correct,
		attempt.ChosenSlot, attempt.CorrectSlot, string(optionIDs), attempt.Mode,
	)
	if err != nil {
		return fmt.Errorf("insert attempt for %d: %w", attempt.HexagramID, err)
	}
	return nil
}

// Recent returns the newest attempts, most recent first.
func (r *AttemptRepository) Recent(ctx context.Context, limit int) ([]quiz.Attempt, error) {
	rows := []struct {
		quiz.Attempt
		OptionIDsJSON string `db:"option_ids"`
	}{}
	err := r.db.conn.SelectContext(ctx, &rows, `
		SELECT id, hexagram_id, ts, correct, chosen_slot, correct_slot, option_ids, mode
		FROM attempts ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("load recent attempts: %w", err)
	}
	attempts := make([]quiz.Attempt, 0, len(rows))
	for _, row := range rows {
		a := row.Attempt
		if err := json.Unmarshal([]byte(row.OptionIDsJSON), &a.OptionIDs); err != nil {
			return nil, fmt.Errorf("decode option ids for attempt %d: %w", a.ID, err)
		}
		attempts = append(attempts, a)
	}
	return attempts, nil
}

// Counts returns the total and correct attempt counts.
func (r *AttemptRepository) Counts(ctx context.Context) (total, correct int, err error) {
	row := struct {
		Total   int `db:"total"`
		Correct int `db:"correct"`
	}{}
	err = r.db.conn.GetContext(ctx, &row,
		`SELECT COUNT(*) AS total, COALESCE(SUM(correct), 0) AS correct FROM attempts`)
	if err != nil {
		return 0, 0, fmt.Errorf("count attempts: %w", err)
	}
	return row.Total, row.Correct, nil
}

// PracticeDays returns the distinct local calendar days with at least one
// attempt, newest first, as midnight times in the given location.
func (r *AttemptRepository) PracticeDays(ctx context.Context, loc *time.Location) ([]time.Time, error) {
	var stamps []int64
	err := r.db.conn.SelectContext(ctx, &stamps,
		`SELECT ts FROM attempts ORDER BY ts DESC`)
	if err != nil {
		return nil, fmt.Errorf("load attempt timestamps: %w", err)
	}
	var days []time.Time
	seen := map[string]struct{}{}
	for _, ts := range stamps {
		t := time.UnixMilli(ts).In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		key := day.Format("2006-01-02")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, day)
	}
	return days, nil
}
