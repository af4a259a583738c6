// Package stats aggregates learning progress across the attempt log, review
// states and wrong book for display surfaces.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/zhouyilab/hexquiz/internal/srs"
	"github.com/zhouyilab/hexquiz/internal/store"
)

// Summary is a snapshot of overall learning progress.
type Summary struct {
	TotalAttempts   int
	CorrectAttempts int
	Accuracy        float64
	BucketCounts    map[int]int
	Mastered        int
	DueNow          int
	DueToday        int
	WrongBookSize   int
	StreakDays      int
}

// Service computes summaries from the persistence repositories.
type Service struct {
	reviews   *store.ReviewRepository
	attempts  *store.AttemptRepository
	wrongBook *store.WrongBookRepository
}

// NewService wires the stats service to its repositories.
func NewService(reviews *store.ReviewRepository, attempts *store.AttemptRepository, wrongBook *store.WrongBookRepository) *Service {
	return &Service{reviews: reviews, attempts: attempts, wrongBook: wrongBook}
}

// Summarize builds the progress snapshot for the given instant and location.
func (s *Service) Summarize(ctx context.Context, now int64, loc *time.Location) (Summary, error) {
	total, correct, err := s.attempts.Counts(ctx)
	if err != nil {
		return Summary{}, err
	}

	states, err := s.reviews.All(ctx)
	if err != nil {
		return Summary{}, err
	}
	buckets := srs.Distribution(states)

	var dueNow, mastered int
	for _, st := range states {
		if srs.IsDue(st, now) {
			dueNow++
		}
		if srs.IsMastered(st) {
			mastered++
		}
	}

	wrongIDs, err := s.wrongBook.IDs(ctx)
	if err != nil {
		return Summary{}, err
	}

	streak, err := s.streakDays(ctx, now, loc)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		TotalAttempts:   total,
		CorrectAttempts: correct,
		BucketCounts:    buckets,
		Mastered:        mastered,
		DueNow:          dueNow,
		DueToday:        len(srs.DueToday(states, now, loc)),
		WrongBookSize:   len(wrongIDs),
		StreakDays:      streak,
	}
	if total > 0 {
		summary.Accuracy = float64(correct) / float64(total)
	}
	return summary, nil
}

// streakDays counts consecutive practice days ending today or yesterday.
func (s *Service) streakDays(ctx context.Context, now int64, loc *time.Location) (int, error) {
	days, err := s.attempts.PracticeDays(ctx, loc)
	if err != nil {
		return 0, fmt.Errorf("load practice days: %w", err)
	}
	if len(days) == 0 {
		return 0, nil
	}

	t := time.UnixMilli(now).In(loc)
	today := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)

	// A streak is still alive if the last practice was yesterday.
	expected := today
	if !days[0].Equal(today) {
		expected = today.AddDate(0, 0, -1)
		if !days[0].Equal(expected) {
			return 0, nil
		}
	}

	streak := 0
	for _, day := range days {
		if !day.Equal(expected) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak, nil
}
