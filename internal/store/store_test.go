package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouyilab/hexquiz/internal/quiz"
	"github.com/zhouyilab/hexquiz/internal/srs"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestReviewRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	got, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	state := srs.State{
		HexagramID:         1,
		Bucket:             3,
		DueAt:              1_700_000_000_123,
		LastReviewedAt:     1_699_999_000_456,
		ConsecutiveCorrect: 2,
		TotalReviews:       5,
	}
	require.NoError(t, repo.Upsert(ctx, state))

	got, err = repo.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, state, *got) // timestamps round-trip exactly

	state.Bucket = 4
	state.TotalReviews = 6
	require.NoError(t, repo.Upsert(ctx, state))
	got, err = repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Bucket)
	assert.Equal(t, 6, got.TotalReviews)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReviewRepositoryDueAndBuckets(t *testing.T) {
	db := openTestDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()
	now := int64(1_700_000_000_000)

	require.NoError(t, repo.Upsert(ctx, srs.State{HexagramID: 1, Bucket: 3, DueAt: now - 100}))
	require.NoError(t, repo.Upsert(ctx, srs.State{HexagramID: 2, Bucket: 1, DueAt: now}))
	require.NoError(t, repo.Upsert(ctx, srs.State{HexagramID: 3, Bucket: 2, DueAt: now + 100}))

	due, err := repo.Due(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, 2, due[0].HexagramID) // bucket 1 first
	assert.Equal(t, 1, due[1].HexagramID)

	counts, err := repo.CountByBucket(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 1, 4: 0, 5: 0}, counts)
}

func TestAttemptRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewAttemptRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Insert(ctx, quiz.Attempt{
			HexagramID:  i + 1,
			Timestamp:   base.Add(time.Duration(i) * time.Minute).UnixMilli(),
			Correct:     i%2 == 0,
			ChosenSlot:  i % 4,
			CorrectSlot: 1,
			OptionIDs:   []int{i + 1, 10, 20, 30},
			Mode:        quiz.ModePractice,
		}))
	}

	total, correct, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, correct)

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 3, recent[0].HexagramID) // newest first
	assert.Equal(t, []int{3, 10, 20, 30}, recent[0].OptionIDs)
}

func TestPracticeDays(t *testing.T) {
	db := openTestDB(t)
	repo := NewAttemptRepository(db)
	ctx := context.Background()

	days := []time.Time{
		time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC), // same day
		time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC),
	}
	for i, d := range days {
		require.NoError(t, repo.Insert(ctx, quiz.Attempt{
			HexagramID: i + 1, Timestamp: d.UnixMilli(),
			OptionIDs: []int{1, 2, 3, 4}, Mode: quiz.ModePractice,
		}))
	}

	got, err := repo.PracticeDays(ctx, time.UTC)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-03-10", got[0].Format("2006-01-02"))
	assert.Equal(t, "2025-03-08", got[1].Format("2006-01-02"))
}

func TestWrongBookRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewWrongBookRepository(db)
	ctx := context.Background()
	now := int64(1_700_000_000_000)

	require.NoError(t, repo.RecordWrong(ctx, 7, now))
	require.NoError(t, repo.RecordWrong(ctx, 7, now+1000))
	require.NoError(t, repo.RecordWrong(ctx, 21, now+2000))

	entries, err := repo.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 7, entries[0].HexagramID) // most missed first
	assert.Equal(t, 2, entries[0].WrongCount)
	assert.Equal(t, now, entries[0].FirstWrongAt)
	assert.Equal(t, now+1000, entries[0].LastWrongAt)

	ids, err := repo.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{7, 21}, ids)

	require.NoError(t, repo.MarkReviewed(ctx, 7, now+5000))
	entries, err = repo.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, now+5000, entries[0].LastReviewAt)

	require.NoError(t, repo.Remove(ctx, 7))
	ids, err = repo.IDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{21}, ids)
}

func TestResetAll(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, NewReviewRepository(db).Upsert(ctx, srs.State{HexagramID: 1, Bucket: 2, DueAt: 1}))
	require.NoError(t, NewWrongBookRepository(db).RecordWrong(ctx, 1, 1))
	require.NoError(t, NewAttemptRepository(db).Insert(ctx, quiz.Attempt{
		HexagramID: 1, OptionIDs: []int{1, 2, 3, 4}, Mode: quiz.ModePractice,
	}))

	require.NoError(t, db.ResetAll())

	all, err := NewReviewRepository(db).All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	total, _, err := NewAttemptRepository(db).Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
	ids, err := NewWrongBookRepository(db).IDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
