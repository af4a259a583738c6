// Package srs implements the 5-bucket leveled-retention scheduler (a
// simplified Leitner system). All functions are pure computations over
// supplied state and epoch-millisecond timestamps.
package srs

import (
	"fmt"
	"sort"
	"time"
)

// Bucket bounds and the baseline for never-seen hexagrams.
const (
	MinBucket     = 1
	DefaultBucket = 2
	MaxBucket     = 5
)

// intervals maps a bucket to the delay before the next review, measured from
// the answer event.
var intervals = map[int]time.Duration{
	1: 0,
	2: 24 * time.Hour,
	3: 3 * 24 * time.Hour,
	4: 7 * 24 * time.Hour,
	5: 14 * 24 * time.Hour,
}

// State is the scheduling record for one hexagram. Timestamps are Unix epoch
// milliseconds and round-trip exactly through the store.
type State struct {
	HexagramID         int   `db:"hexagram_id"`
	Bucket             int   `db:"bucket"`
	DueAt              int64 `db:"due_at"`
	LastReviewedAt     int64 `db:"last_reviewed_at"`
	ConsecutiveCorrect int   `db:"consecutive_correct"`
	TotalReviews       int   `db:"total_reviews"`
}

// Interval returns the review delay for a bucket. Buckets outside 1..5 are
// programming errors.
func Interval(bucket int) (time.Duration, error) {
	iv, ok := intervals[bucket]
	if !ok {
		return 0, fmt.Errorf("srs: bucket %d outside [%d,%d]", bucket, MinBucket, MaxBucket)
	}
	return iv, nil
}

// NewState initializes the record for a hexagram that has never been
// reviewed: bucket 2, due after the bucket-2 interval, zero counters.
func NewState(hexagramID int, now int64) State {
	iv := intervals[DefaultBucket]
	return State{
		HexagramID: hexagramID,
		Bucket:     DefaultBucket,
		DueAt:      now + iv.Milliseconds(),
	}
}

// Apply computes the state after one answer event. When prev is nil the
// bucket-2 baseline is constructed first and exactly one transition is
// applied on top of it, so a first-ever wrong answer lands in bucket 1 and is
// never double-stepped.
func Apply(prev *State, hexagramID int, correct bool, now int64) (State, error) {
	cur := State{HexagramID: hexagramID, Bucket: DefaultBucket}
	if prev != nil {
		cur = *prev
	}
	if cur.Bucket < MinBucket || cur.Bucket > MaxBucket {
		return State{}, fmt.Errorf("srs: stored bucket %d outside [%d,%d] for hexagram %d",
			cur.Bucket, MinBucket, MaxBucket, hexagramID)
	}

	next := cur
	next.LastReviewedAt = now
	next.TotalReviews = cur.TotalReviews + 1

	if correct {
		next.Bucket = cur.Bucket + 1
		if next.Bucket > MaxBucket {
			next.Bucket = MaxBucket
		}
		next.ConsecutiveCorrect = cur.ConsecutiveCorrect + 1
	} else {
		next.Bucket = MinBucket
		next.ConsecutiveCorrect = 0
	}

	iv, err := Interval(next.Bucket)
	if err != nil {
		return State{}, err
	}
	next.DueAt = now + iv.Milliseconds()
	return next, nil
}

// IsDue reports whether the hexagram should be reviewed at the given instant.
func IsDue(s State, now int64) bool {
	return now >= s.DueAt
}

// IsMastered reports whether the hexagram sits in the long-interval bucket.
func IsMastered(s State) bool {
	return s.Bucket == MaxBucket
}

// TimeUntilDue returns the remaining wait, floored at zero.
func TimeUntilDue(s State, now int64) time.Duration {
	if s.DueAt <= now {
		return 0
	}
	return time.Duration(s.DueAt-now) * time.Millisecond
}

// EndOfDay returns the last millisecond of the calendar day containing now,
// in the given location.
func EndOfDay(now int64, loc *time.Location) int64 {
	t := time.UnixMilli(now).In(loc)
	end := time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	return end.UnixMilli()
}

// DueToday returns the states due by the end of the current calendar day.
func DueToday(states []State, now int64, loc *time.Location) []State {
	cutoff := EndOfDay(now, loc)
	var due []State
	for _, s := range states {
		if s.DueAt <= cutoff {
			due = append(due, s)
		}
	}
	return due
}

// SortByUrgency orders states most urgent first: lowest bucket, then earliest
// due timestamp.
func SortByUrgency(states []State) {
	sort.SliceStable(states, func(i, j int) bool {
		if states[i].Bucket != states[j].Bucket {
			return states[i].Bucket < states[j].Bucket
		}
		return states[i].DueAt < states[j].DueAt
	})
}

// Distribution counts states per bucket. Every bucket key 1..5 is present.
func Distribution(states []State) map[int]int {
	dist := make(map[int]int, MaxBucket)
	for b := MinBucket; b <= MaxBucket; b++ {
		dist[b] = 0
	}
	for _, s := range states {
		dist[s.Bucket]++
	}
	return dist
}

// IntervalDescription renders a bucket's interval for display.
func IntervalDescription(bucket int) string {
	switch bucket {
	case 1:
		return "立即复习"
	case 2:
		return "1天后"
	case 3:
		return "3天后"
	case 4:
		return "7天后"
	case 5:
		return "14天后"
	default:
		return "未知"
	}
}
