// Package options builds the 4-choice answer sets: three similarity-tiered
// distractors plus the target, with the correct answer rotated through the
// A-D slots so long-run slot frequencies stay balanced.
package options

import (
	"errors"
	"math/rand"

	"github.com/zhouyilab/hexquiz/internal/hexagram"
)

const (
	// OptionCount is the number of answer choices per question.
	OptionCount = 4
	// DistractorCount is the number of wrong answers per question.
	DistractorCount = 3
	// recentWindowCap bounds the short-term distractor exclusion window.
	recentWindowCap = 5

	maxSameUpper = 2
	maxSameLower = 1
)

// ErrCatalogTooSmall reports a catalog that cannot supply three distractors.
// This is a configuration error and surfaces at session start.
var ErrCatalogTooSmall = errors.New("options: catalog needs at least 4 hexagrams")

// RecentWindow is a bounded FIFO of recently used distractor ids. It only
// discourages immediate repetition; the global fill tier ignores it when the
// pool would otherwise run dry.
type RecentWindow struct {
	ids []int
}

// Contains reports whether the id was used as a distractor recently.
func (w *RecentWindow) Contains(id int) bool {
	for _, v := range w.ids {
		if v == id {
			return true
		}
	}
	return false
}

// push appends ids and evicts from the front beyond capacity.
func (w *RecentWindow) push(ids ...int) {
	w.ids = append(w.ids, ids...)
	if n := len(w.ids) - recentWindowCap; n > 0 {
		w.ids = w.ids[n:]
	}
}

// IDs returns a copy of the window contents, oldest first.
func (w *RecentWindow) IDs() []int {
	out := make([]int, len(w.ids))
	copy(out, w.ids)
	return out
}

// reset empties the window.
func (w *RecentWindow) reset() {
	w.ids = nil
}

// Selector picks wrong-answer hexagrams for a target using the tiered
// similarity strategy. One instance belongs to one session.
type Selector struct {
	recent RecentWindow
	rng    *rand.Rand
}

// NewSelector builds a selector around the session's random source.
func NewSelector(rng *rand.Rand) *Selector {
	return &Selector{rng: rng}
}

// Recent exposes the exclusion window, mostly for diagnostics and tests.
func (s *Selector) Recent() *RecentWindow {
	return &s.recent
}

// SelectDistractors returns exactly three distinct hexagrams, none equal to
// the target. Tier 1 prefers the target's upper trigram (up to 2), tier 2 its
// lower trigram (up to 1), tier 3 fills from the rest of the catalog ignoring
// the recency window when needed. The chosen ids are recorded in the window.
func (s *Selector) SelectDistractors(target hexagram.Hexagram, catalog []hexagram.Hexagram) ([]hexagram.Hexagram, error) {
	if len(catalog) < OptionCount {
		return nil, ErrCatalogTooSmall
	}

	used := map[int]struct{}{target.ID: {}}
	distractors := make([]hexagram.Hexagram, 0, DistractorCount)

	sameUpper := s.filter(catalog, used, true, func(h hexagram.Hexagram) bool {
		return h.UpperTrigram == target.UpperTrigram
	})
	for _, h := range s.sample(sameUpper, maxSameUpper) {
		distractors = append(distractors, h)
		used[h.ID] = struct{}{}
	}

	sameLower := s.filter(catalog, used, true, func(h hexagram.Hexagram) bool {
		return h.LowerTrigram == target.LowerTrigram
	})
	for _, h := range s.sample(sameLower, maxSameLower) {
		distractors = append(distractors, h)
		used[h.ID] = struct{}{}
	}

	for len(distractors) < DistractorCount {
		remaining := s.filter(catalog, used, false, func(hexagram.Hexagram) bool { return true })
		if len(remaining) == 0 {
			return nil, ErrCatalogTooSmall
		}
		h := remaining[s.rng.Intn(len(remaining))]
		distractors = append(distractors, h)
		used[h.ID] = struct{}{}
	}

	distractors = distractors[:DistractorCount]
	ids := make([]int, DistractorCount)
	for i, h := range distractors {
		ids[i] = h.ID
	}
	s.recent.push(ids...)

	return distractors, nil
}

// Reset clears the recency window.
func (s *Selector) Reset() {
	s.recent.reset()
}

// filter returns catalog entries passing the predicate, excluding used ids
// and, when checkRecent is set, recently used distractors.
func (s *Selector) filter(catalog []hexagram.Hexagram, used map[int]struct{}, checkRecent bool, pred func(hexagram.Hexagram) bool) []hexagram.Hexagram {
	var out []hexagram.Hexagram
	for _, h := range catalog {
		if _, taken := used[h.ID]; taken {
			continue
		}
		if checkRecent && s.recent.Contains(h.ID) {
			continue
		}
		if pred(h) {
			out = append(out, h)
		}
	}
	return out
}

// sample returns up to n items drawn uniformly without replacement.
func (s *Selector) sample(pool []hexagram.Hexagram, n int) []hexagram.Hexagram {
	if len(pool) == 0 || n <= 0 {
		return nil
	}
	shuffled := make([]hexagram.Hexagram, len(pool))
	copy(shuffled, pool)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
