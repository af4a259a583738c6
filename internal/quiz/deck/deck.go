// Package deck implements the permutation-based question sampler. Within any
// block of 64 draws every hexagram appears exactly once; reinforcement mode
// nudges previously missed hexagrams out of the tail of each block without
// breaking that guarantee.
package deck

import (
	"math"
	"math/rand"
)

const (
	// TotalItems is the number of hexagrams in a full deck.
	TotalItems = 64
	// BlockSize is the draw count after which the deck reshuffles.
	BlockSize = 64
	// reinforcementRatio bounds how far a missed item may be pulled forward.
	reinforcementRatio = 0.2
)

// Sampler produces an endless stream of hexagram ids. It is owned by a single
// session and is not safe for concurrent use.
type Sampler struct {
	order         []int
	cursor        int
	round         int
	reinforcement bool
	missed        map[int]struct{}
	rng           *rand.Rand
}

// New builds a sampler around the session's random source. The first draw
// triggers the initial shuffle.
func New(rng *rand.Rand) *Sampler {
	return &Sampler{
		missed: make(map[int]struct{}),
		rng:    rng,
	}
}

// SetReinforcement toggles the missed-item bias applied on reshuffle.
func (s *Sampler) SetReinforcement(enabled bool) {
	s.reinforcement = enabled
}

// AddMissed marks a hexagram for reinforcement in later blocks.
func (s *Sampler) AddMissed(id int) {
	s.missed[id] = struct{}{}
}

// ClearMissed forgets all reinforcement candidates.
func (s *Sampler) ClearMissed() {
	s.missed = make(map[int]struct{})
}

// MissedIDs returns the current reinforcement set.
func (s *Sampler) MissedIDs() []int {
	ids := make([]int, 0, len(s.missed))
	for id := range s.missed {
		ids = append(ids, id)
	}
	return ids
}

// Next returns the next hexagram id, reshuffling when the block is exhausted.
// There is no terminal state; the sampler cycles indefinitely.
func (s *Sampler) Next() int {
	if s.cursor >= len(s.order) {
		s.shuffle()
		s.round++
	}
	id := s.order[s.cursor]
	s.cursor++
	return id
}

// shuffle rebuilds the order as a fresh Fisher-Yates permutation of 1..64 and
// resets the cursor.
func (s *Sampler) shuffle() {
	s.order = make([]int, TotalItems)
	for i := range s.order {
		s.order[i] = i + 1
	}
	for i := len(s.order) - 1; i >= 1; i-- {
		j := s.rng.Intn(i + 1)
		s.order[i], s.order[j] = s.order[j], s.order[i]
	}
	if s.reinforcement && len(s.missed) > 0 {
		s.applyReinforcement()
	}
	s.cursor = 0
}

// applyReinforcement relocates missed items found near the end of the block to
// the earliest free slot within the adjustment window. The bias is soft: a
// missed item is pulled out of the tail, not promoted to the front.
func (s *Sampler) applyReinforcement() {
	maxAdjustment := int(math.Floor(TotalItems * reinforcementRatio))
	adjusted := 0

	for i := len(s.order) - 1; i >= maxAdjustment; i-- {
		if adjusted >= maxAdjustment {
			break
		}
		if _, ok := s.missed[s.order[i]]; !ok {
			continue
		}
		target := i - maxAdjustment + adjusted
		for target < i {
			if _, occupied := s.missed[s.order[target]]; !occupied {
				break
			}
			target++
		}
		if target < i {
			v := s.order[i]
			copy(s.order[target+1:i+1], s.order[target:i])
			s.order[target] = v
			adjusted++
		}
	}
}

// Reset clears the order, cursor, round counter and missed set.
func (s *Sampler) Reset() {
	s.order = nil
	s.cursor = 0
	s.round = 0
	s.missed = make(map[int]struct{})
}

// Round returns how many reshuffles have happened.
func (s *Sampler) Round() int {
	return s.round
}

// Progress returns the number of draws taken from the current block.
func (s *Sampler) Progress() int {
	return s.cursor
}

// Remaining returns the draws left in the current block.
func (s *Sampler) Remaining() int {
	if len(s.order) == 0 {
		return 0
	}
	return len(s.order) - s.cursor
}

// RoundComplete reports whether the current block is exhausted.
func (s *Sampler) RoundComplete() bool {
	return s.cursor >= len(s.order)
}

// FrequencyReport summarizes draw counts over a validation run.
type FrequencyReport struct {
	Counts map[int]int
	Mean   float64
	StdDev float64
	CV     float64
}

// ValidateUniformity draws the given number of full blocks and reports the
// spread of per-item frequencies. With reinforcement disabled the coefficient
// of variation is expected to stay within 0.05.
func (s *Sampler) ValidateUniformity(blocks int) FrequencyReport {
	counts := make(map[int]int, TotalItems)
	for i := 0; i < blocks*BlockSize; i++ {
		counts[s.Next()]++
	}
	var sum float64
	for id := 1; id <= TotalItems; id++ {
		sum += float64(counts[id])
	}
	mean := sum / TotalItems
	var variance float64
	for id := 1; id <= TotalItems; id++ {
		d := float64(counts[id]) - mean
		variance += d * d
	}
	variance /= TotalItems
	stdDev := math.Sqrt(variance)
	cv := 0.0
	if mean > 0 {
		cv = stdDev / mean
	}
	return FrequencyReport{Counts: counts, Mean: mean, StdDev: stdDev, CV: cv}
}
