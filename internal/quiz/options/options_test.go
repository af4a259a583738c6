package options

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouyilab/hexquiz/internal/hexagram"
)

func loadCatalog(t *testing.T) *hexagram.Catalog {
	t.Helper()
	c, err := hexagram.Load()
	require.NoError(t, err)
	return c
}

func TestSelectDistractorsValidity(t *testing.T) {
	catalog := loadCatalog(t)
	sel := NewSelector(rand.New(rand.NewSource(1)))

	for _, target := range catalog.All() {
		distractors, err := sel.SelectDistractors(target, catalog.All())
		require.NoError(t, err)
		require.Len(t, distractors, DistractorCount)

		seen := map[int]struct{}{}
		for _, d := range distractors {
			assert.NotEqual(t, target.ID, d.ID)
			_, dup := seen[d.ID]
			assert.Falsef(t, dup, "duplicate distractor %d for target %d", d.ID, target.ID)
			seen[d.ID] = struct{}{}
		}
	}
}

func TestSelectDistractorsPrefersSharedTrigrams(t *testing.T) {
	catalog := loadCatalog(t)
	sel := NewSelector(rand.New(rand.NewSource(2)))
	target, _ := catalog.ByID(1)

	var sharedUpper int
	const runs = 200
	for i := 0; i < runs; i++ {
		distractors, err := sel.SelectDistractors(target, catalog.All())
		require.NoError(t, err)
		for _, d := range distractors {
			if d.UpperTrigram == target.UpperTrigram {
				sharedUpper++
			}
		}
	}
	// Tier 1 asks for up to two same-upper distractors per question; with 7
	// eligible candidates the recency window can thin it but not starve it.
	assert.Greater(t, sharedUpper, runs)
}

func TestRecentWindowBoundedFIFO(t *testing.T) {
	catalog := loadCatalog(t)
	sel := NewSelector(rand.New(rand.NewSource(3)))
	target, _ := catalog.ByID(30)

	first, err := sel.SelectDistractors(target, catalog.All())
	require.NoError(t, err)
	assert.Len(t, sel.Recent().IDs(), 3)

	_, err = sel.SelectDistractors(target, catalog.All())
	require.NoError(t, err)

	window := sel.Recent().IDs()
	assert.Len(t, window, 5)
	// Oldest entry evicted from the front.
	assert.Equal(t, first[1].ID, window[0])
	assert.False(t, sel.Recent().Contains(first[0].ID))
	assert.True(t, sel.Recent().Contains(window[4]))
}

func TestTieredPicksAvoidRecentWindow(t *testing.T) {
	// Four same-upper candidates for target 1; pre-seed two into the window
	// and the tiered picks must come from the other candidates.
	catalog := loadCatalog(t)
	sel := NewSelector(rand.New(rand.NewSource(8)))
	target, _ := catalog.ByID(1)

	pool := catalog.ByUpperTrigram(target.UpperTrigram)
	require.Len(t, pool, 8)
	excluded := map[int]struct{}{}
	for _, h := range pool {
		if h.ID != target.ID && len(excluded) < 2 {
			sel.recent.push(h.ID)
			excluded[h.ID] = struct{}{}
		}
	}

	distractors, err := sel.SelectDistractors(target, catalog.All())
	require.NoError(t, err)
	for _, d := range distractors {
		if d.UpperTrigram == target.UpperTrigram {
			_, was := excluded[d.ID]
			assert.Falsef(t, was, "tier 1 reused recent distractor %d", d.ID)
		}
	}
}

func TestSelectDistractorsSmallCatalog(t *testing.T) {
	catalog := loadCatalog(t)
	sel := NewSelector(rand.New(rand.NewSource(4)))
	target, _ := catalog.ByID(1)

	_, err := sel.SelectDistractors(target, catalog.All()[:3])
	assert.ErrorIs(t, err, ErrCatalogTooSmall)

	// Exactly four items is the minimum viable catalog.
	distractors, err := sel.SelectDistractors(target, catalog.All()[:4])
	require.NoError(t, err)
	assert.Len(t, distractors, DistractorCount)
}

func TestAssembleOptionSetValidity(t *testing.T) {
	catalog := loadCatalog(t)
	rng := rand.New(rand.NewSource(5))
	asm := NewAssembler(NewSelector(rng))

	for _, target := range catalog.All() {
		q, err := asm.Assemble(target, catalog.All())
		require.NoError(t, err)
		require.Len(t, q.Options, OptionCount)
		assert.Equal(t, target.ID, q.Options[q.CorrectSlot].ID)

		seen := map[int]struct{}{}
		for _, h := range q.Options {
			_, dup := seen[h.ID]
			assert.False(t, dup)
			seen[h.ID] = struct{}{}
		}
	}
}

func TestSlotBalance(t *testing.T) {
	catalog := loadCatalog(t)
	rng := rand.New(rand.NewSource(6))
	asm := NewAssembler(NewSelector(rng))
	targets := catalog.All()

	counts := make([]int, OptionCount)
	const calls = 1000
	for i := 0; i < calls; i++ {
		q, err := asm.Assemble(targets[i%len(targets)], targets)
		require.NoError(t, err)
		counts[q.CorrectSlot]++
	}

	for slot, n := range counts {
		share := float64(n) / calls
		assert.GreaterOrEqualf(t, share, 0.22, "slot %s underused", SlotLabel(slot))
		assert.LessOrEqualf(t, share, 0.28, "slot %s overused", SlotLabel(slot))
	}
}

func TestSlotPointerCycles(t *testing.T) {
	catalog := loadCatalog(t)
	asm := NewAssembler(NewSelector(rand.New(rand.NewSource(7))))
	target, _ := catalog.ByID(10)

	for want := 0; want < 8; want++ {
		assert.Equal(t, want%OptionCount, asm.SlotPointer())
		q, err := asm.Assemble(target, catalog.All())
		require.NoError(t, err)
		assert.Equal(t, want%OptionCount, q.CorrectSlot)
	}

	asm.Reset()
	assert.Equal(t, 0, asm.SlotPointer())
	assert.Empty(t, asm.selector.Recent().IDs())
}

func TestSlotLabel(t *testing.T) {
	assert.Equal(t, "A", SlotLabel(0))
	assert.Equal(t, "D", SlotLabel(3))
	assert.Equal(t, "?", SlotLabel(4))
}

func TestEvaluateQuality(t *testing.T) {
	catalog := loadCatalog(t)
	target, _ := catalog.ByID(1) // 乾: upper 乾, lower 乾

	sameUpper := catalog.ByUpperTrigram("乾")
	var distractors []hexagram.Hexagram
	for _, h := range sameUpper {
		if h.ID != target.ID && len(distractors) < 2 {
			distractors = append(distractors, h)
		}
	}
	other, _ := catalog.ByID(2) // 坤: shares nothing with 乾
	distractors = append(distractors, other)

	report := EvaluateQuality(target, distractors)
	assert.Equal(t, 2, report.SameUpper)
	// Same-upper distractors necessarily share the upper element too.
	assert.GreaterOrEqual(t, report.SameElement, 2)
	assert.InDelta(t, 0.3*2+0.2*float64(report.SameLower)+0.1*float64(report.SameElement), report.Score, 1e-9)
	assert.LessOrEqual(t, report.Score, 1.0)
}

func TestQualityScoreClamped(t *testing.T) {
	catalog := loadCatalog(t)
	target, _ := catalog.ByID(29) // 坎: both trigrams 坎, both elements 水

	var distractors []hexagram.Hexagram
	for _, h := range catalog.ByUpperTrigram("坎") {
		if h.ID != target.ID && len(distractors) < 3 {
			distractors = append(distractors, h)
		}
	}
	require.Len(t, distractors, 3)
	report := EvaluateQuality(target, distractors)
	assert.LessOrEqual(t, report.Score, 1.0)
	assert.GreaterOrEqual(t, report.Score, 0.0)
}
