package options

import (
	"fmt"

	"github.com/zhouyilab/hexquiz/internal/hexagram"
)

// QuestionOptions is a presentable answer set: four distinct hexagrams in
// display order and the slot holding the correct one.
type QuestionOptions struct {
	Options     []hexagram.Hexagram
	CorrectSlot int
}

// Assembler combines a target with three distractors and balances which slot
// the correct answer lands in. One instance belongs to one session.
type Assembler struct {
	selector *Selector
	slot     int
}

// NewAssembler wires an assembler to the given selector.
func NewAssembler(selector *Selector) *Assembler {
	return &Assembler{selector: selector}
}

// SlotPointer returns the slot the next correct answer will occupy.
func (a *Assembler) SlotPointer() int {
	return a.slot
}

// Assemble builds the 4-option answer set for the target. The correct answer
// is swapped into the slot pointed at by the rotating pointer; the remaining
// options keep their shuffle order. Over many calls each slot receives the
// correct answer with frequency converging to 25%.
func (a *Assembler) Assemble(target hexagram.Hexagram, catalog []hexagram.Hexagram) (QuestionOptions, error) {
	distractors, err := a.selector.SelectDistractors(target, catalog)
	if err != nil {
		return QuestionOptions{}, err
	}

	opts := make([]hexagram.Hexagram, 0, OptionCount)
	opts = append(opts, target)
	opts = append(opts, distractors...)
	a.selector.rng.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})

	slot := a.slot
	a.slot = (a.slot + 1) % OptionCount

	current := -1
	for i, h := range opts {
		if h.ID == target.ID {
			current = i
			break
		}
	}
	if current == -1 {
		return QuestionOptions{}, fmt.Errorf("options: target %d missing from assembled set", target.ID)
	}
	opts[current], opts[slot] = opts[slot], opts[current]

	if err := validateOptionSet(target, opts, slot); err != nil {
		return QuestionOptions{}, err
	}
	return QuestionOptions{Options: opts, CorrectSlot: slot}, nil
}

// Reset clears the slot pointer and the selector's recency window.
func (a *Assembler) Reset() {
	a.slot = 0
	a.selector.Reset()
}

// SlotLabel maps a slot index to its display letter.
func SlotLabel(slot int) string {
	if slot < 0 || slot >= OptionCount {
		return "?"
	}
	return string(rune('A' + slot))
}

// validateOptionSet enforces the option-set invariant: four distinct ids with
// the target at exactly the reported slot. A violation is a defect, never a
// condition to paper over.
func validateOptionSet(target hexagram.Hexagram, opts []hexagram.Hexagram, slot int) error {
	if len(opts) != OptionCount {
		return fmt.Errorf("options: assembled %d options, want %d", len(opts), OptionCount)
	}
	seen := make(map[int]struct{}, OptionCount)
	targetCount := 0
	for _, h := range opts {
		if _, dup := seen[h.ID]; dup {
			return fmt.Errorf("options: duplicate id %d in option set", h.ID)
		}
		seen[h.ID] = struct{}{}
		if h.ID == target.ID {
			targetCount++
		}
	}
	if targetCount != 1 {
		return fmt.Errorf("options: target %d appears %d times in option set", target.ID, targetCount)
	}
	if opts[slot].ID != target.ID {
		return fmt.Errorf("options: correct slot %d does not hold target %d", slot, target.ID)
	}
	return nil
}
