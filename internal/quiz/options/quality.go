package options

import "github.com/zhouyilab/hexquiz/internal/hexagram"

// QualityReport grades a distractor set's similarity to its target. It is a
// diagnostic for offline validation; selection never consults it.
type QualityReport struct {
	SameUpper   int
	SameLower   int
	SameElement int
	Score       float64
}

// Good reports whether the set clears the quality bar used in validation runs.
func (r QualityReport) Good() bool {
	return r.Score >= 0.7
}

// EvaluateQuality scores how plausible the distractors are: shared upper
// trigrams weigh 0.3 each, shared lower trigrams 0.2, shared element tags 0.1,
// clamped to [0,1].
func EvaluateQuality(target hexagram.Hexagram, distractors []hexagram.Hexagram) QualityReport {
	var upper, lower, element int
	for _, d := range distractors {
		if d.UpperTrigram == target.UpperTrigram {
			upper++
		}
		if d.LowerTrigram == target.LowerTrigram {
			lower++
		}
		if d.UpperElement == target.UpperElement || d.LowerElement == target.LowerElement {
			element++
		}
	}
	score := 0.3*float64(upper) + 0.2*float64(lower) + 0.1*float64(element)
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return QualityReport{
		SameUpper:   upper,
		SameLower:   lower,
		SameElement: element,
		Score:       score,
	}
}
