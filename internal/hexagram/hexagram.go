package hexagram

import "fmt"

// Hexagram is one of the 64 fixed learning units. Instances are immutable
// after the catalog loads; the quiz engine only reads them.
type Hexagram struct {
	ID           int    `json:"id" db:"id"`
	NameZh       string `json:"nameZh" db:"name_zh"`
	UpperTrigram string `json:"upperTrigram" db:"upper_trigram"`
	LowerTrigram string `json:"lowerTrigram" db:"lower_trigram"`
	UpperElement string `json:"upperElement" db:"upper_element"`
	LowerElement string `json:"lowerElement" db:"lower_element"`
	KingWenIndex int    `json:"kingWenIndex" db:"king_wen_index"`
	LinesBits    string `json:"linesBits" db:"lines_bits"`
}

// FullName returns the conventional element-prefixed name, e.g. "火水未济".
func (h Hexagram) FullName() string {
	return h.UpperElement + h.LowerElement + h.NameZh
}

// DisplayName returns the numbered name, e.g. "64 未济".
func (h Hexagram) DisplayName() string {
	return fmt.Sprintf("%d %s", h.ID, h.NameZh)
}

// TrigramDescription returns the trigram composition, e.g. "离坎未济".
func (h Hexagram) TrigramDescription() string {
	return h.UpperTrigram + h.LowerTrigram + h.NameZh
}

// trigram line codes, bottom to top.
var trigramLines = map[string][3]bool{
	"乾": {true, true, true},
	"兑": {true, true, false},
	"离": {true, false, true},
	"震": {true, false, false},
	"巽": {false, true, true},
	"坎": {false, true, false},
	"艮": {false, false, true},
	"坤": {false, false, false},
}

// Lines returns the six lines top-down (upper trigram first), true = yang.
// Reconstructed from the trigram names rather than LinesBits, which is a
// legacy field with inconsistent orientation in older exports.
func (h Hexagram) Lines() []bool {
	upper, okU := trigramLines[h.UpperTrigram]
	lower, okL := trigramLines[h.LowerTrigram]
	if !okU || !okL {
		return make([]bool, 6)
	}
	return []bool{
		upper[2], upper[1], upper[0],
		lower[2], lower[1], lower[0],
	}
}
