package hexagram

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// TotalHexagrams is the fixed size of the catalog.
const TotalHexagrams = 64

//go:embed data/hexagrams.json
var seedJSON []byte

// Catalog holds the 64 hexagrams for one session. It is read-only after Load.
type Catalog struct {
	items []Hexagram
	byID  map[int]Hexagram
}

// Load parses and validates the embedded catalog seed. A malformed seed is a
// build defect and fails loudly.
func Load() (*Catalog, error) {
	var items []Hexagram
	if err := json.Unmarshal(seedJSON, &items); err != nil {
		return nil, fmt.Errorf("parse hexagram seed: %w", err)
	}
	return NewCatalog(items)
}

// NewCatalog validates an externally supplied item list. Tests use this to
// build reduced catalogs.
func NewCatalog(items []Hexagram) (*Catalog, error) {
	byID := make(map[int]Hexagram, len(items))
	for _, h := range items {
		if h.ID < 1 {
			return nil, fmt.Errorf("hexagram id %d out of range", h.ID)
		}
		if _, dup := byID[h.ID]; dup {
			return nil, fmt.Errorf("duplicate hexagram id %d", h.ID)
		}
		if h.NameZh == "" || h.UpperTrigram == "" || h.LowerTrigram == "" {
			return nil, fmt.Errorf("hexagram %d missing name or trigram tags", h.ID)
		}
		byID[h.ID] = h
	}
	own := make([]Hexagram, len(items))
	copy(own, items)
	return &Catalog{items: own, byID: byID}, nil
}

// Validate applies the full-catalog checks on top of NewCatalog: exactly 64
// entries with ids 1..64.
func (c *Catalog) Validate() error {
	if len(c.items) != TotalHexagrams {
		return fmt.Errorf("catalog has %d hexagrams, want %d", len(c.items), TotalHexagrams)
	}
	for id := 1; id <= TotalHexagrams; id++ {
		if _, ok := c.byID[id]; !ok {
			return fmt.Errorf("catalog missing hexagram %d", id)
		}
	}
	return nil
}

// All returns the catalog contents. The slice is shared; callers must not
// mutate it.
func (c *Catalog) All() []Hexagram {
	return c.items
}

// ByID looks up a hexagram by id.
func (c *Catalog) ByID(id int) (Hexagram, bool) {
	h, ok := c.byID[id]
	return h, ok
}

// ByUpperTrigram returns every hexagram whose upper trigram matches.
func (c *Catalog) ByUpperTrigram(trigram string) []Hexagram {
	var out []Hexagram
	for _, h := range c.items {
		if h.UpperTrigram == trigram {
			out = append(out, h)
		}
	}
	return out
}

// ByLowerTrigram returns every hexagram whose lower trigram matches.
func (c *Catalog) ByLowerTrigram(trigram string) []Hexagram {
	var out []Hexagram
	for _, h := range c.items {
		if h.LowerTrigram == trigram {
			out = append(out, h)
		}
	}
	return out
}

// Len reports the number of items in the catalog.
func (c *Catalog) Len() int {
	return len(c.items)
}

// UpperTrigramTags returns the distinct upper-trigram tags present.
func (c *Catalog) UpperTrigramTags() []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, h := range c.items {
		if _, ok := seen[h.UpperTrigram]; !ok {
			seen[h.UpperTrigram] = struct{}{}
			tags = append(tags, h.UpperTrigram)
		}
	}
	return tags
}
