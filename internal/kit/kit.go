// Package kit holds the static catalog of first-aid supplies in the box
// and matches assistant replies against their spoken names. Each item
// knows the LED index ranges that outline its storage slot so the strip
// can highlight it.
package kit

import (
	"sort"
	"strings"
)

// Range is an inclusive span of LED indices on the strip.
type Range struct {
	Start int
	End   int
}

type Item struct {
	ID          string
	DisplayName string
	Keywords    []string
	LEDRanges   []Range
}

// Mentions returns the items named in text, ordered by the position of
// their first matching keyword. Matching is case-insensitive substring
// containment; an item is reported at most once. Pure function.
func Mentions(text string) []Item {
	lower := strings.ToLower(text)

	type hit struct {
		item Item
		pos  int
	}
	var hits []hit
	for _, it := range Catalog() {
		first := -1
		for _, kw := range it.Keywords {
			if idx := strings.Index(lower, kw); idx >= 0 && (first < 0 || idx < first) {
				first = idx
			}
		}
		if first >= 0 {
			hits = append(hits, hit{item: it, pos: first})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := make([]Item, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.item)
	}
	return out
}

// ByID looks an item up in the catalog.
func ByID(id string) (Item, bool) {
	for _, it := range Catalog() {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}
