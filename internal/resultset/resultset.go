// Package resultset implements the ordered, identity-deduplicated collection
// behind selector set algebra.
//
// Every binary operation treats the receiver as the base. Survivors are sorted
// by origin first (base before other) and by insertion index second, so nodes
// only present in the other operand follow all base nodes in their original
// relative order:
//
//	base  := resultset.New([]dom.Element{x, y, b})
//	other := resultset.New([]dom.Element{c, y, x})
//	base.Union(other).Fetch(0)        // x, y, b, c
//	base.Intersect(other).Fetch(0)    // x, y
//	base.Difference(other).Fetch(0)   // b
//	base.SymmetricDifference(other)   // b, c
package resultset

import (
	"cmp"
	"slices"

	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
)

// ResultSet wraps matched elements. The zero value and nil are empty sets.
type ResultSet struct {
	elements []dom.Element
}

// entry is an element tagged for ordering.
type entry struct {
	element dom.Element
	origin  int // 1 for base, 0 otherwise
	index   int
}

// New returns a set over elements; duplicates are allowed.
func New(elements []dom.Element) *ResultSet {
	return &ResultSet{elements: slices.Clone(elements)}
}

// Len returns the raw number of stored elements, duplicates included.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.elements)
}

// Empty reports whether nothing is stored.
func (r *ResultSet) Empty() bool {
	return r.Len() == 0
}

// Fetch returns up to limit unique elements (all when limit <= 0) in
// canonical order.
func (r *ResultSet) Fetch(limit int) []dom.Element {
	entries, _ := r.tag(true)
	out := unwrap(sorted(entries))
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Union returns elements of either set.
func (r *ResultSet) Union(other *ResultSet) *ResultSet {
	base, baseKeys := r.tag(true)
	right, _ := other.tag(false)

	merged := base
	for _, e := range right {
		if _, ok := baseKeys[e.element.Key()]; !ok {
			merged = append(merged, e)
		}
	}
	return New(unwrap(sorted(merged)))
}

// Intersect returns base elements also present in other.
func (r *ResultSet) Intersect(other *ResultSet) *ResultSet {
	base, _ := r.tag(true)
	_, rightKeys := other.tag(false)

	kept := make([]entry, 0, len(base))
	for _, e := range base {
		if _, ok := rightKeys[e.element.Key()]; ok {
			kept = append(kept, e)
		}
	}
	return New(unwrap(sorted(kept)))
}

// Difference returns base elements absent from other.
func (r *ResultSet) Difference(other *ResultSet) *ResultSet {
	base, _ := r.tag(true)
	_, rightKeys := other.tag(false)

	kept := make([]entry, 0, len(base))
	for _, e := range base {
		if _, ok := rightKeys[e.element.Key()]; !ok {
			kept = append(kept, e)
		}
	}
	return New(unwrap(sorted(kept)))
}

// SymmetricDifference returns elements present in exactly one of the sets.
func (r *ResultSet) SymmetricDifference(other *ResultSet) *ResultSet {
	base, baseKeys := r.tag(true)
	right, rightKeys := other.tag(false)

	kept := make([]entry, 0, len(base)+len(right))
	for _, e := range base {
		if _, ok := rightKeys[e.element.Key()]; !ok {
			kept = append(kept, e)
		}
	}
	for _, e := range right {
		if _, ok := baseKeys[e.element.Key()]; !ok {
			kept = append(kept, e)
		}
	}
	return New(unwrap(sorted(kept)))
}

// tag deduplicates by identity, keeping the first occurrence, and records
// origin and insertion index.
func (r *ResultSet) tag(base bool) ([]entry, map[dom.Key]struct{}) {
	origin := 0
	if base {
		origin = 1
	}

	n := r.Len()
	entries := make([]entry, 0, n)
	seen := make(map[dom.Key]struct{}, n)
	if n == 0 {
		return entries, seen
	}

	for i, el := range r.elements {
		if el == nil {
			continue
		}
		key := el.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		entries = append(entries, entry{element: el, origin: origin, index: i})
	}
	return entries, seen
}

func sorted(entries []entry) []entry {
	slices.SortStableFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(b.origin, a.origin); c != 0 {
			return c
		}
		return cmp.Compare(a.index, b.index)
	})
	return entries
}

func unwrap(entries []entry) []dom.Element {
	out := make([]dom.Element, len(entries))
	for i, e := range entries {
		out[i] = e.element
	}
	return out
}
