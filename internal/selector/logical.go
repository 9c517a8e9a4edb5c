package selector

import (
	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
	"github.com/sewcio543/soupsavvy-sub002/internal/resultset"
	"github.com/sewcio543/soupsavvy-sub002/internal/walker"
)

// SelectorList matches elements matched by any of its selectors.
type SelectorList struct {
	composite
}

// NewSelectorList returns the union of at least two selectors.
func NewSelectorList(s1, s2 Selector, more ...Selector) (*SelectorList, error) {
	c, err := newComposite(KindList, true, append([]Selector{s1, s2}, more...))
	if err != nil {
		return nil, err
	}
	return &SelectorList{composite: c}, nil
}

// FindAll returns the union of the matches of every selector, in document
// order and without duplicates.
func (s *SelectorList) FindAll(scope dom.Element, recursive bool, limit int) []dom.Element {
	results := resultset.New(nil)
	for _, child := range s.selectors {
		results = results.Union(resultset.New(child.FindAll(scope, recursive, 0)))
	}
	return inScope(scope, recursive, results).Fetch(limit)
}

// AndSelector matches elements matched by all of its selectors. Results
// follow the order of the first selector.
type AndSelector struct {
	composite
}

// NewAndSelector returns the intersection of at least two selectors.
func NewAndSelector(s1, s2 Selector, more ...Selector) (*AndSelector, error) {
	c, err := newComposite(KindAnd, true, append([]Selector{s1, s2}, more...))
	if err != nil {
		return nil, err
	}
	return &AndSelector{composite: c}, nil
}

// FindAll intersects the matches of every selector, keeping the order of
// the first one.
func (s *AndSelector) FindAll(scope dom.Element, recursive bool, limit int) []dom.Element {
	var results *resultset.ResultSet
	for i, child := range s.selectors {
		found := resultset.New(child.FindAll(scope, recursive, 0))
		if i == 0 {
			results = found
			continue
		}
		results = results.Intersect(found)
	}
	return results.Fetch(limit)
}

// NotSelector matches elements matched by none of its selectors.
type NotSelector struct {
	composite
}

// NewNotSelector returns the negation of one or more selectors.
func NewNotSelector(s Selector, more ...Selector) (*NotSelector, error) {
	c, err := newComposite(KindNot, true, append([]Selector{s}, more...))
	if err != nil {
		return nil, err
	}
	return &NotSelector{composite: c}, nil
}

// FindAll returns the elements of the walk matched by none of the selectors.
func (s *NotSelector) FindAll(scope dom.Element, recursive bool, limit int) []dom.Element {
	matching := resultset.New(nil)
	for _, child := range s.selectors {
		matching = matching.Union(resultset.New(child.FindAll(scope, recursive, 0)))
	}
	all := resultset.New(walker.New(scope, recursive).Collect())
	return all.Difference(matching).Fetch(limit)
}

// Invert cancels the negation: a single selector is returned as is and
// several selectors become their SelectorList.
func (s *NotSelector) Invert() Selector {
	if len(s.selectors) == 1 {
		return s.selectors[0]
	}
	list, _ := NewSelectorList(s.selectors[0], s.selectors[1], s.selectors[2:]...)
	return list
}

// XORSelector matches elements matched by exactly one of its selectors.
// With more than two selectors an element matched by three of them is
// excluded, unlike chained pairwise exclusion.
type XORSelector struct {
	composite
}

// NewXORSelector returns the exclusive disjunction of at least two selectors.
func NewXORSelector(s1, s2 Selector, more ...Selector) (*XORSelector, error) {
	c, err := newComposite(KindXor, true, append([]Selector{s1, s2}, more...))
	if err != nil {
		return nil, err
	}
	return &XORSelector{composite: c}, nil
}

// FindAll returns elements matched by exactly one of the selectors.
func (s *XORSelector) FindAll(scope dom.Element, recursive bool, limit int) []dom.Element {
	counts := make(map[dom.Key]int)
	var order []dom.Element
	for _, child := range s.selectors {
		// duplicates within one selector's results count once
		for _, el := range resultset.New(child.FindAll(scope, recursive, 0)).Fetch(0) {
			key := el.Key()
			if counts[key] == 0 {
				order = append(order, el)
			}
			counts[key]++
		}
	}

	exclusive := make([]dom.Element, 0, len(order))
	for _, el := range order {
		if counts[el.Key()] == 1 {
			exclusive = append(exclusive, el)
		}
	}
	return inScope(scope, recursive, resultset.New(exclusive)).Fetch(limit)
}
