package selector

import (
	"fmt"
	"slices"

	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
	"github.com/sewcio543/soupsavvy-sub002/internal/nth"
	"github.com/sewcio543/soupsavvy-sub002/internal/resultset"
	"github.com/sewcio543/soupsavvy-sub002/internal/walker"
)

// NthOfSelector matches the children, at formula positions, among the
// children of one parent that the inner selector matches. It is the
// :nth-child(An+B of S) pseudo-class; with last set positions count from the
// end as in :nth-last-child.
type NthOfSelector struct {
	selector Selector
	formula  nth.Generator
	last     bool
}

// NewNthOf counts positions from the first matching child.
func NewNthOf(s Selector, formula string) (*NthOfSelector, error) {
	return newNth(s, formula, false)
}

// NewNthLastOf counts positions from the last matching child.
func NewNthLastOf(s Selector, formula string) (*NthOfSelector, error) {
	return newNth(s, formula, true)
}

func newNth(s Selector, formula string, last bool) (*NthOfSelector, error) {
	if err := checkSelector(s); err != nil {
		return nil, err
	}
	g, err := nth.Parse(formula)
	if err != nil {
		return nil, err
	}
	return &NthOfSelector{selector: s, formula: g, last: last}, nil
}

// Selector returns the inner selector.
func (s *NthOfSelector) Selector() Selector { return s.selector }

// Formula returns the parsed position generator.
func (s *NthOfSelector) Formula() nth.Generator { return s.formula }

// FindAll groups the inner matches by parent and keeps those at the
// generated positions.
func (s *NthOfSelector) FindAll(scope dom.Element, recursive bool, limit int) []dom.Element {
	var matches []dom.Element
	for _, parent := range parents(scope, recursive) {
		children := s.selector.FindAll(parent, false, 0)
		if s.last {
			slices.Reverse(children)
		}
		for pos := range s.formula.Generate(len(children)) {
			matches = append(matches, children[pos-1])
		}
	}
	return inScope(scope, recursive, resultset.New(matches)).Fetch(limit)
}

// Equal reports whether other counts from the same end with the same
// formula and an equal inner selector.
func (s *NthOfSelector) Equal(other Selector) bool {
	o, ok := other.(*NthOfSelector)
	return ok && o.last == s.last && o.formula == s.formula && o.selector.Equal(s.selector)
}

func (s *NthOfSelector) String() string {
	name := "NthOfSelector"
	if s.last {
		name = "NthLastOfSelector"
	}
	return fmt.Sprintf("%s(selector=%s, nth=%s)", name, s.selector, s.formula)
}

// OnlyOfSelector matches a child when it is the only child of its parent
// that the inner selector matches.
type OnlyOfSelector struct {
	selector Selector
}

// NewOnlyOf returns the :only-child(of S) selector.
func NewOnlyOf(s Selector) (*OnlyOfSelector, error) {
	if err := checkSelector(s); err != nil {
		return nil, err
	}
	return &OnlyOfSelector{selector: s}, nil
}

// Selector returns the inner selector.
func (s *OnlyOfSelector) Selector() Selector { return s.selector }

// FindAll returns, per parent, the inner selector's match when it is the
// only one.
func (s *OnlyOfSelector) FindAll(scope dom.Element, recursive bool, limit int) []dom.Element {
	var matches []dom.Element
	for _, parent := range parents(scope, recursive) {
		if children := s.selector.FindAll(parent, false, 2); len(children) == 1 {
			matches = append(matches, children[0])
		}
	}
	return inScope(scope, recursive, resultset.New(matches)).Fetch(limit)
}

// Equal reports whether other wraps an equal inner selector.
func (s *OnlyOfSelector) Equal(other Selector) bool {
	o, ok := other.(*OnlyOfSelector)
	return ok && o.selector.Equal(s.selector)
}

func (s *OnlyOfSelector) String() string {
	return fmt.Sprintf("OnlyOfSelector(selector=%s)", s.selector)
}

// parents lists the elements whose children are candidates: scope alone,
// or scope and every element below it.
func parents(scope dom.Element, recursive bool) []dom.Element {
	if scope == nil {
		return nil
	}
	if !recursive {
		return []dom.Element{scope}
	}
	return walker.New(scope, true).WithSelf().Collect()
}
