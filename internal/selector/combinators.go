package selector

import (
	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
	"github.com/sewcio543/soupsavvy-sub002/internal/resultset"
)

// Combinator chains selectors with one relation, S1 R S2 R ... Sn, and
// matches elements of Sn reached through the chain.
//
// Child, descendant and sibling chains start from matches of S1 under the
// requested recursion. Parent and ancestor chains always search S1 among
// all descendants since the elements they end on enclose S1; the recursive
// flag then only restricts which of those ancestors are returned.
type Combinator struct {
	composite
	relation Relation
}

// NewCombinator chains at least two selectors with relation.
func NewCombinator(relation Relation, s1, s2 Selector, more ...Selector) (*Combinator, error) {
	if _, ok := relationNames[relation]; !ok {
		return nil, ErrInvalidSelector
	}
	c, err := newComposite(relation.kind(), false, append([]Selector{s1, s2}, more...))
	if err != nil {
		return nil, err
	}
	return &Combinator{composite: c, relation: relation}, nil
}

// Relation returns the relation joining the steps.
func (c *Combinator) Relation() Relation { return c.relation }

// FindAll resolves the chain step by step, each step relative to the
// elements matched by the previous one, and returns the last step's matches.
func (c *Combinator) FindAll(scope dom.Element, recursive bool, limit int) []dom.Element {
	var results *resultset.ResultSet
	for i, step := range c.selectors {
		if i == 0 {
			results = resultset.New(step.FindAll(scope, recursive || c.relation.upward(), 0))
			continue
		}
		if results.Empty() {
			break
		}

		relative := &RelativeSelector{relation: c.relation, selector: step}
		var next []dom.Element
		for _, el := range results.Fetch(0) {
			next = append(next, relative.FindAll(el, true, 0)...)
		}
		results = resultset.New(next)
	}

	// downward and sideways chains are ordered against the whole subtree
	return inScope(scope, recursive || !c.relation.upward(), results).Fetch(limit)
}
