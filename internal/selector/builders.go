package selector

import "slices"

// flattenIfSameKind returns the children for a composite of kind built from
// existing and next. An existing composite of the same kind is extended
// rather than nested, so Or(Or(a, b), c) is SelectorList(a, b, c).
func flattenIfSameKind(kind Kind, existing, next Selector) ([]Selector, error) {
	if err := checkSelector(existing); err != nil {
		return nil, err
	}
	if err := checkSelector(next); err != nil {
		return nil, err
	}
	if c, ok := existing.(Composite); ok && c.Kind() == kind {
		return append(slices.Clone(c.Selectors()), next), nil
	}
	return []Selector{existing, next}, nil
}

// Or matches elements matched by a or b.
func Or(a, b Selector) (*SelectorList, error) {
	s, err := flattenIfSameKind(KindList, a, b)
	if err != nil {
		return nil, err
	}
	return NewSelectorList(s[0], s[1], s[2:]...)
}

// And matches elements matched by both a and b.
func And(a, b Selector) (*AndSelector, error) {
	s, err := flattenIfSameKind(KindAnd, a, b)
	if err != nil {
		return nil, err
	}
	return NewAndSelector(s[0], s[1], s[2:]...)
}

// Xor matches elements matched by exactly one of a and b.
func Xor(a, b Selector) (*XORSelector, error) {
	s, err := flattenIfSameKind(KindXor, a, b)
	if err != nil {
		return nil, err
	}
	return NewXORSelector(s[0], s[1], s[2:]...)
}

// Not negates s.
func Not(s Selector) (*NotSelector, error) {
	return NewNotSelector(s)
}

// Invert negates s, cancelling an existing negation instead of wrapping it.
func Invert(s Selector) (Selector, error) {
	if n, ok := s.(*NotSelector); ok && n != nil {
		return n.Invert(), nil
	}
	return NewNotSelector(s)
}

// Has matches elements containing a match of any of the selectors.
func Has(s Selector, more ...Selector) (*HasSelector, error) {
	return NewHasSelector(s, more...)
}

func combine(relation Relation, a, b Selector) (*Combinator, error) {
	s, err := flattenIfSameKind(relation.kind(), a, b)
	if err != nil {
		return nil, err
	}
	return NewCombinator(relation, s[0], s[1], s[2:]...)
}

// Child matches b elements that are children of a elements ("a > b").
func Child(a, b Selector) (*Combinator, error) {
	return combine(RelationChild, a, b)
}

// Descendant matches b elements below a elements ("a b").
func Descendant(a, b Selector) (*Combinator, error) {
	return combine(RelationDescendant, a, b)
}

// NextSibling matches b elements immediately after a elements ("a + b").
func NextSibling(a, b Selector) (*Combinator, error) {
	return combine(RelationNextSibling, a, b)
}

// SubsequentSibling matches b elements after a elements ("a ~ b").
func SubsequentSibling(a, b Selector) (*Combinator, error) {
	return combine(RelationSubsequentSibling, a, b)
}

// Parent matches b elements that are parents of a elements.
func Parent(a, b Selector) (*Combinator, error) {
	return combine(RelationParent, a, b)
}

// Ancestor matches b elements enclosing a elements.
func Ancestor(a, b Selector) (*Combinator, error) {
	return combine(RelationAncestor, a, b)
}
