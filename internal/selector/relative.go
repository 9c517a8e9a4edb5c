package selector

import (
	"fmt"

	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
	"github.com/sewcio543/soupsavvy-sub002/internal/resultset"
	"github.com/sewcio543/soupsavvy-sub002/internal/walker"
)

// Relation is the structural relationship between an anchor and the
// elements a relative selector looks for.
type Relation int

const (
	RelationChild Relation = iota
	RelationDescendant
	RelationNextSibling
	RelationSubsequentSibling
	RelationParent
	RelationAncestor
)

var relationNames = map[Relation]string{
	RelationChild:             "Child",
	RelationDescendant:        "Descendant",
	RelationNextSibling:       "NextSibling",
	RelationSubsequentSibling: "SubsequentSibling",
	RelationParent:            "Parent",
	RelationAncestor:          "Ancestor",
}

func (r Relation) String() string {
	if name, ok := relationNames[r]; ok {
		return name
	}
	return "Unknown"
}

// upward reports whether the relation looks at enclosing elements.
func (r Relation) upward() bool {
	return r == RelationParent || r == RelationAncestor
}

func (r Relation) kind() Kind {
	switch r {
	case RelationChild:
		return KindChild
	case RelationDescendant:
		return KindDescendant
	case RelationNextSibling:
		return KindNextSibling
	case RelationSubsequentSibling:
		return KindSubsequentSibling
	case RelationParent:
		return KindParent
	default:
		return KindAncestor
	}
}

// RelativeSelector finds elements related to the anchor passed as scope,
// for example the next sibling of the anchor that matches the wrapped
// selector. The recursive flag of FindAll is ignored; the relation decides
// where to look.
type RelativeSelector struct {
	relation Relation
	selector Selector
}

// NewRelative wraps s with a relation.
func NewRelative(relation Relation, s Selector) (*RelativeSelector, error) {
	if _, ok := relationNames[relation]; !ok {
		return nil, fmt.Errorf("%w: unknown relation %d", ErrInvalidSelector, relation)
	}
	if err := checkSelector(s); err != nil {
		return nil, fmt.Errorf("relative %s: %w", relation, err)
	}
	return &RelativeSelector{relation: relation, selector: s}, nil
}

// Relation returns the relation to the anchor.
func (s *RelativeSelector) Relation() Relation { return s.relation }

// Selector returns the wrapped selector.
func (s *RelativeSelector) Selector() Selector { return s.selector }

// FindAll looks for matches related to anchor. The recursive flag is
// ignored since the relation decides how deep to look.
func (s *RelativeSelector) FindAll(anchor dom.Element, _ bool, limit int) []dom.Element {
	if anchor == nil {
		return nil
	}

	switch s.relation {
	case RelationChild:
		return s.selector.FindAll(anchor, false, limit)
	case RelationDescendant:
		return s.selector.FindAll(anchor, true, limit)
	case RelationNextSibling:
		return s.siblings(anchor, 1, limit)
	case RelationSubsequentSibling:
		return s.siblings(anchor, 0, limit)
	case RelationParent:
		return s.ancestors(anchor, 1, limit)
	default:
		return s.ancestors(anchor, 0, limit)
	}
}

// siblings matches the wrapped selector among the children of the anchor's
// parent and keeps those following the anchor.
func (s *RelativeSelector) siblings(anchor dom.Element, depth, limit int) []dom.Element {
	parent := anchor.Parent()
	if parent == nil {
		return nil
	}
	matching := resultset.New(s.selector.FindAll(parent, false, 0))
	following := resultset.New(anchor.NextSiblings(depth))
	return matching.Intersect(following).Fetch(limit)
}

// ancestors keeps the enclosing elements, innermost first, that the wrapped
// selector matches when searched from above the outermost of them.
func (s *RelativeSelector) ancestors(anchor dom.Element, depth, limit int) []dom.Element {
	enclosing := anchor.Ancestors(depth)
	if len(enclosing) == 0 {
		return nil
	}

	outer := enclosing[len(enclosing)-1]
	search := outer.Parent()
	if search == nil {
		search = outer
	}

	if limit <= 0 {
		limit = depth
	}
	matching := resultset.New(s.selector.FindAll(search, true, 0))
	return resultset.New(enclosing).Intersect(matching).Fetch(limit)
}

// Equal reports whether other has the same relation and an equal selector.
func (s *RelativeSelector) Equal(other Selector) bool {
	o, ok := other.(*RelativeSelector)
	return ok && o.relation == s.relation && o.selector.Equal(s.selector)
}

func (s *RelativeSelector) String() string {
	return fmt.Sprintf("Relative%s(%s)", s.relation, s.selector)
}

type anchor struct{}

// Anchor builds relative selectors, mirroring the CSS relative selector
// syntax used in :has(), e.g. Anchor.Child(s) for "> s".
var Anchor anchor

// Child builds "> s".
func (anchor) Child(s Selector) (*RelativeSelector, error) {
	return NewRelative(RelationChild, s)
}

// Descendant builds "s" relative to the anchor.
func (anchor) Descendant(s Selector) (*RelativeSelector, error) {
	return NewRelative(RelationDescendant, s)
}

// NextSibling builds "+ s".
func (anchor) NextSibling(s Selector) (*RelativeSelector, error) {
	return NewRelative(RelationNextSibling, s)
}

// SubsequentSibling builds "~ s".
func (anchor) SubsequentSibling(s Selector) (*RelativeSelector, error) {
	return NewRelative(RelationSubsequentSibling, s)
}

// Parent matches the anchor's parent when s matches it.
func (anchor) Parent(s Selector) (*RelativeSelector, error) {
	return NewRelative(RelationParent, s)
}

// Ancestor matches enclosing elements of the anchor that s matches.
func (anchor) Ancestor(s Selector) (*RelativeSelector, error) {
	return NewRelative(RelationAncestor, s)
}

// HasSelector matches elements for which any of its selectors finds at
// least one element when anchored at them. Plain selectors look among
// descendants; relative selectors apply their own relation.
type HasSelector struct {
	composite
}

// NewHasSelector returns a selector equivalent to CSS :has().
func NewHasSelector(s Selector, more ...Selector) (*HasSelector, error) {
	c, err := newComposite(KindHas, true, append([]Selector{s}, more...))
	if err != nil {
		return nil, err
	}
	return &HasSelector{composite: c}, nil
}

// FindAll returns the elements of the walk for which some selector finds a
// match when anchored at them.
func (s *HasSelector) FindAll(scope dom.Element, recursive bool, limit int) []dom.Element {
	return walker.New(scope, recursive).Filter(s.matches, limit)
}

func (s *HasSelector) matches(el dom.Element) bool {
	for _, child := range s.selectors {
		if len(child.FindAll(el, true, 1)) > 0 {
			return true
		}
	}
	return false
}
