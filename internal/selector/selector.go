package selector

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
	"github.com/sewcio543/soupsavvy-sub002/internal/resultset"
	"github.com/sewcio543/soupsavvy-sub002/internal/walker"
)

// Selector finds elements below a scope element.
//
// FindAll returns matches deduplicated and in document order relative to
// scope. With recursive false only direct children of scope are considered.
// A limit <= 0 returns every match.
//
// Selectors are immutable; one value may be used from several goroutines.
type Selector interface {
	FindAll(scope dom.Element, recursive bool, limit int) []dom.Element
	Equal(other Selector) bool
	String() string
}

// Find returns the first match of s in scope. A miss yields nil, or
// ErrElementNotFound when strict is set.
func Find(s Selector, scope dom.Element, strict, recursive bool) (dom.Element, error) {
	found := s.FindAll(scope, recursive, 1)
	if len(found) == 0 {
		if strict {
			return nil, fmt.Errorf("%w: %s", ErrElementNotFound, s)
		}
		return nil, nil
	}
	return found[0], nil
}

// Must panics if err is non-nil. It is meant for package level selector
// literals.
func Must[S Selector](s S, err error) S {
	if err != nil {
		panic(err)
	}
	return s
}

// Kind tags composite selectors so builders can extend an existing
// composite of the same kind instead of nesting it.
type Kind int

const (
	KindSimple Kind = iota
	KindList
	KindAnd
	KindNot
	KindXor
	KindHas
	KindChild
	KindDescendant
	KindNextSibling
	KindSubsequentSibling
	KindParent
	KindAncestor
)

var kindNames = map[Kind]string{
	KindSimple:            "Simple",
	KindList:              "SelectorList",
	KindAnd:               "AndSelector",
	KindNot:               "NotSelector",
	KindXor:               "XORSelector",
	KindHas:               "HasSelector",
	KindChild:             "ChildCombinator",
	KindDescendant:        "DescendantCombinator",
	KindNextSibling:       "NextSiblingCombinator",
	KindSubsequentSibling: "SubsequentSiblingCombinator",
	KindParent:            "ParentCombinator",
	KindAncestor:          "AncestorCombinator",
}

// String returns the kind name
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Composite is implemented by selectors built from child selectors.
type Composite interface {
	Selector
	Kind() Kind
	Selectors() []Selector
}

// KindOf returns the composite kind of s, KindSimple for everything else.
func KindOf(s Selector) Kind {
	if c, ok := s.(Composite); ok {
		return c.Kind()
	}
	return KindSimple
}

// composite holds the children shared by logical selectors and combinators.
type composite struct {
	kind        Kind
	selectors   []Selector
	commutative bool
}

func newComposite(kind Kind, commutative bool, selectors []Selector) (composite, error) {
	for i, s := range selectors {
		if err := checkSelector(s); err != nil {
			return composite{}, fmt.Errorf("%s argument %d: %w", kind, i, err)
		}
	}
	return composite{kind: kind, selectors: slices.Clone(selectors), commutative: commutative}, nil
}

// Kind returns the composite kind.
func (c composite) Kind() Kind { return c.kind }

// Selectors returns a copy of the child selectors.
func (c composite) Selectors() []Selector { return slices.Clone(c.selectors) }

// Equal compares kind and children. Order matters only for non-commutative
// kinds; commutative ones require every child of each side to equal some
// child of the other.
func (c composite) Equal(other Selector) bool {
	o, ok := other.(Composite)
	if !ok || o.Kind() != c.kind {
		return false
	}
	theirs := o.Selectors()
	if !c.commutative {
		return slices.EqualFunc(c.selectors, theirs, func(a, b Selector) bool {
			return a.Equal(b)
		})
	}
	return covers(c.selectors, theirs) && covers(theirs, c.selectors)
}

func (c composite) String() string {
	parts := make([]string, len(c.selectors))
	for i, s := range c.selectors {
		parts[i] = s.String()
	}
	return fmt.Sprintf("%s(%s)", c.kind, strings.Join(parts, ", "))
}

// covers reports whether every selector of a equals some selector of b.
func covers(a, b []Selector) bool {
	for _, x := range a {
		if !slices.ContainsFunc(b, x.Equal) {
			return false
		}
	}
	return true
}

// inScope reorders results against a walk of scope, dropping anything the
// walk does not reach.
func inScope(scope dom.Element, recursive bool, results *resultset.ResultSet) *resultset.ResultSet {
	return resultset.New(walker.New(scope, recursive).Collect()).Intersect(results)
}
