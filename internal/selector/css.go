package selector

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
	"github.com/sewcio543/soupsavvy-sub002/internal/nth"
	"github.com/sewcio543/soupsavvy-sub002/internal/walker"
)

// CSSSelector matches elements against a compiled CSS selector group.
//
// The selector is tested on each element of the walk, so combinators inside
// the CSS string may look outside of scope while matches stay inside it.
type CSSSelector struct {
	css   string
	group cascadia.SelectorGroup
}

// NewCSS compiles a CSS selector string.
func NewCSS(css string) (*CSSSelector, error) {
	group, err := cascadia.ParseGroup(css)
	if err != nil {
		return nil, fmt.Errorf("%w: css %q: %v", ErrInvalidExpression, css, err)
	}
	return &CSSSelector{css: css, group: group}, nil
}

// CSS returns the source selector string.
func (s *CSSSelector) CSS() string { return s.css }

func (s *CSSSelector) matches(el dom.Element) bool {
	n, ok := dom.HTMLNode(el)
	return ok && s.group.Match(n)
}

// FindAll returns the elements of the walk that match the CSS group.
func (s *CSSSelector) FindAll(scope dom.Element, recursive bool, limit int) []dom.Element {
	return walker.New(scope, recursive).Filter(s.matches, limit)
}

// Equal compares source strings; differently written but equivalent CSS is
// not equal.
func (s *CSSSelector) Equal(other Selector) bool {
	o, ok := other.(*CSSSelector)
	return ok && o.css == s.css
}

func (s *CSSSelector) String() string {
	return fmt.Sprintf("CSS(%s)", s.css)
}

// Structural pseudo-class shortcuts.

// OnlyChild matches elements without element siblings.
func OnlyChild() *CSSSelector { return mustCSS(":only-child") }

// Empty matches elements with no children, text included.
func Empty() *CSSSelector { return mustCSS(":empty") }

// FirstChild matches elements that are the first child of their parent.
func FirstChild() *CSSSelector { return mustCSS(":first-child") }

// LastChild matches elements that are the last child of their parent.
func LastChild() *CSSSelector { return mustCSS(":last-child") }

// FirstOfType matches the first sibling of each tag name.
func FirstOfType() *CSSSelector { return mustCSS(":first-of-type") }

// LastOfType matches the last sibling of each tag name.
func LastOfType() *CSSSelector { return mustCSS(":last-of-type") }

// OnlyOfType matches elements without siblings of the same tag name.
func OnlyOfType() *CSSSelector { return mustCSS(":only-of-type") }

// NthChild matches children at the positions generated by formula.
func NthChild(formula string) (*CSSSelector, error) {
	return nthCSS(":nth-child(%s)", formula)
}

// NthLastChild is NthChild counting from the last child.
func NthLastChild(formula string) (*CSSSelector, error) {
	return nthCSS(":nth-last-child(%s)", formula)
}

// NthOfType matches siblings of the same tag name at formula positions.
func NthOfType(formula string) (*CSSSelector, error) {
	return nthCSS(":nth-of-type(%s)", formula)
}

// NthLastOfType is NthOfType counting from the last sibling.
func NthLastOfType(formula string) (*CSSSelector, error) {
	return nthCSS(":nth-last-of-type(%s)", formula)
}

// nthCSS validates formula with the nth grammar before handing the
// normalized form to cascadia.
func nthCSS(format, formula string) (*CSSSelector, error) {
	g, err := nth.Parse(formula)
	if err != nil {
		return nil, err
	}
	return NewCSS(fmt.Sprintf(format, g))
}

func mustCSS(css string) *CSSSelector {
	return Must(NewCSS(css))
}
