package selector

import (
	"fmt"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
	"github.com/sewcio543/soupsavvy-sub002/internal/resultset"
)

// XPathSelector evaluates an XPath expression with scope as the context
// node. Selected nodes outside the walk of scope are dropped, so absolute
// expressions such as //p still respect scope and recursive.
type XPathSelector struct {
	expr     string
	compiled *xpath.Expr
}

// NewXPath compiles an XPath expression.
func NewXPath(expr string) (*XPathSelector, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: xpath %q: %v", ErrInvalidExpression, expr, err)
	}
	return &XPathSelector{expr: expr, compiled: compiled}, nil
}

// Expr returns the source expression.
func (s *XPathSelector) Expr() string { return s.expr }

// FindAll evaluates the expression from the scope and keeps the element
// results that fall inside the walk.
func (s *XPathSelector) FindAll(scope dom.Element, recursive bool, limit int) []dom.Element {
	top, ok := dom.HTMLNode(scope)
	if !ok {
		return nil
	}

	var selected []dom.Element
	for _, n := range htmlquery.QuerySelectorAll(top, s.compiled) {
		// text results wrap to nil; detached attribute nodes fall out in inScope
		if el := dom.Wrap(n); el != nil {
			selected = append(selected, el)
		}
	}
	return inScope(scope, recursive, resultset.New(selected)).Fetch(limit)
}

// Equal compares expression strings.
func (s *XPathSelector) Equal(other Selector) bool {
	o, ok := other.(*XPathSelector)
	return ok && o.expr == s.expr
}

func (s *XPathSelector) String() string {
	return fmt.Sprintf("XPathSelector(%q)", s.expr)
}
