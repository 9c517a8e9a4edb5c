package query

import (
	"errors"
	"fmt"

	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
	"github.com/sewcio543/soupsavvy-sub002/internal/model"
	"github.com/sewcio543/soupsavvy-sub002/internal/operation"
	"github.com/sewcio543/soupsavvy-sub002/internal/selector"
)

var ErrInvalidQuery = errors.New("invalid query")

// Output names how matched elements are rendered.
type Output string

const (
	OutputHTML      Output = "html"
	OutputInnerHTML Output = "inner_html"
	OutputText      Output = "text"
	OutputSanitized Output = "sanitized"
)

// Query is a one-off selection over a document, as issued by the select
// command and the /v1/select endpoint.
type Query struct {
	Select       model.SelectorSpec `json:"select"`
	Limit        int                `json:"limit"`
	NonRecursive bool               `json:"non_recursive"`
	First        bool               `json:"first"`
	Strict       bool               `json:"strict"`
	Output       Output             `json:"output"`
	Separator    string             `json:"separator"`
}

// Compiled is a validated query ready to run against many documents.
type Compiled struct {
	query    Query
	selector selector.Selector
	render   operation.Operation
}

// Compile validates q and builds its selector and renderer.
func (q Query) Compile() (*Compiled, error) {
	if q.Limit < 0 {
		return nil, fmt.Errorf("%w: negative limit %d", ErrInvalidQuery, q.Limit)
	}
	s, err := q.Select.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	var render operation.Operation
	switch q.Output {
	case "", OutputHTML:
		render = operation.OuterHTML{}
	case OutputInnerHTML:
		render = operation.InnerHTML{}
	case OutputText:
		render = operation.Text{Separator: q.Separator, Strip: true}
	case OutputSanitized:
		render = operation.Sanitize{}
	default:
		return nil, fmt.Errorf("%w: unknown output %q", ErrInvalidQuery, q.Output)
	}
	return &Compiled{query: q, selector: s, render: render}, nil
}

// Selector returns the compiled selector.
func (c *Compiled) Selector() selector.Selector {
	return c.selector
}

// Run selects from root and renders every match. With First set at most one
// value is returned; a strict miss fails with selector.ErrElementNotFound.
func (c *Compiled) Run(root dom.Element) ([]any, error) {
	recursive := !c.query.NonRecursive

	var matches []dom.Element
	if c.query.First {
		found, err := selector.Find(c.selector, root, c.query.Strict, recursive)
		if err != nil {
			return nil, err
		}
		if found != nil {
			matches = append(matches, found)
		}
	} else {
		matches = c.selector.FindAll(root, recursive, c.query.Limit)
	}

	out := make([]any, 0, len(matches))
	for _, el := range matches {
		v, err := operation.Run(c.render, el)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
