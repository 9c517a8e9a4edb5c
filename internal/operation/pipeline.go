package operation

import (
	"fmt"

	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
	"github.com/sewcio543/soupsavvy-sub002/internal/selector"
)

// Searcher extracts values from a scope element.
//
// Selection pipelines, bare selectors and schemas all satisfy it, so any of
// them can fill a model field.
type Searcher interface {
	Find(scope dom.Element, strict, recursive bool) (any, error)
	FindAll(scope dom.Element, recursive bool, limit int) ([]any, error)
	String() string
}

// SelectionPipeline locates elements with a selector and runs an operation
// over each of them.
type SelectionPipeline struct {
	selector  selector.Selector
	operation Operation
}

// Select builds a pipeline applying op to the matches of s.
func Select(s selector.Selector, op Operation) (*SelectionPipeline, error) {
	if isNil(s) {
		return nil, fmt.Errorf("%w: nil selector", ErrInvalidOperation)
	}
	if isNil(op) {
		return nil, fmt.Errorf("%w: nil operation", ErrInvalidOperation)
	}
	return &SelectionPipeline{selector: s, operation: op}, nil
}

// Selector returns the selector locating the elements.
func (p *SelectionPipeline) Selector() selector.Selector {
	return p.selector
}

// Operation returns the operation applied to each match.
func (p *SelectionPipeline) Operation() Operation {
	return p.operation
}

// Find runs the operation over the first match. A miss is passed to the
// operation as nil unless strict is set, in which case the selector error is
// returned.
func (p *SelectionPipeline) Find(scope dom.Element, strict, recursive bool) (any, error) {
	found, err := selector.Find(p.selector, scope, strict, recursive)
	if err != nil {
		return nil, err
	}
	var arg any
	if found != nil {
		arg = found
	}
	return Run(p.operation, arg)
}

// FindAll runs the operation over every match, stopping at the first failure.
func (p *SelectionPipeline) FindAll(scope dom.Element, recursive bool, limit int) ([]any, error) {
	found := p.selector.FindAll(scope, recursive, limit)
	out := make([]any, 0, len(found))
	for _, el := range found {
		value, err := Run(p.operation, el)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

// Then returns a new pipeline with op chained after the current operation.
func (p *SelectionPipeline) Then(op Operation) (*SelectionPipeline, error) {
	chained, err := Then(p.operation, op)
	if err != nil {
		return nil, err
	}
	return &SelectionPipeline{selector: p.selector, operation: chained}, nil
}

// Equal compares selector and operation.
func (p *SelectionPipeline) Equal(other *SelectionPipeline) bool {
	return other != nil && p.selector.Equal(other.selector) && p.operation.Equal(other.operation)
}

func (p *SelectionPipeline) String() string {
	return fmt.Sprintf("SelectionPipeline(selector=%s, operation=%s)", p.selector, p.operation)
}

// Elements exposes a selector as a Searcher returning matched elements.
type Elements struct {
	Selector selector.Selector
}

func (e Elements) Find(scope dom.Element, strict, recursive bool) (any, error) {
	found, err := selector.Find(e.Selector, scope, strict, recursive)
	if err != nil || found == nil {
		return nil, err
	}
	return found, nil
}

func (e Elements) FindAll(scope dom.Element, recursive bool, limit int) ([]any, error) {
	found := e.Selector.FindAll(scope, recursive, limit)
	out := make([]any, len(found))
	for i, el := range found {
		out[i] = el
	}
	return out, nil
}

func (e Elements) String() string {
	return e.Selector.String()
}

// Apply exposes an operation as a Searcher over the scope element itself.
// FindAll yields the single result.
type Apply struct {
	Operation Operation
}

func (a Apply) Find(scope dom.Element, _, _ bool) (any, error) {
	var arg any
	if scope != nil {
		arg = scope
	}
	return Run(a.Operation, arg)
}

func (a Apply) FindAll(scope dom.Element, _ bool, _ int) ([]any, error) {
	out, err := a.Find(scope, false, true)
	if err != nil {
		return nil, err
	}
	return []any{out}, nil
}

func (a Apply) String() string {
	return a.Operation.String()
}
