package model

import (
	"fmt"

	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
	"github.com/sewcio543/soupsavvy-sub002/internal/operation"
)

// All makes Find return every match of the wrapped searcher as a []any.
type All struct {
	Searcher operation.Searcher
}

func (a All) Find(scope dom.Element, _, recursive bool) (any, error) {
	return a.Searcher.FindAll(scope, recursive, 0)
}

func (a All) FindAll(scope dom.Element, recursive bool, limit int) ([]any, error) {
	return a.Searcher.FindAll(scope, recursive, limit)
}

func (a All) String() string {
	return fmt.Sprintf("All(%s)", a.Searcher)
}

// Required fails with ErrRequiredConstraint when the wrapped searcher finds
// nothing.
type Required struct {
	Searcher operation.Searcher
}

func (r Required) Find(scope dom.Element, strict, recursive bool) (any, error) {
	out, err := r.Searcher.Find(scope, strict, recursive)
	if err != nil {
		return nil, err
	}
	if isNil(out) {
		return nil, fmt.Errorf("%w: %s", ErrRequiredConstraint, r.Searcher)
	}
	return out, nil
}

func (r Required) FindAll(scope dom.Element, recursive bool, limit int) ([]any, error) {
	return r.Searcher.FindAll(scope, recursive, limit)
}

func (r Required) String() string {
	return fmt.Sprintf("Required(%s)", r.Searcher)
}

// Default substitutes Value when the wrapped searcher finds nothing.
type Default struct {
	Searcher operation.Searcher
	Value    any
}

func (d Default) Find(scope dom.Element, strict, recursive bool) (any, error) {
	out, err := d.Searcher.Find(scope, strict, recursive)
	if err != nil {
		return nil, err
	}
	if isNil(out) {
		return d.Value, nil
	}
	return out, nil
}

func (d Default) FindAll(scope dom.Element, recursive bool, limit int) ([]any, error) {
	return d.Searcher.FindAll(scope, recursive, limit)
}

func (d Default) String() string {
	return fmt.Sprintf("Default(%s, default=%v)", d.Searcher, d.Value)
}
