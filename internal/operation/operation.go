package operation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
)

var (
	// ErrOperationFailed wraps every failure raised while executing an operation.
	ErrOperationFailed = errors.New("operation failed")

	// ErrInvalidOperation is returned when an operation is built from invalid parts.
	ErrInvalidOperation = errors.New("invalid operation")
)

// Operation transforms one value into another.
//
// Operations are the second half of an extraction: selectors locate
// elements, operations turn them into values.
type Operation interface {
	Execute(arg any) (any, error)
	Equal(other Operation) bool
	String() string
}

// breakSignal carries the result of a Break out of the enclosing pipeline.
type breakSignal struct {
	value any
}

func (b *breakSignal) Error() string {
	return "pipeline break"
}

// failed wraps err as an operation failure attributed to op. Break signals
// and errors that already carry ErrOperationFailed pass through unchanged.
func failed(op Operation, err error) error {
	var sig *breakSignal
	if errors.As(err, &sig) || errors.Is(err, ErrOperationFailed) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrOperationFailed, op, err)
}

// element asserts that arg is a non-nil element.
func element(arg any) (dom.Element, error) {
	el, ok := arg.(dom.Element)
	if !ok || isNil(el) {
		return nil, fmt.Errorf("expected element, got %T", arg)
	}
	return el, nil
}

// text asserts that arg is a string.
func text(arg any) (string, error) {
	s, ok := arg.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", arg)
	}
	return s, nil
}

// isNil catches nil interfaces and typed nil pointers.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// sameFunc reports whether two function values point at the same code.
// Closures created from one literal compare equal.
func sameFunc(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// Func adapts a plain function into an Operation.
type Func struct {
	Name string
	Fn   func(arg any) (any, error)
}

// NewFunc wraps fn under name.
func NewFunc(name string, fn func(arg any) (any, error)) (*Func, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil function", ErrInvalidOperation)
	}
	return &Func{Name: name, Fn: fn}, nil
}

// Execute runs the wrapped function.
func (f *Func) Execute(arg any) (any, error) {
	out, err := f.Fn(arg)
	if err != nil {
		return nil, failed(f, err)
	}
	return out, nil
}

// Equal compares by function identity.
func (f *Func) Equal(other Operation) bool {
	o, ok := other.(*Func)
	return ok && sameFunc(f.Fn, o.Fn)
}

func (f *Func) String() string {
	if f.Name == "" {
		return "Operation(func)"
	}
	return fmt.Sprintf("Operation(%s)", f.Name)
}

// Pipeline runs operations in sequence, feeding each result to the next.
type Pipeline struct {
	ops []Operation
}

// NewPipeline builds a pipeline of at least two operations.
func NewPipeline(first, second Operation, more ...Operation) (*Pipeline, error) {
	ops := append([]Operation{first, second}, more...)
	for i, op := range ops {
		if isNil(op) {
			return nil, fmt.Errorf("%w: pipeline argument %d is nil", ErrInvalidOperation, i)
		}
	}
	return &Pipeline{ops: ops}, nil
}

// Then chains ops after current. A pipeline on the left is extended rather
// than nested, so Then(Then(a, b), c) holds three steps.
func Then(current Operation, ops ...Operation) (*Pipeline, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: nothing to chain", ErrInvalidOperation)
	}
	if p, ok := current.(*Pipeline); ok && p != nil {
		return NewPipeline(p.ops[0], p.ops[1], append(p.ops[2:len(p.ops):len(p.ops)], ops...)...)
	}
	return NewPipeline(current, ops[0], ops[1:]...)
}

// Operations returns a copy of the steps.
func (p *Pipeline) Operations() []Operation {
	return append([]Operation(nil), p.ops...)
}

// Execute runs every step in order. A Break step ends the run early with its
// result.
func (p *Pipeline) Execute(arg any) (any, error) {
	value := arg
	for _, op := range p.ops {
		out, err := op.Execute(value)
		if err != nil {
			var sig *breakSignal
			if errors.As(err, &sig) {
				return sig.value, nil
			}
			return nil, failed(p, err)
		}
		value = out
	}
	return value, nil
}

// Equal compares steps positionally.
func (p *Pipeline) Equal(other Operation) bool {
	o, ok := other.(*Pipeline)
	if !ok || len(o.ops) != len(p.ops) {
		return false
	}
	for i := range p.ops {
		if !p.ops[i].Equal(o.ops[i]) {
			return false
		}
	}
	return true
}

func (p *Pipeline) String() string {
	parts := make([]string, len(p.ops))
	for i, op := range p.ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, " | ")
}
