package operation

import (
	"errors"
	"fmt"
	"reflect"
)

// IfElse picks one of two operations by testing the argument.
type IfElse struct {
	condition func(arg any) bool
	then      Operation
	otherwise Operation
}

// NewIfElse validates the branches.
func NewIfElse(condition func(arg any) bool, then, otherwise Operation) (*IfElse, error) {
	if condition == nil {
		return nil, fmt.Errorf("%w: nil condition", ErrInvalidOperation)
	}
	if isNil(then) || isNil(otherwise) {
		return nil, fmt.Errorf("%w: nil branch", ErrInvalidOperation)
	}
	return &IfElse{condition: condition, then: then, otherwise: otherwise}, nil
}

func (c *IfElse) Execute(arg any) (any, error) {
	branch := c.otherwise
	if c.condition(arg) {
		branch = c.then
	}
	out, err := branch.Execute(arg)
	if err != nil {
		return nil, failed(c, err)
	}
	return out, nil
}

// Equal requires the same condition function and equal branches.
func (c *IfElse) Equal(other Operation) bool {
	o, ok := other.(*IfElse)
	return ok &&
		sameFunc(c.condition, o.condition) &&
		c.then.Equal(o.then) &&
		c.otherwise.Equal(o.otherwise)
}

func (c *IfElse) String() string {
	return fmt.Sprintf("IfElse(%s, %s)", c.then, c.otherwise)
}

// Break runs its operation and then stops the enclosing pipeline, which
// returns the result as its own.
type Break struct {
	Operation Operation
}

func (b Break) Execute(arg any) (any, error) {
	out, err := b.Operation.Execute(arg)
	if err != nil {
		return nil, failed(b, err)
	}
	return nil, &breakSignal{value: out}
}

func (b Break) Equal(other Operation) bool {
	o, ok := other.(Break)
	return ok && b.Operation.Equal(o.Operation)
}

func (b Break) String() string {
	return fmt.Sprintf("Break(%s)", b.Operation)
}

// Continue passes its argument through unchanged.
type Continue struct{}

func (Continue) Execute(arg any) (any, error) {
	return arg, nil
}

func (Continue) Equal(other Operation) bool {
	_, ok := other.(Continue)
	return ok
}

func (Continue) String() string {
	return "Continue()"
}

// SkipNone passes nil through without running the wrapped operation.
type SkipNone struct {
	Operation Operation
}

func (s SkipNone) Execute(arg any) (any, error) {
	if isNil(arg) {
		return nil, nil
	}
	return s.Operation.Execute(arg)
}

func (s SkipNone) Equal(other Operation) bool {
	o, ok := other.(SkipNone)
	return ok && s.Operation.Equal(o.Operation)
}

func (s SkipNone) String() string {
	return fmt.Sprintf("SkipNone(%s)", s.Operation)
}

// Suppress turns failures of the wrapped operation into a nil result.
//
// With Targets set, only failures whose cause matches one of them through
// errors.Is are suppressed; other failures are returned.
type Suppress struct {
	Operation Operation
	Targets   []error
}

func (s Suppress) Execute(arg any) (any, error) {
	out, err := s.Operation.Execute(arg)
	if err == nil {
		return out, nil
	}
	var sig *breakSignal
	if errors.As(err, &sig) || !errors.Is(err, ErrOperationFailed) {
		return nil, err
	}
	if len(s.Targets) == 0 {
		return nil, nil
	}
	for _, target := range s.Targets {
		if errors.Is(err, target) {
			return nil, nil
		}
	}
	return nil, err
}

func (s Suppress) Equal(other Operation) bool {
	o, ok := other.(Suppress)
	if !ok || !s.Operation.Equal(o.Operation) || len(s.Targets) != len(o.Targets) {
		return false
	}
	for i := range s.Targets {
		if !errors.Is(s.Targets[i], o.Targets[i]) {
			return false
		}
	}
	return true
}

func (s Suppress) String() string {
	return fmt.Sprintf("Suppress(%s)", s.Operation)
}

// Default replaces a nil result of the wrapped operation with Value.
type Default struct {
	Operation Operation
	Value     any
}

func (d Default) Execute(arg any) (any, error) {
	out, err := d.Operation.Execute(arg)
	if err != nil {
		return nil, err
	}
	if isNil(out) {
		return d.Value, nil
	}
	return out, nil
}

func (d Default) Equal(other Operation) bool {
	o, ok := other.(Default)
	return ok && d.Operation.Equal(o.Operation) && reflect.DeepEqual(d.Value, o.Value)
}

func (d Default) String() string {
	return fmt.Sprintf("Default(%s, %v)", d.Operation, d.Value)
}

// Run executes op outside of a pipeline. A Break at the top level ends the
// run with its result instead of surfacing as an error.
func Run(op Operation, arg any) (any, error) {
	out, err := op.Execute(arg)
	if err != nil {
		var sig *breakSignal
		if errors.As(err, &sig) {
			return sig.value, nil
		}
		return nil, err
	}
	return out, nil
}
