package operation

import (
	"fmt"
	"time"

	"github.com/dop251/goja"

	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
)

// DefaultScriptTimeout bounds a single script evaluation.
const DefaultScriptTimeout = time.Second

// Script evaluates a JavaScript program over the input, which is bound to
// `value`. The completion value of the program is the result; undefined and
// null become nil.
//
// Elements are exposed as {name, text} with an attr(name) helper, anything
// else is passed through as is.
type Script struct {
	source  string
	program *goja.Program
	timeout time.Duration
}

// NewScript compiles source in strict mode. A non-positive timeout selects
// DefaultScriptTimeout.
func NewScript(source string, timeout time.Duration) (*Script, error) {
	program, err := goja.Compile("script", source, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOperation, err)
	}
	if timeout <= 0 {
		timeout = DefaultScriptTimeout
	}
	return &Script{source: source, program: program, timeout: timeout}, nil
}

func (s *Script) Execute(arg any) (any, error) {
	// goja runtimes are not safe for concurrent use; programs are.
	vm := goja.New()
	for _, name := range []string{"require", "process", "module", "exports"} {
		if err := vm.Set(name, goja.Undefined()); err != nil {
			return nil, failed(s, err)
		}
	}
	if err := s.bind(vm, arg); err != nil {
		return nil, failed(s, err)
	}

	timer := time.AfterFunc(s.timeout, func() {
		vm.Interrupt("execution timeout exceeded")
	})
	defer timer.Stop()

	val, err := vm.RunProgram(s.program)
	if err != nil {
		return nil, failed(s, err)
	}
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil, nil
	}
	return val.Export(), nil
}

func (s *Script) bind(vm *goja.Runtime, arg any) error {
	if isNil(arg) {
		return vm.Set("value", nil)
	}
	el, ok := arg.(dom.Element)
	if !ok {
		return vm.Set("value", arg)
	}

	if err := vm.Set("value", map[string]any{
		"name": el.Name(),
		"text": el.Text(" ", true),
	}); err != nil {
		return err
	}
	return vm.Set("attr", func(name string) any {
		if v, ok := el.Attribute(name); ok {
			return v
		}
		return nil
	})
}

func (s *Script) Equal(other Operation) bool {
	o, ok := other.(*Script)
	return ok && o.source == s.source && o.timeout == s.timeout
}

func (s *Script) String() string {
	return fmt.Sprintf("Script(%q)", s.source)
}
