package operation

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
)

// Text extracts the text content of an element.
type Text struct {
	Separator string
	Strip     bool
}

func (t Text) Execute(arg any) (any, error) {
	el, err := element(arg)
	if err != nil {
		return nil, failed(t, err)
	}
	return el.Text(t.Separator, t.Strip), nil
}

func (t Text) Equal(other Operation) bool {
	o, ok := other.(Text)
	return ok && o == t
}

func (t Text) String() string {
	return fmt.Sprintf("Text(separator=%s, strip=%t)", strconv.Quote(t.Separator), t.Strip)
}

// Attribute reads a raw attribute value. A missing attribute yields Default.
type Attribute struct {
	Name    string
	Default any
}

func (a Attribute) Execute(arg any) (any, error) {
	el, err := element(arg)
	if err != nil {
		return nil, failed(a, err)
	}
	if v, ok := el.Attribute(a.Name); ok {
		return v, nil
	}
	return a.Default, nil
}

func (a Attribute) Equal(other Operation) bool {
	o, ok := other.(Attribute)
	return ok && o.Name == a.Name && reflect.DeepEqual(o.Default, a.Default)
}

func (a Attribute) String() string {
	return fmt.Sprintf("Attribute(%s)", a.Name)
}

// Href reads the href attribute, or nil when it is missing.
type Href struct{}

func (h Href) Execute(arg any) (any, error) {
	el, err := element(arg)
	if err != nil {
		return nil, failed(h, err)
	}
	if v, ok := el.Attribute("href"); ok {
		return v, nil
	}
	return nil, nil
}

func (Href) Equal(other Operation) bool {
	_, ok := other.(Href)
	return ok
}

func (Href) String() string {
	return "Href()"
}

// Parent steps to the enclosing element. The result is nil at the root.
type Parent struct{}

func (p Parent) Execute(arg any) (any, error) {
	el, err := element(arg)
	if err != nil {
		return nil, failed(p, err)
	}
	parent := el.Parent()
	if parent == nil {
		return nil, nil
	}
	return parent, nil
}

func (Parent) Equal(other Operation) bool {
	_, ok := other.(Parent)
	return ok
}

func (Parent) String() string {
	return "Parent()"
}

// OuterHTML renders an element with its own tag.
type OuterHTML struct{}

func (o OuterHTML) Execute(arg any) (any, error) {
	el, err := element(arg)
	if err != nil {
		return nil, failed(o, err)
	}
	out, err := dom.OuterHTML(el)
	if err != nil {
		return nil, failed(o, err)
	}
	return out, nil
}

func (OuterHTML) Equal(other Operation) bool {
	_, ok := other.(OuterHTML)
	return ok
}

func (OuterHTML) String() string {
	return "OuterHTML()"
}

// InnerHTML renders the children of an element without its own tag.
type InnerHTML struct{}

func (o InnerHTML) Execute(arg any) (any, error) {
	el, err := element(arg)
	if err != nil {
		return nil, failed(o, err)
	}
	out, err := dom.InnerHTML(el)
	if err != nil {
		return nil, failed(o, err)
	}
	return out, nil
}

func (InnerHTML) Equal(other Operation) bool {
	_, ok := other.(InnerHTML)
	return ok
}

func (InnerHTML) String() string {
	return "InnerHTML()"
}

// Sanitize cleans markup through a bluemonday policy. Elements are rendered
// first; strings are sanitized as they are.
//
// The default policy keeps user-generated-content markup. With Strict every
// tag is removed and only text survives.
type Sanitize struct {
	Strict bool
}

func (s Sanitize) policy() *bluemonday.Policy {
	if s.Strict {
		return bluemonday.StrictPolicy()
	}
	return bluemonday.UGCPolicy()
}

func (s Sanitize) Execute(arg any) (any, error) {
	markup, ok := arg.(string)
	if !ok {
		el, err := element(arg)
		if err != nil {
			return nil, failed(s, fmt.Errorf("expected element or string, got %T", arg))
		}
		if markup, err = dom.OuterHTML(el); err != nil {
			return nil, failed(s, err)
		}
	}
	return s.policy().Sanitize(markup), nil
}

func (s Sanitize) Equal(other Operation) bool {
	o, ok := other.(Sanitize)
	return ok && o == s
}

func (s Sanitize) String() string {
	return fmt.Sprintf("Sanitize(strict=%t)", s.Strict)
}
