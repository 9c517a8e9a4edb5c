package selector

import (
	"fmt"
	"strings"

	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
	"github.com/sewcio543/soupsavvy-sub002/internal/walker"
)

// AttributeSelector matches elements carrying an attribute whose value
// satisfies a pattern. For multi-valued attributes such as class, either a
// single value or the whole attribute string may satisfy it. The zero pattern
// only requires the attribute to be present.
type AttributeSelector struct {
	name  string
	value Pattern
}

// NewAttributeSelector returns a selector for attribute name.
func NewAttributeSelector(name string, value Pattern) *AttributeSelector {
	return &AttributeSelector{name: name, value: value}
}

// NewIdSelector matches the id attribute.
func NewIdSelector(value Pattern) *AttributeSelector {
	return NewAttributeSelector("id", value)
}

// NewClassSelector matches the class attribute.
func NewClassSelector(value Pattern) *AttributeSelector {
	return NewAttributeSelector("class", value)
}

func (s *AttributeSelector) matches(el dom.Element) bool {
	raw, ok := el.Attribute(s.name)
	if !ok {
		return false
	}
	if s.value.IsAny() || s.value.Match(raw) {
		return true
	}
	values := el.AttributeValues(s.name)
	if len(values) < 2 {
		return false
	}
	for _, v := range values {
		if s.value.Match(v) {
			return true
		}
	}
	return s.value.Match(strings.Join(values, " "))
}

// FindAll returns elements carrying the attribute with a value the pattern
// accepts, in document order.
func (s *AttributeSelector) FindAll(scope dom.Element, recursive bool, limit int) []dom.Element {
	return walker.New(scope, recursive).Filter(s.matches, limit)
}

// Equal reports whether other tests the same attribute with an equal pattern.
func (s *AttributeSelector) Equal(other Selector) bool {
	o, ok := other.(*AttributeSelector)
	return ok && o.name == s.name && o.value.Equal(s.value)
}

func (s *AttributeSelector) String() string {
	return fmt.Sprintf("AttributeSelector(%s=%s)", s.name, s.value)
}
