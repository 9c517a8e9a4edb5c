package selector

import (
	"fmt"

	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
	"github.com/sewcio543/soupsavvy-sub002/internal/walker"
)

// TypeSelector matches elements by tag name.
type TypeSelector struct {
	name string
}

// NewTypeSelector returns a selector for tag name.
func NewTypeSelector(name string) *TypeSelector {
	return &TypeSelector{name: name}
}

// Name returns the tag name.
func (s *TypeSelector) Name() string { return s.name }

// FindAll returns elements with the tag name, in document order.
func (s *TypeSelector) FindAll(scope dom.Element, recursive bool, limit int) []dom.Element {
	return walker.New(scope, recursive).Filter(func(el dom.Element) bool {
		return el.Name() == s.name
	}, limit)
}

// Equal reports whether other selects the same tag name.
func (s *TypeSelector) Equal(other Selector) bool {
	o, ok := other.(*TypeSelector)
	return ok && o.name == s.name
}

func (s *TypeSelector) String() string {
	return fmt.Sprintf("TypeSelector(%s)", s.name)
}

// CSS returns the equivalent CSS selector.
func (s *TypeSelector) CSS() string { return s.name }

// UniversalSelector matches every element.
type UniversalSelector struct{}

// NewUniversalSelector returns a selector matching any element.
func NewUniversalSelector() *UniversalSelector {
	return &UniversalSelector{}
}

// FindAll returns every element of the walk.
func (s *UniversalSelector) FindAll(scope dom.Element, recursive bool, limit int) []dom.Element {
	return walker.New(scope, recursive).Filter(func(dom.Element) bool { return true }, limit)
}

// Equal reports whether other is a UniversalSelector.
func (s *UniversalSelector) Equal(other Selector) bool {
	_, ok := other.(*UniversalSelector)
	return ok
}

func (s *UniversalSelector) String() string { return "UniversalSelector()" }

// CSS returns the wildcard selector.
func (s *UniversalSelector) CSS() string { return "*" }

// PatternSelector matches elements whose only text content satisfies a
// pattern. Text counts as the element's only content when it is the single
// child of the element, possibly through a chain of single-child elements.
type PatternSelector struct {
	pattern Pattern
}

// NewPatternSelector returns a selector over element text.
func NewPatternSelector(p Pattern) *PatternSelector {
	return &PatternSelector{pattern: p}
}

// FindAll returns elements whose sole text the pattern accepts.
func (s *PatternSelector) FindAll(scope dom.Element, recursive bool, limit int) []dom.Element {
	return walker.New(scope, recursive).Filter(func(el dom.Element) bool {
		text, ok := el.SoleText()
		return ok && s.pattern.Match(text)
	}, limit)
}

// Equal reports whether other uses an equal pattern.
func (s *PatternSelector) Equal(other Selector) bool {
	o, ok := other.(*PatternSelector)
	return ok && o.pattern.Equal(s.pattern)
}

func (s *PatternSelector) String() string {
	return fmt.Sprintf("PatternSelector(%s)", s.pattern)
}
