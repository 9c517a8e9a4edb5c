package dom

import "iter"

// Element is a handle to one element of a parsed tree.
//
// Implementations must be cheap to create: the same underlying node may be
// wrapped many times, and only Key decides whether two handles refer to the
// same node.
type Element interface {
	// Name returns the tag name, or "" for the document root.
	Name() string

	// Children yields direct child elements in document order.
	Children() iter.Seq[Element]

	// Descendants yields all descendant elements in document order.
	Descendants() iter.Seq[Element]

	// NextSiblings returns following sibling elements, at most limit of them
	// when limit > 0.
	NextSiblings(limit int) []Element

	// Ancestors returns enclosing elements innermost first, at most limit of
	// them when limit > 0. The document root is included.
	Ancestors(limit int) []Element

	// Parent returns the enclosing element or nil at the root.
	Parent() Element

	// Attribute returns the raw attribute value.
	Attribute(name string) (string, bool)

	// AttributeValues returns the attribute value split the way multi-valued
	// attributes (class, rel, ...) are split. Missing attributes yield nil.
	AttributeValues(name string) []string

	// Text concatenates descendant text joined by separator. With strip, each
	// text run is trimmed and empty runs are dropped.
	Text(separator string, strip bool) string

	// SoleText returns the text of the element when its content reduces to
	// exactly one text run through single-child nesting.
	SoleText() (string, bool)

	// Key returns the identity of the underlying node.
	Key() Key
}

// Key identifies a node by reference.
//
// The wrapped value must be a pointer (or another comparable handle) owned by
// the backing tree. Content never takes part in the comparison.
type Key struct {
	ref any
}

// NewKey wraps a node reference.
func NewKey(ref any) Key {
	return Key{ref: ref}
}

// Same reports whether both elements refer to the same node.
func Same(a, b Element) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}

// Collect drains an element sequence into a slice.
func Collect(seq iter.Seq[Element]) []Element {
	var out []Element
	for el := range seq {
		out = append(out, el)
	}
	return out
}
