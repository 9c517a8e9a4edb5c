// Package walker produces document-order element sequences below a start
// element.
package walker

import (
	"iter"

	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
)

// Walker iterates over the descendants or children of Root.
//
// A Walker is a value: ranging over All twice yields the same sequence, which
// lets combinators traverse one scope several times.
type Walker struct {
	Root        dom.Element
	Recursive   bool
	IncludeSelf bool
}

// New returns a walker over descendants (recursive) or children of root.
func New(root dom.Element, recursive bool) Walker {
	return Walker{Root: root, Recursive: recursive}
}

// WithSelf returns a copy of w that yields Root first.
func (w Walker) WithSelf() Walker {
	w.IncludeSelf = true
	return w
}

// All yields elements lazily. Nil entries produced by the adapter are skipped.
func (w Walker) All() iter.Seq[dom.Element] {
	return func(yield func(dom.Element) bool) {
		if w.Root == nil {
			return
		}
		if w.IncludeSelf && !yield(w.Root) {
			return
		}

		var seq iter.Seq[dom.Element]
		if w.Recursive {
			seq = w.Root.Descendants()
		} else {
			seq = w.Root.Children()
		}

		for el := range seq {
			if el == nil {
				continue
			}
			if !yield(el) {
				return
			}
		}
	}
}

// Collect returns every element of the walk.
func (w Walker) Collect() []dom.Element {
	return dom.Collect(w.All())
}

// Filter returns up to limit elements (all when limit <= 0) accepted by match.
func (w Walker) Filter(match func(dom.Element) bool, limit int) []dom.Element {
	var out []dom.Element
	for el := range w.All() {
		if !match(el) {
			continue
		}
		out = append(out, el)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
