package selector

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
	"github.com/sewcio543/soupsavvy-sub002/internal/walker"
	"github.com/stretchr/testify/require"
)

// fixture renders as (labels in brackets):
//
//	body
//	  div#a.box            [#a]
//	    p.x       "1"      [1]
//	    span      "2"      [2]
//	    p         "3"      [3]
//	    div#b              [#b]
//	      p.x.y   "4"      [4]
//	      a       "5"      [5]
//	  p#c         "6"      [#c]
const fixture = `<html><head></head><body>
<div id="a" class="box">
	<p class="x">1</p>
	<span>2</span>
	<p>3</p>
	<div id="b">
		<p class="x y">4</p>
		<a href="/link">5</a>
	</div>
</div>
<p id="c">6</p>
</body></html>`

func parse(t *testing.T, markup string) dom.Element {
	t.Helper()
	doc, err := dom.ParseString(markup)
	require.NoError(t, err)
	return doc.Root()
}

// byLabel finds the first element labelled label below root.
func byLabel(t *testing.T, root dom.Element, label string) dom.Element {
	t.Helper()
	for el := range walker.New(root, true).WithSelf().All() {
		if labelOf(el) == label {
			return el
		}
	}
	t.Fatalf("no element labelled %q", label)
	return nil
}

func body(t *testing.T) dom.Element {
	t.Helper()
	return byLabel(t, parse(t, fixture), "body")
}

// labelOf prefers the id, then the sole text, then the tag name.
func labelOf(el dom.Element) string {
	if id, ok := el.Attribute("id"); ok {
		return "#" + id
	}
	if text, ok := el.SoleText(); ok {
		return strings.TrimSpace(text)
	}
	return el.Name()
}

func labels(elements []dom.Element) []string {
	out := make([]string, 0, len(elements))
	for _, el := range elements {
		out = append(out, labelOf(el))
	}
	return out
}

// fixed returns a preset list regardless of scope.
type fixed struct {
	name     string
	elements []dom.Element
}

func (f *fixed) FindAll(_ dom.Element, _ bool, limit int) []dom.Element {
	out := slices.Clone(f.elements)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fixed) Equal(other Selector) bool {
	o, ok := other.(*fixed)
	return ok && o.name == f.name
}

func (f *fixed) String() string { return fmt.Sprintf("fixed(%s)", f.name) }

// probe counts FindAll calls on the wrapped selector.
type probe struct {
	Selector
	calls int
}

func (p *probe) FindAll(scope dom.Element, recursive bool, limit int) []dom.Element {
	p.calls++
	return p.Selector.FindAll(scope, recursive, limit)
}

// isSubsequence reports whether got appears in want's order, by identity.
func isSubsequence(got, want []dom.Element) bool {
	i := 0
	for _, el := range want {
		if i < len(got) && dom.Same(got[i], el) {
			i++
		}
	}
	return i == len(got)
}

func tag(name string) *TypeSelector { return NewTypeSelector(name) }
