package selector

import (
	"testing"

	"github.com/sewcio543/soupsavvy-sub002/internal/walker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	root := body(t)

	found, err := Find(tag("p"), root, false, true)
	require.NoError(t, err)
	assert.Equal(t, "1", labelOf(found))

	found, err = Find(tag("p"), root, true, false)
	require.NoError(t, err)
	assert.Equal(t, "#c", labelOf(found))

	found, err = Find(tag("table"), root, false, true)
	assert.NoError(t, err)
	assert.Nil(t, found)

	_, err = Find(tag("table"), root, true, true)
	assert.ErrorIs(t, err, ErrElementNotFound)
}

func TestMust(t *testing.T) {
	assert.Panics(t, func() { Must(NewAndSelector(tag("p"), nil)) })
	assert.NotPanics(t, func() { Must(NewAndSelector(tag("p"), tag("a"))) })
}

func TestCompositeValidation(t *testing.T) {
	var typedNil *AttributeSelector

	_, err := NewSelectorList(tag("p"), nil)
	assert.ErrorIs(t, err, ErrInvalidSelector)

	_, err = NewAndSelector(tag("p"), typedNil)
	assert.ErrorIs(t, err, ErrInvalidSelector)

	_, err = NewXORSelector(tag("p"), tag("a"), nil)
	assert.ErrorIs(t, err, ErrInvalidSelector)

	_, err = NewNotSelector(nil)
	assert.ErrorIs(t, err, ErrInvalidSelector)

	_, err = Has(tag("p"), nil)
	assert.ErrorIs(t, err, ErrInvalidSelector)

	_, err = Invert(nil)
	assert.ErrorIs(t, err, ErrInvalidSelector)
}

// allSelectors covers every selector kind over the shared fixture.
func allSelectors(t *testing.T) map[string]Selector {
	t.Helper()
	p, div, span, a := tag("p"), tag("div"), tag("span"), tag("a")
	x := NewClassSelector(Exact("x"))

	return map[string]Selector{
		"type":        p,
		"universal":   NewUniversalSelector(),
		"attribute":   x,
		"pattern":     NewPatternSelector(Exact("3")),
		"css":         Must(NewCSS("div p")),
		"xpath":       Must(NewXPath("//p | //a")),
		"list":        Must(Or(a, p)),
		"and":         Must(And(p, x)),
		"not":         Must(Not(p)),
		"xor":         Must(Xor(p, x)),
		"child":       Must(Child(div, p)),
		"descendant":  Must(Descendant(div, p)),
		"next":        Must(NextSibling(p, span)),
		"subsequent":  Must(SubsequentSibling(p, div)),
		"parent":      Must(Parent(p, div)),
		"ancestor":    Must(Ancestor(a, div)),
		"has":         Must(Has(Must(Anchor.Child(a)))),
		"nth":         Must(NewNthOf(p, "odd")),
		"nth last":    Must(NewNthLastOf(p, "odd")),
		"only":        Must(NewOnlyOf(span)),
		"nested list": Must(Or(Must(Not(p)), Must(Child(div, a)))),
	}
}

func TestFindAllDeterministicAndOrdered(t *testing.T) {
	root := body(t)

	for name, s := range allSelectors(t) {
		for _, recursive := range []bool{true, false} {
			t.Run(name, func(t *testing.T) {
				first := s.FindAll(root, recursive, 0)
				second := s.FindAll(root, recursive, 0)
				assert.Equal(t, labels(first), labels(second))

				// downward and sideways chains always order against the subtree
				ordered := recursive
				if c, ok := s.(*Combinator); ok && !c.Relation().upward() {
					ordered = true
				}
				walk := walker.New(root, ordered).Collect()
				assert.True(t, isSubsequence(first, walk), "%s not in document order: %v", s, labels(first))

				seen := make(map[any]bool)
				for _, el := range first {
					assert.False(t, seen[el.Key()], "duplicate %s", labelOf(el))
					seen[el.Key()] = true
				}

				if len(first) > 1 {
					limited := s.FindAll(root, recursive, 1)
					require.Len(t, limited, 1)
					assert.Equal(t, first[0].Key(), limited[0].Key())
				}
			})
		}
	}
}

func TestFindAllNilScope(t *testing.T) {
	for name, s := range allSelectors(t) {
		t.Run(name, func(t *testing.T) {
			assert.Empty(t, s.FindAll(nil, true, 0))
		})
	}
}

func TestSelectorsEqualThemselves(t *testing.T) {
	for name, s := range allSelectors(t) {
		t.Run(name, func(t *testing.T) {
			assert.True(t, s.Equal(s))
			assert.NotEmpty(t, s.String())
		})
	}
}

func TestBuildersFlattenSameKind(t *testing.T) {
	p, span, a := tag("p"), tag("span"), tag("a")

	tests := []struct {
		name string
		got  Composite
		kind Kind
		size int
	}{
		{"or", Must(Or(Must(Or(p, span)), a)), KindList, 3},
		{"and", Must(And(Must(And(p, span)), a)), KindAnd, 3},
		{"xor", Must(Xor(Must(Xor(p, span)), a)), KindXor, 3},
		{"descendant", Must(Descendant(Must(Descendant(p, span)), a)), KindDescendant, 3},
		{"next sibling", Must(NextSibling(Must(NextSibling(p, span)), a)), KindNextSibling, 3},
		{"subsequent", Must(SubsequentSibling(Must(SubsequentSibling(p, span)), a)), KindSubsequentSibling, 3},
		{"parent", Must(Parent(Must(Parent(p, span)), a)), KindParent, 3},
		{"ancestor", Must(Ancestor(Must(Ancestor(p, span)), a)), KindAncestor, 3},
		{"different kinds nest", Must(Or(Must(And(p, span)), a)), KindList, 2},
		{"right operand never flattens", Must(Or(a, Must(Or(p, span)))), KindList, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.got.Kind())
			assert.Len(t, tt.got.Selectors(), tt.size)
		})
	}
}

func TestBuildersDoNotShareChildren(t *testing.T) {
	base := Must(Or(tag("p"), tag("span")))
	extended := Must(Or(base, tag("a")))

	assert.Len(t, base.Selectors(), 2)
	assert.Len(t, extended.Selectors(), 3)

	children := base.Selectors()
	children[0] = tag("div")
	assert.True(t, base.Selectors()[0].Equal(tag("p")))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindSimple, KindOf(tag("p")))
	assert.Equal(t, KindNot, KindOf(Must(Not(tag("p")))))
	assert.Equal(t, KindAncestor, KindOf(Must(Ancestor(tag("p"), tag("div")))))
	assert.Equal(t, "XORSelector", KindXor.String())
}
