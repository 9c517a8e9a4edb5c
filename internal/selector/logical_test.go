package selector

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorList(t *testing.T) {
	root := body(t)

	s, err := NewSelectorList(tag("span"), NewClassSelector(Exact("x")))
	require.NoError(t, err)

	// document order, not selector order
	assert.Equal(t, []string{"1", "2", "4"}, labels(s.FindAll(root, true, 0)))
	assert.Equal(t, []string{"1", "2"}, labels(s.FindAll(root, true, 2)))
	assert.Empty(t, s.FindAll(root, false, 0))
}

func TestSelectorListDeduplicates(t *testing.T) {
	root := body(t)

	s, err := NewSelectorList(tag("p"), tag("p"), NewClassSelector(Exact("x")))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "4", "#c"}, labels(s.FindAll(root, true, 0)))
}

func TestSelectorListKeepsIdenticalContent(t *testing.T) {
	root := parse(t, `<div><p>same</p><p>same</p></div>`)

	s, err := NewSelectorList(tag("p"), NewPatternSelector(Exact("same")))
	require.NoError(t, err)
	assert.Len(t, s.FindAll(root, true, 0), 2)
}

func TestAndSelector(t *testing.T) {
	root := body(t)

	s, err := NewAndSelector(tag("p"), NewClassSelector(Exact("x")))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, labels(s.FindAll(root, true, 0)))

	none, err := NewAndSelector(tag("p"), tag("span"))
	require.NoError(t, err)
	assert.Empty(t, none.FindAll(root, true, 0))
}

func TestAndSelectorFirstOperandOrder(t *testing.T) {
	root := body(t)
	ps := tag("p").FindAll(root, true, 0)
	reversed := slices.Clone(ps)
	slices.Reverse(reversed)

	s, err := NewAndSelector(&fixed{name: "rev", elements: reversed}, tag("p"))
	require.NoError(t, err)
	assert.Equal(t, []string{"#c", "4", "3", "1"}, labels(s.FindAll(root, true, 0)))

	s, err = NewAndSelector(tag("p"), &fixed{name: "rev", elements: reversed})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "4", "#c"}, labels(s.FindAll(root, true, 0)))
}

func TestNotSelector(t *testing.T) {
	doc := parse(t, fixture)
	divA := byLabel(t, doc, "#a")

	single, err := NewNotSelector(tag("p"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "#b"}, labels(single.FindAll(divA, false, 0)))
	assert.Equal(t, []string{"2", "#b", "5"}, labels(single.FindAll(divA, true, 0)))

	multi, err := NewNotSelector(tag("p"), tag("span"))
	require.NoError(t, err)
	assert.Equal(t, []string{"#b", "5"}, labels(multi.FindAll(divA, true, 0)))
	assert.Equal(t, []string{"#b"}, labels(multi.FindAll(divA, true, 1)))
}

func TestNotSelectorInvert(t *testing.T) {
	p, span := tag("p"), tag("span")

	single, err := NewNotSelector(p)
	require.NoError(t, err)
	assert.True(t, single.Invert().Equal(p))

	inverted, err := Invert(single)
	require.NoError(t, err)
	assert.Same(t, p, inverted)

	multi, err := NewNotSelector(p, span)
	require.NoError(t, err)
	list, err := NewSelectorList(p, span)
	require.NoError(t, err)
	assert.True(t, multi.Invert().Equal(list))

	negated, err := Invert(p)
	require.NoError(t, err)
	assert.True(t, negated.Equal(single))

	double, err := Invert(negated)
	require.NoError(t, err)
	assert.True(t, double.Equal(p))
}

func TestXORSelector(t *testing.T) {
	root := body(t)

	t.Run("disjoint operands give the union", func(t *testing.T) {
		s, err := NewXORSelector(tag("span"), tag("a"))
		require.NoError(t, err)
		assert.Equal(t, []string{"2", "5"}, labels(s.FindAll(root, true, 0)))
	})

	t.Run("shared matches are excluded", func(t *testing.T) {
		s, err := NewXORSelector(tag("p"), NewClassSelector(Exact("x")))
		require.NoError(t, err)
		assert.Equal(t, []string{"3", "#c"}, labels(s.FindAll(root, true, 0)))
	})

	t.Run("exactly one of many", func(t *testing.T) {
		// "1" is matched by all three; pairwise chaining would keep it
		s, err := NewXORSelector(tag("p"), NewClassSelector(Exact("x")), NewPatternSelector(Exact("1")))
		require.NoError(t, err)
		got := labels(s.FindAll(root, true, 0))
		assert.Equal(t, []string{"3", "#c"}, got)
		assert.NotContains(t, got, "1")
	})

	t.Run("duplicates within one operand count once", func(t *testing.T) {
		ps := tag("p").FindAll(root, true, 0)
		dup := &fixed{name: "dup", elements: append(slices.Clone(ps), ps...)}
		s, err := NewXORSelector(dup, tag("span"))
		require.NoError(t, err)
		assert.Equal(t, []string{"1", "2", "3", "4", "#c"}, labels(s.FindAll(root, true, 0)))
	})
}

func TestCompositeEquality(t *testing.T) {
	p, span, a := tag("p"), tag("span"), tag("a")

	list := func(s ...Selector) Selector {
		return Must(NewSelectorList(s[0], s[1], s[2:]...))
	}
	and := func(s ...Selector) Selector {
		return Must(NewAndSelector(s[0], s[1], s[2:]...))
	}
	xor := func(s ...Selector) Selector {
		return Must(NewXORSelector(s[0], s[1], s[2:]...))
	}
	not := func(s ...Selector) Selector {
		return Must(NewNotSelector(s[0], s[1:]...))
	}

	tests := []struct {
		name  string
		a, b  Selector
		equal bool
	}{
		{"list reordered", list(p, span), list(span, tag("p")), true},
		{"list different child", list(p, span), list(p, a), false},
		{"list repeated child covers", list(p, p, span), list(p, span), true},
		{"list extra child", list(p, span), list(p, span, a), false},
		{"and reordered", and(p, span), and(span, p), true},
		{"xor reordered", xor(p, span, a), xor(a, p, span), true},
		{"not reordered", not(p, span), not(span, p), true},
		{"not single vs multi", not(p), not(p, span), false},
		{"and vs list", and(p, span), list(p, span), false},
		{"list vs leaf", list(p, span), p, false},
		{"nested", list(and(p, span), a), list(a, and(span, p)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
			assert.Equal(t, tt.equal, tt.b.Equal(tt.a))
		})
	}
}

func TestCompositeString(t *testing.T) {
	s := Must(NewSelectorList(tag("p"), tag("span")))
	assert.Equal(t, "SelectorList(TypeSelector(p), TypeSelector(span))", s.String())
}
