package operation

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
	"github.com/sewcio543/soupsavvy-sub002/internal/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<div class="item"><h2> First </h2><a href="/one">one</a><span class="price"> 12 </span></div>
<div class="item"><h2>Second <b>bold</b></h2><a>two</a><span class="price">n/a</span></div>
<div class="note"><p>hello<script>alert(1)</script></p></div>
</body></html>`

func body(t *testing.T) dom.Element {
	t.Helper()
	doc, err := dom.ParseString(page)
	require.NoError(t, err)
	return first(t, doc.Root(), "body")
}

func first(t *testing.T, scope dom.Element, name string) dom.Element {
	t.Helper()
	found, err := selector.Find(selector.NewTypeSelector(name), scope, true, true)
	require.NoError(t, err)
	return found
}

func upper() *Func {
	fn, _ := NewFunc("upper", func(arg any) (any, error) {
		s, err := text(arg)
		if err != nil {
			return nil, err
		}
		return strings.ToUpper(s), nil
	})
	return fn
}

func TestText(t *testing.T) {
	h2 := first(t, body(t), "h2")

	out, err := Text{}.Execute(h2)
	require.NoError(t, err)
	assert.Equal(t, " First ", out)

	out, err = Text{Strip: true}.Execute(h2)
	require.NoError(t, err)
	assert.Equal(t, "First", out)

	second := selector.NewTypeSelector("h2").FindAll(body(t), true, 0)[1]
	out, err = Text{Separator: "|", Strip: true}.Execute(second)
	require.NoError(t, err)
	assert.Equal(t, "Second|bold", out)
}

func TestElementOperationsRejectNonElements(t *testing.T) {
	ops := []Operation{Text{}, Href{}, Attribute{Name: "id"}, Parent{}, OuterHTML{}, InnerHTML{}}
	for _, op := range ops {
		t.Run(op.String(), func(t *testing.T) {
			_, err := op.Execute("text")
			assert.ErrorIs(t, err, ErrOperationFailed)

			_, err = op.Execute(nil)
			assert.ErrorIs(t, err, ErrOperationFailed)

			var typedNil *dom.Node
			_, err = op.Execute(typedNil)
			assert.ErrorIs(t, err, ErrOperationFailed)
		})
	}
}

func TestAttributes(t *testing.T) {
	links := selector.NewTypeSelector("a").FindAll(body(t), true, 0)
	require.Len(t, links, 2)

	out, err := Href{}.Execute(links[0])
	require.NoError(t, err)
	assert.Equal(t, "/one", out)

	out, err = Href{}.Execute(links[1])
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = Attribute{Name: "href", Default: "#"}.Execute(links[1])
	require.NoError(t, err)
	assert.Equal(t, "#", out)
}

func TestParent(t *testing.T) {
	h2 := first(t, body(t), "h2")

	out, err := Parent{}.Execute(h2)
	require.NoError(t, err)
	el, ok := out.(dom.Element)
	require.True(t, ok)
	assert.Equal(t, "div", el.Name())

	doc, err := dom.ParseString(page)
	require.NoError(t, err)
	out, err = Parent{}.Execute(doc.Root())
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestOuterHTML(t *testing.T) {
	out, err := OuterHTML{}.Execute(first(t, body(t), "a"))
	require.NoError(t, err)
	assert.Equal(t, `<a href="/one">one</a>`, out)
}

func TestInnerHTML(t *testing.T) {
	h2 := selector.NewTypeSelector("h2").FindAll(body(t), true, 0)
	require.Len(t, h2, 2)

	out, err := InnerHTML{}.Execute(h2[1])
	require.NoError(t, err)
	assert.Equal(t, `Second <b>bold</b>`, out)
}

func TestSanitize(t *testing.T) {
	p := first(t, body(t), "p")

	out, err := Sanitize{}.Execute(p)
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", out)

	out, err = Sanitize{Strict: true}.Execute(`<b>bold</b> text`)
	require.NoError(t, err)
	assert.Equal(t, "bold text", out)

	_, err = Sanitize{}.Execute(42)
	assert.ErrorIs(t, err, ErrOperationFailed)
}

func TestRegex(t *testing.T) {
	r, err := NewRegex(`(\d+)\.(\d+)`, 2)
	require.NoError(t, err)

	out, err := r.Execute("price 12.50 and 3.10")
	require.NoError(t, err)
	assert.Equal(t, "50", out)

	out, err = r.Execute("none")
	require.NoError(t, err)
	assert.Nil(t, out)

	_, err = r.Execute(12)
	assert.ErrorIs(t, err, ErrOperationFailed)

	_, err = NewRegex(`(\d+)`, 2)
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = NewRegex(`(`, 0)
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestParseNumbers(t *testing.T) {
	out, err := ParseInt{}.Execute(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, out)

	_, err = ParseInt{}.Execute("n/a")
	assert.ErrorIs(t, err, ErrOperationFailed)
	assert.ErrorIs(t, err, strconv.ErrSyntax)

	out, err = ParseFloat{}.Execute("3.5")
	require.NoError(t, err)
	assert.Equal(t, 3.5, out)

	_, err = ParseFloat{}.Execute(nil)
	assert.ErrorIs(t, err, ErrOperationFailed)
}

func TestFunc(t *testing.T) {
	out, err := upper().Execute("abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC", out)

	_, err = upper().Execute(1)
	assert.ErrorIs(t, err, ErrOperationFailed)

	_, err = NewFunc("nil", nil)
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestPipeline(t *testing.T) {
	p, err := NewPipeline(Text{Strip: true}, upper())
	require.NoError(t, err)

	out, err := p.Execute(first(t, body(t), "h2"))
	require.NoError(t, err)
	assert.Equal(t, "FIRST", out)

	_, err = p.Execute("not an element")
	assert.ErrorIs(t, err, ErrOperationFailed)

	_, err = NewPipeline(Text{}, nil)
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestThenFlattens(t *testing.T) {
	two, err := Then(Text{}, ParseInt{})
	require.NoError(t, err)
	three, err := Then(two, upper())
	require.NoError(t, err)

	assert.Len(t, three.Operations(), 3)
	assert.Len(t, two.Operations(), 2, "extending must not alter the original")

	nested, err := Then(upper(), two)
	require.NoError(t, err)
	assert.Len(t, nested.Operations(), 2)

	_, err = Then(Text{})
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestBreakStopsPipeline(t *testing.T) {
	calls := 0
	count, err := NewFunc("count", func(arg any) (any, error) {
		calls++
		return arg, nil
	})
	require.NoError(t, err)

	isEmpty := func(arg any) bool { return arg == "" }
	guard, err := NewIfElse(isEmpty, Break{Operation: Continue{}}, Continue{})
	require.NoError(t, err)

	p, err := NewPipeline(guard, count, upper())
	require.NoError(t, err)

	out, err := p.Execute("")
	require.NoError(t, err)
	assert.Equal(t, "", out)
	assert.Equal(t, 0, calls)

	out, err = p.Execute("x")
	require.NoError(t, err)
	assert.Equal(t, "X", out)
	assert.Equal(t, 1, calls)

	out, err = Run(Break{Operation: upper()}, "top")
	require.NoError(t, err)
	assert.Equal(t, "TOP", out)
}

func TestSkipNone(t *testing.T) {
	op := SkipNone{Operation: Text{}}

	out, err := op.Execute(nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = op.Execute(first(t, body(t), "a"))
	require.NoError(t, err)
	assert.Equal(t, "one", out)
}

func TestSuppress(t *testing.T) {
	out, err := Suppress{Operation: ParseInt{}}.Execute("n/a")
	require.NoError(t, err)
	assert.Nil(t, out)

	out, err = Suppress{Operation: ParseInt{}, Targets: []error{strconv.ErrSyntax}}.Execute("n/a")
	require.NoError(t, err)
	assert.Nil(t, out)

	_, err = Suppress{Operation: ParseInt{}, Targets: []error{strconv.ErrRange}}.Execute("n/a")
	assert.ErrorIs(t, err, strconv.ErrSyntax)

	out, err = Default{Operation: Suppress{Operation: ParseInt{}}, Value: 0}.Execute("n/a")
	require.NoError(t, err)
	assert.Equal(t, 0, out)
}

func TestIfElse(t *testing.T) {
	isString := func(arg any) bool {
		_, ok := arg.(string)
		return ok
	}
	op, err := NewIfElse(isString, upper(), Text{})
	require.NoError(t, err)

	out, err := op.Execute("abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC", out)

	out, err = op.Execute(first(t, body(t), "a"))
	require.NoError(t, err)
	assert.Equal(t, "one", out)

	_, err = NewIfElse(nil, Text{}, Text{})
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestOperationEquality(t *testing.T) {
	cond := func(arg any) bool { return arg == nil }
	u := upper()
	regex, err := NewRegex(`\d+`, 0)
	require.NoError(t, err)
	regex2, err := NewRegex(`\d+`, 0)
	require.NoError(t, err)
	ifElse, err := NewIfElse(cond, Text{}, Href{})
	require.NoError(t, err)
	ifElse2, err := NewIfElse(cond, Text{}, Href{})
	require.NoError(t, err)
	pipe, err := NewPipeline(Text{}, ParseInt{})
	require.NoError(t, err)
	pipe2, err := NewPipeline(Text{}, ParseInt{})
	require.NoError(t, err)
	reversed, err := NewPipeline(ParseInt{}, Text{})
	require.NoError(t, err)

	tests := []struct {
		name  string
		a, b  Operation
		equal bool
	}{
		{"text", Text{Strip: true}, Text{Strip: true}, true},
		{"text options", Text{Strip: true}, Text{}, false},
		{"attribute", Attribute{Name: "id"}, Attribute{Name: "id"}, true},
		{"attribute name", Attribute{Name: "id"}, Attribute{Name: "class"}, false},
		{"href vs attribute", Href{}, Attribute{Name: "href"}, false},
		{"func same code", u, upper(), true},
		{"regex", regex, regex2, true},
		{"if else", ifElse, ifElse2, true},
		{"pipeline", pipe, pipe2, true},
		{"pipeline order", pipe, reversed, false},
		{"suppress", Suppress{Operation: Text{}}, Suppress{Operation: Text{}}, true},
		{"skip none", SkipNone{Operation: Text{}}, Suppress{Operation: Text{}}, false},
		{"break", Break{Operation: Text{}}, Break{Operation: Text{}}, true},
		{"continue", Continue{}, Continue{}, true},
		{"default", Default{Operation: Text{}, Value: 1}, Default{Operation: Text{}, Value: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a.Equal(tt.b))
		})
	}
}

func TestFailuresKeepCause(t *testing.T) {
	cause := errors.New("boom")
	fn, err := NewFunc("boom", func(any) (any, error) { return nil, cause })
	require.NoError(t, err)

	p, err := NewPipeline(Continue{}, fn)
	require.NoError(t, err)

	_, err = p.Execute("x")
	assert.ErrorIs(t, err, ErrOperationFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, strings.Count(err.Error(), ErrOperationFailed.Error()))
}
