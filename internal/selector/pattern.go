package selector

import (
	"fmt"
	"regexp"
	"strconv"
)

type patternKind int

const (
	patternAny patternKind = iota
	patternExact
	patternRegexp
)

// Pattern matches string values. The zero Pattern matches anything.
type Pattern struct {
	kind patternKind
	text string
	re   *regexp.Regexp
}

// Exact matches values equal to s.
func Exact(s string) Pattern {
	return Pattern{kind: patternExact, text: s}
}

// Regexp matches values containing a match of re.
func Regexp(re *regexp.Regexp) Pattern {
	if re == nil {
		return Pattern{}
	}
	return Pattern{kind: patternRegexp, re: re}
}

// CompileRegexp compiles expr into a Regexp pattern.
func CompileRegexp(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("%w: regexp %q: %v", ErrInvalidExpression, expr, err)
	}
	return Regexp(re), nil
}

// IsAny reports whether p matches every value.
func (p Pattern) IsAny() bool { return p.kind == patternAny }

// Match reports whether s satisfies p.
func (p Pattern) Match(s string) bool {
	switch p.kind {
	case patternExact:
		return s == p.text
	case patternRegexp:
		return p.re.MatchString(s)
	default:
		return true
	}
}

// Equal compares patterns by kind and source.
func (p Pattern) Equal(other Pattern) bool {
	if p.kind != other.kind {
		return false
	}
	switch p.kind {
	case patternExact:
		return p.text == other.text
	case patternRegexp:
		return p.re.String() == other.re.String()
	default:
		return true
	}
}

func (p Pattern) String() string {
	switch p.kind {
	case patternExact:
		return strconv.Quote(p.text)
	case patternRegexp:
		return "re(" + strconv.Quote(p.re.String()) + ")"
	default:
		return "*"
	}
}
