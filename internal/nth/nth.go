// Package nth parses nth-child style formulas (odd, even, 3, -n+3, 2n+1)
// into linear generators of 1-based positions.
package nth

import (
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrInvalidFormula             = errors.New("invalid nth formula")
	ErrInvalidPositionalParameter = errors.New("invalid positional parameter")
)

var (
	// "3"
	offsetPattern = regexp.MustCompile(`^\d+$`)
	// "-3n", "n"
	stepPattern = regexp.MustCompile(`^(-?\d*)n$`)
	// "-3n+2", "n+4"
	combinedPattern = regexp.MustCompile(`^(-?\d*)n\+(\d+)$`)
)

// Generator represents step*n + offset for n >= 0.
type Generator struct {
	step   int
	offset int
}

// New returns a generator; offset must not be negative.
func New(step, offset int) (Generator, error) {
	if offset < 0 {
		return Generator{}, fmt.Errorf("%w: offset must not be negative, got %d", ErrInvalidPositionalParameter, offset)
	}
	return Generator{step: step, offset: offset}, nil
}

// Step returns the coefficient of n.
func (g Generator) Step() int { return g.step }

// Offset returns the constant term.
func (g Generator) Offset() int { return g.offset }

// Generate yields every step*x + offset (x >= 0) within [1, stop]. Values
// ascend for a non-negative step and descend for a negative one.
func (g Generator) Generate(stop int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if stop < 1 {
			return
		}

		a, b := g.step, g.offset
		if a == 0 {
			if b >= 1 && b <= stop {
				yield(b)
			}
			return
		}

		var start int
		if a > 0 {
			start = ceilDiv(1-b, a)
		} else {
			start = ceilDiv(stop-b, a)
		}
		start = max(start, 0)

		for x := start; ; x++ {
			y := a*x + b
			if y < 1 || y > stop {
				return
			}
			if !yield(y) {
				return
			}
		}
	}
}

// Positions collects Generate(stop).
func (g Generator) Positions(stop int) []int {
	var out []int
	for p := range g.Generate(stop) {
		out = append(out, p)
	}
	return out
}

// String renders the generator as a normalized formula.
func (g Generator) String() string {
	if g.step == 0 {
		return strconv.Itoa(g.offset)
	}

	var step string
	switch g.step {
	case 1:
		step = "n"
	case -1:
		step = "-n"
	default:
		step = strconv.Itoa(g.step) + "n"
	}
	if g.offset == 0 {
		return step
	}
	return step + "+" + strconv.Itoa(g.offset)
}

// Parse reads a formula. Whitespace anywhere in the input is ignored.
func Parse(formula string) (Generator, error) {
	f := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, formula)

	switch f {
	case "odd":
		return Generator{step: 2, offset: 1}, nil
	case "even":
		return Generator{step: 2, offset: 0}, nil
	}

	if offsetPattern.MatchString(f) {
		offset, err := strconv.Atoi(f)
		if err != nil {
			return Generator{}, fmt.Errorf("%w: %q", ErrInvalidFormula, formula)
		}
		return New(0, offset)
	}

	var coefficient, constant string
	if m := stepPattern.FindStringSubmatch(f); m != nil {
		coefficient = m[1]
	} else if m := combinedPattern.FindStringSubmatch(f); m != nil {
		coefficient, constant = m[1], m[2]
	} else {
		return Generator{}, fmt.Errorf("%w: %q", ErrInvalidFormula, formula)
	}

	step, err := parseCoefficient(coefficient)
	if err != nil {
		return Generator{}, fmt.Errorf("%w: %q", ErrInvalidFormula, formula)
	}

	offset := 0
	if constant != "" {
		if offset, err = strconv.Atoi(constant); err != nil {
			return Generator{}, fmt.Errorf("%w: %q", ErrInvalidFormula, formula)
		}
	}
	return New(step, offset)
}

// MustParse is like Parse but panics on error.
func MustParse(formula string) Generator {
	g, err := Parse(formula)
	if err != nil {
		panic(err)
	}
	return g
}

func parseCoefficient(s string) (int, error) {
	switch s {
	case "":
		return 1, nil
	case "-":
		return -1, nil
	}
	return strconv.Atoi(s)
}

// ceilDiv returns ceil(n/d) for d != 0.
func ceilDiv(n, d int) int {
	q := n / d
	if n%d != 0 && (n < 0) == (d < 0) {
		q++
	}
	return q
}
