package operation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Regex extracts the first match of a pattern from a string. Group selects a
// capture group, 0 meaning the whole match. No match yields nil.
type Regex struct {
	re    *regexp.Regexp
	group int
}

// NewRegex compiles pattern and checks that group exists in it.
func NewRegex(pattern string, group int) (*Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOperation, err)
	}
	if group < 0 || group > re.NumSubexp() {
		return nil, fmt.Errorf("%w: pattern %q has no group %d", ErrInvalidOperation, pattern, group)
	}
	return &Regex{re: re, group: group}, nil
}

func (r *Regex) Execute(arg any) (any, error) {
	s, err := text(arg)
	if err != nil {
		return nil, failed(r, err)
	}
	m := r.re.FindStringSubmatch(s)
	if m == nil {
		return nil, nil
	}
	return m[r.group], nil
}

func (r *Regex) Equal(other Operation) bool {
	o, ok := other.(*Regex)
	return ok && o.re.String() == r.re.String() && o.group == r.group
}

func (r *Regex) String() string {
	return fmt.Sprintf("Regex(%s, group=%d)", r.re, r.group)
}

// ParseInt converts a decimal string, ignoring surrounding whitespace.
type ParseInt struct{}

func (p ParseInt) Execute(arg any) (any, error) {
	s, err := text(arg)
	if err != nil {
		return nil, failed(p, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, failed(p, err)
	}
	return n, nil
}

func (ParseInt) Equal(other Operation) bool {
	_, ok := other.(ParseInt)
	return ok
}

func (ParseInt) String() string {
	return "ParseInt()"
}

// ParseFloat converts a decimal string, ignoring surrounding whitespace.
type ParseFloat struct{}

func (p ParseFloat) Execute(arg any) (any, error) {
	s, err := text(arg)
	if err != nil {
		return nil, failed(p, err)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, failed(p, err)
	}
	return f, nil
}

func (ParseFloat) Equal(other Operation) bool {
	_, ok := other.(ParseFloat)
	return ok
}

func (ParseFloat) String() string {
	return "ParseFloat()"
}
