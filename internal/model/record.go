package model

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
)

// Record holds the values extracted for one schema match in field order.
type Record struct {
	model  string
	names  []string
	values map[string]any
}

func newRecord(model string, size int) *Record {
	return &Record{
		model:  model,
		names:  make([]string, 0, size),
		values: make(map[string]any, size),
	}
}

func (r *Record) set(name string, value any) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

// Model returns the name of the schema that produced r.
func (r *Record) Model() string {
	return r.model
}

// Names returns field names in declaration order.
func (r *Record) Names() []string {
	return append([]string(nil), r.names...)
}

// Get returns the value of one field.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Map returns the values keyed by field name. Nested records stay records.
func (r *Record) Map() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Equal reports whether both records come from the same schema and hold
// equal values. Elements compare by node identity.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.model != other.model || len(r.names) != len(other.names) {
		return false
	}
	for i, name := range r.names {
		if other.names[i] != name || !equalValues(r.values[name], other.values[name]) {
			return false
		}
	}
	return true
}

func equalValues(a, b any) bool {
	switch x := a.(type) {
	case *Record:
		y, ok := b.(*Record)
		return ok && x.Equal(y)
	case dom.Element:
		y, ok := b.(dom.Element)
		return ok && dom.Same(x, y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equalValues(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// MarshalJSON writes fields in declaration order. Elements are rendered as
// their outer HTML.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := sonic.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := jsonValue(r.values[name])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		encoded, err := sonic.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func jsonValue(v any) (any, error) {
	switch x := v.(type) {
	case dom.Element:
		if isNil(x) {
			return nil, nil
		}
		return dom.OuterHTML(x)
	case []any:
		out := make([]any, len(x))
		for i := range x {
			item, err := jsonValue(x[i])
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil
	}
	return v, nil
}

// Decode copies the record into v, typically a struct with json tags.
func (r *Record) Decode(v any) error {
	data, err := r.MarshalJSON()
	if err != nil {
		return err
	}
	return sonic.Unmarshal(data, v)
}

func (r *Record) String() string {
	parts := make([]string, len(r.names))
	for i, name := range r.names {
		parts[i] = fmt.Sprintf("%s=%v", name, r.values[name])
	}
	return fmt.Sprintf("%s(%s)", r.model, strings.Join(parts, ", "))
}
