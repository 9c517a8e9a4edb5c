package model

import (
	"fmt"
	"strings"

	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
	"github.com/sewcio543/soupsavvy-sub002/internal/operation"
	"github.com/sewcio543/soupsavvy-sub002/internal/selector"
)

// Field binds a name to the searcher that fills it.
//
// Post, when set, transforms the extracted value before it is stored.
type Field struct {
	Name     string
	Searcher operation.Searcher
	Post     func(value any) (any, error)
}

// Schema describes one record type: the scope element that anchors a record
// and the fields extracted relative to it.
type Schema struct {
	name   string
	scope  selector.Selector
	fields []Field
}

// NewSchema validates and builds a schema.
func NewSchema(name string, scope selector.Selector, fields ...Field) (*Schema, error) {
	if isNil(scope) {
		return nil, fmt.Errorf("%w: %s", ErrScopeNotDefined, name)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrFieldsNotDefined, name)
	}
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		switch {
		case f.Name == "":
			return nil, fmt.Errorf("%w: %s field %d has no name", ErrInvalidField, name, i)
		case seen[f.Name]:
			return nil, fmt.Errorf("%w: %s field %q declared twice", ErrInvalidField, name, f.Name)
		case isNil(f.Searcher):
			return nil, fmt.Errorf("%w: %s field %q has no searcher", ErrInvalidField, name, f.Name)
		}
		seen[f.Name] = true
	}
	return &Schema{name: name, scope: scope, fields: append([]Field(nil), fields...)}, nil
}

// Extend derives a schema that inherits the fields of s. Fields with an
// inherited name replace the inherited one in place; new fields are appended.
// A nil scope keeps the scope of s.
func (s *Schema) Extend(name string, scope selector.Selector, fields ...Field) (*Schema, error) {
	if isNil(scope) {
		scope = s.scope
	}
	merged := append([]Field(nil), s.fields...)
	index := make(map[string]int, len(merged))
	for i, f := range merged {
		index[f.Name] = i
	}
	for _, f := range fields {
		if i, ok := index[f.Name]; ok {
			merged[i] = f
			continue
		}
		index[f.Name] = len(merged)
		merged = append(merged, f)
	}
	return NewSchema(name, scope, merged...)
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

// Scope returns the selector anchoring each record.
func (s *Schema) Scope() selector.Selector {
	return s.scope
}

// Fields returns a copy of the field list.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Extract binds the scope within root and extracts every field from it.
//
// The scope itself is located without strictness; a missing scope yields a
// nil record, or ErrModelNotFound when strict is set. Fields are always
// searched recursively and leniently, so absent values come back as nil
// unless a Required wrapper says otherwise.
func (s *Schema) Extract(root dom.Element, strict, recursive bool) (*Record, error) {
	el, err := selector.Find(s.scope, root, false, recursive)
	if err != nil {
		return nil, err
	}
	if el == nil {
		if strict {
			return nil, fmt.Errorf("%w: %s in %v", ErrModelNotFound, s.name, root)
		}
		return nil, nil
	}
	return s.bind(el)
}

// ExtractAll extracts a record for each scope match, at most limit of them
// when limit > 0.
func (s *Schema) ExtractAll(root dom.Element, recursive bool, limit int) ([]*Record, error) {
	elements := s.scope.FindAll(root, recursive, limit)
	records := make([]*Record, 0, len(elements))
	for _, el := range elements {
		r, err := s.bind(el)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func (s *Schema) bind(el dom.Element) (*Record, error) {
	r := newRecord(s.name, len(s.fields))
	for _, f := range s.fields {
		value, err := f.Searcher.Find(el, false, true)
		if err == nil && f.Post != nil {
			value, err = f.Post(value)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: field %q of %s: %w", ErrFieldExtraction, f.Name, s.name, err)
		}
		r.set(f.Name, value)
	}
	return r, nil
}

// Find satisfies operation.Searcher so schemas nest as fields. A miss
// yields an untyped nil.
func (s *Schema) Find(scope dom.Element, strict, recursive bool) (any, error) {
	r, err := s.Extract(scope, strict, recursive)
	if err != nil || r == nil {
		return nil, err
	}
	return r, nil
}

// FindAll satisfies operation.Searcher.
func (s *Schema) FindAll(scope dom.Element, recursive bool, limit int) ([]any, error) {
	records, err := s.ExtractAll(scope, recursive, limit)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out, nil
}

func (s *Schema) String() string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return fmt.Sprintf("%s(scope=%s, fields=[%s])", s.name, s.scope, strings.Join(names, ", "))
}
