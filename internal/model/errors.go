package model

import (
	"errors"
	"reflect"
)

var (
	// ErrScopeNotDefined is returned when a schema has no scope selector.
	ErrScopeNotDefined = errors.New("model scope not defined")

	// ErrFieldsNotDefined is returned when a schema declares no fields.
	ErrFieldsNotDefined = errors.New("model fields not defined")

	// ErrInvalidField is returned for unnamed, duplicated or empty fields.
	ErrInvalidField = errors.New("invalid model field")

	// ErrModelNotFound is returned by a strict search when the scope element
	// is missing.
	ErrModelNotFound = errors.New("model not found")

	// ErrFieldExtraction wraps any failure while extracting one field.
	ErrFieldExtraction = errors.New("field extraction failed")

	// ErrRequiredConstraint is returned when a required field found nothing.
	ErrRequiredConstraint = errors.New("required field not found")

	// ErrInvalidSchema is returned when a schema definition cannot be decoded
	// or compiled.
	ErrInvalidSchema = errors.New("invalid schema definition")
)

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}
