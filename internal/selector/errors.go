package selector

import (
	"errors"
	"reflect"
)

var (
	ErrInvalidSelector   = errors.New("invalid selector")
	ErrElementNotFound   = errors.New("element not found")
	ErrInvalidExpression = errors.New("invalid selector expression")
)

// checkSelector rejects nil selectors, including typed nil pointers.
func checkSelector(s Selector) error {
	if s == nil {
		return ErrInvalidSelector
	}
	if v := reflect.ValueOf(s); v.Kind() == reflect.Pointer && v.IsNil() {
		return ErrInvalidSelector
	}
	return nil
}
