package safe

import (
	"fmt"
	"reflect"
)

// MustNotNil panics if the given value is nil.
// Useful for enforcing required fields during struct initialization.
// Value-type implementations behind an interface are always accepted;
// IsNil is only legal on nilable kinds.
func MustNotNil(v any, name string) {
	if v == nil {
		panic(fmt.Sprintf("%s must not be nil", name))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		if rv.IsNil() {
			panic(fmt.Sprintf("%s must not be nil", name))
		}
	}
}

// DefaultString returns the dereferenced value of a string pointer,
// or the fallback if the pointer is nil.
func DefaultString(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
