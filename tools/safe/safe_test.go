package safe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type valueImpl struct{}

func (valueImpl) Do() {}

type doer interface{ Do() }

func TestMustNotNilAcceptsValueTypes(t *testing.T) {
	// Interfaces satisfied by struct values must pass, not panic.
	var d doer = valueImpl{}
	assert.NotPanics(t, func() { MustNotNil(d, "doer") })
	assert.NotPanics(t, func() { MustNotNil("string", "str") })
	assert.NotPanics(t, func() { MustNotNil(42, "int") })
	assert.NotPanics(t, func() { MustNotNil(&valueImpl{}, "ptr") })
}

func TestMustNotNilRejectsNil(t *testing.T) {
	assert.Panics(t, func() { MustNotNil(nil, "nil") })

	var p *valueImpl
	assert.Panics(t, func() { MustNotNil(p, "typed nil pointer") })

	var m map[string]int
	assert.Panics(t, func() { MustNotNil(m, "nil map") })

	var fn func()
	assert.Panics(t, func() { MustNotNil(fn, "nil func") })
}

func TestDefaultString(t *testing.T) {
	v := "set"
	assert.Equal(t, "set", DefaultString(&v, "fallback"))
	assert.Equal(t, "fallback", DefaultString(nil, "fallback"))
}
