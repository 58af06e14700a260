package repl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestREPL() *REPL {
	return New()
}

func TestProcessInputDeclareThenCall(t *testing.T) {
	r := newTestREPL()
	var out bytes.Buffer

	r.ProcessInput(`let doubled(x: Int) -> Int = x * 2;`, &out)
	assert.Contains(t, out.String(), "ok")
	assert.NotNil(t, r.prog)

	out.Reset()
	r.ProcessInput(`doubled(21)`, &out)
	assert.Contains(t, out.String(), "42")
	assert.Contains(t, out.String(), "Int")
}

func TestProcessInputRejectsMalformedDeclWithoutCorruptingBuffer(t *testing.T) {
	r := newTestREPL()
	var out bytes.Buffer

	r.ProcessInput(`let good(x: Int) -> Int = x;`, &out)
	committed := r.source

	out.Reset()
	r.ProcessInput(`let bad(x: Int) -> Int = x + true;`, &out)
	assert.Contains(t, out.String(), "TYP001")
	assert.Equal(t, committed, r.source)

	out.Reset()
	r.ProcessInput(`good(7)`, &out)
	assert.Contains(t, out.String(), "7")
}

func TestHandleCommandResetClearsState(t *testing.T) {
	r := newTestREPL()
	var out bytes.Buffer
	r.ProcessInput(`let f() -> Int = 1;`, &out)
	assert.NotEmpty(t, r.source)

	out.Reset()
	r.HandleCommand(":reset", &out)
	assert.Empty(t, r.source)
	assert.Nil(t, r.prog)
}
