package main

import (
	"testing"

	"github.com/collomatique/colloml-go/internal/ilp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallSpec(t *testing.T) {
	module, fn, args, err := parseCallSpec("main.bound(5,10)")
	require.NoError(t, err)
	assert.Equal(t, "main", module)
	assert.Equal(t, "bound", fn)
	assert.Equal(t, []string{"5", "10"}, args)

	_, _, _, err = parseCallSpec("bound(5)")
	assert.Error(t, err)
}

func TestParseObjectiveSpec(t *testing.T) {
	module, fn, args, weight, sense, err := parseObjectiveSpec("main.cost(3):2.5:max")
	require.NoError(t, err)
	assert.Equal(t, "main", module)
	assert.Equal(t, "cost", fn)
	assert.Equal(t, []string{"3"}, args)
	assert.Equal(t, 2.5, weight)
	assert.Equal(t, ilp.Maximize, sense)

	_, _, _, _, _, err = parseObjectiveSpec("main.cost(3):2.5:sideways")
	assert.Error(t, err)
}

func TestParseArgValue(t *testing.T) {
	assert.Equal(t, "Int", parseArgValue("42").Type())
	assert.Equal(t, "Bool", parseArgValue("true").Type())
	assert.Equal(t, "String", parseArgValue("teacher-7").Type())
}
