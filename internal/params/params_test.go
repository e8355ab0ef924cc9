package params_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hexwolf/internal/params"
)

func newTestRegistry(depth *int, parallel *bool) *params.Registry {
	r := params.NewRegistry()
	r.BoolVar("use_parallel_solver",
		func() bool { return *parallel },
		func(v bool) error { *parallel = v; return nil })
	r.IntVar("max_depth",
		func() int { return *depth },
		params.AtLeast("max_depth", 1, func(v int) error { *depth = v; return nil }))
	return r
}

func TestListFormat(t *testing.T) {
	depth, parallel := 4, true
	r := newTestRegistry(&depth, &parallel)
	assert.Equal(t,
		"[bool] use_parallel_solver true\n[int] max_depth 4\n",
		r.List())
}

func TestSetAppliesValue(t *testing.T) {
	depth, parallel := 4, true
	r := newTestRegistry(&depth, &parallel)

	require.NoError(t, r.Set("max_depth", "7"))
	assert.Equal(t, 7, depth)

	require.NoError(t, r.Set("use_parallel_solver", "false"))
	assert.False(t, parallel)
}

func TestSetUnknownNameFails(t *testing.T) {
	depth, parallel := 4, true
	r := newTestRegistry(&depth, &parallel)

	err := r.Set("no_such_param", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parameter")
	assert.Equal(t, 4, depth)
	assert.True(t, parallel)
}

func TestSetRejectsMalformedAndOutOfRange(t *testing.T) {
	depth, parallel := 4, true
	r := newTestRegistry(&depth, &parallel)

	assert.Error(t, r.Set("max_depth", "banana"))
	assert.Error(t, r.Set("max_depth", "0"), "below minimum")
	assert.Error(t, r.Set("use_parallel_solver", "maybe"))
	assert.Equal(t, 4, depth, "failed sets must not mutate")
	assert.True(t, parallel)
}

func TestGet(t *testing.T) {
	depth, parallel := 4, true
	r := newTestRegistry(&depth, &parallel)

	v, err := r.Get("max_depth")
	require.NoError(t, err)
	assert.Equal(t, "4", v)

	_, err = r.Get("missing")
	assert.Error(t, err)
}
