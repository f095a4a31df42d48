package utils

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunParallel_KeepsOrder(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32

	errs := RunParallel(
		func() error { calls.Add(1); return nil },
		func() error { calls.Add(1); return boom },
		func() error { calls.Add(1); return nil },
	)

	assert.EqualValues(t, 3, calls.Load())
	assert.Equal(t, []error{nil, boom, nil}, errs)
}

func TestParallel(t *testing.T) {
	assert.NoError(t, Parallel(func() error { return nil }))
	assert.NoError(t, Parallel())

	a, b := errors.New("a"), errors.New("b")
	err := Parallel(func() error { return a }, func() error { return b })
	assert.ErrorIs(t, err, a)
	assert.ErrorIs(t, err, b)
}
