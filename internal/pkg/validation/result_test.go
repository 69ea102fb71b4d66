package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureCombinedWithSuccessKeepsErrors(t *testing.T) {
	r := Failure("a", "b").Combine(Success())

	assert.False(t, r.Valid)
	assert.Equal(t, []string{"a", "b"}, r.Errors)
}

func TestCombineSuccesses(t *testing.T) {
	r := Success().Combine(Success(), Success())

	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)
}

func TestCombineDoesNotAliasReceiver(t *testing.T) {
	base := Failure("first")
	_ = base.Combine(Failure("second"))

	assert.Equal(t, []string{"first"}, base.Errors)
}

func TestCollector(t *testing.T) {
	var c Collector
	c.AddIf(false, "skipped")
	c.Warn("long text")
	assert.True(t, c.Result().Valid)
	assert.Equal(t, []string{"long text"}, c.Result().Warnings)

	c.Add("broken")
	r := c.Result()
	assert.False(t, r.Valid)
	assert.Equal(t, "broken", r.Message())
}

func TestWarningsDoNotInvalidate(t *testing.T) {
	r := Success().WithWarning("careful")
	assert.True(t, r.Valid)
	assert.Equal(t, []string{"careful"}, r.Warnings)
}

func TestErrWrapsFailedResult(t *testing.T) {
	assert.NoError(t, Success().Err())

	err := Failure("a", "b").Err()
	var verr *Error
	if assert.True(t, errors.As(fmt.Errorf("create: %w", err), &verr)) {
		assert.Equal(t, []string{"a", "b"}, verr.Result.Errors)
	}
	assert.Equal(t, "validation failed: a; b", err.Error())
}
