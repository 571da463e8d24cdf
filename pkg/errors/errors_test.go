package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := NewDatabaseError("Query orders", stderrors.New("connection reset"))
	assert.Contains(t, err.Error(), "DATABASE")
	assert.Contains(t, err.Error(), "Query orders")
	assert.Contains(t, err.Error(), "connection reset")

	plain := NewConfigError("RUNS must be at least 1")
	assert.Equal(t, "CONFIG: RUNS must be at least 1", plain.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := NewThrottledError("BatchWriteItem", cause)
	assert.True(t, stderrors.Is(err, cause))
}

func TestTypeHelpers(t *testing.T) {
	assert.True(t, IsThrottled(NewThrottledError("Query", nil)))
	assert.False(t, IsThrottled(NewDatabaseError("Query", nil)))
	assert.True(t, IsConfig(NewConfigError("bad")))
	assert.True(t, IsType(NewValidationError("bad input"), ErrorTypeValidation))
	assert.False(t, IsType(stderrors.New("plain"), ErrorTypeDatabase))
	assert.Nil(t, GetAppError(stderrors.New("plain")))
}

func TestTypeHelpers_WrappedChain(t *testing.T) {
	inner := NewThrottledError("Query", stderrors.New("slow down"))
	wrapped := fmt.Errorf("running battery: %w", inner)
	assert.True(t, IsThrottled(wrapped))
}

func TestPartialBatchError(t *testing.T) {
	err := NewPartialBatchError("ddbench-single", 7)
	require.True(t, IsPartialBatch(err))
	assert.Equal(t, 7, GetAppError(err).Unprocessed)
	assert.Contains(t, err.Error(), "7 items unprocessed")
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))

	appErr := Wrap(NewDatabaseError("Scan", nil), "clearing table")
	require.NotNil(t, GetAppError(appErr))
	assert.Contains(t, appErr.Error(), "clearing table")
	assert.True(t, IsType(appErr, ErrorTypeDatabase))

	internal := Wrap(stderrors.New("oops"), "seeding")
	assert.True(t, IsType(internal, ErrorTypeInternal))
}

func TestWithDetails(t *testing.T) {
	err := NewValidationError("bad shard count").WithDetails(map[string]interface{}{"shards": 99})
	assert.Equal(t, 99, err.Details["shards"])
}
