package helpers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoffSucceedsAfterFailures(t *testing.T) {
	calls := 0
	got, err := RetryWithBackoff(context.Background(), "fetch", 3, time.Millisecond, nil,
		func(context.Context) (int, error) {
			calls++
			if calls < 3 {
				return 0, errors.New("boom")
			}
			return 42, nil
		})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoffReturnsLastError(t *testing.T) {
	calls := 0
	_, err := RetryWithBackoff(context.Background(), "fetch", 2, time.Millisecond, nil,
		func(context.Context) (string, error) {
			calls++
			return "", errors.New("still down")
		})

	assert.EqualError(t, err, "still down")
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoffStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := RetryWithBackoff(ctx, "fetch", 5, time.Hour, nil,
		func(context.Context) (int, error) {
			calls++
			return 0, errors.New("down")
		})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestTypedErrorsUnwrap(t *testing.T) {
	err := NewDataSourceError("yahoo", ErrEmptyInput)

	var dsErr *DataSourceError
	require.True(t, errors.As(err, &dsErr))
	assert.True(t, errors.Is(err, ErrEmptyInput))
	assert.Equal(t, "feed yahoo unavailable: empty input", err.Error())

	var sinkErr *SinkError
	assert.False(t, errors.As(err, &sinkErr))
}

func TestRowRejectedErrorMessage(t *testing.T) {
	err := &RowRejectedError{Index: 3, Date: "2024-01-02", Reason: "invalid close", Cause: errors.New("bad")}
	assert.Equal(t, `row 3 ("2024-01-02") rejected: invalid close: bad`, err.Error())
}
