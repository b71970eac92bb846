package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"price-movers/src/logger"
)

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrEmptyInput means a stage received a zero-length sequence. Fatal for the run.
	ErrEmptyInput = errors.New("empty input")

	// ErrDivisionByZero means a zero divisor (previous close, standard deviation) was hit.
	ErrDivisionByZero = errors.New("division by zero")
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type PriceMoversError struct {
	Message string
	Cause   error
}

func (e *PriceMoversError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PriceMoversError) Unwrap() error {
	return e.Cause
}

// Distinct error types for errors.As checks at the collaborator boundaries
type ConfigurationError struct{ PriceMoversError }
type NetworkError struct{ PriceMoversError }
type DataSourceError struct{ PriceMoversError }
type SinkError struct{ PriceMoversError }
type ValidationError struct{ PriceMoversError }

func NewConfigurationError(msg string, cause error) error {
	return &ConfigurationError{PriceMoversError{Message: msg, Cause: cause}}
}

func NewNetworkError(msg string, cause error) error {
	return &NetworkError{PriceMoversError{Message: msg, Cause: cause}}
}

// NewDataSourceError reports a feed that could not supply rows (FeedUnavailable).
func NewDataSourceError(source string, cause error) error {
	return &DataSourceError{PriceMoversError{Message: fmt.Sprintf("feed %s unavailable", source), Cause: cause}}
}

// NewSinkError reports a sink that could not accept the report (SinkUnavailable).
func NewSinkError(sink string, cause error) error {
	return &SinkError{PriceMoversError{Message: fmt.Sprintf("sink %s unavailable", sink), Cause: cause}}
}

func NewValidationError(msg string, cause error) error {
	return &ValidationError{PriceMoversError{Message: msg, Cause: cause}}
}

// -----------------------------------------------------------------------------

// RowRejectedError describes one feed row the normalizer could not coerce.
// It is a diagnostic, never fatal.
type RowRejectedError struct {
	Index  int
	Date   string
	Reason string
	Cause  error
}

func (e *RowRejectedError) Error() string {
	msg := fmt.Sprintf("row %d (%q) rejected: %s", e.Index, e.Date, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RowRejectedError) Unwrap() error {
	return e.Cause
}

// -----------------------------------------------------------------------------
// Retry Logic
// -----------------------------------------------------------------------------

// RetryWithBackoff attempts to execute the operation up to maxRetries+1 times
// with exponential backoff. It stops early when ctx is cancelled.
func RetryWithBackoff[T any](
	ctx context.Context,
	operation string,
	maxRetries int,
	baseDelay time.Duration,
	log *logger.Logger,
	fn func(context.Context) (T, error),
) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}

		lastErr = err
		if attempt == maxRetries || ctx.Err() != nil {
			break
		}

		delay := baseDelay * (1 << attempt)
		if log != nil {
			log.Warning("Attempt %d/%d failed for %s: %v. Retrying in %v", attempt+1, maxRetries+1, operation, err, delay)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}
