// Package common provides shared utilities and types used across the pipeline.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common pipeline errors.
var (
	// Resolution and extraction errors.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrNotAnOrder          = errors.New("not an order notification")

	// Screen analysis errors.
	ErrControlNotFound = errors.New("accept control not found")
	ErrStaleScreen     = errors.New("no fresh screen snapshot")

	// Coordinator errors.
	ErrGatedOut       = errors.New("signal gated out")
	ErrAttemptTimeout = errors.New("attempt exceeded state budget")
	ErrActuation      = errors.New("actuator dispatch failed")

	// Storage errors.
	ErrNotFound      = errors.New("not found")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// RetryableError wraps an error with retry-specific metadata.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryable marks an error as safe to retry.
func NewRetryable(err error) error {
	return &RetryableError{Err: err, Retryable: true}
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrActuation) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}

// GateError reports which gating check rejected a signal.
type GateError struct {
	Reason string
}

func (e *GateError) Error() string {
	return fmt.Sprintf("%v: %s", ErrGatedOut, e.Reason)
}

func (e *GateError) Unwrap() error {
	return ErrGatedOut
}
