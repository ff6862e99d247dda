package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique (user, symbol) row is added twice.
	ErrAlreadyExists = errors.New("already exists")
)

// ProviderError is a transport or non-2xx failure from the quote provider.
// Symbol is empty for batch calls.
type ProviderError struct {
	Symbol     string
	Endpoint   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Symbol != "" {
		return fmt.Sprintf("quote provider error for %s: %s (status: %d, endpoint: %s)", e.Symbol, msg, e.StatusCode, e.Endpoint)
	}
	return fmt.Sprintf("quote provider error: %s (status: %d, endpoint: %s)", msg, e.StatusCode, e.Endpoint)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// InvalidInputError rejects a malformed request before any I/O.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientHistoryError is returned when fewer than two bars are available
// to anchor a return calculation.
type InsufficientHistoryError struct {
	Symbol string
	Bars   int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("insufficient historical data for %s: %d bars", e.Symbol, e.Bars)
}
