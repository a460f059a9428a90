package griderrors

import (
	"errors"
	"fmt"
)

// Error codes for the failure taxonomy the toolkit reports to operators.
// Configuration problems are fatal and never retried; delivery timeouts are
// inconclusive and reported as such rather than as hard failures.
const (
	CodeConfiguration = "error-configuration"
	CodeValidation    = "error-validation"
	CodeDelivery      = "error-delivery"
	CodePayloadSize   = "error-payload-too-large"
	CodeTimeout       = "error-delivery-timeout"
	CodeOracle        = "error-oracle-mismatch"
	CodeChainRevert   = "error-chain-revert"
)

type GridError struct {
	Code    string                 `json:"Code"`
	Message string                 `json:"Message"`
	Details map[string]interface{} `json:"Details,omitempty"`
	Cause   error                  `json:"-"`
}

func (e *GridError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause)
	}
	return e.Message
}

func (e *GridError) Unwrap() error {
	return e.Cause
}

func (e *GridError) WithDetail(key string, value interface{}) *GridError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *GridError) WithCause(err error) *GridError {
	e.Cause = err
	return e
}

func New(code, format string, args ...interface{}) *GridError {
	return &GridError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func NewConfigurationError(format string, args ...interface{}) *GridError {
	return New(CodeConfiguration, format, args...)
}

func NewValidationError(format string, args ...interface{}) *GridError {
	return New(CodeValidation, format, args...)
}

func NewDeliveryError(format string, args ...interface{}) *GridError {
	return New(CodeDelivery, format, args...)
}

func NewPayloadSizeError(size, limit int) *GridError {
	return New(CodePayloadSize, "payload is %d bytes, over the configured %d byte limit", size, limit).
		WithDetail("PayloadSize", size).
		WithDetail("Limit", limit)
}

func NewTimeoutError(attempts int) *GridError {
	return New(CodeTimeout, "destination state unchanged after %d polling attempts; delivery is inconclusive, not failed", attempts).
		WithDetail("Attempts", attempts)
}

func NewOracleMismatchError(got uint64) *GridError {
	return New(CodeOracle, "oracle response carries request id %d, which matches no pending request", got).
		WithDetail("Received", got)
}

// Code extracts the taxonomy code from err, walking the wrap chain. Errors
// outside the taxonomy report an empty code.
func Code(err error) string {
	var ge *GridError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

// IsInconclusive reports whether err represents a delivery timeout, which the
// operator should treat as "re-check later", not as a hard failure.
func IsInconclusive(err error) bool {
	return Code(err) == CodeTimeout
}
