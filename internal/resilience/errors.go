// Package resilience provides the retry and circuit-breaker machinery for
// provider calls, plus the error taxonomy the pipeline uses to decide what a
// failure means. No provider error is fatal to a screening: the worst class
// still only marks that provider's section absent.
package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/sells-group/diligence-cli/internal/model"
)

// ErrorClass partitions provider failures by how the pipeline reacts.
type ErrorClass string

const (
	// ClassTransient errors are retried: timeouts, 429s, 5xx.
	ClassTransient ErrorClass = "transient"
	// ClassUnavailable errors are not retried; the provider section is
	// dropped for this run: auth failures, 4xx, contract violations.
	ClassUnavailable ErrorClass = "unavailable"
	// ClassUnconfigured means the provider was never set up (no API key).
	ClassUnconfigured ErrorClass = "unconfigured"
)

// ProviderError carries a failure's class alongside its cause.
type ProviderError struct {
	Err        error
	Class      ErrorClass
	StatusCode int
}

func (e *ProviderError) Error() string { return e.Err.Error() }

func (e *ProviderError) Unwrap() error { return e.Err }

// Transient wraps an error as retryable, with an optional HTTP status code.
func Transient(err error, statusCode int) *ProviderError {
	return &ProviderError{Err: err, Class: ClassTransient, StatusCode: statusCode}
}

// Unavailable wraps an error that should not be retried.
func Unavailable(err error) *ProviderError {
	return &ProviderError{Err: err, Class: ClassUnavailable}
}

// Unconfigured wraps an error marking a provider that was never set up.
func Unconfigured(err error) *ProviderError {
	return &ProviderError{Err: err, Class: ClassUnconfigured}
}

// Classify maps an error to its class. Unwrapped errors fall back to
// network-level heuristics; anything unrecognized is unavailable, which is
// the safe non-retrying default.
func Classify(err error) ErrorClass {
	if err == nil {
		return ""
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Class
	}
	if IsTransient(err) {
		return ClassTransient
	}
	return ClassUnavailable
}

// StateFor converts an error into the provider state recorded on the report.
func StateFor(err error) model.ProviderState {
	switch Classify(err) {
	case "":
		return model.ProviderOK
	case ClassUnconfigured:
		return model.ProviderUnconfigured
	default:
		return model.ProviderFailed
	}
}

// IsTransient reports whether the error (or any error in its chain) is
// explicitly transient or matches common transient network patterns.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Class == ClassTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	// String-based heuristics for wrapped errors from HTTP clients.
	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
		"transport connection broken",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}

// IsTransientHTTPStatus reports whether the status code indicates a
// server-side issue that is safe to retry.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, // Request Timeout
		429, // Too Many Requests
		500, // Internal Server Error
		502, // Bad Gateway
		503, // Service Unavailable
		504: // Gateway Timeout
		return true
	default:
		return false
	}
}
