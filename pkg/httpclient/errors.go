package httpclient

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Kind classifies an upstream failure
type Kind string

const (
	// KindNetwork is a connection level failure: DNS, refused, reset
	KindNetwork Kind = "network"
	// KindTimeout is returned when the configured timeout is exceeded
	KindTimeout Kind = "timeout"
	// KindStatus is returned for a non-2xx HTTP status
	KindStatus Kind = "status"
	// KindDecode is returned when the body is not valid JSON
	KindDecode Kind = "decode"
)

// Error is returned by FetchJSON for every failed call.
type Error struct {
	Kind Kind
	// URL of the request, query included
	URL string
	// StatusCode is set for KindStatus
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	case KindTimeout:
		return fmt.Sprintf("upstream request timed out: %v", e.Err)
	case KindDecode:
		return fmt.Sprintf("failed to decode upstream response: %v", e.Err)
	default:
		return fmt.Sprintf("upstream request failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func kindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsTimeout returns true if err is a TimeoutError
func IsTimeout(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindTimeout
}

// IsNetwork returns true if err is a NetworkError
func IsNetwork(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindNetwork
}

// IsDecode returns true if err is a DecodeError
func IsDecode(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindDecode
}

// StatusCode returns the HTTP status of a HTTPStatusError,
// and false for any other error
func StatusCode(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindStatus {
		return e.StatusCode, true
	}
	return 0, false
}
