package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Error wraps a provider failure with its HTTP status. Status is zero when
// the request never got a response.
type Error struct {
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return "transport error"
	}
	if e.Err != nil {
		if e.Op != "" {
			return fmt.Sprintf("%s: %v", e.Op, e.Err)
		}
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: transport error (status=%d)", e.Op, e.Status)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RateLimited reports whether the provider throttled the call.
func (e *Error) RateLimited() bool {
	return e != nil && e.Status == http.StatusTooManyRequests
}

// Retryable reports whether the failure is worth repeating unchanged: the
// provider throttled or failed on its side, or the call timed out. Calls are
// never retried here; the CLI uses this to tell users to try again.
func Retryable(err error) bool {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, context.DeadlineExceeded):
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var te *Error
	if errors.As(err, &te) {
		return te.RateLimited() || te.Status >= http.StatusInternalServerError
	}
	return false
}
