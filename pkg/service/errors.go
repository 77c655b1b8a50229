package service

import (
	"errors"
	"fmt"
)

// MaxAudioBytes is the largest audio payload the provider accepts (25 MiB).
const MaxAudioBytes int64 = 25 << 20

// InvalidParameterError reports a caller value that failed a range or
// presence check. It is always raised before any transport call.
type InvalidParameterError struct {
	Param  string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
	}
	return fmt.Sprintf("invalid %s %v: %s", e.Param, e.Value, e.Reason)
}

// UnsupportedCapabilityError reports a voice, tool or option the selected
// model does not offer.
type UnsupportedCapabilityError struct {
	Model      string
	Capability string
	Value      string
}

func (e *UnsupportedCapabilityError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("model %s does not support %s", e.Model, e.Capability)
	}
	return fmt.Sprintf("model %s does not support %s %q", e.Model, e.Capability, e.Value)
}

// PayloadTooLargeError reports an audio payload over MaxAudioBytes.
type PayloadTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload of %d bytes exceeds the %d byte limit", e.Size, e.Limit)
}

// IsValidation reports whether err was raised by local validation rather
// than by the transport.
func IsValidation(err error) bool {
	var ip *InvalidParameterError
	var uc *UnsupportedCapabilityError
	var pl *PayloadTooLargeError
	return errors.As(err, &ip) || errors.As(err, &uc) || errors.As(err, &pl)
}

func invalid(param string, value any, reason string) error {
	return &InvalidParameterError{Param: param, Value: value, Reason: reason}
}

func checkRange(param string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return invalid(param, v, fmt.Sprintf("must be within [%g, %g]", lo, hi))
	}
	return nil
}

// errs holds the first error a builder setter produced.
type errs struct {
	err error
}

func (e *errs) fail(err error) {
	if e.err == nil && err != nil {
		e.err = err
	}
}
