// errors.go: boundary error taxonomy

package simtemp

import "errors"

// Boundary errors returned by Device and transport operations. The set is
// intentionally small and stable: callers switch on these with errors.Is,
// never on error strings.
var (
	// ErrInvalidArgument is returned for an out-of-range attribute write,
	// an unknown mode string, or a read buffer smaller than SampleSize.
	ErrInvalidArgument = errors.New("simtemp: invalid argument")

	// ErrWouldBlock is returned by a non-blocking Read on an empty buffer.
	ErrWouldBlock = errors.New("simtemp: would block")

	// ErrInterrupted is returned when a suspended Read or Poll is canceled,
	// or when the device is shutting down while a caller is suspended.
	ErrInterrupted = errors.New("simtemp: interrupted")

	// ErrIOError is returned when copying a sample out to the caller fails.
	ErrIOError = errors.New("simtemp: io error")

	// ErrResourceExhausted is part of the documented error taxonomy for an
	// allocation failure during NewDevice. Go's allocator panics rather
	// than returning an error, so there is no code path that produces
	// this value; it is kept so callers may still errors.Is against the
	// full taxonomy without a special case for this one member.
	ErrResourceExhausted = errors.New("simtemp: resource exhausted")
)
