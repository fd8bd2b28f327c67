package resp

import (
	"errors"
	"fmt"
)

var (
	// ErrNotComplete reports that the buffered bytes do not yet hold a whole
	// frame. The buffer is left untouched; retry once more bytes arrive.
	ErrNotComplete = errors.New("resp: frame is not complete")

	ErrInvalidFrame       = errors.New("resp: invalid frame")
	ErrInvalidFrameType   = errors.New("resp: invalid frame type")
	ErrInvalidFrameLength = fmt.Errorf("%w length", ErrInvalidFrame)
)

// ParseError records a frame payload that failed numeric conversion.
type ParseError struct {
	Kind  string // integer, double or length
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("resp: parse %s %q: %v", e.Kind, e.Input, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrInvalidFrame, e.Err}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidFrame}, args...)...)
}

func invalidType(want, got byte) error {
	return fmt.Errorf("%w: want %q, got %q", ErrInvalidFrameType, want, got)
}
