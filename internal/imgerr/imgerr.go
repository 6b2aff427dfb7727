// Package imgerr defines the error kinds returned by the image editing core.
//
// Every failure surfaced by the codec, transform and editor packages is an
// *Error carrying one Kind. Callers test for a kind with errors.Is against the
// package sentinels:
//
//	if errors.Is(err, imgerr.ErrOutOfBounds) {
//	    // bad crop rectangle
//	}
package imgerr

import (
	"errors"
	"fmt"
)

// Kind classifies an image editing failure.
type Kind int

const (
	// KindDecode means the input bytes were empty, truncated or not a
	// recognized container.
	KindDecode Kind = iota + 1

	// KindEncode means the current buffer could not be serialized.
	KindEncode

	// KindOutOfBounds means a crop, resize or pixel request fell outside
	// the buffer.
	KindOutOfBounds

	// KindUnsupportedTransform means a rotation angle outside {0, 90, 180, 270}.
	KindUnsupportedTransform
)

func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "decode error"
	case KindEncode:
		return "encode error"
	case KindOutOfBounds:
		return "out of bounds"
	case KindUnsupportedTransform:
		return "unsupported transform"
	default:
		return "unknown error"
	}
}

// Sentinels matching any *Error of the corresponding kind.
var (
	ErrDecode               = &Error{Kind: KindDecode}
	ErrEncode               = &Error{Kind: KindEncode}
	ErrOutOfBounds          = &Error{Kind: KindOutOfBounds}
	ErrUnsupportedTransform = &Error{Kind: KindUnsupportedTransform}
)

// ErrClosed is returned by operations on an image that has been closed.
var ErrClosed = errors.New("imgedit: image is closed")

// Error is a kinded image editing failure.
type Error struct {
	Kind Kind   // Failure class
	Op   string // Operation that failed, e.g. "crop" or "png.decode"
	Msg  string // Optional detail
	Err  error  // Underlying cause, may be nil
}

func (e *Error) Error() string {
	s := e.Kind.String()
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a kind sentinel (or any *Error) of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// Decode returns a KindDecode error for op wrapping err.
func Decode(op string, err error) *Error {
	return &Error{Kind: KindDecode, Op: op, Err: err}
}

// Encode returns a KindEncode error for op wrapping err.
func Encode(op string, err error) *Error {
	return &Error{Kind: KindEncode, Op: op, Err: err}
}

// OutOfBounds returns a KindOutOfBounds error with a formatted detail message.
func OutOfBounds(op, format string, args ...any) *Error {
	return &Error{Kind: KindOutOfBounds, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// UnsupportedTransform returns a KindUnsupportedTransform error with a
// formatted detail message.
func UnsupportedTransform(op, format string, args ...any) *Error {
	return &Error{Kind: KindUnsupportedTransform, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
