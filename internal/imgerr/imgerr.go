// Package imgerr defines the error taxonomy shared by the decoding pipeline.
//
// Every failure surfaced by a decoder carries one of three kinds:
//   - ErrRead: the file is missing, unreadable, or too short for header inspection
//   - ErrDecode: the container is malformed or the codec rejects its bytes
//   - ErrConfig: the input geometry or normalization range is invalid
//
// Callers classify failures with errors.Is:
//
//	if errors.Is(err, imgerr.ErrDecode) {
//	    // show "unsupported or corrupt image"
//	}
package imgerr

import (
	"errors"
	"fmt"
)

var (
	// ErrRead is returned when a file cannot be opened or read far enough.
	ErrRead = errors.New("read error")

	// ErrDecode is returned when image bytes cannot be turned into pixels.
	ErrDecode = errors.New("decode error")

	// ErrConfig is returned for invalid CFA geometry or a degenerate level range.
	ErrConfig = errors.New("config error")
)

// Kind identifies which class of failure an Error belongs to.
type Kind uint8

const (
	KindRead Kind = iota + 1
	KindDecode
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindDecode:
		return "decode"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindRead:
		return ErrRead
	case KindDecode:
		return ErrDecode
	case KindConfig:
		return ErrConfig
	default:
		return nil
	}
}

// Error is a classified failure from one pipeline operation.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "detect" or "demosaic"
	Path string // file involved; empty for in-memory inputs
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.String() + " error"
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s: %s error", e.Op, e.Path, e.Kind)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// Read wraps err as a read failure.
func Read(op, path string, err error) error {
	return &Error{Kind: KindRead, Op: op, Path: path, Err: err}
}

// Decode wraps err as a decode failure.
func Decode(op, path string, err error) error {
	return &Error{Kind: KindDecode, Op: op, Path: path, Err: err}
}

// Config wraps err as a configuration failure.
func Config(op string, err error) error {
	return &Error{Kind: KindConfig, Op: op, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain,
// or 0 when err is nil or unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
