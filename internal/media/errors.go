package media

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedInput = errors.New("unsupported input: expected an image or audio file")
	ErrNoFile           = errors.New("no file provided")
	ErrInvalidSpec      = errors.New("invalid resize spec")
	ErrDecode           = errors.New("decode failed")
	ErrEncode           = errors.New("encode failed")
)

// Op names the step that failed.
type Op string

const (
	OpClassify Op = "classify"
	OpDecode   Op = "decode"
	OpResample Op = "resample"
	OpEncode   Op = "encode"
)

// Error is a failed transcode step. It unwraps to both its class sentinel
// (ErrDecode, ErrEncode, ...) and the underlying cause.
type Error struct {
	Op    Op
	Kind  Kind
	Class error
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v: %v", e.Kind, e.Op, e.Class, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Op, e.Class)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Class}
	}
	return []error{e.Class, e.Err}
}

func NewDecodeError(kind Kind, err error) *Error {
	return &Error{Op: OpDecode, Kind: kind, Class: ErrDecode, Err: err}
}

func NewEncodeError(kind Kind, err error) *Error {
	return &Error{Op: OpEncode, Kind: kind, Class: ErrEncode, Err: err}
}

func NewResampleError(err error) *Error {
	return &Error{Op: OpResample, Kind: KindAudio, Class: ErrDecode, Err: err}
}
