package demo

import (
	"errors"
	"fmt"
)

// ErrorCode classifies why a demo could not be read.
type ErrorCode int

const (
	ErrOpen ErrorCode = iota + 1
	ErrNotFound
	ErrBadHeader
	ErrTruncated
	ErrBlockSize
	ErrBadMessage
	ErrUnsupportedProtocol
	ErrCompression
)

var errorText = map[ErrorCode]string{
	ErrOpen:                "could not open file",
	ErrNotFound:            "file not found",
	ErrBadHeader:           "bad demo header",
	ErrTruncated:           "demo is truncated",
	ErrBlockSize:           "invalid block size",
	ErrBadMessage:          "invalid message",
	ErrUnsupportedProtocol: "unsupported protocol",
	ErrCompression:         "could not decompress demo",
}

func (c ErrorCode) String() string {
	if s, ok := errorText[c]; ok {
		return s
	}
	return fmt.Sprintf("demo error %d", int(c))
}

// Error is returned by Read and ReadFrom for every failure.
type Error struct {
	Code ErrorCode
	// Offset is the position in the decompressed stream where the problem
	// was found, or -1 when it does not apply.
	Offset int64
	Err    error
}

func (e *Error) Error() string {
	msg := e.Code.String()
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s at offset %d", msg, e.Offset)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match on the code alone, e.g.
// errors.Is(err, &demo.Error{Code: demo.ErrTruncated}).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of a demo error, or 0 when err is not one.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

func newError(code ErrorCode, offset int64, err error) *Error {
	return &Error{Code: code, Offset: offset, Err: err}
}
