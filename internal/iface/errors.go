package iface

import (
	"errors"
	"fmt"
	"syscall"
)

// Code is the high-level error category: configuration/init errors,
// invariant violations, oversize payloads, and kernel errors are the
// kinds that ever surface as an *Error. Back-pressure is deliberately
// not a Code; it is a short return count, never an error.
type Code string

const (
	CodeConfig    Code = "configuration error"
	CodeInvariant Code = "invariant violation"
	CodeOversize  Code = "oversize payload"
	CodeKernel    Code = "kernel error"
)

// Error is a structured error carrying the failing operation, a
// category, and an optional wrapped cause.
type Error struct {
	Op    string
	Code  Code
	Errno syscall.Errno
	Msg   string
	Inner error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Op != "" {
		return fmt.Sprintf("xskio: %s: %s", e.Op, msg)
	}
	return fmt.Sprintf("xskio: %s", msg)
}

func (e *Error) Unwrap() error { return e.Inner }

func (e *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == te.Code
}

// NewError builds a plain configuration/invariant/oversize error.
func NewError(op string, code Code, format string, args ...interface{}) *Error {
	return &Error{Op: op, Code: code, Msg: fmt.Sprintf(format, args...)}
}

// NewKernelError wraps a syscall failure encountered during bind/join.
func NewKernelError(op string, errno syscall.Errno) *Error {
	return &Error{Op: op, Code: CodeKernel, Errno: errno, Msg: errno.Error()}
}

// WrapError wraps an arbitrary error with operation context, preserving
// an existing *Error's Code if the inner error is already one of ours.
func WrapError(op string, code Code, inner error) *Error {
	if inner == nil {
		return nil
	}
	if e, ok := inner.(*Error); ok {
		return &Error{Op: op, Code: e.Code, Errno: e.Errno, Msg: e.Msg, Inner: e.Inner}
	}
	if errno, ok := inner.(syscall.Errno); ok {
		return &Error{Op: op, Code: code, Errno: errno, Msg: errno.Error(), Inner: inner}
	}
	return &Error{Op: op, Code: code, Msg: inner.Error(), Inner: inner}
}

// IsCode reports whether err is an *Error with the given Code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
