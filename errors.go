package xskio

import "github.com/xskio/xskio/internal/iface"

// Error is a structured xskio error carrying the failing operation, a
// high-level Code, and an optional wrapped cause. Aliased from
// internal/iface so internal packages can construct and classify
// errors without importing the public package (which itself imports
// internal/driver and internal/adapter).
type Error = iface.Error

// Code is the high-level error category: configuration/init errors,
// invariant violations, oversize payloads, and kernel errors.
// Back-pressure is deliberately not a Code; it is a short return
// count, never an error.
type Code = iface.Code

const (
	CodeConfig    = iface.CodeConfig
	CodeInvariant = iface.CodeInvariant
	CodeOversize  = iface.CodeOversize
	CodeKernel    = iface.CodeKernel
)

// NewError, WrapError and IsCode are re-exported so callers never need
// to reach into internal/iface directly.
var (
	NewError  = iface.NewError
	WrapError = iface.WrapError
	IsCode    = iface.IsCode
)
