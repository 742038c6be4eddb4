//go:build !linux || !cgo || !amd64

package ring

// Wmb/Rmb degrade to no-ops off Linux/cgo/amd64. The cursor loads and
// stores themselves still go through sync/atomic (see Descriptor),
// which already carries acquire/release semantics on arm64 and is
// sufficient for the tests and simulated kernel peer in
// internal/loopback; only a real AF_XDP join on x86 Linux needs the
// explicit fences against a concurrently-writing kernel.
func Wmb() {}
func Rmb() {}
