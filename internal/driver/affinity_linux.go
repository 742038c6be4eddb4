//go:build linux

package driver

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// PinThread locks the calling goroutine to its OS thread and binds that
// thread to the given CPU. One XSK/adapter instance is pumped by exactly
// one thread; pinning it near the NIC queue's IRQ core keeps the shared
// ring cursors' cache lines local.
func PinThread(cpu int) error {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}
