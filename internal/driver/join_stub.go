//go:build !linux

package driver

import "github.com/xskio/xskio/internal/iface"

// Join is unavailable off Linux — AF_XDP is a Linux-only kernel facility.
// Tests exercise the ring operations directly via joinRings with a
// simulated kernel peer (see internal/loopback) instead of calling Join.
func (d *Driver) Join() error {
	return iface.NewError("join", iface.CodeKernel, "AF_XDP is only available on linux")
}

func (d *Driver) wakeupTx() error { return nil }

func (d *Driver) unjoin() error { return nil }
