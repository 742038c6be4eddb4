package driver

import (
	"github.com/xskio/xskio/internal/iface"
	"github.com/xskio/xskio/internal/ring"
)

// NewJoinedForTest builds a Driver already in state Joined over caller-
// supplied ring descriptors, bypassing the real AF_XDP socket/XSKMAP
// plumbing in Join. Used by adapter and loopback tests to exercise the
// ring protocol against a simulated kernel peer instead of a real NIC.
func NewJoinedForTest(cfg Config, mem []byte, fill, rx, tx, cr *ring.Descriptor, log iface.Logger) (*Driver, error) {
	d, err := Format(cfg, mem, log)
	if err != nil {
		return nil, err
	}
	if err := d.Bind("test0", 0); err != nil {
		return nil, err
	}
	if err := d.joinRings(fill, rx, tx, cr, -1, -1); err != nil {
		return nil, err
	}
	return d, nil
}
