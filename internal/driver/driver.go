// Package driver implements the XSK driver: the lifecycle state
// machine and the four batch ring operations layered over
// internal/ring's reservation/consumption protocol.
package driver

import (
	"github.com/xskio/xskio/internal/iface"
	"github.com/xskio/xskio/internal/ring"
	"github.com/xskio/xskio/internal/xdpabi"
)

// Driver is a handle bundling the UMEM area, the four ring descriptors,
// the bound interface name and queue index, and a magic tag that Format
// sets and Delete clears; no operation checks it.
type Driver struct {
	Magic uint64

	cfg   Config
	state State
	umem  *ring.Umem

	fill *ring.Descriptor // FILL: user produces, kernel consumes
	rx   *ring.Descriptor // RX: kernel produces, user consumes
	tx   *ring.Descriptor // TX: user produces, kernel consumes
	cr   *ring.Descriptor // COMPLETION: kernel produces, user consumes

	sockFd   int
	xskmapFd int

	log iface.Logger
	obs iface.Observer
}

// SetObserver installs an Observer notified of kernel wakeup kicks.
// Typically called by the adapter at join time.
func (d *Driver) SetObserver(obs iface.Observer) { d.obs = obs }

// nopLogger discards everything; used when no Logger is supplied.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// Format validates cfg and wraps a UMEM region, without touching any
// kernel state.
func Format(cfg Config, mem []byte, log iface.Logger) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = nopLogger{}
	}
	want := cfg.FrameSize * (cfg.FrDepth) // at minimum enough frames for the FILL ring
	if uint32(len(mem)) < want {
		return nil, iface.NewError("format", iface.CodeConfig, "umem region too small: have %d bytes, need at least %d", len(mem), want)
	}
	return &Driver{
		Magic: xdpabi.Magic,
		cfg:   cfg,
		state: StateFormatted,
		umem:  ring.NewUmem(mem, cfg.FrameSize),
		log:   log,
	}, nil
}

// Bind records the target NIC interface and queue index without yet
// opening the AF_XDP socket.
func (d *Driver) Bind(ifname string, queue uint32) error {
	if d.state != StateFormatted {
		return iface.NewError("bind", iface.CodeInvariant, "bind requires state formatted, have %s", d.state)
	}
	d.cfg.Ifname = ifname
	d.cfg.Queue = queue
	d.state = StateBound
	return nil
}

// State returns the driver's current lifecycle state.
func (d *Driver) State() State { return d.state }

// Config returns the driver's configuration.
func (d *Driver) Config() Config { return d.cfg }

// Umem returns the driver's UMEM region.
func (d *Driver) Umem() *ring.Umem { return d.umem }

// joinRings is called by the platform Join implementation (or directly by
// tests) once the four ring descriptors have been constructed, either
// over real mmap'd kernel memory or, in tests, over plain heap buffers
// paired with a simulated kernel peer. Asserts "no other live join" by
// requiring state Bound.
func (d *Driver) joinRings(fill, rx, tx, cr *ring.Descriptor, sockFd, xskmapFd int) error {
	if d.state != StateBound {
		return iface.NewError("join", iface.CodeInvariant, "join requires state bound, have %s", d.state)
	}
	d.fill, d.rx, d.tx, d.cr = fill, rx, tx, cr
	d.sockFd = sockFd
	d.xskmapFd = xskmapFd
	d.state = StateJoined
	return nil
}

// Leave tears down kernel state and returns the driver to state left.
func (d *Driver) Leave() error {
	if d.state != StateJoined {
		return iface.NewError("leave", iface.CodeInvariant, "leave requires state joined, have %s", d.state)
	}
	if err := d.unjoin(); err != nil {
		d.log.Warnf("driver: unjoin: %v", err)
	}
	d.fill, d.rx, d.tx, d.cr = nil, nil, nil, nil
	d.state = StateLeft
	return nil
}

// Delete clears the magic tag, releasing the formatted region for reuse.
func (d *Driver) Delete() error {
	if d.state != StateLeft && d.state != StateFormatted && d.state != StateBound {
		return iface.NewError("delete", iface.CodeInvariant, "delete requires a non-joined state, have %s", d.state)
	}
	d.Magic = 0
	d.state = StateDeleted
	return nil
}

// RxEnqueue publishes up to len(offsets) frame offsets onto FILL.
// Returns the number actually published (0..n); a short count means
// the ring is full, not an error.
func (d *Driver) RxEnqueue(offsets []uint64) uint32 {
	n := uint32(len(offsets))
	granted := d.fill.Reserve(n)
	for i := uint32(0); i < granted; i++ {
		slot := d.fill.ReserveSlot(i)
		xdpabi.PutFillEntry(d.entryBytes(d.fill, slot, 8), offsets[i])
	}
	d.fill.Publish(granted)
	return granted
}

// RxComplete drains up to len(meta) RX entries into meta. Returns the
// number drained.
func (d *Driver) RxComplete(meta []iface.FrameMeta) uint32 {
	n := uint32(len(meta))
	claimed := d.rx.Peek(n)
	for i := uint32(0); i < claimed; i++ {
		slot := d.rx.PeekSlot(i)
		desc, _ := xdpabi.GetDescTx(d.entryBytes(d.rx, slot, xdpabi.DescTxSize))
		meta[i] = iface.FrameMeta{Offset: desc.Addr, Length: desc.Len, Flags: desc.Options}
	}
	d.rx.Release(claimed)
	return claimed
}

// TxEnqueue publishes up to len(meta) packet descriptors onto TX,
// issuing a kernel wakeup if the ring's flags word requests one.
// Returns the number published.
func (d *Driver) TxEnqueue(meta []iface.FrameMeta) uint32 {
	n := uint32(len(meta))
	granted := d.tx.Reserve(n)
	for i := uint32(0); i < granted; i++ {
		slot := d.tx.ReserveSlot(i)
		_ = xdpabi.PutDescTx(d.entryBytes(d.tx, slot, xdpabi.DescTxSize), xdpabi.DescTx{
			Addr: meta[i].Offset, Len: meta[i].Length, Options: meta[i].Flags,
		})
	}
	d.tx.Publish(granted)
	if d.tx.NeedWakeup() {
		if err := d.wakeupTx(); err != nil {
			d.log.Warnf("driver: tx wakeup: %v", err)
		} else if d.obs != nil {
			d.obs.ObserveWakeup()
		}
	}
	return granted
}

// TxComplete drains up to len(offsets) COMPLETION entries. Returns the
// number drained.
func (d *Driver) TxComplete(offsets []uint64) uint32 {
	n := uint32(len(offsets))
	claimed := d.cr.Peek(n)
	for i := uint32(0); i < claimed; i++ {
		slot := d.cr.PeekSlot(i)
		offsets[i] = xdpabi.GetFillEntry(d.entryBytes(d.cr, slot, 8))
	}
	d.cr.Release(claimed)
	return claimed
}

// TxNeedWakeup / RxNeedWakeup report whether the kernel has requested a
// wakeup kick. The kernel sets the flag only on the two user-producer
// rings: TX for the transmit side, FILL for the receive side.
func (d *Driver) TxNeedWakeup() bool { return d.tx.NeedWakeup() }
func (d *Driver) RxNeedWakeup() bool { return d.fill.NeedWakeup() }

// entryBytes views entrySize bytes at the given ring slot as a []byte
// for xdpabi's marshal helpers.
func (d *Driver) entryBytes(desc *ring.Descriptor, slot uint32, entrySize int) []byte {
	ptr := desc.EntryAt(slot)
	return unsafeSlice(ptr, entrySize)
}
