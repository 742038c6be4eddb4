package adapter

import (
	"testing"
	"unsafe"

	"github.com/xskio/xskio/internal/driver"
	"github.com/xskio/xskio/internal/iface"
	"github.com/xskio/xskio/internal/loopback"
	"github.com/xskio/xskio/internal/ring"
	"github.com/xskio/xskio/internal/xdpabi"
)

// rig bundles a Driver joined over heap-allocated rings with a
// loopback.Peer on the other side, and an Adapter joined on top,
// sized so the RX and TX UMEM partitions don't overlap.
type rig struct {
	mem  []byte
	d    *driver.Driver
	peer *loopback.Peer
	a    *Adapter
}

func newRig(t *testing.T, depth uint32, batchCnt uint32, echo bool, rx iface.Sink) *rig {
	t.Helper()
	const frameSz = 2048

	mk := func(entrySize uintptr) (u, k *ring.Descriptor) {
		entries := make([]byte, uintptr(depth)*entrySize)
		prod, cons, flags := new(uint32), new(uint32), new(uint32)
		base := unsafe.Pointer(&entries[0])
		u = ring.NewDescriptor(base, entrySize, depth, prod, cons, flags)
		k = ring.NewDescriptor(base, entrySize, depth, prod, cons, flags)
		return
	}
	fillU, fillK := mk(8)
	rxU, rxK := mk(xdpabi.DescTxSize)
	txU, txK := mk(xdpabi.DescTxSize)
	crU, crK := mk(8)

	dcfg := driver.Config{FrameSize: frameSz, FrDepth: depth, RxDepth: depth, TxDepth: depth, CrDepth: depth}
	mem := make([]byte, frameSz*int(depth)*2) // two partitions, rx and tx
	d, err := driver.NewJoinedForTest(dcfg, mem, fillU, rxU, txU, crU, nil)
	if err != nil {
		t.Fatalf("join driver: %v", err)
	}

	peer := loopback.NewPeer(d.Umem(), fillK, rxK, txK, crK, batchCnt, echo)

	acfg := Config{
		BatchCnt: batchCnt,
		TxDepth:  depth,
		RxDepth:  depth,
		RxOff:    0,
		TxOff:    uint64(frameSz) * uint64(depth),
	}
	a, err := Join(d, acfg, rx, nil, nil)
	if err != nil {
		t.Fatalf("join adapter: %v", err)
	}

	return &rig{mem: mem, d: d, peer: peer, a: a}
}
