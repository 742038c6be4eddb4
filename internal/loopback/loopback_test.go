package loopback

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/xskio/xskio/internal/ring"
	"github.com/xskio/xskio/internal/xdpabi"
)

type testHarness struct {
	umem                 *ring.Umem
	fillU, rxU, txU, crU *ring.Descriptor
	fillK, rxK, txK, crK *ring.Descriptor
}

func newHarness(t *testing.T, depth uint32) *testHarness {
	t.Helper()
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

	mem := make([]byte, 2048*int(depth))
	return &testHarness{
		umem:  ring.NewUmem(mem, 2048),
		fillU: fillU, rxU: rxU, txU: txU, crU: crU,
		fillK: fillK, rxK: rxK, txK: txK, crK: crK,
	}
}

func TestTickDrainsTxIntoCompletion(t *testing.T) {
	h := newHarness(t, 8)
	peer := NewPeer(h.umem, h.fillK, h.rxK, h.txK, h.crK, 4, false)

	granted := h.txU.Reserve(2)
	require.Equal(t, uint32(2), granted)
	for i := uint32(0); i < granted; i++ {
		writeDesc(h.txU, h.txU.ReserveSlot(i), uint64(i)*2048, 64)
	}
	h.txU.Publish(granted)

	n := peer.Tick()
	require.Equal(t, 2, n)

	claimed := h.crU.Peek(2)
	require.Equal(t, uint32(2), claimed)
	require.Equal(t, uint64(0), readFillEntry(h.crU, h.crU.PeekSlot(0)))
	require.Equal(t, uint64(2048), readFillEntry(h.crU, h.crU.PeekSlot(1)))
}

func TestEchoRedeliversPayloadViaRx(t *testing.T) {
	h := newHarness(t, 8)
	peer := NewPeer(h.umem, h.fillK, h.rxK, h.txK, h.crK, 4, true)

	payload := []byte("hello-loopback")
	copy(h.umem.Frame(0, uint32(len(payload))), payload)

	granted := h.txU.Reserve(1)
	writeDesc(h.txU, h.txU.ReserveSlot(0), 0, uint32(len(payload)))
	h.txU.Publish(granted)

	fillGranted := h.fillU.Reserve(1)
	writeFillEntry(h.fillU, h.fillU.ReserveSlot(0), 2048)
	h.fillU.Publish(fillGranted)

	peer.Tick()

	claimed := h.rxU.Peek(1)
	require.Equal(t, uint32(1), claimed)
	desc := readDesc(h.rxU, h.rxU.PeekSlot(0))
	require.Equal(t, uint64(2048), desc.Addr)
	require.Equal(t, uint32(len(payload)), desc.Len)
	require.Equal(t, payload, h.umem.Frame(desc.Addr, desc.Len))
}
