package adapter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xskio/xskio/internal/iface"
)

// Loopback echo: every transmitted buffer comes back
// through RX, byte-for-byte, once the peer's echo path and a housekeep
// poll have both run.
func TestLoopbackEcho(t *testing.T) {
	sink := &collectSink{}
	r := newRig(t, 64, 16, true, sink)

	payloads := make([][]byte, 20)
	for i := range payloads {
		buf := make([]byte, 64)
		for j := range buf {
			buf[j] = byte(i)
		}
		payloads[i] = buf
	}

	batch := make([]iface.Buffer, len(payloads))
	for i, p := range payloads {
		batch[i] = iface.Buffer{Data: p}
	}
	n, err := r.a.Receive(batch)
	require.NoError(t, err)
	require.Equal(t, len(payloads), n)

	r.peer.Tick()
	// Housekeep only drains up to batch_cnt RX entries per call; loop
	// until every echoed payload has been delivered.
	for i := 0; i < 10 && len(sink.got) < len(payloads); i++ {
		require.NoError(t, r.a.Housekeep())
	}

	require.Len(t, sink.got, len(payloads))
	for i, want := range payloads {
		require.Equal(t, want, sink.got[i])
	}
}

// Back-pressure: exhaust the free stack with more buffers
// than tx_depth; Receive must stop at the free stack boundary and
// report the index reached rather than erroring.
func TestTxBackpressureStopsAtFreeStack(t *testing.T) {
	depth := uint32(8)
	sink := &collectSink{}
	r := newRig(t, depth, 4, false, sink)

	batch := make([]iface.Buffer, depth+5)
	for i := range batch {
		batch[i] = iface.Buffer{Data: []byte{byte(i)}}
	}

	n, err := r.a.Receive(batch)
	require.NoError(t, err)
	require.Equal(t, int(depth), n, "must stop once the free stack is exhausted")
	require.Equal(t, uint32(0), r.a.top)

	// Reclaiming frames via the peer's completion path must free the
	// stack back up for a subsequent Receive.
	r.peer.Tick()
	r.a.drainTxCompletions()
	require.Equal(t, depth, r.a.top)
}

// An oversize payload is dropped, counted as consumed,
// and does not consume a free-stack frame.
func TestOversizePayloadDropped(t *testing.T) {
	sink := &collectSink{}
	r := newRig(t, 8, 4, false, sink)

	oversize := make([]byte, 4096) // larger than frame_sz=2048
	topBefore := r.a.top

	n, err := r.a.Receive([]iface.Buffer{{Data: oversize}})
	require.NoError(t, err)
	require.Equal(t, 1, n, "oversize buffer is still counted as consumed")
	require.Equal(t, topBefore, r.a.top, "no frame should be popped for a dropped buffer")
}

// Frame conservation and stack bound: across many
// transmit+reclaim cycles, the free stack never exceeds tx_depth and
// top never underflows.
func TestFreeStackNeverExceedsDepth(t *testing.T) {
	depth := uint32(16)
	sink := &collectSink{}
	r := newRig(t, depth, 8, true, sink)

	for round := 0; round < 50; round++ {
		batch := make([]iface.Buffer, 8)
		for i := range batch {
			batch[i] = iface.Buffer{Data: []byte{byte(round), byte(i)}}
		}
		_, err := r.a.Receive(batch)
		require.NoError(t, err)
		require.LessOrEqual(t, r.a.top, depth)

		r.peer.Tick()
		require.NoError(t, r.a.Housekeep())
		require.LessOrEqual(t, r.a.top, depth)
	}
}

// Join priming: rx_depth frames must land on FILL, and tx_depth frames
// must be on the free stack, immediately after Join.
func TestJoinPrimesRxAndTxPartitions(t *testing.T) {
	depth := uint32(32)
	r := newRig(t, depth, 8, false, &collectSink{})
	require.Equal(t, uint32(0), r.d.RxEnqueue([]uint64{0}), "FILL (fr_depth == rx_depth) must already hold all rx_depth primed frames")
	require.Equal(t, depth, r.a.top, "tx free stack must be fully primed")
}

// A batch of [good(100), bad(3000), good(200)] with
// frame_sz=2048 drops only the oversize middle buffer and still
// advances the returned index past it.
func TestOversizeDropMidBatchAdvancesPastIt(t *testing.T) {
	sink := &collectSink{}
	r := newRig(t, 8, 4, false, sink)

	good1 := make([]byte, 100)
	bad := make([]byte, 3000)
	good2 := make([]byte, 200)
	topBefore := r.a.top

	n, err := r.a.Receive([]iface.Buffer{{Data: good1}, {Data: bad}, {Data: good2}})
	require.NoError(t, err)
	require.Equal(t, 3, n, "index advances past the dropped buffer")
	require.Equal(t, topBefore-2, r.a.top, "only the two good buffers consume a free-stack frame")
}
