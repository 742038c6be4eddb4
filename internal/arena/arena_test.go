package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Partition sizing: a fresh Connection's three pools have
// exactly 4*max_concur_streams, max_in_flight_pkts, and
// max_in_flight_pkts slots.
func TestPartitionSizes(t *testing.T) {
	cfg := Config{MaxConcurStreams: 4, MaxInFlightPkts: 16}
	c := New(cfg)
	require.Len(t, c.streams, 16)
	require.Len(t, c.pktMeta, 16)
	require.Len(t, c.acks, 16)
}

func TestFreshStreamsCarrySentinel(t *testing.T) {
	cfg := Config{MaxConcurStreams: 2, MaxInFlightPkts: 4}
	c := New(cfg)
	for i := range c.streams {
		require.Equal(t, InvalidStreamID, c.streams[i].StreamID)
	}
}

// Free-list closure: acquiring every slot in a pool
// exhausts it (-1 returned); releasing all of them in any order brings
// the pool back to full capacity with no duplicate or lost indices.
func TestFreeListClosure(t *testing.T) {
	cfg := Config{MaxConcurStreams: 1, MaxInFlightPkts: 8}
	c := New(cfg)
	total := int(cfg.totalStreams())

	acquired := make([]int32, 0, total)
	for i := 0; i < total; i++ {
		idx := c.AcquireStream(StreamID(i))
		require.NotEqual(t, nilIndex, idx, "pool must not exhaust early")
		acquired = append(acquired, idx)
	}
	require.Equal(t, nilIndex, c.AcquireStream(StreamID(999)), "pool must be fully exhausted")

	seen := make(map[int32]bool, total)
	for _, idx := range acquired {
		require.False(t, seen[idx], "acquire must never hand out the same index twice")
		seen[idx] = true
	}

	// Release in reverse order; the pool must accept every slot back.
	for i := len(acquired) - 1; i >= 0; i-- {
		c.ReleaseStream(acquired[i])
	}
	for i := 0; i < total; i++ {
		idx := c.AcquireStream(StreamID(i))
		require.NotEqual(t, nilIndex, idx, "released slots must be re-acquirable")
	}
}

func TestPktMetaAndAckPools(t *testing.T) {
	cfg := Config{MaxConcurStreams: 1, MaxInFlightPkts: 2}
	c := New(cfg)

	a := c.AcquirePktMeta()
	b := c.AcquirePktMeta()
	require.NotEqual(t, nilIndex, a)
	require.NotEqual(t, nilIndex, b)
	require.Equal(t, nilIndex, c.AcquirePktMeta())

	c.PktMeta(a).PacketNumber = 42
	c.ReleasePktMeta(a)
	reacquired := c.AcquirePktMeta()
	require.Equal(t, a, reacquired)
	require.Equal(t, uint64(0), c.PktMeta(reacquired).PacketNumber, "released slot must come back zeroed")

	ackIdx := c.AcquireAck()
	require.NotEqual(t, nilIndex, ackIdx)
	c.Ack(ackIdx).Acked = true
	c.ReleaseAck(ackIdx)
	reack := c.AcquireAck()
	require.False(t, c.Ack(reack).Acked)
}

func TestFootprintScalesWithConfig(t *testing.T) {
	small := Footprint(Config{MaxConcurStreams: 1, MaxInFlightPkts: 1})
	large := Footprint(Config{MaxConcurStreams: 8, MaxInFlightPkts: 64})
	require.Greater(t, large, small)
}

func TestUsedBytesMatchesFootprint(t *testing.T) {
	cfg := Config{MaxConcurStreams: 4, MaxInFlightPkts: 8}
	c := New(cfg)
	require.Equal(t, Footprint(cfg), c.UsedBytes())
}

func TestStreamsCarryConnectionBackReference(t *testing.T) {
	cfg := Config{MaxConcurStreams: 2, MaxInFlightPkts: 4}
	c := New(cfg)
	idx := c.AcquireStream(7)
	require.NotEqual(t, nilIndex, idx)
	require.Same(t, c, c.Stream(idx).Conn())
}
