// Package arena implements the per-connection resource arena: one
// Connection holding fixed-count pools of streams, in-flight
// packet-metadata records, and ACK records (each pool its own slice,
// allocated once in New), each pool backed
// by an intrusive singly-linked free list over slice indices. Records
// are acquired and released but never allocated after New.
package arena

import (
	"fmt"
	"unsafe"
)

// StreamID identifies a stream within a connection. InvalidStreamID is
// the all-ones sentinel every freshly carved (or released) stream slot
// carries.
type StreamID uint64

const InvalidStreamID StreamID = ^StreamID(0)

// streamTypesPerConn is QUIC's four stream types (client/server x
// bidi/uni), each allowed max_concur_streams slots, pooled together.
const streamTypesPerConn = 4

// nilIndex terminates a free list.
const nilIndex int32 = -1

// Config sizes one Connection's arena.
type Config struct {
	MaxConcurStreams uint32 // per stream type; 4x allocated in total
	MaxInFlightPkts  uint32
}

func (c Config) totalStreams() uint32 { return streamTypesPerConn * c.MaxConcurStreams }

// Stream is one pooled stream slot, carrying a back-reference to the
// connection that owns it.
type Stream struct {
	StreamID StreamID
	conn     *Connection
	next     int32
}

// Conn returns the connection this stream slot belongs to.
func (s *Stream) Conn() *Connection { return s.conn }

// PktMeta tracks one in-flight sent packet awaiting acknowledgment or
// loss detection.
type PktMeta struct {
	next         int32
	PacketNumber uint64
	Size         uint32
	SentAtNanos  int64
}

// Ack tracks one received-but-not-yet-flushed acknowledgment range.
type Ack struct {
	next         int32
	PacketNumber uint64
	Acked        bool
}

func align8(n uint64) uint64 { return (n + 7) &^ 7 }

// Footprint reports the byte size an equivalent single contiguous
// allocation would need, aligned per pool. Useful for capacity
// planning and metrics even though Connection itself allocates each
// pool as its own Go slice rather than slicing one raw byte region.
func Footprint(cfg Config) uint64 {
	var total uint64
	total += align8(uint64(unsafe.Sizeof(Connection{})))
	total += align8(uint64(cfg.totalStreams()) * uint64(unsafe.Sizeof(Stream{})))
	total += align8(uint64(cfg.MaxInFlightPkts) * uint64(unsafe.Sizeof(PktMeta{})))
	total += align8(uint64(cfg.MaxInFlightPkts) * uint64(unsafe.Sizeof(Ack{})))
	return total
}

// Connection is one connection's arena: the three pools plus their
// free-list heads. Created once per connection and discarded as a
// whole.
type Connection struct {
	cfg Config

	streams []Stream
	pktMeta []PktMeta
	acks    []Ack

	streamFree  int32
	pktMetaFree int32
	acksFree    int32
}

func freeListHead(n int) int32 {
	if n == 0 {
		return nilIndex
	}
	return 0
}

// New carves a fresh arena: zero-initializes every pool, pre-links
// each pool's intrusive free list, and stamps every stream slot with
// the invalid-stream-id sentinel and its back-reference to c.
func New(cfg Config) *Connection {
	c := &Connection{cfg: cfg}

	c.streams = make([]Stream, cfg.totalStreams())
	for i := range c.streams {
		c.streams[i].StreamID = InvalidStreamID
		c.streams[i].conn = c
		c.streams[i].next = linkNext(i, len(c.streams))
	}
	c.streamFree = freeListHead(len(c.streams))

	c.pktMeta = make([]PktMeta, cfg.MaxInFlightPkts)
	for i := range c.pktMeta {
		c.pktMeta[i].next = linkNext(i, len(c.pktMeta))
	}
	c.pktMetaFree = freeListHead(len(c.pktMeta))

	c.acks = make([]Ack, cfg.MaxInFlightPkts)
	for i := range c.acks {
		c.acks[i].next = linkNext(i, len(c.acks))
	}
	c.acksFree = freeListHead(len(c.acks))

	// The bytes actually backing the pools must match the advertised
	// footprint exactly; a mismatch is a fatal init bug, not a
	// recoverable condition. With each pool its own typed slice rather
	// than offsets carved from one region, this guards pool-count drift
	// between New and Footprint, not the footprint formula itself.
	if got, want := c.UsedBytes(), Footprint(cfg); got != want {
		panic(fmt.Sprintf("arena: pools consume %d bytes, footprint computed %d", got, want))
	}

	return c
}

// UsedBytes reports the byte footprint actually backing the arena's
// header and three pools, for comparison against Footprint.
func (c *Connection) UsedBytes() uint64 {
	var total uint64
	total += align8(uint64(unsafe.Sizeof(*c)))
	total += align8(uint64(len(c.streams)) * uint64(unsafe.Sizeof(Stream{})))
	total += align8(uint64(len(c.pktMeta)) * uint64(unsafe.Sizeof(PktMeta{})))
	total += align8(uint64(len(c.acks)) * uint64(unsafe.Sizeof(Ack{})))
	return total
}

func linkNext(i, n int) int32 {
	if i+1 < n {
		return int32(i + 1)
	}
	return nilIndex
}

// AcquireStream pops a free stream slot, stamps it with id, and
// returns its index, or -1 if the pool is exhausted.
func (c *Connection) AcquireStream(id StreamID) int32 {
	idx := c.streamFree
	if idx == nilIndex {
		return nilIndex
	}
	c.streamFree = c.streams[idx].next
	c.streams[idx].StreamID = id
	return idx
}

// ReleaseStream returns a stream slot to the free list, restoring the
// invalid-id sentinel.
func (c *Connection) ReleaseStream(idx int32) {
	c.streams[idx].StreamID = InvalidStreamID
	c.streams[idx].next = c.streamFree
	c.streamFree = idx
}

// Stream returns the stream record at idx for inspection.
func (c *Connection) Stream(idx int32) *Stream { return &c.streams[idx] }

// AcquirePktMeta pops a free packet-metadata slot, or -1 if exhausted.
func (c *Connection) AcquirePktMeta() int32 {
	idx := c.pktMetaFree
	if idx == nilIndex {
		return nilIndex
	}
	c.pktMetaFree = c.pktMeta[idx].next
	c.pktMeta[idx] = PktMeta{}
	return idx
}

// ReleasePktMeta returns a packet-metadata slot to its free list.
func (c *Connection) ReleasePktMeta(idx int32) {
	c.pktMeta[idx].next = c.pktMetaFree
	c.pktMetaFree = idx
}

// PktMeta returns the packet-metadata record at idx for inspection.
func (c *Connection) PktMeta(idx int32) *PktMeta { return &c.pktMeta[idx] }

// AcquireAck pops a free ACK-record slot, or -1 if exhausted.
func (c *Connection) AcquireAck() int32 {
	idx := c.acksFree
	if idx == nilIndex {
		return nilIndex
	}
	c.acksFree = c.acks[idx].next
	c.acks[idx] = Ack{}
	return idx
}

// ReleaseAck returns an ACK-record slot to its free list.
func (c *Connection) ReleaseAck(idx int32) {
	c.acks[idx].next = c.acksFree
	c.acksFree = idx
}

// Ack returns the ACK record at idx for inspection.
func (c *Connection) Ack(idx int32) *Ack { return &c.acks[idx] }
