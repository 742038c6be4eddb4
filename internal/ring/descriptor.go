// Package ring implements the producer/consumer reservation protocol
// shared by all four AF_XDP rings (FILL, RX, TX, COMPLETION): a
// fixed-capacity circular buffer in memory shared with the kernel, a
// producer cursor, a consumer cursor, and thread-local cached copies of
// the cursor the caller does not own.
package ring

import (
	"sync/atomic"
	"unsafe"

	"github.com/xskio/xskio/internal/xdpabi"
)

// Descriptor is one ring: base pointer to the entry array, depth (a power
// of two; mask = depth-1), pointers to the kernel-shared producer and
// consumer cursors and the ring's flags word, and this party's cached
// copies of both cursors.
//
// A single ring has two Descriptor values in play at any time, one held
// by each party (userspace and kernel for a real join; two independent
// Descriptors over the same backing memory in tests), each caching the
// other's cursor locally.
type Descriptor struct {
	entries   unsafe.Pointer
	entrySize uintptr
	depth     uint32
	mask      uint32

	prod  *uint32
	cons  *uint32
	flags *uint32

	cachedProd uint32
	cachedCons uint32
}

// NewDescriptor wraps an existing mmap'd (or, in tests, heap-allocated)
// entry array and its three shared cursor words. depth must be a power
// of two.
func NewDescriptor(entries unsafe.Pointer, entrySize uintptr, depth uint32, prod, cons, flags *uint32) *Descriptor {
	return &Descriptor{
		entries:   entries,
		entrySize: entrySize,
		depth:     depth,
		mask:      depth - 1,
		prod:      prod,
		cons:      cons,
		flags:     flags,
	}
}

// Depth returns the ring's fixed capacity.
func (d *Descriptor) Depth() uint32 { return d.depth }

// EntryAt returns a pointer to the entry slot for ring index idx
// (already reduced modulo depth by the caller via Slot).
func (d *Descriptor) EntryAt(slot uint32) unsafe.Pointer {
	return unsafe.Add(d.entries, uintptr(slot)*d.entrySize)
}

// Slot reduces a cursor value to an entry-array index.
func (d *Descriptor) Slot(cursor uint32) uint32 { return cursor & d.mask }

// NeedWakeup reports whether the kernel has set the NEED_WAKEUP bit in
// the ring's shared flags word.
func (d *Descriptor) NeedWakeup() bool {
	return atomic.LoadUint32(d.flags)&xdpabi.RingFlagNeedWakeup != 0
}

// Reserve attempts to reserve n slots for the producer side. Returns
// min(n, free), reloading the cached consumer cursor with an
// acquire-ordered load if the cheaply-computed free count is
// insufficient. Never blocks.
func (d *Descriptor) Reserve(n uint32) uint32 {
	free := d.depth - (d.cachedProd - d.cachedCons)
	if free < n {
		Rmb()
		d.cachedCons = atomic.LoadUint32(d.cons)
		free = d.depth - (d.cachedProd - d.cachedCons)
	}
	if n > free {
		n = free
	}
	return n
}

// ReserveSlot returns the entry-array slot for the i'th of a batch
// granted by Reserve; the caller must write entries for i in
// [0, granted) before calling Publish.
func (d *Descriptor) ReserveSlot(i uint32) uint32 {
	return d.Slot(d.cachedProd + i)
}

// Publish advances and release-publishes the producer cursor by granted
// slots, making them visible to the consumer (the kernel, or a
// simulated peer).
func (d *Descriptor) Publish(granted uint32) {
	d.cachedProd += granted
	Wmb()
	atomic.StoreUint32(d.prod, d.cachedProd)
}

// Peek attempts to claim n entries for the consumer side. Returns
// min(n, available), reloading the cached producer cursor with an
// acquire-ordered load if necessary. Symmetric to Reserve.
func (d *Descriptor) Peek(n uint32) uint32 {
	avail := d.cachedProd - d.cachedCons
	if avail < n {
		Rmb()
		d.cachedProd = atomic.LoadUint32(d.prod)
		avail = d.cachedProd - d.cachedCons
	}
	if n > avail {
		n = avail
	}
	return n
}

// PeekSlot returns the entry-array slot for the i'th of a batch claimed
// by Peek; the caller reads entries for i in [0, claimed) before
// calling Release.
func (d *Descriptor) PeekSlot(i uint32) uint32 {
	return d.Slot(d.cachedCons + i)
}

// Release advances and release-publishes the consumer cursor by
// claimed entries, returning them to the producer side.
func (d *Descriptor) Release(claimed uint32) {
	d.cachedCons += claimed
	Wmb()
	atomic.StoreUint32(d.cons, d.cachedCons)
}

// ProducerCursor and ConsumerCursor expose the locally cached cursors
// for invariant checks in tests.
func (d *Descriptor) ProducerCursor() uint32 { return d.cachedProd }
func (d *Descriptor) ConsumerCursor() uint32 { return d.cachedCons }
