// Package loopback provides a software-simulated kernel ring peer:
// something that drains FILL and TX like a real NIC driver would, and
// produces RX and COMPLETION entries in response, without any real
// socket or hardware involved. In echo mode it feeds transmitted
// payloads back as received ones, so driver/adapter tests and the
// xsk-loopback demo can run without root or a NIC.
package loopback

import (
	"github.com/xskio/xskio/internal/ring"
)

// Peer sits on the opposite side of a Driver's four rings, acting as
// the kernel/NIC in tests. Echo mode copies every transmitted payload
// into a FILL-provided frame and delivers it back via RX, simulating a
// NIC wired into loopback.
type Peer struct {
	umem             *ring.Umem
	fill, rx, tx, cr *ring.Descriptor

	echo bool

	// pendingEcho holds payload copies waiting for a FILL frame to
	// land on, preserving transmit order.
	pendingEcho [][]byte

	batchCap uint32
}

// NewPeer builds a Peer over the kernel-side halves of a joined
// Driver's four ring descriptors (the same Descriptor values used to
// build the Driver, paired over shared backing memory).
func NewPeer(umem *ring.Umem, fill, rx, tx, cr *ring.Descriptor, batchCap uint32, echo bool) *Peer {
	return &Peer{umem: umem, fill: fill, rx: rx, tx: tx, cr: cr, batchCap: batchCap, echo: echo}
}

// Tick performs one simulated NIC cycle: drain TX, complete it, and
// (in echo mode) feed the drained payloads back out through FILL/RX.
// Returns the number of frames drained off TX this tick.
func (p *Peer) Tick() int {
	drained := p.drainTx()
	p.deliverPendingEcho()
	return drained
}

// drainTx drains available TX descriptors, publishes matching
// COMPLETION entries for every one, and (in echo mode) queues their
// payloads for redelivery via RX.
func (p *Peer) drainTx() int {
	total := 0
	for {
		n := p.tx.Peek(p.batchCap)
		if n == 0 {
			return total
		}
		offsets := make([]uint64, n)
		for i := uint32(0); i < n; i++ {
			slot := p.tx.PeekSlot(i)
			desc := readDesc(p.tx, slot)
			offsets[i] = desc.Addr
			if p.echo {
				payload := append([]byte(nil), p.umem.Frame(desc.Addr, desc.Len)...)
				p.pendingEcho = append(p.pendingEcho, payload)
			}
		}
		p.tx.Release(n)

		granted := p.cr.Reserve(n)
		for i := uint32(0); i < granted; i++ {
			slot := p.cr.ReserveSlot(i)
			writeFillEntry(p.cr, slot, offsets[i])
		}
		p.cr.Publish(granted)

		total += int(n)
		if n < p.batchCap {
			return total
		}
	}
}

// deliverPendingEcho drains FILL for empty frames and redelivers
// queued echo payloads onto RX, one frame per queued payload.
func (p *Peer) deliverPendingEcho() {
	for len(p.pendingEcho) > 0 {
		n := p.fill.Peek(1)
		if n == 0 {
			return
		}
		slot := p.fill.PeekSlot(0)
		offset := readFillEntry(p.fill, slot)
		p.fill.Release(1)

		payload := p.pendingEcho[0]
		p.pendingEcho = p.pendingEcho[1:]
		copy(p.umem.Frame(offset, uint32(len(payload))), payload)

		granted := p.rx.Reserve(1)
		if granted == 0 {
			// No RX slot free; drop the echo rather than block forever.
			// A correctly sized loopback test keeps rx_depth >= fr_depth
			// so this path is not expected to trigger.
			continue
		}
		slot = p.rx.ReserveSlot(0)
		writeDesc(p.rx, slot, offset, uint32(len(payload)))
		p.rx.Publish(1)
	}
}
