package adapter

import "github.com/xskio/xskio/internal/iface"

// Receive is the adapter's TX forwarding callback: upstream producers
// call this to transmit a batch of buffers. Drains TX completions
// first to maximize free-stack room, then pops one frame per input
// buffer, copying its payload into UMEM and batching pending entries
// for tx_enqueue. A buffer that doesn't fit in one frame is dropped
// and counted as consumed; an empty free stack stops the loop early
// and the index reached is returned as ordinary back-pressure. Any
// pending entries left over when the loop ends, for either reason, get
// one best-effort tx_enqueue after the loop.
func (a *Adapter) Receive(batch []iface.Buffer) (int, error) {
	a.drainTxCompletions()
	a.pendingN = 0

	frameSz := a.d.Config().FrameSize
	consumed := 0
	bytes := 0
	for i, buf := range batch {
		if a.top == 0 {
			a.obs.ObserveBackpressure()
			break
		}
		if uint32(len(buf.Data)) > frameSz {
			a.log.Errorf("adapter: tx payload %d bytes exceeds frame_sz %d, dropping", len(buf.Data), frameSz)
			a.obs.ObserveDrop("oversize")
			consumed = i + 1
			continue
		}

		a.top--
		offset := a.stack[a.top]
		frame := a.d.Umem().Frame(offset, frameSz)
		copy(frame, buf.Data)

		a.pending[a.pendingN] = iface.FrameMeta{Offset: offset, Length: uint32(len(buf.Data))}
		a.pendingN++
		consumed = i + 1
		bytes += len(buf.Data)

		if a.pendingN == uint32(len(a.pending)) {
			a.flushPendingWithRetry()
		}
	}

	a.flushResidual()
	if consumed > 0 {
		a.obs.ObserveTxBatch(consumed, bytes)
	}
	return consumed, nil
}

// flushPendingWithRetry submits a.pending[:a.pendingN] to tx_enqueue,
// interleaving tx_complete drains on a short accept so ring slots
// freed by the kernel make room for the remainder. Forward progress is
// guaranteed because every submitted frame is eventually reclaimed via
// COMPLETION.
func (a *Adapter) flushPendingWithRetry() {
	sent := uint32(0)
	for sent < a.pendingN {
		n := a.d.TxEnqueue(a.pending[sent:a.pendingN])
		sent += n
		if sent < a.pendingN {
			a.drainTxCompletions()
		}
	}
	a.pendingN = 0
}

// flushResidual issues a single, un-retried tx_enqueue for whatever is
// left in a.pending. A short accept here is tolerated best-effort: the
// payloads the TX ring did not accept are not sent, and their frame
// offsets go straight back onto the free stack, since no ring holds
// them and no COMPLETION entry will ever return them.
func (a *Adapter) flushResidual() {
	if a.pendingN == 0 {
		return
	}
	n := a.d.TxEnqueue(a.pending[:a.pendingN])
	if n < a.pendingN {
		a.log.Debugf("adapter: residual tx flush accepted %d/%d", n, a.pendingN)
		for i := n; i < a.pendingN; i++ {
			a.stack[a.top] = a.pending[i].Offset
			a.top++
		}
	}
	a.pendingN = 0
}
