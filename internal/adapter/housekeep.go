package adapter

import "github.com/xskio/xskio/internal/iface"

// Housekeep runs one poll iteration: drain RX completions, translate
// them to buffers, deliver the batch to the upstream RX sink,
// unconditionally re-enqueue the same offsets onto FILL, then drain TX
// completions into the free stack. The ordering is
// translate-then-deliver-then-reenqueue, never reenqueue-then-deliver,
// so a frame is never back on FILL while upstream might still read its
// old contents.
func (a *Adapter) Housekeep() error {
	n := a.d.RxComplete(a.rxMeta)
	if n > 0 {
		bytes := 0
		for i := uint32(0); i < n; i++ {
			m := a.rxMeta[i]
			a.rxBuf[i] = iface.Buffer{Data: a.d.Umem().Frame(m.Offset, m.Length)}
			bytes += int(m.Length)
		}
		a.obs.ObserveRxBatch(int(n), bytes)

		delivered, err := a.rx.Receive(a.rxBuf[:n])
		if err != nil {
			return err
		}
		if uint32(delivered) != n {
			// The RX sink's Receive contract requires consuming the
			// whole batch handed to it during housekeep (unlike the
			// adapter's own TX-facing Receive, where a short return is
			// ordinary back-pressure). A short count here means the
			// upstream consumer violated that contract.
			a.log.Errorf("adapter: rx sink accepted %d/%d frames, this should not be possible", delivered, n)
		}

		for i := uint32(0); i < n; i++ {
			a.rxOffsets[i] = a.rxMeta[i].Offset
		}
		reenqueued := a.d.RxEnqueue(a.rxOffsets[:n])
		if reenqueued != n {
			a.log.Errorf("adapter: rx re-enqueue accepted %d/%d offsets, frames leaked from FILL", reenqueued, n)
		}
	}

	a.drainTxCompletions()
	return nil
}

// drainTxCompletions moves as many COMPLETION entries as the free
// stack has room for back onto the stack.
func (a *Adapter) drainTxCompletions() {
	avail := uint32(len(a.stack)) - a.top
	if avail == 0 {
		return
	}
	n := a.d.TxComplete(a.stack[a.top : a.top+avail])
	a.top += n
}
