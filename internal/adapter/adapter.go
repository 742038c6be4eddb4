// Package adapter implements the batch I/O adapter: the glue between a
// joined Driver and the upstream RX/TX Sinks, moving whole batches of
// frames per housekeep call instead of one packet at a time.
package adapter

import (
	"github.com/xskio/xskio/internal/driver"
	"github.com/xskio/xskio/internal/iface"
)

// Adapter bridges one joined Driver to an upstream RX consumer and
// acts, itself, as the upstream's TX Sink.
type Adapter struct {
	d   *driver.Driver
	cfg Config
	rx  iface.Sink
	obs iface.Observer
	log iface.Logger

	// stack is the free-frame stack over the TX UMEM partition: offsets
	// not currently owned by the TX/COMPLETION rings or by a pending
	// forward-callback batch. stack[:top] holds the free entries.
	stack []uint64
	top   uint32

	// pending accumulates frame offsets popped from stack during the
	// current Receive call, until flushed via tx_enqueue.
	pending  []iface.FrameMeta
	pendingN uint32

	// rxMeta/rxBuf are housekeep's batch_cnt-sized scratch arrays.
	rxMeta []iface.FrameMeta
	rxBuf  []iface.Buffer

	// rxOffsets is housekeep's scratch for the FILL re-enqueue, sized
	// once at join so the steady-state poll never allocates.
	rxOffsets []uint64
}

// nopObserver discards every event; used when no Observer is supplied.
type nopObserver struct{}

func (nopObserver) ObserveRxBatch(int, int) {}
func (nopObserver) ObserveTxBatch(int, int) {}
func (nopObserver) ObserveDrop(string)      {}
func (nopObserver) ObserveBackpressure()    {}
func (nopObserver) ObserveWakeup()          {}

// nopLogger discards everything; used when no Logger is supplied.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// TxSink returns the Sink upstream producers should call Receive on to
// transmit. The Adapter itself implements the forwarding callback.
func (a *Adapter) TxSink() iface.Sink { return a }

// Driver returns the joined driver this adapter rides on.
func (a *Adapter) Driver() *driver.Driver { return a.d }
