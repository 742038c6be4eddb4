// Package iface holds the small set of interfaces that sit at component
// boundaries. It is a leaf package so internal packages can depend on
// the interfaces without importing the public API package.
package iface

// FrameMeta is the small record used at the Adapter/upper-layer boundary
// to describe a packet without exposing raw ring entries.
type FrameMeta struct {
	Offset uint64
	Length uint32
	Flags  uint32
}

// Buffer is a batch element: a payload to transmit, or a payload
// delivered from RX.
type Buffer struct {
	Data []byte
}

// Sink is the batch-delivery capability at component boundaries. The
// adapter calls the upstream RX sink's Receive with delivered RX
// batches; upstream producers call the adapter's own TX sink to
// transmit.
type Sink interface {
	// Receive processes up to len(batch) buffers in order and returns
	// the number actually consumed. A short return is back-pressure,
	// not an error. The RX sink during housekeep is expected to accept
	// the whole batch; a short accept there is logged as an invariant
	// violation.
	Receive(batch []Buffer) (int, error)
}

// Logger is the level-gated logging capability used throughout the
// driver/adapter packages.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Observer receives point-in-time notifications for metrics collection.
type Observer interface {
	ObserveRxBatch(frames int, bytes int)
	ObserveTxBatch(frames int, bytes int)
	ObserveDrop(reason string)
	ObserveBackpressure()
	ObserveWakeup()
}
