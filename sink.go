// Package xskio provides the public API for a kernel-bypass AF_XDP
// packet I/O core: a Driver binding an application to a NIC queue via
// shared-memory ring buffers, and a Batch I/O Adapter bridging those
// rings to a polymorphic Sink capability consumed by upper layers.
//
// The package is a thin public API (this file, xskio.go, errors.go,
// metrics.go, testing.go) over internal packages doing the real work
// (internal/driver, internal/adapter, internal/arena, internal/ring).
package xskio

import "github.com/xskio/xskio/internal/iface"

// FrameMeta is the small record used at the Adapter/upper-layer
// boundary to describe a packet without exposing raw ring entries.
type FrameMeta = iface.FrameMeta

// Buffer is a batch element: a payload to transmit, or a payload
// delivered from RX.
type Buffer = iface.Buffer

// Sink is the batch-delivery capability at the Adapter/upper-layer
// boundary. The adapter calls the upstream RX Sink with delivered
// batches; an upstream producer calls the adapter's own TxSink to
// transmit.
type Sink = iface.Sink

// Logger is the level-gated logging capability threaded through the
// driver/adapter packages, implemented by internal/logging.Logger.
type Logger = iface.Logger

// Observer receives point-in-time notifications for metrics collection.
type Observer = iface.Observer
