package xskio

import (
	"sync/atomic"
	"time"
)

// BatchSizeBuckets defines the batch-size histogram buckets (frames per
// housekeep/TX-forward call), logarithmically spaced across the useful
// batch_cnt range.
var BatchSizeBuckets = []uint64{1, 2, 4, 8, 16, 32, 64, 128, 256}

const numBatchBuckets = 9

// Metrics tracks packet-level throughput and drop statistics for one
// XSK/Adapter pair. All counters are atomic so a scraper goroutine can
// snapshot them while the owning thread pumps the adapter.
type Metrics struct {
	RxFrames atomic.Uint64
	TxFrames atomic.Uint64
	RxBytes  atomic.Uint64
	TxBytes  atomic.Uint64

	Drops         atomic.Uint64
	Backpressures atomic.Uint64
	Wakeups       atomic.Uint64

	RxBatchHistogram [numBatchBuckets]atomic.Uint64
	TxBatchHistogram [numBatchBuckets]atomic.Uint64

	StartTime atomic.Int64
	StopTime  atomic.Int64
}

// NewMetrics creates a new metrics instance, stamping its start time.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

func recordBatchHistogram(hist *[numBatchBuckets]atomic.Uint64, frames int) {
	for i, bucket := range BatchSizeBuckets {
		if uint64(frames) <= bucket {
			hist[i].Add(1)
		}
	}
}

// RecordRxBatch records one delivered RX batch.
func (m *Metrics) RecordRxBatch(frames, bytes int) {
	m.RxFrames.Add(uint64(frames))
	m.RxBytes.Add(uint64(bytes))
	recordBatchHistogram(&m.RxBatchHistogram, frames)
}

// RecordTxBatch records one consumed TX batch.
func (m *Metrics) RecordTxBatch(frames, bytes int) {
	m.TxFrames.Add(uint64(frames))
	m.TxBytes.Add(uint64(bytes))
	recordBatchHistogram(&m.TxBatchHistogram, frames)
}

// RecordDrop records one dropped (oversize) TX buffer.
func (m *Metrics) RecordDrop() { m.Drops.Add(1) }

// RecordBackpressure records one TX callback call that returned a short
// count because the free stack was empty.
func (m *Metrics) RecordBackpressure() { m.Backpressures.Add(1) }

// RecordWakeup records one kernel wakeup kick issued from TxEnqueue.
func (m *Metrics) RecordWakeup() { m.Wakeups.Add(1) }

// Stop marks the XSK as torn down, fixing uptime for the final snapshot.
func (m *Metrics) Stop() { m.StopTime.Store(time.Now().UnixNano()) }

// MetricsSnapshot is a point-in-time, non-atomic copy of Metrics
// suitable for logging, JSON encoding, or a /status endpoint.
type MetricsSnapshot struct {
	RxFrames uint64
	TxFrames uint64
	RxBytes  uint64
	TxBytes  uint64

	Drops         uint64
	Backpressures uint64
	Wakeups       uint64

	RxBatchHistogram [numBatchBuckets]uint64
	TxBatchHistogram [numBatchBuckets]uint64

	RxThroughputBps float64
	TxThroughputBps float64
	UptimeNs        uint64
}

// Snapshot captures a point-in-time copy of m.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		RxFrames:      m.RxFrames.Load(),
		TxFrames:      m.TxFrames.Load(),
		RxBytes:       m.RxBytes.Load(),
		TxBytes:       m.TxBytes.Load(),
		Drops:         m.Drops.Load(),
		Backpressures: m.Backpressures.Load(),
		Wakeups:       m.Wakeups.Load(),
	}
	for i := 0; i < numBatchBuckets; i++ {
		snap.RxBatchHistogram[i] = m.RxBatchHistogram[i].Load()
		snap.TxBatchHistogram[i] = m.TxBatchHistogram[i].Load()
	}

	startTime := m.StartTime.Load()
	stopTime := m.StopTime.Load()
	if stopTime > 0 {
		snap.UptimeNs = uint64(stopTime - startTime)
	} else {
		snap.UptimeNs = uint64(time.Now().UnixNano() - startTime)
	}
	if snap.UptimeNs > 0 {
		seconds := float64(snap.UptimeNs) / 1e9
		snap.RxThroughputBps = float64(snap.RxBytes) / seconds
		snap.TxThroughputBps = float64(snap.TxBytes) / seconds
	}
	return snap
}

// Reset zeroes every counter, restarting the uptime clock. Useful for
// testing.
func (m *Metrics) Reset() {
	m.RxFrames.Store(0)
	m.TxFrames.Store(0)
	m.RxBytes.Store(0)
	m.TxBytes.Store(0)
	m.Drops.Store(0)
	m.Backpressures.Store(0)
	m.Wakeups.Store(0)
	for i := 0; i < numBatchBuckets; i++ {
		m.RxBatchHistogram[i].Store(0)
		m.TxBatchHistogram[i].Store(0)
	}
	m.StartTime.Store(time.Now().UnixNano())
	m.StopTime.Store(0)
}

// NoOpObserver discards every event; the zero-value default when no
// Observer is supplied.
type NoOpObserver struct{}

func (NoOpObserver) ObserveRxBatch(int, int) {}
func (NoOpObserver) ObserveTxBatch(int, int) {}
func (NoOpObserver) ObserveDrop(string)      {}
func (NoOpObserver) ObserveBackpressure()    {}
func (NoOpObserver) ObserveWakeup()          {}

// MetricsObserver implements Observer by recording into a Metrics.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver builds an Observer that records into m.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

func (o *MetricsObserver) ObserveRxBatch(frames, bytes int) { o.metrics.RecordRxBatch(frames, bytes) }
func (o *MetricsObserver) ObserveTxBatch(frames, bytes int) { o.metrics.RecordTxBatch(frames, bytes) }
func (o *MetricsObserver) ObserveDrop(string)               { o.metrics.RecordDrop() }
func (o *MetricsObserver) ObserveBackpressure()             { o.metrics.RecordBackpressure() }
func (o *MetricsObserver) ObserveWakeup()                   { o.metrics.RecordWakeup() }

var (
	_ Observer = (*MetricsObserver)(nil)
	_ Observer = NoOpObserver{}
)
