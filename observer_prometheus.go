package xskio

import "github.com/prometheus/client_golang/prometheus"

// PrometheusObserver implements Observer by recording into
// prometheus.Collector metrics instead of (or alongside) a Metrics
// instance. Register it once with a prometheus.Registerer and pass it
// as the Observer for a joined Adapter.
type PrometheusObserver struct {
	rxFrames     prometheus.Counter
	txFrames     prometheus.Counter
	rxBytes      prometheus.Counter
	txBytes      prometheus.Counter
	drops        *prometheus.CounterVec
	backpressure prometheus.Counter
	wakeups      prometheus.Counter
	rxBatchSize  prometheus.Histogram
	txBatchSize  prometheus.Histogram
}

// NewPrometheusObserver constructs a PrometheusObserver with metrics
// named under the given namespace (e.g. "xskio") and registers them
// with reg. A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) *PrometheusObserver {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &PrometheusObserver{
		rxFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "rx_frames_total", Help: "Frames delivered to the upstream RX sink.",
		}),
		txFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "tx_frames_total", Help: "Frames accepted by the TX forwarding callback.",
		}),
		rxBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "rx_bytes_total", Help: "Bytes delivered to the upstream RX sink.",
		}),
		txBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "tx_bytes_total", Help: "Bytes accepted by the TX forwarding callback.",
		}),
		drops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "drops_total", Help: "Dropped buffers, by reason.",
		}, []string{"reason"}),
		backpressure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "backpressure_total", Help: "TX callback calls that returned a short count with an empty free stack.",
		}),
		wakeups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "wakeups_total", Help: "Kernel wakeup kicks issued from tx_enqueue.",
		}),
		rxBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "rx_batch_frames", Help: "Frames per delivered RX batch.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 9),
		}),
		txBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "tx_batch_frames", Help: "Frames per accepted TX batch.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 9),
		}),
	}
	reg.MustRegister(o.rxFrames, o.txFrames, o.rxBytes, o.txBytes, o.drops, o.backpressure, o.wakeups, o.rxBatchSize, o.txBatchSize)
	return o
}

func (o *PrometheusObserver) ObserveRxBatch(frames, bytes int) {
	o.rxFrames.Add(float64(frames))
	o.rxBytes.Add(float64(bytes))
	o.rxBatchSize.Observe(float64(frames))
}

func (o *PrometheusObserver) ObserveTxBatch(frames, bytes int) {
	o.txFrames.Add(float64(frames))
	o.txBytes.Add(float64(bytes))
	o.txBatchSize.Observe(float64(frames))
}

func (o *PrometheusObserver) ObserveDrop(reason string) { o.drops.WithLabelValues(reason).Inc() }
func (o *PrometheusObserver) ObserveBackpressure()      { o.backpressure.Inc() }
func (o *PrometheusObserver) ObserveWakeup()            { o.wakeups.Inc() }

var _ Observer = (*PrometheusObserver)(nil)
