package xskio

import (
	"github.com/xskio/xskio/internal/adapter"
	"github.com/xskio/xskio/internal/driver"
	"github.com/xskio/xskio/internal/iface"
	"github.com/xskio/xskio/internal/logging"
)

// XSK bundles a joined Driver and its Adapter behind the public Sink
// boundary: construct one with Open, drive RX/TX via Housekeep/TxSink,
// and tear down with Close.
type XSK struct {
	cfg     Config
	mem     []byte
	driver  *driver.Driver
	adapter *adapter.Adapter
	metrics *Metrics
	log     *logging.Logger
}

// Options bundles the optional collaborators Open accepts.
type Options struct {
	// Logger receives structured log output; defaults to
	// internal/logging's process-wide default logger.
	Logger *logging.Logger

	// Observer receives point-in-time metric events; defaults to a
	// MetricsObserver backed by a fresh Metrics instance reachable via
	// XSK.Metrics().
	Observer Observer

	// Metrics is used instead of allocating a fresh one when Observer
	// is nil, so callers that want the default MetricsObserver can
	// still supply (and later read) a specific Metrics instance.
	Metrics *Metrics
}

// Open formats a UMEM region sized for cfg, binds it to ifname/queue,
// joins the AF_XDP socket and XSKMAP (Linux only, see
// internal/driver/join_stub.go off Linux), and joins an Adapter on top
// with rx as the upstream RX sink.
func Open(cfg Config, ifname string, queue uint32, rx Sink, opts *Options) (*XSK, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}
	log := opts.Logger
	if log == nil {
		log = logging.Default()
	}
	log = log.WithIfname(ifname).WithQueue(queue)

	metrics := opts.Metrics
	obs := opts.Observer
	if obs == nil {
		if metrics == nil {
			metrics = NewMetrics()
		}
		obs = NewMetricsObserver(metrics)
	}

	mem := make([]byte, cfg.umemSize())
	d, err := driver.Format(cfg.driverConfig(), mem, log)
	if err != nil {
		return nil, err
	}
	if err := d.Bind(ifname, queue); err != nil {
		return nil, err
	}
	if err := d.Join(); err != nil {
		return nil, err
	}

	a, err := adapter.Join(d, cfg.adapterConfig(), rx, obs, log)
	if err != nil {
		_ = d.Leave()
		_ = d.Delete()
		return nil, err
	}

	return &XSK{cfg: cfg, mem: mem, driver: d, adapter: a, metrics: metrics, log: log}, nil
}

// Housekeep runs one adapter poll iteration: drain RX
// completions, deliver them to the upstream RX sink, re-enqueue onto
// FILL, and drain TX completions into the free stack. The owning
// thread must call this on every tick; nothing else drives RX delivery
// or reclaims completed TX frames.
func (x *XSK) Housekeep() error { return x.adapter.Housekeep() }

// TxSink returns the Sink upstream producers call to transmit. Calling
// Receive on it runs the adapter's TX forwarding path.
func (x *XSK) TxSink() Sink { return x.adapter.TxSink() }

// PinThread locks the calling goroutine to its OS thread and binds it
// to the given CPU. Call it from the thread that will pump Housekeep
// and the TX sink, before Open, to keep the ring cursors' cache lines
// local to the NIC queue's IRQ core. No-op off Linux.
func PinThread(cpu int) error { return driver.PinThread(cpu) }

// Metrics returns the atomic counters backing this XSK's default
// Observer wiring (nil if the caller supplied its own Observer and no
// explicit Metrics in Options).
func (x *XSK) Metrics() *Metrics { return x.metrics }

// Config returns the configuration Open was called with.
func (x *XSK) Config() Config { return x.cfg }

// Close leaves the kernel join and deletes the underlying Driver,
// releasing the formatted region for reuse.
func (x *XSK) Close() error {
	if x.metrics != nil {
		x.metrics.Stop()
	}
	if err := x.driver.Leave(); err != nil {
		return iface.WrapError("close", iface.CodeKernel, err)
	}
	return x.driver.Delete()
}
