// Command xsk-loopback runs a software-simulated loopback echo demo
// against internal/loopback, without any real NIC or AF_XDP socket,
// and serves Prometheus metrics plus a health endpoint while it runs.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unsafe"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/xskio/xskio"
	"github.com/xskio/xskio/internal/adapter"
	xskconfig "github.com/xskio/xskio/internal/config"
	"github.com/xskio/xskio/internal/driver"
	"github.com/xskio/xskio/internal/loopback"
	"github.com/xskio/xskio/internal/logging"
	"github.com/xskio/xskio/internal/ring"
	"github.com/xskio/xskio/internal/xdpabi"
)

var version = "0.1.0"

var (
	configPath  string
	metricsAddr string
	numBuffers  int
	logLevel    string
	pinCPU      int
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "xsk-loopback",
		Short:   "Run a simulated AF_XDP loopback echo demo",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (optional)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", ":9090", "address to serve /metrics and /healthz on")
	rootCmd.PersistentFlags().IntVar(&numBuffers, "buffers", 100, "number of synthetic TX buffers to echo")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug|info|warn|error")
	rootCmd.PersistentFlags().IntVar(&pinCPU, "cpu", -1, "pin the pump thread to this CPU (-1 to leave unpinned)")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Default().Errorf("xsk-loopback: %v", err)
		os.Exit(1)
	}
}

func parseLevel(s string) logging.LogLevel {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func run(ctx context.Context) error {
	cfg, err := xskconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logging.NewLogger(&logging.Config{Level: parseLevel(logLevel), Format: "text"})
	logging.SetDefault(log)
	log.Infof("xsk-loopback %s starting: frame_sz=%d rx_depth=%d tx_depth=%d batch_cnt=%d",
		version, cfg.FrameSize, cfg.RxDepth, cfg.TxDepth, cfg.BatchCnt)

	if pinCPU >= 0 {
		if err := xskio.PinThread(pinCPU); err != nil {
			log.Warnf("pin to cpu %d: %v", pinCPU, err)
		}
	}

	metrics := xskio.NewMetrics()
	obs := teeObserver{
		xskio.NewMetricsObserver(metrics),
		xskio.NewPrometheusObserver("xskio", nil),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: metricsAddr, Handler: mux}
	go func() {
		log.Infof("serving /metrics and /healthz on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("metrics server: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	sink := xskio.NewMockSink()
	demo, err := newLoopbackDemo(cfg, sink, obs, log)
	if err != nil {
		return fmt.Errorf("build demo: %w", err)
	}

	payloads := make([][]byte, numBuffers)
	for i := range payloads {
		buf := make([]byte, 64)
		for j := range buf {
			buf[j] = byte(i)
		}
		payloads[i] = buf
	}
	if err := demo.sendAll(payloads); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()
	for len(sink.Accepted()) < len(payloads) {
		select {
		case <-ctx.Done():
			log.Infof("shutdown requested, exiting before echo completed (%d/%d delivered)", len(sink.Accepted()), len(payloads))
			return nil
		case <-ticker.C:
			demo.peer.Tick()
			if err := demo.a.Housekeep(); err != nil {
				return fmt.Errorf("housekeep: %w", err)
			}
		}
	}

	snap := metrics.Snapshot()
	log.Infof("echo complete: %d/%d buffers delivered, rx_frames=%d tx_frames=%d",
		len(sink.Accepted()), len(payloads), snap.RxFrames, snap.TxFrames)

	<-ctx.Done()
	return nil
}

// teeObserver fans every event out to each wrapped Observer, so the
// demo feeds both the snapshot Metrics and the Prometheus registry.
type teeObserver []xskio.Observer

func (t teeObserver) ObserveRxBatch(frames, bytes int) {
	for _, o := range t {
		o.ObserveRxBatch(frames, bytes)
	}
}

func (t teeObserver) ObserveTxBatch(frames, bytes int) {
	for _, o := range t {
		o.ObserveTxBatch(frames, bytes)
	}
}

func (t teeObserver) ObserveDrop(reason string) {
	for _, o := range t {
		o.ObserveDrop(reason)
	}
}

func (t teeObserver) ObserveBackpressure() {
	for _, o := range t {
		o.ObserveBackpressure()
	}
}

func (t teeObserver) ObserveWakeup() {
	for _, o := range t {
		o.ObserveWakeup()
	}
}

// loopbackDemo wires a test-mode Driver (heap-allocated rings, no real
// AF_XDP socket) to an in-process loopback.Peer and an Adapter, the way
// the adapter package's own tests do, so this binary is runnable
// without root privileges or a real NIC.
type loopbackDemo struct {
	d    *driver.Driver
	peer *loopback.Peer
	a    *adapter.Adapter
}

func newLoopbackDemo(cfg xskio.Config, sink xskio.Sink, obs xskio.Observer, log xskio.Logger) (*loopbackDemo, error) {
	depth := cfg.TxDepth

	mk := func(entrySize uintptr) (u, k *ring.Descriptor) {
		entries := make([]byte, uintptr(depth)*entrySize)
		prod, cons, flags := new(uint32), new(uint32), new(uint32)
		base := unsafe.Pointer(&entries[0])
		u = ring.NewDescriptor(base, entrySize, depth, prod, cons, flags)
		k = ring.NewDescriptor(base, entrySize, depth, prod, cons, flags)
		return
	}
	fillU, fillK := mk(8)
	rxU, rxK := mk(xdpabi.DescTxSize)
	txU, txK := mk(xdpabi.DescTxSize)
	crU, crK := mk(8)

	dcfg := driver.Config{
		FrameSize: cfg.FrameSize,
		FrDepth:   depth,
		RxDepth:   depth,
		TxDepth:   depth,
		CrDepth:   depth,
	}
	mem := make([]byte, uint64(cfg.FrameSize)*uint64(depth)*2)
	d, err := driver.NewJoinedForTest(dcfg, mem, fillU, rxU, txU, crU, log)
	if err != nil {
		return nil, err
	}

	peer := loopback.NewPeer(d.Umem(), fillK, rxK, txK, crK, cfg.BatchCnt, true)

	acfg := adapter.Config{
		BatchCnt: cfg.BatchCnt,
		TxDepth:  depth,
		RxDepth:  depth,
		RxOff:    0,
		TxOff:    uint64(cfg.FrameSize) * uint64(depth),
	}
	a, err := adapter.Join(d, acfg, sink, obs, log)
	if err != nil {
		return nil, err
	}

	return &loopbackDemo{d: d, peer: peer, a: a}, nil
}

func (l *loopbackDemo) sendAll(payloads [][]byte) error {
	batch := make([]xskio.Buffer, len(payloads))
	for i, p := range payloads {
		batch[i] = xskio.Buffer{Data: p}
	}
	_, err := l.a.Receive(batch)
	return err
}
