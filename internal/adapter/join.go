package adapter

import (
	"github.com/xskio/xskio/internal/driver"
	"github.com/xskio/xskio/internal/iface"
)

// Join validates cfg against d's configuration, resets the adapter's
// bookkeeping, primes the RX UMEM partition onto FILL, primes the TX
// UMEM partition onto the free stack, and returns a ready Adapter.
func Join(d *driver.Driver, cfg Config, rx iface.Sink, obs iface.Observer, log iface.Logger) (*Adapter, error) {
	dcfg := d.Config()
	if err := cfg.validate(dcfg.TxDepth, dcfg.FrameSize); err != nil {
		return nil, err
	}
	if log == nil {
		log = nopLogger{}
	}
	if obs == nil {
		obs = nopObserver{}
	}
	d.SetObserver(obs)

	a := &Adapter{
		d:         d,
		cfg:       cfg,
		rx:        rx,
		obs:       obs,
		log:       log,
		stack:     make([]uint64, cfg.TxDepth),
		top:       0,
		pending:   make([]iface.FrameMeta, cfg.BatchCnt),
		rxMeta:    make([]iface.FrameMeta, cfg.BatchCnt),
		rxBuf:     make([]iface.Buffer, cfg.BatchCnt),
		rxOffsets: make([]uint64, cfg.BatchCnt),
	}

	// Prime RX: one offset at a time, aborting the whole join if any
	// single enqueue is refused (the FILL ring was sized for rx_depth,
	// so a mid-priming refusal means misconfiguration, not contention).
	frameSz := uint64(dcfg.FrameSize)
	for i := uint32(0); i < cfg.RxDepth; i++ {
		offset := cfg.RxOff + uint64(i)*frameSz
		if n := d.RxEnqueue([]uint64{offset}); n != 1 {
			return nil, iface.NewError("join", iface.CodeInvariant, "rx priming failed at frame %d/%d", i, cfg.RxDepth)
		}
	}

	// Prime the TX free stack with every frame in the TX partition.
	for i := uint32(0); i < cfg.TxDepth; i++ {
		a.stack[i] = cfg.TxOff + uint64(i)*frameSz
	}
	a.top = cfg.TxDepth

	return a, nil
}
