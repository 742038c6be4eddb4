package xskio

import (
	"github.com/xskio/xskio/internal/adapter"
	"github.com/xskio/xskio/internal/arena"
	"github.com/xskio/xskio/internal/driver"
	"github.com/xskio/xskio/internal/iface"
	"github.com/xskio/xskio/internal/xdpabi"
)

// XdpMode names an eBPF attach mode. It is carried in the driver
// configuration; Bind and Join do not read it.
type XdpMode = xdpabi.XdpMode

const (
	XdpModeKernelDefault   = xdpabi.XdpModeKernelDefault
	XdpModeGeneric         = xdpabi.XdpModeGeneric
	XdpModeNativeDriver    = xdpabi.XdpModeNativeDriver
	XdpModeHardwareOffload = xdpabi.XdpModeHardwareOffload
)

// Config collects every tunable for one XSK join plus its adapter and
// connection-arena sizing. The mapstructure tags name the same keys
// internal/config.Load reads from viper, field by field.
type Config struct {
	FrameSize uint32  `mapstructure:"frame_sz"`
	FrDepth   uint32  `mapstructure:"fr_depth"`
	RxDepth   uint32  `mapstructure:"rx_depth"`
	TxDepth   uint32  `mapstructure:"tx_depth"`
	CrDepth   uint32  `mapstructure:"cr_depth"`
	BatchCnt  uint32  `mapstructure:"batch_cnt"`
	XdpMode   XdpMode `mapstructure:"xdp_mode"`

	Ifname string `mapstructure:"ifname"`
	Queue  uint32 `mapstructure:"queue"`

	MaxConcurStreams uint32 `mapstructure:"max_concur_streams"`
	MaxInFlightPkts  uint32 `mapstructure:"max_in_flight_pkts"`
}

// DefaultConfig returns a mid-size single-queue configuration
// (frame_sz=2048, all ring depths 2048, batch_cnt=64).
func DefaultConfig() Config {
	return Config{
		FrameSize:        2048,
		FrDepth:          2048,
		RxDepth:          2048,
		TxDepth:          2048,
		CrDepth:          2048,
		BatchCnt:         64,
		XdpMode:          XdpModeKernelDefault,
		MaxConcurStreams: 16,
		MaxInFlightPkts:  256,
	}
}

// umemSize returns the byte size of the two explicit, non-overlapping
// UMEM partitions this Config lays out: RX frames first, then TX
// frames. Keeping the partitions disjoint means a frame offset alone
// identifies which path owns it.
func (c Config) umemSize() uint64 {
	return uint64(c.FrameSize) * (uint64(c.RxDepth) + uint64(c.TxDepth))
}

func (c Config) rxOff() uint64 { return 0 }
func (c Config) txOff() uint64 { return uint64(c.FrameSize) * uint64(c.RxDepth) }

func (c Config) driverConfig() driver.Config {
	return driver.Config{
		FrameSize: c.FrameSize,
		FrDepth:   c.FrDepth,
		RxDepth:   c.RxDepth,
		TxDepth:   c.TxDepth,
		CrDepth:   c.CrDepth,
		Ifname:    c.Ifname,
		Queue:     c.Queue,
		Mode:      c.XdpMode,
	}
}

func (c Config) adapterConfig() adapter.Config {
	return adapter.Config{
		BatchCnt: c.BatchCnt,
		TxDepth:  c.TxDepth,
		RxDepth:  c.RxDepth,
		RxOff:    c.rxOff(),
		TxOff:    c.txOff(),
	}
}

func (c Config) arenaConfig() arena.Config {
	return arena.Config{
		MaxConcurStreams: c.MaxConcurStreams,
		MaxInFlightPkts:  c.MaxInFlightPkts,
	}
}

// Validate checks every structural precondition Format/Join assert,
// surfaced early so callers get one configuration error instead of a
// late init-time abort.
func (c Config) Validate() error {
	if err := c.driverConfig().Validate(); err != nil {
		return err
	}
	if c.BatchCnt == 0 {
		return iface.NewError("config", iface.CodeConfig, "batch_cnt must be nonzero")
	}
	if c.MaxConcurStreams == 0 || c.MaxInFlightPkts == 0 {
		return iface.NewError("config", iface.CodeConfig, "max_concur_streams and max_in_flight_pkts must be nonzero")
	}
	return nil
}
