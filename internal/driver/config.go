package driver

import (
	"github.com/xskio/xskio/internal/iface"
	"github.com/xskio/xskio/internal/xdpabi"
)

// Config configures a Driver's UMEM, ring depths, and NIC binding.
type Config struct {
	FrameSize uint32 // power of two, typically 2048 or 4096
	FrDepth   uint32 // FILL ring depth, power of two
	RxDepth   uint32 // RX ring depth, power of two
	TxDepth   uint32 // TX ring depth, power of two
	CrDepth   uint32 // COMPLETION ring depth, power of two

	Ifname string
	Queue  uint32
	Mode   xdpabi.XdpMode
}

// DefaultConfig returns a mid-size single-queue configuration.
func DefaultConfig() Config {
	return Config{
		FrameSize: 2048,
		FrDepth:   2048,
		RxDepth:   2048,
		TxDepth:   2048,
		CrDepth:   2048,
		Mode:      xdpabi.XdpModeKernelDefault,
	}
}

func isPow2(v uint32) bool { return v != 0 && v&(v-1) == 0 }

// Validate checks the structural preconditions format() asserts before
// touching any kernel state.
func (c Config) Validate() error {
	for name, v := range map[string]uint32{
		"frame_sz": c.FrameSize,
		"fr_depth": c.FrDepth,
		"rx_depth": c.RxDepth,
		"tx_depth": c.TxDepth,
		"cr_depth": c.CrDepth,
	} {
		if !isPow2(v) {
			return iface.NewError("format", iface.CodeConfig, "%s must be a nonzero power of two, got %d", name, v)
		}
	}
	return nil
}
