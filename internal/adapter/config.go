package adapter

import "github.com/xskio/xskio/internal/iface"

// Config configures a join between an Adapter and a Driver: the RX/TX
// UMEM partitions to prime from, and the batch/stack sizing. The two
// partitions are required, non-overlapping configuration so a frame
// offset alone identifies which path owns it.
type Config struct {
	BatchCnt uint32 // adapter scratch size; typical 64-256
	TxDepth  uint32 // must equal the joined driver's tx_depth
	RxDepth  uint32 // number of RX-partition frames to prime onto FILL

	RxOff uint64 // byte offset of the RX frame partition within UMEM
	TxOff uint64 // byte offset of the TX frame partition within UMEM
}

// validate checks depth compatibility against the driver and the
// non-overlap requirement between the RX and TX UMEM partitions.
func (c Config) validate(driverTxDepth uint32, frameSz uint32) error {
	if c.TxDepth != driverTxDepth {
		return iface.NewError("join", iface.CodeConfig, "adapter.tx_depth (%d) must equal xsk.tx_depth (%d)", c.TxDepth, driverTxDepth)
	}
	rxEnd := c.RxOff + uint64(c.RxDepth)*uint64(frameSz)
	txEnd := c.TxOff + uint64(c.TxDepth)*uint64(frameSz)
	if c.RxOff < txEnd && c.TxOff < rxEnd {
		return iface.NewError("join", iface.CodeConfig, "rx partition [%d,%d) overlaps tx partition [%d,%d)", c.RxOff, rxEnd, c.TxOff, txEnd)
	}
	return nil
}
