package loopback

import (
	"unsafe"

	"github.com/xskio/xskio/internal/ring"
	"github.com/xskio/xskio/internal/xdpabi"
)

func bytesAt(d *ring.Descriptor, slot uint32, n int) []byte {
	return unsafe.Slice((*byte)(d.EntryAt(slot)), n)
}

func readDesc(d *ring.Descriptor, slot uint32) xdpabi.DescTx {
	desc, _ := xdpabi.GetDescTx(bytesAt(d, slot, xdpabi.DescTxSize))
	return desc
}

func writeDesc(d *ring.Descriptor, slot uint32, offset uint64, length uint32) {
	_ = xdpabi.PutDescTx(bytesAt(d, slot, xdpabi.DescTxSize), xdpabi.DescTx{Addr: offset, Len: length})
}

func readFillEntry(d *ring.Descriptor, slot uint32) uint64 {
	return xdpabi.GetFillEntry(bytesAt(d, slot, 8))
}

func writeFillEntry(d *ring.Descriptor, slot uint32, offset uint64) {
	xdpabi.PutFillEntry(bytesAt(d, slot, 8), offset)
}
