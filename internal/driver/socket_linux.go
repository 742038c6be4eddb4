//go:build linux

package driver

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/xskio/xskio/internal/iface"
	"github.com/xskio/xskio/internal/ring"
	"github.com/xskio/xskio/internal/xdpabi"
)

// Join opens the AF_XDP socket, registers the UMEM, maps the four rings,
// attaches to the shared eBPF XSKMAP to enable redirection, and asserts
// "no other live join" via the Bound precondition in joinRings.
func (d *Driver) Join() error {
	if d.state != StateBound {
		return iface.NewError("join", iface.CodeInvariant, "join requires state bound, have %s", d.state)
	}

	sockFd, err := unix.Socket(xdpabi.AfXdp, unix.SOCK_RAW, 0)
	if err != nil {
		return iface.NewKernelError("join: socket", err.(syscall.Errno))
	}

	umemReg := xdpabi.UmemReg{
		Addr:    uint64(uintptr(d.umem.Base())),
		Len:     uint64(d.umem.Size()),
		ChunkSz: d.cfg.FrameSize,
	}
	if err := setsockoptStruct(sockFd, xdpabi.SolXdp, xdpabi.XdpUmemReg, unsafe.Pointer(&umemReg), unsafe.Sizeof(umemReg)); err != 0 {
		unix.Close(sockFd)
		return iface.NewKernelError("join: XDP_UMEM_REG", err)
	}

	for optname, depth := range map[int]uint32{
		xdpabi.XdpUmemFillRing: d.cfg.FrDepth,
		xdpabi.XdpUmemCompRing: d.cfg.CrDepth,
		xdpabi.XdpRxRing:       d.cfg.RxDepth,
		xdpabi.XdpTxRing:       d.cfg.TxDepth,
	} {
		if err := setsockoptInt(sockFd, xdpabi.SolXdp, optname, int(depth)); err != 0 {
			unix.Close(sockFd)
			return iface.NewKernelError(fmt.Sprintf("join: ring depth opt %d", optname), err)
		}
	}

	var offsets xdpabi.MmapOffsets
	if err := getsockoptStruct(sockFd, xdpabi.SolXdp, xdpabi.XdpMmapOffsets, unsafe.Pointer(&offsets), unsafe.Sizeof(offsets)); err != 0 {
		unix.Close(sockFd)
		return iface.NewKernelError("join: XDP_MMAP_OFFSETS", err)
	}

	fillMem, errno := mmapRing(sockFd, xdpUmemPgoffFillRing, &offsets.Fr, d.cfg.FrDepth, 8)
	if errno != 0 {
		unix.Close(sockFd)
		return iface.NewKernelError("join: mmap fill", errno)
	}
	crMem, errno := mmapRing(sockFd, xdpUmemPgoffCompletionRing, &offsets.Cr, d.cfg.CrDepth, 8)
	if errno != 0 {
		unix.Close(sockFd)
		return iface.NewKernelError("join: mmap completion", errno)
	}
	rxMem, errno := mmapRing(sockFd, xdpPgoffRxRing, &offsets.Rx, d.cfg.RxDepth, xdpabi.DescTxSize)
	if errno != 0 {
		unix.Close(sockFd)
		return iface.NewKernelError("join: mmap rx", errno)
	}
	txMem, errno := mmapRing(sockFd, xdpPgoffTxRing, &offsets.Tx, d.cfg.TxDepth, xdpabi.DescTxSize)
	if errno != 0 {
		unix.Close(sockFd)
		return iface.NewKernelError("join: mmap tx", errno)
	}

	ifIndex, errno := ifNameToIndex(d.cfg.Ifname)
	if errno != 0 {
		unix.Close(sockFd)
		return iface.NewKernelError("join: if_nametoindex", errno)
	}

	sa := xdpabi.SockaddrXdp{Family: xdpabi.AfXdp, IfIndex: ifIndex, QueueID: d.cfg.Queue}
	if errno := bindXdp(sockFd, &sa); errno != 0 {
		unix.Close(sockFd)
		return iface.NewKernelError("join: bind", errno)
	}

	xskmapFd, err := attachXskmap(d.cfg.Ifname, d.cfg.Queue, sockFd)
	if err != nil {
		unix.Close(sockFd)
		return iface.WrapError("join: xskmap attach", iface.CodeKernel, err)
	}

	fill := ring.NewDescriptor(fillMem.entries, 8, d.cfg.FrDepth, fillMem.prod, fillMem.cons, fillMem.flags)
	cr := ring.NewDescriptor(crMem.entries, 8, d.cfg.CrDepth, crMem.prod, crMem.cons, crMem.flags)
	rx := ring.NewDescriptor(rxMem.entries, xdpabi.DescTxSize, d.cfg.RxDepth, rxMem.prod, rxMem.cons, rxMem.flags)
	tx := ring.NewDescriptor(txMem.entries, xdpabi.DescTxSize, d.cfg.TxDepth, txMem.prod, txMem.cons, txMem.flags)

	return d.joinRings(fill, rx, tx, cr, sockFd, xskmapFd)
}

func (d *Driver) wakeupTx() error {
	_, _, errno := unix.Syscall6(unix.SYS_SENDTO, uintptr(d.sockFd), 0, 0, unix.MSG_DONTWAIT, 0, 0)
	if errno != 0 && errno != syscall.EAGAIN && errno != syscall.EBUSY && errno != syscall.ENOBUFS {
		return errno
	}
	return nil
}

func (d *Driver) unjoin() error {
	if d.xskmapFd > 0 {
		_ = detachXskmap(d.xskmapFd, d.cfg.Queue)
	}
	if d.sockFd > 0 {
		return unix.Close(d.sockFd)
	}
	return nil
}
