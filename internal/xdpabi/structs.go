// Package xdpabi mirrors the Linux AF_XDP kernel ABI: ring entry layouts,
// socket registration structures, and the socket-option numbers needed to
// join a UMEM and its four rings to a NIC queue.
package xdpabi

import "unsafe"

// DescTx is the RX/TX ring entry: struct xdp_desc.
//
//	struct xdp_desc {
//	  __u64 addr;
//	  __u32 len;
//	  __u32 options;
//	};
type DescTx struct {
	Addr    uint64
	Len     uint32
	Options uint32
}

// Compile-time size check - kernel struct is 16 bytes.
var _ [16]byte = [unsafe.Sizeof(DescTx{})]byte{}

// FillEntry and CompletionEntry are both a bare 64-bit frame offset.
type FillEntry = uint64
type CompletionEntry = uint64

// UmemReg mirrors struct xdp_umem_reg, passed to setsockopt(XDP_UMEM_REG).
type UmemReg struct {
	Addr     uint64 // userspace address of the UMEM region
	Len      uint64 // byte length of the UMEM region
	ChunkSz  uint32 // frame_sz
	Headroom uint32
}

var _ [24]byte = [unsafe.Sizeof(UmemReg{})]byte{}

// RingOffset mirrors struct xdp_ring_offset, one per ring, returned by
// getsockopt(XDP_MMAP_OFFSETS).
type RingOffset struct {
	Producer uint64
	Consumer uint64
	Desc     uint64
	Flags    uint64
}

var _ [32]byte = [unsafe.Sizeof(RingOffset{})]byte{}

// MmapOffsets mirrors struct xdp_mmap_offsets: the byte offsets, within
// each ring's mmap'd region, of the producer cursor, consumer cursor, the
// descriptor array, and the flags word.
type MmapOffsets struct {
	Rx RingOffset
	Tx RingOffset
	Fr RingOffset
	Cr RingOffset
}

var _ [128]byte = [unsafe.Sizeof(MmapOffsets{})]byte{}

// SockaddrXdp mirrors struct sockaddr_xdp, passed to bind(2).
type SockaddrXdp struct {
	Family   uint16
	Flags    uint16
	IfIndex  uint32
	QueueID  uint32
	SharedFd uint32
}

var _ [16]byte = [unsafe.Sizeof(SockaddrXdp{})]byte{}
