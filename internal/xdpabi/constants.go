package xdpabi

// Magic is the 64-bit tag a formatted Driver carries in its Magic field
// (set by Format, cleared by Delete). It is not written into the UMEM
// region, and no driver operation checks it.
const Magic uint64 = 0xf17eda2c3778736b

// Socket option numbers for AF_XDP (linux/if_xdp.h). Not in
// golang.org/x/sys/unix for all kernel versions, so defined locally.
const (
	SolXdp = 283

	XdpMmapOffsets    = 1
	XdpRxRing         = 2
	XdpTxRing         = 3
	XdpUmemReg        = 4
	XdpUmemFillRing   = 5
	XdpUmemCompRing   = 6
	XdpStatistics     = 7
	XdpOptionsSockopt = 8
)

// Ring flags word bit (struct xdp_ring_offset.flags / the shared flags
// entry in the FILL/TX rings): set by the kernel when a wakeup syscall is
// required to make forward progress.
const RingFlagNeedWakeup uint32 = 1 << 0

// XdpMode names an eBPF attach mode. The driver keeps it in its Config;
// Bind and Join do not read it.
type XdpMode int

const (
	XdpModeKernelDefault XdpMode = iota
	XdpModeGeneric                // SKB mode, works on any NIC
	XdpModeNativeDriver           // driver-native XDP
	XdpModeHardwareOffload
)

// AF_XDP address family and protocol family, not always present in
// golang.org/x/sys/unix across platforms this module targets.
const (
	AfXdp = 44
)
