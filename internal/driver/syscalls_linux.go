//go:build linux

package driver

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/xskio/xskio/internal/xdpabi"
)

// mmap page offsets for the four AF_XDP rings (linux/if_xdp.h).
const (
	xdpUmemPgoffFillRing       = 0x100000000
	xdpUmemPgoffCompletionRing = 0x180000000
	xdpPgoffRxRing             = 0
	xdpPgoffTxRing             = 0x80000000
)

func setsockoptInt(fd, level, opt, value int) syscall.Errno {
	return setsockoptStruct(fd, level, opt, unsafe.Pointer(&value), unsafe.Sizeof(value))
}

func setsockoptStruct(fd, level, opt int, val unsafe.Pointer, size uintptr) syscall.Errno {
	_, _, errno := unix.Syscall6(unix.SYS_SETSOCKOPT, uintptr(fd), uintptr(level), uintptr(opt), uintptr(val), size, 0)
	if errno != 0 {
		return errno
	}
	return 0
}

func getsockoptStruct(fd, level, opt int, val unsafe.Pointer, size uintptr) syscall.Errno {
	sz := size
	_, _, errno := unix.Syscall6(unix.SYS_GETSOCKOPT, uintptr(fd), uintptr(level), uintptr(opt), uintptr(val), uintptr(unsafe.Pointer(&sz)), 0)
	if errno != 0 {
		return errno
	}
	return 0
}

func ifNameToIndex(name string) (uint32, syscall.Errno) {
	ifr, err := unix.NewIfreq(name)
	if err != nil {
		if errno, ok := err.(syscall.Errno); ok {
			return 0, errno
		}
		return 0, syscall.EINVAL
	}
	sockFd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		if errno, ok := err.(syscall.Errno); ok {
			return 0, errno
		}
		return 0, syscall.EINVAL
	}
	defer unix.Close(sockFd)
	if err := unix.IoctlIfreq(sockFd, unix.SIOCGIFINDEX, ifr); err != nil {
		if errno, ok := err.(syscall.Errno); ok {
			return 0, errno
		}
		return 0, syscall.EINVAL
	}
	return ifr.Uint32(), 0
}

func bindXdp(fd int, sa *xdpabi.SockaddrXdp) syscall.Errno {
	_, _, errno := unix.Syscall(unix.SYS_BIND, uintptr(fd), uintptr(unsafe.Pointer(sa)), unsafe.Sizeof(*sa))
	if errno != 0 {
		return errno
	}
	return 0
}

// ringMmap holds the mmap'd region for one ring, sliced into the shared
// producer/consumer/flags words and the entry array, per the offsets
// reported by getsockopt(XDP_MMAP_OFFSETS).
type ringMmap struct {
	region  []byte
	prod    *uint32
	cons    *uint32
	flags   *uint32
	entries unsafe.Pointer
}

func mmapRing(fd int, pgoff uint64, off *xdpabi.RingOffset, depth uint32, entrySize uintptr) (*ringMmap, syscall.Errno) {
	size := off.Desc + uint64(depth)*uint64(entrySize)
	region, err := unix.Mmap(fd, int64(pgoff), int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED|unix.MAP_POPULATE)
	if err != nil {
		if errno, ok := err.(syscall.Errno); ok {
			return nil, errno
		}
		return nil, syscall.EINVAL
	}
	base := unsafe.Pointer(&region[0])
	return &ringMmap{
		region:  region,
		prod:    (*uint32)(unsafe.Add(base, uintptr(off.Producer))),
		cons:    (*uint32)(unsafe.Add(base, uintptr(off.Consumer))),
		flags:   (*uint32)(unsafe.Add(base, uintptr(off.Flags))),
		entries: unsafe.Add(base, uintptr(off.Desc)),
	}, 0
}
