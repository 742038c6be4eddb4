//go:build linux

package driver

import (
	"fmt"

	"github.com/cilium/ebpf"
)

// xskmapPinPath is the bpffs path a pre-installed XDP program pins its
// XSKMAP at. Installing the XDP program itself, and choosing this path,
// is control-plane policy owned elsewhere; this driver only updates the
// map entry for its own queue.
const xskmapPinPath = "/sys/fs/bpf/xskio/xsks_map"

// attachXskmap updates the shared XSKMAP so that packets redirected to
// ifname's queue land on sockFd, detaching whatever redirection existed
// for that queue before. Returns the fd number the map had while open;
// that fd is closed before return, unjoin only tests it for > 0, and
// detachXskmap reopens the map from its pin path to clear the entry.
func attachXskmap(ifname string, queue uint32, sockFd int) (int, error) {
	m, err := ebpf.LoadPinnedMap(xskmapPinPath, nil)
	if err != nil {
		return 0, fmt.Errorf("load pinned xsks_map at %s: %w", xskmapPinPath, err)
	}
	defer m.Close()

	if err := m.Update(queue, uint32(sockFd), ebpf.UpdateAny); err != nil {
		return 0, fmt.Errorf("update xsks_map[%d] = fd %d: %w", queue, sockFd, err)
	}
	return m.FD(), nil
}

// detachXskmap removes this queue's redirection entry on leave.
func detachXskmap(_ int, queue uint32) error {
	m, err := ebpf.LoadPinnedMap(xskmapPinPath, nil)
	if err != nil {
		return fmt.Errorf("load pinned xsks_map at %s: %w", xskmapPinPath, err)
	}
	defer m.Close()
	return m.Delete(queue)
}
