//go:build !linux

package driver

// PinThread is a no-op off Linux; CPU affinity only matters for a real
// AF_XDP join.
func PinThread(int) error { return nil }
