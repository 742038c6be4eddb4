package driver

import "unsafe"

// unsafeSlice views n bytes starting at ptr as a []byte without copying,
// for ring entries living in mmap'd (or, in tests, heap) memory.
func unsafeSlice(ptr unsafe.Pointer, n int) []byte {
	if ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), n)
}
