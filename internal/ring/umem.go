package ring

import "unsafe"

// Umem is the contiguous frame memory region backing one XSK: a flat
// byte slice sliced into frame_sz-sized frames, each identified by its
// byte offset from the region base.
type Umem struct {
	mem     []byte
	frameSz uint32
}

// NewUmem wraps a preallocated (mmap'd in production, heap-allocated in
// tests) region as a UMEM of the given frame size. frameSz must be a
// power of two and evenly divide len(mem).
func NewUmem(mem []byte, frameSz uint32) *Umem {
	return &Umem{mem: mem, frameSz: frameSz}
}

// FrameSize returns the configured per-frame size.
func (u *Umem) FrameSize() uint32 { return u.frameSz }

// Size returns the total region size in bytes.
func (u *Umem) Size() int { return len(u.mem) }

// NumFrames returns the number of frames the region is divided into.
func (u *Umem) NumFrames() uint32 { return uint32(len(u.mem)) / u.frameSz }

// Frame returns the byte slice for the frame at the given offset,
// truncated to length. Panics if the range falls outside the region:
// an out-of-range offset from a ring entry is always an invariant
// violation, not a recoverable condition.
func (u *Umem) Frame(offset uint64, length uint32) []byte {
	return u.mem[offset : offset+uint64(length)]
}

// Base returns the region's base address for local pointer arithmetic
// (umem base + frame offset).
func (u *Umem) Base() unsafe.Pointer {
	if len(u.mem) == 0 {
		return nil
	}
	return unsafe.Pointer(&u.mem[0])
}

// Bytes exposes the raw backing slice, e.g. to copy a TX payload into
// frame_mem+offset.
func (u *Umem) Bytes() []byte { return u.mem }
