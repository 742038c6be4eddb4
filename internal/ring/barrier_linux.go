//go:build linux && cgo && amd64

package ring

/*
#include <stdint.h>

// Store fence: all prior stores are globally visible before any subsequent
// store. Required before publishing a producer cursor the kernel polls.
static inline void wmb_impl(void) {
    __asm__ __volatile__("sfence" ::: "memory");
}

// Load fence: all prior loads complete before any subsequent load.
// Required before trusting a consumer/producer cursor written by the
// kernel.
static inline void rmb_impl(void) {
    __asm__ __volatile__("lfence" ::: "memory");
}
*/
import "C"

// Wmb issues a store fence (x86 SFENCE). Used immediately before a
// release-store of a producer or consumer cursor into kernel-shared
// memory.
func Wmb() {
	C.wmb_impl()
}

// Rmb issues a load fence (x86 LFENCE). Used immediately before an
// acquire-load of a cursor the kernel may have advanced concurrently.
func Rmb() {
	C.rmb_impl()
}
