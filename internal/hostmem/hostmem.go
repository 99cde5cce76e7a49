// Package hostmem acquires raw, aligned backing memory for a buddy zone's
// arena. It is the Go analogue of the C allocator's memalign(3) call: the
// zone never sees unaligned or undersized memory, so its buddy arithmetic
// (idx XOR 1<<order) can assume alignment rather than check it.
package hostmem

import (
	"fmt"
	"unsafe"

	"github.com/bytedance/gopkg/lang/dirtmake"
)

// AlignedAlloc returns a byte slice of at least size bytes whose first
// usable byte sits at an address that is a multiple of alignment, along
// with the offset of that first usable byte within the returned slice.
//
// alignment must be a power of two. The returned slice is sized
// size+alignment so the aligned window of exactly size bytes always fits
// after slicing off the leading pad; callers take arena[pad:pad+size].
//
// The backing memory is acquired uninitialized (dirtmake.Bytes), matching
// memalign's contract of not zeroing the returned block. A buddy zone
// keeps its bookkeeping outside the arena and never clears the pages it
// hands out, so a caller sees whatever bytes the memory already held.
func AlignedAlloc(size, alignment int) (mem []byte, pad int, err error) {
	if size <= 0 {
		return nil, 0, fmt.Errorf("hostmem: size must be positive, got %d", size)
	}
	if alignment <= 0 || alignment&(alignment-1) != 0 {
		return nil, 0, fmt.Errorf("hostmem: alignment must be a power of two, got %d", alignment)
	}

	raw := dirtmake.Bytes(size+alignment, size+alignment)
	base := uintptr(unsafe.Pointer(&raw[0]))
	aligned := (base + uintptr(alignment) - 1) &^ (uintptr(alignment) - 1)
	pad = int(aligned - base)

	return raw, pad, nil
}
