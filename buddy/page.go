package buddy

const (
	// flagAllocated is set in a page-flags byte when the page is the
	// first page of a currently-allocated block.
	flagAllocated byte = 0x80

	// flagOrderMask extracts the order nibble from a page-flags byte.
	flagOrderMask byte = 0x0f
)

// Page is a handle to the first page of a block returned by AllocPages.
// It carries no data of its own — free-list nodes live outside the arena,
// and an allocated page's storage is entirely the caller's — so Page is
// just enough to find that storage back in its zone.
//
// A Page is not safe for use after its zone is closed, and not safe for
// concurrent use without external synchronization (see the package
// documentation).
type Page struct {
	zone *Zone
	idx  int
}

// Index returns the page's zero-based index within its zone.
func (p *Page) Index() int { return p.idx }

// Bytes returns the backing storage for this page's block: a slice of
// exactly 2^order*PageSize() bytes, where order is the order the block was
// allocated at. Its contents are whatever was last written there — the
// allocator never clears pages on behalf of the caller.
func (p *Page) Bytes(order uint) []byte {
	z := p.zone
	start := z.memStart + p.idx*z.pageSize()
	length := (1 << order) * z.pageSize()
	return z.arena[start : start+length]
}

// buddyIndex returns the index of the buddy of the block of the given
// order starting at idx. Together idx and buddyIndex(idx, order) span
// exactly one block of order+1.
func buddyIndex(idx int, order uint) int {
	return idx ^ (1 << order)
}

// combinedIndex returns the starting index of the order+1 block formed by
// idx and its buddy — i.e. the lower of the two sibling indices.
func combinedIndex(idx int, order uint) int {
	return idx &^ (1 << order)
}

// setPageFree marks page idx as the first page of a free block of the
// given order. Bytes belonging to non-first pages of a block must never
// be written with their containing order.
func (z *Zone) setPageFree(idx int, order uint) {
	z.pageFlags[idx] = flagOrderMask & byte(order)
}

// setPageUsed marks page idx as the first page of an allocated block of
// the given order.
func (z *Zone) setPageUsed(idx int, order uint) {
	z.pageFlags[idx] = flagAllocated | (flagOrderMask & byte(order))
}

// clearPageFlag resets page idx's flags byte to zero, clearing the
// allocated bit. Zero is also the encoding of order 0, so the byte differs
// from every order k >= 1 that a block containing idx as an inner page can
// have. Used when a buddy is absorbed during coalescing.
func (z *Zone) clearPageFlag(idx int) {
	z.pageFlags[idx] = 0
}

// isAllocated reports whether page idx is currently the first page of an
// allocated block, and if so at what order.
func (z *Zone) isAllocated(idx int) (order uint, ok bool) {
	f := z.pageFlags[idx]
	if f&flagAllocated == 0 {
		return 0, false
	}
	return uint(f & flagOrderMask), true
}

// isFreeAtOrder reports whether page idx is exactly the first page of a
// free block of the given order. Necessary and sufficient because
// inner-page bytes are never written with their containing order.
func (z *Zone) isFreeAtOrder(idx int, order uint) bool {
	return z.pageFlags[idx] == byte(order)
}
