// Package buddy implements a binary buddy allocator over a single
// contiguous arena ("zone") of fixed-size pages, serving requests for
// 2^order contiguous pages.
//
// A Zone is not safe for concurrent use: every exported method must be
// serialized by the caller, exactly like the C allocator this package
// reproduces. There are no goroutines, no locks, and no blocking calls
// inside this package other than the one-time host memory acquisition in
// NewZone.
package buddy

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/yinghaoyu/libeasy/internal/hostmem"
)

// Zone is a single arena of buddy-managed pages.
type Zone struct {
	id   uuid.UUID
	opts zoneOptions

	arena []byte // raw backing memory; arena[memStart:memEnd] is page-addressable

	memStart int // offset of the first page-addressable byte
	memLast  int // high-water mark; [memStart,memLast) is committed to the free lists
	memEnd   int // offset one past the last page-addressable byte

	maxOrder uint
	area     []area // area[0..maxOrder]

	freePages int
	pageFlags []byte // one byte per page in [memStart,memEnd)

	closed bool
}

// NewZone creates a zone capable of eventually growing to at least
// maxSize bytes of page-addressable arena. maxSize is rounded up to a
// power-of-two multiple of the page size, the zone's max order is capped
// at MaxOrder-1, and the arena is acquired from the host aligned to the
// top-block size so that buddy index arithmetic (idx XOR 1<<order) is
// valid for every order the zone uses.
func NewZone(maxSize int64, opts ...Option) (*Zone, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("buddy: max size must be positive, got %d", maxSize)
	}

	resolved, err := resolveOptions(opts...)
	if err != nil {
		return nil, err
	}

	pageSize := int64(1) << resolved.pageShift

	order := uint(0)
	size := pageSize
	for size < maxSize {
		size <<= 1
		order++
	}

	// zone's max order is min(order, configured MaxOrder - 1).
	maxOrder := order
	if order >= resolved.maxOrder {
		maxOrder = resolved.maxOrder - 1
	}

	topBlockBytes := pageSize << (resolved.maxOrder - 1)

	arena, pad, err := hostmem.AlignedAlloc(int(size), int(topBlockBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHostAllocFailed, err)
	}

	z := &Zone{
		id:        uuid.New(),
		opts:      resolved,
		arena:     arena,
		memStart:  pad,
		memLast:   pad,
		memEnd:    pad + int(size),
		maxOrder:  maxOrder,
		area:      make([]area, maxOrder+1),
		pageFlags: make([]byte, size/pageSize),
	}
	for n := range z.area {
		z.area[n] = newArea()
	}

	glog.V(1).Infof("buddy[%s]: zone created capacity=%s max_order=%d page_size=%s",
		z.id, humanize.Bytes(uint64(size)), z.maxOrder, humanize.Bytes(uint64(pageSize)))

	return z, nil
}

// Close releases the zone's backing memory. It is idempotent; using the
// zone's Pages after Close is undefined.
func (z *Zone) Close() error {
	if z.closed {
		return nil
	}
	z.closed = true
	z.arena = nil
	glog.V(1).Infof("buddy[%s]: zone closed", z.id)
	return nil
}

// MaxOrder returns the largest order this zone serves.
func (z *Zone) MaxOrder() uint { return z.maxOrder }

// PageSize returns the zone's page size in bytes.
func (z *Zone) PageSize() int { return z.pageSize() }

func (z *Zone) pageSize() int { return 1 << z.opts.pageShift }

// FreePageCount returns the number of pages currently on any free list.
func (z *Zone) FreePageCount() int { return z.freePages }

// AllocPages allocates a block of 2^order contiguous pages and returns a
// handle to its first page: a fast path via rmqueue, then lazy
// introduction of a fresh top block if the zone has uncommitted capacity,
// then ErrOutOfMemory.
func (z *Zone) AllocPages(order uint) (*Page, error) {
	if z.closed {
		return nil, ErrZoneClosed
	}
	if order > z.maxOrder {
		return nil, fmt.Errorf("%w: order=%d max=%d", ErrOrderTooLarge, order, z.maxOrder)
	}

	if z.freePages >= 1<<order {
		if idx, ok := z.rmqueue(order); ok {
			return &Page{zone: z, idx: idx}, nil
		}
	}

	if z.memLast < z.memEnd {
		idx := (z.memLast - z.memStart) / z.pageSize()
		z.memLast += (1 << z.maxOrder) * z.pageSize()
		z.freePages += 1 << z.maxOrder
		z.area[z.maxOrder].pushFront(idx)
		// The flags byte for a freshly introduced top block starts at its
		// zero-value from make([]byte, ...); rmqueue's expand/setPageUsed
		// immediately overwrites page idx's byte, so leaving the rest at
		// zero rather than explicitly writing maxOrder here is safe.

		glog.V(2).Infof("buddy[%s]: grew zone, introduced top block idx=%d", z.id, idx)

		if idx, ok := z.rmqueue(order); ok {
			return &Page{zone: z, idx: idx}, nil
		}
	}

	glog.V(1).Infof("buddy[%s]: out of memory for order=%d (free_pages=%d)", z.id, order, z.freePages)
	return nil, fmt.Errorf("%w: order=%d", ErrOutOfMemory, order)
}

// FreePages releases a block previously returned by AllocPages on this
// zone. Invalid input (a pointer outside the committed arena, or a page
// not currently marked allocated) is silently ignored — a cheap safety
// net against double-free or a foreign Page, not a correctness contract
// callers may rely on.
func (z *Zone) FreePages(page *Page) {
	if z.closed || page == nil || page.zone != z {
		return
	}

	idx := page.idx
	pageStart := z.memStart + idx*z.pageSize()
	if pageStart < z.memStart || pageStart > z.memLast-z.pageSize() {
		glog.V(1).Infof("buddy[%s]: ignoring free of out-of-range page idx=%d", z.id, idx)
		return
	}

	order, ok := z.isAllocated(idx)
	if !ok {
		glog.V(1).Infof("buddy[%s]: ignoring free of non-allocated page idx=%d", z.id, idx)
		return
	}

	z.mergeBuddy(idx, order)
}
