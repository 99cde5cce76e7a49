package buddy

import (
	"container/list"

	"github.com/golang/glog"
)

// area is the free-list manager for one order: a doubly-linked list of the
// first pages of free blocks of that order, plus a count.
// Insertion order is irrelevant to correctness; new blocks go on the head
// (LIFO), matching the source.
//
// container/list holds page indices (int) as Element.Value, playing the
// role of an intrusive list's list_add_head/list_del/list_empty/
// list_entry operations. A real intrusive list gets list_del(&page->lru)
// in O(1) for free because the link lives inside the page itself;
// container/list's nodes don't, so byIdx tracks each free page's
// *list.Element directly, keeping removeBuddy an O(1) lookup-and-unlink
// instead of a scan.
type area struct {
	freeList *list.List
	byIdx    map[int]*list.Element
	nrFree   int
}

func newArea() area {
	return area{freeList: list.New(), byIdx: make(map[int]*list.Element)}
}

// pushFront links page idx at the head of the area's free list.
func (a *area) pushFront(idx int) {
	a.byIdx[idx] = a.freeList.PushFront(idx)
	a.nrFree++
}

// popFront unlinks and returns the first page index in the area's free
// list. Callers must check empty() first.
func (a *area) popFront() int {
	front := a.freeList.Front()
	idx := front.Value.(int)
	a.freeList.Remove(front)
	delete(a.byIdx, idx)
	a.nrFree--
	return idx
}

// removeBuddy unlinks a specific page index from the area's free list in
// O(1), via the element recorded by pushFront.
func (a *area) removeBuddy(idx int) {
	e, ok := a.byIdx[idx]
	if !ok {
		return
	}
	a.freeList.Remove(e)
	delete(a.byIdx, idx)
	a.nrFree--
}

func (a *area) empty() bool { return a.freeList.Len() == 0 }

// rmqueue finds the smallest order n >= order whose free list is
// non-empty, splits it down to order via expand, marks the returned
// block allocated, and returns its first page index. It returns
// (0, false) if no suitable block exists at any order.
//
// rmqueue does not itself adjust z.freePages by the full 2^n it removes
// from area[n] — only by 2^order, since expand puts the remainder back
// on smaller free lists.
func (z *Zone) rmqueue(order uint) (int, bool) {
	for n := order; n <= z.maxOrder; n++ {
		a := &z.area[n]
		if a.empty() {
			continue
		}

		idx := a.popFront()
		z.freePages -= 1 << order

		z.expand(idx, order, n, n)
		z.setPageUsed(idx, order)

		glog.V(2).Infof("buddy[%s]: rmqueue order=%d from area=%d idx=%d", z.id, order, n, idx)
		return idx, true
	}
	return 0, false
}

// expand splits the block of order `high` starting at idx so that its
// lower half (which stays at idx) ends up at order `low`, re-inserting
// the upper half of every intermediate split as a smaller free block.
// areaOrder tracks which area the current `high` corresponds to; it
// starts equal to high since that is the area rmqueue popped from.
func (z *Zone) expand(idx int, low, high, areaOrder uint) {
	size := 1 << high
	for high > low {
		areaOrder--
		high--
		size >>= 1

		buddyIdx := idx + size
		z.area[areaOrder].pushFront(buddyIdx)
		z.setPageFree(buddyIdx, high)
	}
}

// mergeBuddy repeatedly absorbs idx's buddy at the current order into a
// combined block, climbing orders until the buddy is missing, allocated,
// or the wrong size, or max order is reached; then re-links the final,
// possibly-combined, block as free.
func (z *Zone) mergeBuddy(idx int, order uint) {
	z.freePages += 1 << order

	for order < z.maxOrder {
		buddyIdx := buddyIndex(idx, order)
		if !z.isFreeAtOrder(buddyIdx, order) {
			break
		}

		z.area[order].removeBuddy(buddyIdx)
		z.clearPageFlag(buddyIdx)

		idx = combinedIndex(idx, order)
		order++
	}

	z.setPageFree(idx, order)
	z.area[order].pushFront(idx)

	glog.V(2).Infof("buddy[%s]: merged to order=%d idx=%d", z.id, order, idx)
}
