package buddy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAreaPushPopIsLIFO(t *testing.T) {
	a := newArea()
	assert.True(t, a.empty())

	a.pushFront(1)
	a.pushFront(2)
	a.pushFront(3)
	assert.Equal(t, 3, a.nrFree)
	assert.False(t, a.empty())

	assert.Equal(t, 3, a.popFront())
	assert.Equal(t, 2, a.popFront())
	assert.Equal(t, 1, a.popFront())
	assert.True(t, a.empty())
	assert.Equal(t, 0, a.nrFree)
}

func TestAreaRemoveBuddyFromMiddle(t *testing.T) {
	a := newArea()
	a.pushFront(10)
	a.pushFront(20)
	a.pushFront(30)

	a.removeBuddy(20)
	assert.Equal(t, 2, a.nrFree)

	remaining := []int{a.popFront(), a.popFront()}
	assert.ElementsMatch(t, []int{10, 30}, remaining)
}

func TestAreaRemoveBuddyMissingIsNoop(t *testing.T) {
	a := newArea()
	a.pushFront(1)
	a.removeBuddy(999)
	assert.Equal(t, 1, a.nrFree)
}

// TestRmqueueSplitsFromSmallestSufficientOrder exercises rmqueue/expand
// directly: a single order-2 free block, requesting order 0, must split down
// through order 1 before returning the order-0 block, leaving one order-1
// block (idx 2) and one order-0 block (idx 1) on their free lists as the
// leftovers.
func TestRmqueueSplitsFromSmallestSufficientOrder(t *testing.T) {
	z := &Zone{
		maxOrder:  2,
		area:      make([]area, 3),
		pageFlags: make([]byte, 4),
	}
	for n := range z.area {
		z.area[n] = newArea()
	}
	z.area[2].pushFront(0)
	z.setPageFree(0, 2)
	z.freePages = 4

	idx, ok := z.rmqueue(0)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 3, z.freePages)

	order, allocated := z.isAllocated(0)
	assert.True(t, allocated)
	assert.EqualValues(t, 0, order)

	assert.False(t, z.area[1].empty(), "order-1 leftover from the split must be on the order-1 free list")
	assert.False(t, z.area[0].empty(), "order-0 leftover from the split must be on the order-0 free list")
	assert.True(t, z.isFreeAtOrder(2, 1))
	assert.True(t, z.isFreeAtOrder(1, 0))
}

func TestRmqueueFailsWhenNoSufficientOrder(t *testing.T) {
	z := &Zone{
		maxOrder:  2,
		area:      make([]area, 3),
		pageFlags: make([]byte, 4),
	}
	for n := range z.area {
		z.area[n] = newArea()
	}

	_, ok := z.rmqueue(0)
	assert.False(t, ok)
}

// TestMergeBuddyStopsAtAllocatedSibling ensures mergeBuddy halts climbing
// orders as soon as the buddy at the current order is not free, instead of
// reading past it.
func TestMergeBuddyStopsAtAllocatedSibling(t *testing.T) {
	z := &Zone{
		maxOrder:  2,
		area:      make([]area, 3),
		pageFlags: make([]byte, 4),
	}
	for n := range z.area {
		z.area[n] = newArea()
	}
	// idx 0 is being freed at order 0; its buddy (idx 1) is allocated, so
	// no merge should happen.
	z.setPageUsed(1, 0)

	z.mergeBuddy(0, 0)

	assert.True(t, z.isFreeAtOrder(0, 0))
	assert.Equal(t, 1, z.freePages)
	assert.False(t, z.area[0].empty())
}
