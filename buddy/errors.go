package buddy

import "errors"

var (
	// ErrOrderTooLarge is returned by AllocPages when order exceeds the
	// zone's max order.
	ErrOrderTooLarge = errors.New("buddy: order exceeds zone max order")

	// ErrOutOfMemory is returned by AllocPages when no free block of
	// sufficient order exists and lazy growth is exhausted.
	ErrOutOfMemory = errors.New("buddy: no free pages at requested order")

	// ErrHostAllocFailed is returned by NewZone when the host could not
	// supply the requested backing memory.
	ErrHostAllocFailed = errors.New("buddy: host allocation failed")

	// ErrZoneClosed is returned by AllocPages on a zone after Close has
	// been called.
	ErrZoneClosed = errors.New("buddy: zone is closed")
)
