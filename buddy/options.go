package buddy

import "fmt"

const (
	// DefaultPageShift is log2(page size); the canonical page is 64 KiB.
	DefaultPageShift = 16

	// DefaultMaxOrder is the default MaxOrder: a zone's orders run up to
	// DefaultMaxOrder-1, so a top block is 2^(DefaultMaxOrder-1) = 2048
	// pages = 128 MiB at the default page size.
	DefaultMaxOrder = 12
)

// zoneOptions collects the construction-time parameters of a Zone. These
// play the role of the source's compile-time PAGE_SHIFT/MAX_ORDER
// constants; Go has no preprocessor, so they are resolved once at
// NewZone and never change for the lifetime of the Zone.
type zoneOptions struct {
	pageShift uint
	maxOrder  uint
}

// Option configures a Zone at construction time.
type Option func(*zoneOptions)

// WithPageShift sets log2(page size). The default is DefaultPageShift
// (64 KiB pages).
func WithPageShift(shift uint) Option {
	return func(o *zoneOptions) { o.pageShift = shift }
}

// WithMaxOrder sets MaxOrder: the zone's own max order is capped at
// order-1. The default is DefaultMaxOrder (a 128 MiB top block at the
// default page size).
func WithMaxOrder(order uint) Option {
	return func(o *zoneOptions) { o.maxOrder = order }
}

func resolveOptions(opts ...Option) (zoneOptions, error) {
	o := zoneOptions{
		pageShift: DefaultPageShift,
		maxOrder:  DefaultMaxOrder,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.pageShift == 0 || o.pageShift > 40 {
		return o, fmt.Errorf("buddy: page shift %d out of range", o.pageShift)
	}
	if o.maxOrder == 0 || o.maxOrder > 31 {
		return o, fmt.Errorf("buddy: max order %d out of range", o.maxOrder)
	}
	if o.pageShift+o.maxOrder >= 63 {
		return o, fmt.Errorf("buddy: page shift %d + max order %d overflows a block size", o.pageShift, o.maxOrder)
	}

	return o, nil
}
