// Package clock provides the monotonic index sources the vesting ledger is
// evaluated against. An index is either a block height or a unix timestamp;
// the ledger math does not care which.
package clock

import (
	"sync/atomic"
	"time"
)

// Clock returns the index at which the next operation takes effect.
type Clock interface {
	CurrentIndex() uint64
}

// Advancer is implemented by clocks that move forward once per committed
// operation rather than with wall time.
type Advancer interface {
	Advance()
}

// Fixed is a clock pinned to a single index.
type Fixed uint64

// CurrentIndex implements Clock.
func (f Fixed) CurrentIndex() uint64 { return uint64(f) }

// Manual is a clock driven explicitly by its owner. Safe for concurrent use.
type Manual struct {
	index uint64
}

// NewManual creates a manual clock starting at index.
func NewManual(index uint64) *Manual {
	return &Manual{index: index}
}

// CurrentIndex implements Clock.
func (m *Manual) CurrentIndex() uint64 { return atomic.LoadUint64(&m.index) }

// Set moves the clock to index. Callers are responsible for monotonicity.
func (m *Manual) Set(index uint64) { atomic.StoreUint64(&m.index, index) }

// Tick moves the clock n indices forward.
func (m *Manual) Tick(n uint64) { atomic.AddUint64(&m.index, n) }

// Counter is a block-height style clock: every committed operation is sealed
// in its own block, so the index advances by one after each commit.
type Counter struct {
	height uint64
}

// NewCounter returns a counter whose next block is height.
func NewCounter(height uint64) *Counter {
	return &Counter{height: height}
}

// CurrentIndex implements Clock.
func (c *Counter) CurrentIndex() uint64 { return atomic.LoadUint64(&c.height) }

// Advance implements Advancer.
func (c *Counter) Advance() { atomic.AddUint64(&c.height, 1) }

// Unix reports the wall clock in seconds.
type Unix struct {
	now func() time.Time
}

// NewUnix returns a unix-time clock.
func NewUnix() *Unix {
	return &Unix{now: time.Now}
}

// CurrentIndex implements Clock.
func (u *Unix) CurrentIndex() uint64 {
	ts := u.now().Unix()
	if ts < 0 {
		return 0
	}
	return uint64(ts)
}
