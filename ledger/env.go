package ledger

import (
	"time"

	"go.uber.org/atomic"
)

// Env supplies the sequencing context of the hosting execution environment.
// Height is the sequence point recorded in voting-power checkpoints, Time is
// only compared against signed-approval deadlines.
type Env interface {
	Height() uint64
	Time() time.Time
}

// Clock is a logical-clock Env for hosts without a chain context. The zero
// time means "wall clock"; tests pin a time with SetTime.
type Clock struct {
	height   *atomic.Uint64
	unixNano *atomic.Int64
}

func NewClock() *Clock {
	return &Clock{
		height:   atomic.NewUint64(0),
		unixNano: atomic.NewInt64(0),
	}
}

func (c *Clock) Height() uint64 {
	return c.height.Load()
}

// Advance moves the logical clock one sequence point forward and returns the
// new height.
func (c *Clock) Advance() uint64 {
	return c.height.Inc()
}

func (c *Clock) SetHeight(h uint64) {
	c.height.Store(h)
}

func (c *Clock) Time() time.Time {
	ns := c.unixNano.Load()
	if ns == 0 {
		return time.Now()
	}
	return time.Unix(0, ns)
}

func (c *Clock) SetTime(t time.Time) {
	c.unixNano.Store(t.UnixNano())
}
