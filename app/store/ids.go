package store

import "time"

// IDSource hands out task ids.
type IDSource interface {
	Next(taken func(int64) bool) int64
}

// ClockIDs issues millisecond timestamps as ids. An id is bumped past the
// last one issued and past any id already taken, so two tasks created in the
// same millisecond still get distinct ids.
type ClockIDs struct {
	Now  func() time.Time
	last int64
}

// NewClockIDs returns a ClockIDs reading the wall clock.
func NewClockIDs() *ClockIDs {
	return &ClockIDs{Now: time.Now}
}

// Next returns a fresh id. taken may be nil.
func (c *ClockIDs) Next(taken func(int64) bool) int64 {
	id := c.Now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	for taken != nil && taken(id) {
		id++
	}
	c.last = id
	return id
}
