package batch

import "sync/atomic"

// Clock stamps the outcomes of one run with a strictly increasing seq.
//
// Outcome order is the request order of the batch file, never wall-clock
// time, so rerunning a file reproduces the same seqs and outcome IDs.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0. The first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
