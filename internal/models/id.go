package models

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator assigns entity ids derived from creation time in milliseconds
// since epoch. Ids are kept strictly monotonic so two creations within the
// same millisecond still sort stably; as fixed-width decimal strings they
// order lexicographically the same as numerically.
type IDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewIDGenerator returns a generator reading time from now. A nil now uses
// the wall clock.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns the next id and the millisecond timestamp it encodes.
func (g *IDGenerator) Next() (string, int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10), ms
}
