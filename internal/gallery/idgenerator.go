package gallery

import (
	"sync"
	"time"
)

// idsPerMillisecond is the room left below every clock millisecond for records
// created within the same millisecond.
const idsPerMillisecond = 1000

// IDGenerator hands out strictly increasing numeric record ids derived from the clock.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns an id greater than every id returned or observed before.
func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	candidate := g.now().UnixMilli() * idsPerMillisecond
	if candidate <= g.last {
		candidate = g.last + 1
	}
	g.last = candidate
	return candidate
}

// Observe makes sure later ids are greater than id, used for ids loaded from storage.
func (g *IDGenerator) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}
