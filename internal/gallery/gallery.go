package gallery

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	ErrDuplicateID = errors.New("duplicate image id")
	ErrCapacity    = errors.New("gallery is full")
)

// Gallery is the ordered set of image records. Insertion order is display order.
type Gallery struct {
	mu        sync.RWMutex
	records   []ImageRecord
	maxImages int
}

// New creates an empty gallery. maxImages <= 0 means unbounded.
func New(maxImages int) *Gallery {
	return &Gallery{maxImages: maxImages}
}

// Append adds a record at the end of the gallery.
func (g *Gallery) Append(record ImageRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.maxImages > 0 && len(g.records) >= g.maxImages {
		return fmt.Errorf("cannot add %q, limit of %d images reached: %w", record.Name, g.maxImages, ErrCapacity)
	}
	if g.indexOf(record.ID) >= 0 {
		return fmt.Errorf("image id %d: %w", record.ID, ErrDuplicateID)
	}
	g.records = append(g.records, record)
	return nil
}

// Remove deletes the record with the given id and reports whether it existed.
func (g *Gallery) Remove(id int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.indexOf(id)
	if idx < 0 {
		return false
	}
	g.records = slices.Delete(g.records, idx, idx+1)
	return true
}

func (g *Gallery) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.records = nil
}

// Replace swaps the whole content, e.g. after loading a snapshot.
func (g *Gallery) Replace(records []ImageRecord) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.records = slices.Clone(records)
}

func (g *Gallery) Find(id int64) (ImageRecord, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	idx := g.indexOf(id)
	if idx < 0 {
		return ImageRecord{}, false
	}
	return g.records[idx], true
}

// Records returns a copy of all records in display order.
func (g *Gallery) Records() []ImageRecord {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.records)
}

func (g *Gallery) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.records)
}

func (g *Gallery) indexOf(id int64) int {
	return slices.IndexFunc(g.records, func(r ImageRecord) bool { return r.ID == id })
}
