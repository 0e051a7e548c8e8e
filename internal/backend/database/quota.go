package database

import (
	"context"
	"fmt"
)

// QuotaDatabase limits the size of a single slot (key plus value, in bytes) on top of
// another backend. Writes above the limit fail with ErrQuotaExceeded and leave the
// stored value untouched.
type QuotaDatabase struct {
	DatabaseService
	maxBytes int
}

// WithQuota wraps database with a per-slot limit. A limit <= 0 returns database unchanged.
func WithQuota(database DatabaseService, maxBytes int) DatabaseService {
	if maxBytes <= 0 {
		return database
	}
	return &QuotaDatabase{
		DatabaseService: database,
		maxBytes:        maxBytes,
	}
}

func (q *QuotaDatabase) SetValue(ctx context.Context, key string, value string) error {
	if size := len(key) + len(value); size > q.maxBytes {
		return fmt.Errorf("writing %d bytes to slot %q exceeds limit of %d bytes: %w", size, key, q.maxBytes, ErrQuotaExceeded)
	}
	return q.DatabaseService.SetValue(ctx, key, value)
}
