package database

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned by SetValue when the stored value would not fit into the
// configured capacity of the backend.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// DatabaseService is a string keyed slot storage. Values are opaque strings written and
// read as a whole, comparable to the local storage of a browser.
type DatabaseService interface {
	CreateDatabase() error
	DoesDatabaseExist() bool
	Close() error

	// GetValue returns the value stored under key. found is false if nothing was written yet.
	GetValue(ctx context.Context, key string) (value string, found bool, err error)
	// SetValue replaces the value stored under key.
	SetValue(ctx context.Context, key string, value string) error
}
