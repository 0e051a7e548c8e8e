package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jo-hoe/publicgallery/internal/backend/database"
)

const DefaultSlotKey = "publicImages"

// Persister mirrors a Gallery into a single slot of a key-value database.
type Persister struct {
	database database.DatabaseService
	key      string
}

func NewPersister(db database.DatabaseService, key string) *Persister {
	if key == "" {
		key = DefaultSlotKey
	}
	return &Persister{database: db, key: key}
}

// Load replaces the content of g with the stored snapshot. A missing slot leaves g
// untouched; an unreadable or malformed snapshot resets g to empty. Load returns the
// loaded records so callers can seed id generation.
func (p *Persister) Load(ctx context.Context, g *Gallery) []ImageRecord {
	raw, found, err := p.database.GetValue(ctx, p.key)
	if err != nil {
		slog.Warn("could not load images from storage", "key", p.key, "error", err)
		g.Reset()
		return nil
	}
	if !found {
		return nil
	}

	records, err := DecodeRecords(raw)
	if err != nil {
		slog.Warn("discarding malformed gallery snapshot", "key", p.key, "error", err)
		g.Reset()
		return nil
	}
	g.Replace(records)
	slog.Info("gallery loaded from storage", "key", p.key, "images", len(records))
	return records
}

// Save writes the current content of g to the slot. Write failures are logged and
// otherwise ignored, the gallery itself is never modified. It reports whether the
// snapshot was stored.
func (p *Persister) Save(ctx context.Context, g *Gallery) bool {
	raw, err := EncodeRecords(g.Records())
	if err != nil {
		slog.Warn("could not encode gallery snapshot", "key", p.key, "error", err)
		return false
	}
	if err := p.database.SetValue(ctx, p.key, raw); err != nil {
		slog.Warn("could not save images to storage",
			"key", p.key, "bytes", len(raw), "quota_exceeded", errors.Is(err, database.ErrQuotaExceeded), "error", err)
		return false
	}
	return true
}

// EncodeRecords serialises records into the persisted layout. An empty gallery is "[]".
func EncodeRecords(records []ImageRecord) (string, error) {
	if records == nil {
		records = []ImageRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ExportRecords serialises records as an indented JSON document.
func ExportRecords(records []ImageRecord) ([]byte, error) {
	if records == nil {
		records = []ImageRecord{}
	}
	return json.MarshalIndent(records, "", "  ")
}

// DecodeRecords parses a persisted snapshot. Anything but a single JSON array of
// records with unique ids is rejected.
func DecodeRecords(raw string) ([]ImageRecord, error) {
	trimmed := bytes.TrimSpace([]byte(raw))
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("snapshot is not a JSON array")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	var records []ImageRecord
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after snapshot array")
	}

	seen := make(map[int64]bool, len(records))
	for i, record := range records {
		if record.ID == 0 {
			return nil, fmt.Errorf("record at index %d has no id", i)
		}
		if seen[record.ID] {
			return nil, fmt.Errorf("record at index %d: %w", i, ErrDuplicateID)
		}
		seen[record.ID] = true
	}
	return records, nil
}
