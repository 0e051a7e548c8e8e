package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedis(t *testing.T) (DatabaseService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	ds, err := NewDatabase(TypeRedis, "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("NewDatabase(redis) error: %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })
	return ds, mr
}

func TestRedis_SetAndGetValue(t *testing.T) {
	ds, mr := newTestRedis(t)
	ctx := context.Background()

	if _, found, err := ds.GetValue(ctx, "publicImages"); err != nil || found {
		t.Fatalf("expected missing key, got found=%v err=%v", found, err)
	}

	if err := ds.SetValue(ctx, "publicImages", `[]`); err != nil {
		t.Fatalf("SetValue error: %v", err)
	}

	value, found, err := ds.GetValue(ctx, "publicImages")
	if err != nil {
		t.Fatalf("GetValue error: %v", err)
	}
	if !found || value != `[]` {
		t.Fatalf("expected %q, got found=%v value=%q", `[]`, found, value)
	}

	// The slot is a plain string key in redis
	raw, err := mr.Get("publicImages")
	if err != nil {
		t.Fatalf("miniredis Get error: %v", err)
	}
	if raw != `[]` {
		t.Errorf("expected raw redis value %q, got %q", `[]`, raw)
	}
}

func TestRedis_InvalidConnectionString(t *testing.T) {
	_, err := NewDatabase(TypeRedis, "not a redis url")
	if err == nil {
		t.Fatal("expected error for invalid redis url, got nil")
	}
}

func TestRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewDatabase(TypeRedis, "redis://"+addr+"/0")
	if err == nil {
		t.Fatal("expected error for unreachable redis, got nil")
	}
}
