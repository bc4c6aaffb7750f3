package slot

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLite_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "slots.db")

	store, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok, err := store.Get(ctx, CurrentAccountKey); err != nil || ok {
		t.Fatalf("expected empty slot, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, CurrentAccountKey, "amy"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, CurrentAccountKey, "bob"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	v, ok, err := reopened.Get(ctx, CurrentAccountKey)
	if err != nil || !ok || v != "bob" {
		t.Fatalf("expected bob after reopen, got %q ok=%v err=%v", v, ok, err)
	}
	if err := reopened.Remove(ctx, CurrentAccountKey); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := reopened.Get(ctx, CurrentAccountKey); ok {
		t.Fatalf("expected slot cleared")
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open("etcd", Options{}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
	if _, err := Open(DriverPostgres, Options{}); err == nil {
		t.Fatalf("expected error for postgres without pool")
	}
	if _, err := Open(DriverRedis, Options{}); err == nil {
		t.Fatalf("expected error for redis without client")
	}
}
