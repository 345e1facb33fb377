package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"barbu/internal/ports"
)

func openTestStore(t *testing.T) (*GameStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "barbu.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestGameStoreVersions(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	if _, err := store.Load(ctx, "local", "g1"); !errors.Is(err, ports.ErrGameNotFound) {
		t.Fatalf("load missing: err = %v, want ErrGameNotFound", err)
	}

	v1, err := store.Save(ctx, "local", "g1", []byte(`{"a":1}`), "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Save(ctx, "local", "g1", []byte(`{"a":2}`), ""); !errors.Is(err, ports.ErrVersionConflict) {
		t.Fatalf("second create: err = %v, want ErrVersionConflict", err)
	}

	v2, err := store.Save(ctx, "local", "g1", []byte(`{"a":3}`), v1)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if v2 == v1 {
		t.Fatalf("version did not change: %s", v2)
	}
	if _, err := store.Save(ctx, "local", "g1", []byte(`{"a":4}`), v1); !errors.Is(err, ports.ErrVersionConflict) {
		t.Fatalf("stale update: err = %v, want ErrVersionConflict", err)
	}
	if _, err := store.Save(ctx, "local", "missing", []byte(`{}`), v1); !errors.Is(err, ports.ErrGameNotFound) {
		t.Fatalf("update missing: err = %v, want ErrGameNotFound", err)
	}

	got, err := store.Load(ctx, "local", "g1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got.Data) != `{"a":3}` || got.Version != v2 {
		t.Fatalf("load = %+v", got)
	}

	if err := store.Delete(ctx, "local", "g1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, "local", "g1"); !errors.Is(err, ports.ErrGameNotFound) {
		t.Fatalf("after delete: err = %v, want ErrGameNotFound", err)
	}
}

func TestGameStoreListAndReopen(t *testing.T) {
	ctx := context.Background()
	store, path := openTestStore(t)

	for _, id := range []string{"g1", "g2"} {
		if _, err := store.Save(ctx, "local", id, []byte(`{}`), ""); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	if _, err := store.Save(ctx, "other", "g3", []byte(`{}`), ""); err != nil {
		t.Fatalf("save g3: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	ids, err := reopened.List(ctx, "local")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ids = %v, want two games", ids)
	}
}
