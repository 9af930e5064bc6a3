package txlog

import (
	"path/filepath"
	"testing"
)

// runStoreContract exercises the Store behaviors every backend must share.
func runStoreContract(t *testing.T, store Store) {
	t.Helper()

	// Absent key: found=false, no error.
	if _, found, err := store.Get("txn:trip:missing"); err != nil || found {
		t.Fatalf("Get(missing) = found=%v err=%v, want absent without error", found, err)
	}

	// Set then Get round-trips.
	if err := store.Set("txn:trip:a", []byte(`{"id":"a"}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value, found, err := store.Get("txn:trip:a")
	if err != nil || !found {
		t.Fatalf("Get after Set = found=%v err=%v", found, err)
	}
	if string(value) != `{"id":"a"}` {
		t.Errorf("Get value = %q, want original payload", value)
	}

	// Set replaces.
	if err := store.Set("txn:trip:a", []byte(`{"id":"a2"}`)); err != nil {
		t.Fatalf("Set replace: %v", err)
	}
	value, _, _ = store.Get("txn:trip:a")
	if string(value) != `{"id":"a2"}` {
		t.Errorf("Get after replace = %q, want replaced payload", value)
	}

	// Keys honors the prefix.
	if err := store.Set("txn:trip:b", []byte("{}")); err != nil {
		t.Fatal(err)
	}
	if err := store.Set("txn:other:c", []byte("{}")); err != nil {
		t.Fatal(err)
	}
	keys, err := store.Keys("txn:trip:")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("Keys(txn:trip:) = %v, want 2 entries", keys)
	}
	for _, key := range keys {
		if key != "txn:trip:a" && key != "txn:trip:b" {
			t.Errorf("unexpected key %q", key)
		}
	}

	// Keys must match multi-byte prefixes too; project names are not
	// restricted to ASCII.
	if err := store.Set("txn:日本旅行:d", []byte("{}")); err != nil {
		t.Fatal(err)
	}
	keys, err = store.Keys("txn:日本旅行:")
	if err != nil {
		t.Fatalf("Keys(multi-byte): %v", err)
	}
	if len(keys) != 1 || keys[0] != "txn:日本旅行:d" {
		t.Errorf("Keys(txn:日本旅行:) = %v, want [txn:日本旅行:d]", keys)
	}

	// Remove is idempotent.
	if err := store.Remove("txn:trip:a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove("txn:trip:a"); err != nil {
		t.Errorf("second Remove returned error: %v", err)
	}
	if _, found, _ := store.Get("txn:trip:a"); found {
		t.Error("key still present after Remove")
	}
}

func TestMemoryStoreContract(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestMemoryStoreLen(t *testing.T) {
	store := NewMemoryStore()
	if store.Len() != 0 {
		t.Fatalf("Len = %d, want 0 for a fresh store", store.Len())
	}

	store.Set("txn:trip:a", []byte("{}"))
	store.Set("txn:trip:b", []byte("{}"))
	if store.Len() != 2 {
		t.Errorf("Len = %d after two Sets, want 2", store.Len())
	}

	// Replacing does not grow the store.
	store.Set("txn:trip:a", []byte(`{"v":2}`))
	if store.Len() != 2 {
		t.Errorf("Len = %d after replace, want 2", store.Len())
	}

	store.Remove("txn:trip:a")
	if store.Len() != 1 {
		t.Errorf("Len = %d after Remove, want 1", store.Len())
	}
	store.Remove("txn:trip:a")
	if store.Len() != 1 {
		t.Errorf("Len = %d after idempotent Remove, want 1", store.Len())
	}
}

func TestFileStoreContract(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "txns"))
	if err != nil {
		t.Fatal(err)
	}
	runStoreContract(t, store)
}

func TestSQLiteStoreContract(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "txns.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	runStoreContract(t, store)
}

func TestFileStoreKeyEscaping(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	// Project names can contain path separators and spaces; the key encoding
	// must keep them on disk and reversible for prefix listing.
	key := "txn:my trip/2024:txn_1_abc"
	if err := store.Set(key, []byte("{}")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	keys, err := store.Keys("txn:my trip/2024:")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != key {
		t.Errorf("Keys = %v, want [%s]", keys, key)
	}
}

func TestNewStoreFromType(t *testing.T) {
	if _, err := NewStoreFromType("memory", ""); err != nil {
		t.Errorf("memory store: %v", err)
	}
	if _, err := NewStoreFromType("", ""); err != nil {
		t.Errorf("default store: %v", err)
	}
	if _, err := NewStoreFromType("filesystem", t.TempDir()); err != nil {
		t.Errorf("filesystem store: %v", err)
	}
	if _, err := NewStoreFromType("filesystem", ""); err == nil {
		t.Error("filesystem store without path should fail")
	}
	if _, err := NewStoreFromType("sqlite", ""); err == nil {
		t.Error("sqlite store without path should fail")
	}
	if _, err := NewStoreFromType("redis", "x"); err == nil {
		t.Error("unknown store type should fail")
	}
}
