package txlog

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"tripsort/internal/classifier"
	"tripsort/internal/mapping"
)

// tickingClock advances one second per Now call, giving distinct timestamps.
type tickingClock struct {
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

// sequenceIDs returns "s1", "s2", ... for deterministic transaction ids.
type sequenceIDs struct {
	n int
}

func (g *sequenceIDs) New() string {
	g.n++
	return fmt.Sprintf("s%d", g.n)
}

// failingStore rejects every write, simulating quota exhaustion.
type failingStore struct {
	MemoryStore
}

func (s *failingStore) Set(string, []byte) error {
	return errors.New("quota exceeded")
}

func newTestLog(store Store) *Log {
	return NewLog(store, NewNopLogger(), &tickingClock{now: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}, &sequenceIDs{})
}

func testMappings() []mapping.FolderMapping {
	day1, day2 := 1, 2
	return []mapping.FolderMapping{
		{
			Folder:         "Day 1",
			FolderPath:     "Day 1",
			DetectedDay:    &day1,
			Confidence:     classifier.ConfidenceHigh,
			PatternMatched: classifier.PatternDayPrefix,
			SuggestedName:  "Day 01",
			PhotoCount:     42,
		},
		{
			Folder:         "Day 02",
			FolderPath:     "Day 02",
			DetectedDay:    &day2,
			Confidence:     classifier.ConfidenceHigh,
			PatternMatched: classifier.PatternDayPrefix,
			SuggestedName:  "Day 02",
			PhotoCount:     56,
		},
	}
}

func TestNewTransaction(t *testing.T) {
	log := newTestLog(NewMemoryStore())

	txn := log.NewTransaction("iceland", "/photos/iceland", testMappings(), nil)

	wantID := fmt.Sprintf("txn_%d_s1", time.Date(2024, 3, 15, 12, 0, 1, 0, time.UTC).UnixMilli())
	if txn.ID != wantID {
		t.Errorf("ID = %q, want %q", txn.ID, wantID)
	}
	if txn.Timestamp != "2024-03-15T12:00:01Z" {
		t.Errorf("Timestamp = %q, want 2024-03-15T12:00:01Z", txn.Timestamp)
	}
	if txn.ProjectName != "iceland" || txn.RootPath != "/photos/iceland" {
		t.Errorf("scope = %s/%s", txn.ProjectName, txn.RootPath)
	}
	if len(txn.Changes.Created) != 2 {
		t.Errorf("len(Changes.Created) = %d, want 2", len(txn.Changes.Created))
	}
	if len(txn.Changes.Renamed) != 1 {
		t.Errorf("len(Changes.Renamed) = %d, want 1 (only \"Day 1\" needs renaming)", len(txn.Changes.Renamed))
	}
	if txn.Snapshot != nil {
		t.Error("Snapshot should be nil when not supplied")
	}
}

func TestNewTransactionIDsUnique(t *testing.T) {
	log := newTestLog(NewMemoryStore())

	a := log.NewTransaction("p", "/r", nil, nil)
	b := log.NewTransaction("p", "/r", nil, nil)
	if a.ID == b.ID {
		t.Errorf("consecutive transactions share id %q", a.ID)
	}
}

func TestSaveGetRoundTrip(t *testing.T) {
	log := newTestLog(NewMemoryStore())

	snapshot := &Snapshot{
		Folders: []string{"Day 1", "misc"},
		FolderContents: map[string][]string{
			"Day 1": {"a.jpg", "b.jpg"},
			"misc":  {"c.jpg"},
		},
	}
	txn := log.NewTransaction("iceland", "/photos/iceland", testMappings(), snapshot)

	log.Save(txn)

	got := log.Get("iceland", txn.ID)
	if got == nil {
		t.Fatal("Get returned nil after Save")
	}
	if !reflect.DeepEqual(got, txn) {
		t.Errorf("round-trip mismatch:\ngot  %+v\nwant %+v", got, txn)
	}
}

func TestGetMissing(t *testing.T) {
	log := newTestLog(NewMemoryStore())

	if got := log.Get("iceland", "txn_0_nope"); got != nil {
		t.Errorf("Get(missing) = %+v, want nil", got)
	}
}

func TestGetMalformed(t *testing.T) {
	store := NewMemoryStore()
	log := newTestLog(store)

	if err := store.Set(recordKey("iceland", "txn_1_bad"), []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	if got := log.Get("iceland", "txn_1_bad"); got != nil {
		t.Errorf("Get(malformed) = %+v, want nil", got)
	}
}

func TestListOrderAndScoping(t *testing.T) {
	store := NewMemoryStore()
	log := newTestLog(store)

	first := log.NewTransaction("iceland", "/r", nil, nil)
	second := log.NewTransaction("iceland", "/r", nil, nil)
	other := log.NewTransaction("norway", "/r", nil, nil)
	log.Save(first)
	log.Save(second)
	log.Save(other)

	txns := log.List("iceland")
	if len(txns) != 2 {
		t.Fatalf("len(List) = %d, want 2", len(txns))
	}
	// Most recent first.
	if txns[0].ID != second.ID || txns[1].ID != first.ID {
		t.Errorf("List order = [%s, %s], want [%s, %s]", txns[0].ID, txns[1].ID, second.ID, first.ID)
	}
}

func TestListSkipsMalformedRecords(t *testing.T) {
	store := NewMemoryStore()
	log := newTestLog(store)

	good := log.NewTransaction("iceland", "/r", nil, nil)
	log.Save(good)
	if err := store.Set(recordKey("iceland", "txn_9_corrupt"), []byte("garbage")); err != nil {
		t.Fatal(err)
	}

	txns := log.List("iceland")
	if len(txns) != 1 {
		t.Fatalf("len(List) = %d, want 1 (corrupt record skipped)", len(txns))
	}
	if txns[0].ID != good.ID {
		t.Errorf("List[0].ID = %s, want %s", txns[0].ID, good.ID)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	log := newTestLog(NewMemoryStore())

	txn := log.NewTransaction("iceland", "/r", nil, nil)
	log.Save(txn)

	log.Delete("iceland", txn.ID)
	if got := log.Get("iceland", txn.ID); got != nil {
		t.Error("transaction still visible after Delete")
	}

	// Second delete of the same id must not panic or error.
	log.Delete("iceland", txn.ID)
	log.Delete("iceland", "txn_never_existed")
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	store := &failingStore{}
	store.data = make(map[string][]byte)
	log := newTestLog(store)

	txn := log.NewTransaction("iceland", "/r", nil, nil)
	log.Save(txn) // must not panic

	// The failed save is user-visible only as a later lookup miss.
	if got := log.Get("iceland", txn.ID); got != nil {
		t.Errorf("Get after failed save = %+v, want nil", got)
	}
}

func TestVisibilityInvariantNonASCIIProjectOnSQLite(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "txns.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	log := newTestLog(store)

	txn := log.NewTransaction("日本旅行", "/r", testMappings(), nil)
	log.Save(txn)

	if log.Get("日本旅行", txn.ID) == nil {
		t.Fatal("transaction not visible via Get after Save")
	}
	listed := log.List("日本旅行")
	if len(listed) != 1 {
		t.Fatalf("List = %d records, want 1", len(listed))
	}
	if listed[0].ID != txn.ID {
		t.Errorf("List returned id %s, want %s", listed[0].ID, txn.ID)
	}
}

func TestVisibilityInvariant(t *testing.T) {
	log := newTestLog(NewMemoryStore())

	txn := log.NewTransaction("iceland", "/r", testMappings(), nil)

	// Not visible before Save.
	if log.Get("iceland", txn.ID) != nil {
		t.Error("transaction visible before Save")
	}
	if len(log.List("iceland")) != 0 {
		t.Error("transaction listed before Save")
	}

	log.Save(txn)
	if log.Get("iceland", txn.ID) == nil {
		t.Error("transaction not visible after Save")
	}

	log.Delete("iceland", txn.ID)
	if log.Get("iceland", txn.ID) != nil {
		t.Error("transaction visible after Delete")
	}
	if len(log.List("iceland")) != 0 {
		t.Error("transaction listed after Delete")
	}
}
