package txlog

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"tripsort/internal/mapping"
)

// keyPrefix scopes stored records to a project.
func keyPrefix(projectName string) string {
	return "txn:" + projectName + ":"
}

// recordKey is the storage key for one transaction.
func recordKey(projectName, id string) string {
	return keyPrefix(projectName) + id
}

// Log manages transaction records in a keyed store. Persistence is
// best-effort: write failures are logged and swallowed, so a caller always
// gets its in-memory transaction back even when the store is broken. The
// user-visible consequence is that a silently failed save surfaces later as
// "transaction not found" on undo.
type Log struct {
	store  Store
	logger Logger
	clock  Clock
	ids    IDGenerator
}

// NewLog creates a Log over the given store. A nil logger defaults to
// NopLogger; nil clock and ids default to the real implementations.
func NewLog(store Store, logger Logger, clock Clock, ids IDGenerator) *Log {
	if logger == nil {
		logger = NewNopLogger()
	}
	if clock == nil {
		clock = RealClock{}
	}
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Log{
		store:  store,
		logger: logger,
		clock:  clock,
		ids:    ids,
	}
}

// NewTransaction assembles a fresh transaction record for one apply
// operation: a unique id embedding the creation time, the exact mapping list,
// and the changeset derived from it. It does not persist anything.
func (l *Log) NewTransaction(projectName, rootPath string, mappings []mapping.FolderMapping, snapshot *Snapshot) *Transaction {
	now := l.clock.Now().UTC()
	return &Transaction{
		ID:          fmt.Sprintf("txn_%d_%s", now.UnixMilli(), l.ids.New()),
		Timestamp:   now.Format(time.RFC3339),
		ProjectName: projectName,
		RootPath:    rootPath,
		Mappings:    mappings,
		Changes:     mapping.GenerateChanges(mappings),
		Snapshot:    snapshot,
	}
}

// Save persists a transaction. Storage failures are logged as warnings and
// otherwise ignored.
func (l *Log) Save(txn *Transaction) {
	data, err := json.Marshal(txn)
	if err != nil {
		l.logger.Warn("failed to serialize transaction", "id", txn.ID, "error", err)
		return
	}
	if err := l.store.Set(recordKey(txn.ProjectName, txn.ID), data); err != nil {
		l.logger.Warn("failed to persist transaction", "id", txn.ID, "error", err)
	}
}

// Get returns the stored transaction, or nil when the record is absent or
// unreadable. Malformed stored data is treated as absence.
func (l *Log) Get(projectName, id string) *Transaction {
	data, found, err := l.store.Get(recordKey(projectName, id))
	if err != nil {
		l.logger.Warn("failed to read transaction", "id", id, "error", err)
		return nil
	}
	if !found {
		return nil
	}

	var txn Transaction
	if err := json.Unmarshal(data, &txn); err != nil {
		l.logger.Warn("skipping malformed transaction record", "id", id, "error", err)
		return nil
	}
	return &txn
}

// List returns every transaction stored for the project, most recent first.
// A malformed record is skipped with a warning rather than aborting the
// whole listing.
func (l *Log) List(projectName string) []*Transaction {
	keys, err := l.store.Keys(keyPrefix(projectName))
	if err != nil {
		l.logger.Warn("failed to list transactions", "project", projectName, "error", err)
		return nil
	}

	txns := make([]*Transaction, 0, len(keys))
	for _, key := range keys {
		data, found, err := l.store.Get(key)
		if err != nil || !found {
			continue
		}
		var txn Transaction
		if err := json.Unmarshal(data, &txn); err != nil {
			l.logger.Warn("skipping malformed transaction record", "key", key, "error", err)
			continue
		}
		txns = append(txns, &txn)
	}

	// RFC3339 timestamps order lexicographically; descending puts the most
	// recent apply first.
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Timestamp > txns[j].Timestamp
	})
	return txns
}

// Delete removes a transaction record. Deleting an absent id is a no-op;
// storage failures are logged and swallowed.
func (l *Log) Delete(projectName, id string) {
	if err := l.store.Remove(recordKey(projectName, id)); err != nil {
		l.logger.Warn("failed to delete transaction", "id", id, "error", err)
	}
}
