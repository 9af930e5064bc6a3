package txlog

import "fmt"

// Store backend types accepted by NewStoreFromType.
const (
	StoreTypeMemory     = "memory"
	StoreTypeFilesystem = "filesystem"
	StoreTypeSQLite     = "sqlite"
)

// NewStoreFromType creates a Store implementation for the given backend
// type. path is the store directory for filesystem stores and the database
// file for sqlite stores; memory stores ignore it.
func NewStoreFromType(storeType, path string) (Store, error) {
	switch storeType {
	case StoreTypeMemory, "":
		return NewMemoryStore(), nil
	case StoreTypeFilesystem:
		if path == "" {
			return nil, fmt.Errorf("filesystem store requires a path")
		}
		return NewFileStore(path)
	case StoreTypeSQLite:
		if path == "" {
			return nil, fmt.Errorf("sqlite store requires a path")
		}
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown store type: %s", storeType)
	}
}
