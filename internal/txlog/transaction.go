// Package txlog persists folder-mapping transactions: immutable records of
// one apply operation, kept so the operation can be undone even after the
// process restarts. Records live in a pluggable keyed store and are
// append-only; undo deletes a record rather than mutating it.
package txlog

import (
	"tripsort/internal/mapping"
)

// Snapshot is the optional pre-apply filesystem state captured for a real
// (non-simulated) undo: the folder list and the file names under each folder.
type Snapshot struct {
	Folders        []string            `json:"folders"`
	FolderContents map[string][]string `json:"folderContents"`
}

// Transaction is an immutable record of one apply operation. Field names
// match the persisted JSON shape and must stay stable for interoperability
// with existing records.
type Transaction struct {
	ID          string                  `json:"id"`
	Timestamp   string                  `json:"timestamp"`
	ProjectName string                  `json:"projectName"`
	RootPath    string                  `json:"rootPath"`
	Mappings    []mapping.FolderMapping `json:"mappings"`
	Changes     mapping.Changeset       `json:"changes"`
	Snapshot    *Snapshot               `json:"snapshot,omitempty"`
}
