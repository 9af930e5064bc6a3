// Package organizer performs the real filesystem work for a changeset:
// creating day folders, renaming detected folders, and restoring prior state
// on undo. The planning core never touches the disk; everything physical
// happens here.
package organizer

import (
	"fmt"
	"os"
	"path/filepath"

	"tripsort/internal/mapping"
	"tripsort/internal/txlog"
)

// OpErrorType represents the type of filesystem operation error.
type OpErrorType string

const (
	// SourceNotFound indicates the folder to rename does not exist.
	SourceNotFound OpErrorType = "SOURCE_NOT_FOUND"
	// DestinationExists indicates the rename target is already occupied.
	DestinationExists OpErrorType = "DESTINATION_EXISTS"
	// PermissionDenied indicates insufficient permissions for the operation.
	PermissionDenied OpErrorType = "PERMISSION_DENIED"
)

// OpError represents a failed filesystem operation.
type OpError struct {
	Type OpErrorType
	Path string
	Err  error
}

func (e *OpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Path)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// FailedOp records one operation that could not be performed. Execution is
// best-effort per entry; one failure does not abort the rest.
type FailedOp struct {
	From string
	To   string
	Err  error
}

// ExecResult summarizes one changeset execution.
type ExecResult struct {
	CreatedDirs []string
	Renamed     []mapping.RenamedFolder
	Failed      []FailedOp
}

// Execute applies a changeset under root: renames come first so that a
// folder being normalized never collides with a freshly created empty copy
// of its target name, then any remaining day folders are created.
func Execute(root string, changes mapping.Changeset) (*ExecResult, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("root path: %w", err)
	}

	result := &ExecResult{
		CreatedDirs: []string{},
		Renamed:     []mapping.RenamedFolder{},
		Failed:      []FailedOp{},
	}

	for _, rename := range changes.Renamed {
		from := filepath.Join(root, rename.From)
		to := filepath.Join(root, rename.To)

		if _, err := os.Stat(from); os.IsNotExist(err) {
			result.Failed = append(result.Failed, FailedOp{
				From: rename.From,
				To:   rename.To,
				Err:  &OpError{Type: SourceNotFound, Path: from, Err: err},
			})
			continue
		}
		if _, err := os.Stat(to); err == nil {
			result.Failed = append(result.Failed, FailedOp{
				From: rename.From,
				To:   rename.To,
				Err:  &OpError{Type: DestinationExists, Path: to},
			})
			continue
		}

		if err := os.Rename(from, to); err != nil {
			opErr := &OpError{Path: from, Err: err}
			if os.IsPermission(err) {
				opErr.Type = PermissionDenied
			}
			result.Failed = append(result.Failed, FailedOp{From: rename.From, To: rename.To, Err: opErr})
			continue
		}
		result.Renamed = append(result.Renamed, rename)
	}

	for _, created := range changes.Created {
		dir := filepath.Join(root, created.Folder)
		if _, err := os.Stat(dir); err == nil {
			continue // already present, usually via the rename above
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			result.Failed = append(result.Failed, FailedOp{To: created.Folder, Err: err})
			continue
		}
		result.CreatedDirs = append(result.CreatedDirs, created.Folder)
	}

	return result, nil
}

// CaptureSnapshot records the pre-apply state of root: its immediate
// subfolders and the file names directly under each. The transaction log
// stores it so an undo can verify and restore prior state.
func CaptureSnapshot(root string) (*txlog.Snapshot, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	snapshot := &txlog.Snapshot{
		Folders:        []string{},
		FolderContents: make(map[string][]string),
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		snapshot.Folders = append(snapshot.Folders, name)

		contents := []string{}
		children, err := os.ReadDir(filepath.Join(root, name))
		if err == nil {
			for _, child := range children {
				contents = append(contents, child.Name())
			}
		}
		snapshot.FolderContents[name] = contents
	}

	return snapshot, nil
}

// RestoreResult summarizes one undo execution.
type RestoreResult struct {
	Reversed []mapping.RenamedFolder
	Removed  []string
	Failed   []FailedOp
}

// Restore reverses the filesystem effects of a recorded transaction: renames
// are undone in reverse order, and with a snapshot present, empty day
// folders created by the apply are removed. Like Execute it is best-effort
// per entry.
func Restore(root string, txn *txlog.Transaction) (*RestoreResult, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("root path: %w", err)
	}

	result := &RestoreResult{
		Reversed: []mapping.RenamedFolder{},
		Removed:  []string{},
		Failed:   []FailedOp{},
	}

	renames := txn.Changes.Renamed
	for i := len(renames) - 1; i >= 0; i-- {
		rename := renames[i]
		from := filepath.Join(root, rename.To) // current name
		to := filepath.Join(root, rename.From) // original name

		if _, err := os.Stat(from); os.IsNotExist(err) {
			// Already back under its original name: a retried undo after a
			// partial failure. Not an error, just nothing left to do.
			if _, origErr := os.Stat(to); origErr == nil {
				continue
			}
			result.Failed = append(result.Failed, FailedOp{
				From: rename.To,
				To:   rename.From,
				Err:  &OpError{Type: SourceNotFound, Path: from, Err: err},
			})
			continue
		}
		if _, err := os.Stat(to); err == nil {
			result.Failed = append(result.Failed, FailedOp{
				From: rename.To,
				To:   rename.From,
				Err:  &OpError{Type: DestinationExists, Path: to},
			})
			continue
		}

		if err := os.Rename(from, to); err != nil {
			result.Failed = append(result.Failed, FailedOp{From: rename.To, To: rename.From, Err: err})
			continue
		}
		result.Reversed = append(result.Reversed, rename)
	}

	if txn.Snapshot != nil {
		known := make(map[string]struct{}, len(txn.Snapshot.Folders))
		for _, folder := range txn.Snapshot.Folders {
			known[folder] = struct{}{}
		}

		for _, created := range txn.Changes.Created {
			if _, existed := known[created.Folder]; existed {
				continue
			}
			dir := filepath.Join(root, created.Folder)
			// Remove only folders the apply introduced and that are still
			// empty; os.Remove refuses non-empty directories.
			if err := os.Remove(dir); err == nil {
				result.Removed = append(result.Removed, created.Folder)
			}
		}
	}

	return result, nil
}
