// Package scanner lists the candidate day folders of a trip root and counts
// the photo files under each, feeding the detector.
package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ScanErrorType represents the type of scanning error.
type ScanErrorType string

const (
	// DirectoryNotFound indicates the root does not exist or is not a directory.
	DirectoryNotFound ScanErrorType = "DIRECTORY_NOT_FOUND"
	// PermissionDenied indicates insufficient permissions to read the root.
	PermissionDenied ScanErrorType = "PERMISSION_DENIED"
)

// ScanError represents an error that occurred during scanning.
type ScanError struct {
	Type ScanErrorType
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return string(e.Type) + ": " + e.Path
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// photoExtensions are the file types counted as photos (or trip video
// footage, which travels with them).
var photoExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".heic": {}, ".heif": {},
	".webp": {}, ".raw": {}, ".cr2": {}, ".cr3": {}, ".nef": {}, ".arw": {},
	".dng": {}, ".tif": {}, ".tiff": {}, ".bmp": {},
	".mov": {}, ".mp4": {}, ".avi": {},
}

// RootListing is the folder-name and photo-count source handed to the
// detector: the immediate subfolders of a trip root plus how many photo
// files each contains (recursively).
type RootListing struct {
	Root        string
	Folders     []string
	PhotoCounts map[string]int
	// LoosePhotos counts photo files sitting directly in the root, outside
	// any subfolder.
	LoosePhotos int
}

// Progress reports photo-count progress: one call per subfolder counted,
// with current running 1..total.
type Progress func(current, total int)

// ScanRoot lists the immediate subdirectories of root and counts photo files
// under each one. Symlinked entries are skipped. Subfolder order follows the
// directory listing.
func ScanRoot(root string) (*RootListing, error) {
	return ScanRootProgress(root, nil)
}

// ScanRootProgress is ScanRoot with a progress callback for the recursive
// photo count, the slow part of a scan on large trips. A nil progress is
// allowed.
func ScanRootProgress(root string, progress Progress) (*RootListing, error) {
	info, err := os.Lstat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ScanError{Type: DirectoryNotFound, Path: root, Err: err}
		}
		if os.IsPermission(err) {
			return nil, &ScanError{Type: PermissionDenied, Path: root, Err: err}
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, &ScanError{Type: DirectoryNotFound, Path: root, Err: errors.New("path is not a directory")}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsPermission(err) {
			return nil, &ScanError{Type: PermissionDenied, Path: root, Err: err}
		}
		return nil, err
	}

	listing := &RootListing{
		Root:        root,
		Folders:     []string{},
		PhotoCounts: make(map[string]int),
	}

	for _, entry := range entries {
		name := entry.Name()
		fullPath := filepath.Join(root, name)

		info, err := os.Lstat(fullPath)
		if err != nil || info.Mode()&os.ModeSymlink != 0 {
			continue
		}

		if !info.IsDir() {
			if IsPhotoFile(name) {
				listing.LoosePhotos++
			}
			continue
		}

		listing.Folders = append(listing.Folders, name)
	}

	for i, name := range listing.Folders {
		if progress != nil {
			progress(i+1, len(listing.Folders))
		}
		listing.PhotoCounts[name] = countPhotos(filepath.Join(root, name))
	}

	return listing, nil
}

// IsPhotoFile reports whether a filename has a recognized photo or video
// extension.
func IsPhotoFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := photoExtensions[ext]
	return ok
}

// countPhotos walks a folder recursively and counts photo files.
// Unreadable entries are skipped rather than failing the whole scan.
func countPhotos(dir string) int {
	count := 0
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() && IsPhotoFile(info.Name()) {
			count++
		}
		return nil
	})
	return count
}
