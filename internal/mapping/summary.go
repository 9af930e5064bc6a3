package mapping

import (
	"fmt"
	"strings"
)

// Summarize renders a deterministic dry-run preview of a mapping list.
// The reported counts are sums over the list (folders to create, photos to
// move, photos left behind in undetected folders) and bullet order follows
// mapping order exactly.
func Summarize(mappings []FolderMapping) string {
	createCount := 0
	movedPhotos := 0
	skippedPhotos := 0
	for _, m := range mappings {
		if m.Detected() {
			createCount++
			movedPhotos += m.PhotoCount
		} else {
			skippedPhotos += m.PhotoCount
		}
	}

	var lines []string

	lines = append(lines, fmt.Sprintf("Create %d folders:", createCount))
	for _, m := range mappings {
		if m.Detected() {
			lines = append(lines, fmt.Sprintf("  - %s", m.SuggestedName))
		}
	}

	lines = append(lines, fmt.Sprintf("Move %d photos:", movedPhotos))
	for _, m := range mappings {
		if m.Detected() {
			lines = append(lines, fmt.Sprintf("  - %d from %q → %q", m.PhotoCount, m.Folder, m.SuggestedName+"/"))
		}
	}

	if skippedPhotos > 0 {
		lines = append(lines, fmt.Sprintf("Skip %d photos in undetected folders", skippedPhotos))
	}

	return strings.Join(lines, "\n")
}
