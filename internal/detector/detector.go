// Package detector turns a list of candidate folder names into day-number
// mappings by running each name through the pattern classifier, filtering
// out system folders, and sorting the result into the review order.
package detector

import (
	"sort"
	"strings"

	"tripsort/internal/classifier"
	"tripsort/internal/mapping"
)

// blockedNames are system/meta folders excluded from detection entirely,
// matched case-insensitively.
var blockedNames = map[string]struct{}{
	"unsorted":      {},
	"inbox":         {},
	"miscellaneous": {},
	"metadata":      {},
	"_meta":         {},
}

// Options configures a detection pass.
type Options struct {
	// PhotoCounts maps folder name to the number of photo files observed
	// under it. Folders absent from the map count as 0.
	PhotoCounts map[string]int

	// ProjectName excludes the project's own folder from detection
	// (case-insensitive comparison).
	ProjectName string

	// TripStart is an optional YYYY-MM-DD date anchoring ISO-date folder
	// names to trip days.
	TripStart string
}

// Detect classifies every candidate folder name and returns the mapping rows
// for review. System folders and the project folder are excluded from the
// output entirely, not marked as skipped.
//
// Ordering is a stable contract: detected mappings first, ascending by day
// (input order preserved for equal days), then undetected mappings sorted
// lexicographically by folder name.
func Detect(folders []string, opts Options) []mapping.FolderMapping {
	mappings := make([]mapping.FolderMapping, 0, len(folders))

	for _, folder := range folders {
		if isBlocked(folder) {
			continue
		}
		if opts.ProjectName != "" && strings.EqualFold(folder, opts.ProjectName) {
			continue
		}

		m := mapping.FolderMapping{
			Folder:         folder,
			FolderPath:     folder,
			Confidence:     classifier.ConfidenceUndetected,
			PatternMatched: classifier.PatternNone,
			PhotoCount:     opts.PhotoCounts[folder],
			Skip:           true,
		}

		if match := classifier.Classify(folder, opts.TripStart); match != nil {
			day := match.Day
			m.DetectedDay = &day
			m.Confidence = match.Confidence
			m.PatternMatched = match.Pattern
			m.Skip = false
		}
		m.SuggestedName = classifier.SuggestedName(m.DetectedDay)

		mappings = append(mappings, m)
	}

	sortMappings(mappings)
	return mappings
}

// isBlocked reports whether a folder name is a hidden or system/meta folder.
func isBlocked(folder string) bool {
	if strings.HasPrefix(folder, ".") {
		return true
	}
	_, blocked := blockedNames[strings.ToLower(folder)]
	return blocked
}

// sortMappings orders detected mappings by ascending day ahead of all
// undetected ones, which sort lexicographically among themselves.
func sortMappings(mappings []mapping.FolderMapping) {
	sort.SliceStable(mappings, func(i, j int) bool {
		a, b := mappings[i], mappings[j]
		switch {
		case a.Detected() && b.Detected():
			return *a.DetectedDay < *b.DetectedDay
		case a.Detected():
			return true
		case b.Detected():
			return false
		default:
			return a.Folder < b.Folder
		}
	})
}
