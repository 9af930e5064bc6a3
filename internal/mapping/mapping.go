// Package mapping defines the folder mapping value types and the plan
// generation logic for tripsort: turning reviewed mappings into a changeset
// and a human-readable dry-run summary.
package mapping

import (
	"tripsort/internal/classifier"
)

// DateRange is an observed timestamp span for a folder's photos. The
// detection heuristics never populate it; callers with EXIF or file-time
// data may.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// FolderMapping is one row of the detection/review table: a candidate folder
// together with the day number inferred for it and the user's review state.
//
// DetectedDay == nil and Confidence == undetected coincide at creation time.
// After a manual edit they may diverge: Confidence stays as provenance of the
// original inference while DetectedDay holds the user's choice.
type FolderMapping struct {
	Folder         string                `json:"folder"`
	FolderPath     string                `json:"folderPath"`
	DetectedDay    *int                  `json:"detectedDay"`
	Confidence     classifier.Confidence `json:"confidence"`
	PatternMatched classifier.PatternID  `json:"patternMatched"`
	SuggestedName  string                `json:"suggestedName"`
	Manual         bool                  `json:"manual"`
	PhotoCount     int                   `json:"photoCount"`
	DateRange      *DateRange            `json:"dateRange,omitempty"`
	Skip           bool                  `json:"skip"`
}

// WithDay returns a copy of the mapping with the day number overridden by a
// human. The suggested name follows the new day; confidence is left alone so
// it keeps recording what the original inference was.
func (m FolderMapping) WithDay(day *int) FolderMapping {
	updated := m
	if day != nil {
		d := *day
		updated.DetectedDay = &d
	} else {
		updated.DetectedDay = nil
	}
	updated.SuggestedName = classifier.SuggestedName(updated.DetectedDay)
	updated.Manual = true
	return updated
}

// WithSkip returns a copy of the mapping with the skip decision changed.
func (m FolderMapping) WithSkip(skip bool) FolderMapping {
	updated := m
	updated.Skip = skip
	return updated
}

// Detected reports whether the mapping carries a day number.
func (m FolderMapping) Detected() bool {
	return m.DetectedDay != nil
}

// Active returns the mappings that survived review: everything not marked
// skip, in the original order. Apply call sites filter with this before
// handing mappings to the plan generators.
func Active(mappings []FolderMapping) []FolderMapping {
	active := make([]FolderMapping, 0, len(mappings))
	for _, m := range mappings {
		if !m.Skip {
			active = append(active, m)
		}
	}
	return active
}
