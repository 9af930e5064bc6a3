package mapping

// CreatedFolder is a day folder that must exist after apply.
type CreatedFolder struct {
	Folder string `json:"folder"`
	Day    int    `json:"day"`
}

// RenamedFolder is a folder rename from the raw name to the suggested name.
type RenamedFolder struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MovedFile is a file-level move. Reserved for the filesystem collaborator;
// the plan generator never populates it but the field is part of the
// persisted contract.
type MovedFile struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Changeset is the structured plan derived from approved mappings, prior to
// any real I/O.
type Changeset struct {
	Created []CreatedFolder `json:"created"`
	Renamed []RenamedFolder `json:"renamed"`
	Moved   []MovedFile     `json:"moved"`
	Skipped []string        `json:"skipped"`
}

// GenerateChanges turns a mapping list into a changeset. It is a total
// function over the list: it does not consult Skip, callers pre-filter with
// Active. Iteration order is preserved with no deduplication.
func GenerateChanges(mappings []FolderMapping) Changeset {
	changes := Changeset{
		Created: []CreatedFolder{},
		Renamed: []RenamedFolder{},
		Moved:   []MovedFile{},
		Skipped: []string{},
	}

	for _, m := range mappings {
		if m.DetectedDay == nil {
			changes.Skipped = append(changes.Skipped, m.Folder)
			continue
		}

		changes.Created = append(changes.Created, CreatedFolder{
			Folder: m.SuggestedName,
			Day:    *m.DetectedDay,
		})

		if m.Folder != m.SuggestedName {
			changes.Renamed = append(changes.Renamed, RenamedFolder{
				From: m.Folder,
				To:   m.SuggestedName,
			})
		}
	}

	return changes
}
