// Package review provides interactive confirmation of detected folder
// mappings before they are applied.
package review

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"tripsort/internal/mapping"
)

// IsInteractive returns true if the terminal supports interactive input.
// Returns false if stdin is not a terminal (e.g., piped input, redirected
// from file).
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ErrReviewAborted is returned when the user quits the review session.
var ErrReviewAborted = errors.New("review aborted")

// PromptResult represents the user's choice when prompted for a mapping.
type PromptResult int

const (
	// PromptAccept indicates the user accepted this mapping as detected.
	PromptAccept PromptResult = iota
	// PromptSkip indicates the user wants this folder left untouched.
	PromptSkip
	// PromptSetDay indicates the user assigned a day number manually.
	PromptSetDay
	// PromptAcceptAll indicates the user wants to accept all remaining mappings.
	PromptAcceptAll
	// PromptQuit indicates the user wants to quit without applying anything.
	PromptQuit
)

// Prompter handles user prompts for mapping review.
type Prompter struct {
	reader io.Reader
	writer io.Writer
}

// NewPrompter creates a new Prompter with the given reader and writer.
// Use os.Stdin and os.Stdout for normal operation, or buffers for testing.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	return &Prompter{
		reader: reader,
		writer: writer,
	}
}

// PromptForMapping asks the user what to do with one detected mapping.
// When the result is PromptSetDay, the returned int is the day the user
// entered. For every other result the int is zero.
func (p *Prompter) PromptForMapping(m mapping.FolderMapping) (PromptResult, int, error) {
	fmt.Fprintf(p.writer, "\nFolder: %s\n", m.Folder)
	if m.DetectedDay != nil {
		fmt.Fprintf(p.writer, "  Detected: %s (%s, %s confidence)\n",
			m.SuggestedName, m.PatternMatched, m.Confidence)
	} else {
		fmt.Fprintf(p.writer, "  Detected: no day pattern\n")
	}
	fmt.Fprintf(p.writer, "  Photos: %d\n", m.PhotoCount)

	fmt.Fprintf(p.writer, "\nAccept? (y)es, (s)kip, day number, (a)ccept all, (q)uit: ")

	scanner := bufio.NewScanner(p.reader)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return PromptQuit, 0, fmt.Errorf("error reading input: %w", err)
		}
		// EOF reached, treat as quit
		return PromptQuit, 0, nil
	}

	input := strings.TrimSpace(strings.ToLower(scanner.Text()))

	switch input {
	case "y", "yes", "":
		return PromptAccept, 0, nil
	case "s", "skip", "n", "no":
		return PromptSkip, 0, nil
	case "a", "accept all":
		return PromptAcceptAll, 0, nil
	case "q", "quit":
		return PromptQuit, 0, nil
	}

	if day, err := strconv.Atoi(input); err == nil {
		if day < 1 || day > 31 {
			fmt.Fprintf(p.writer, "Day %d out of range, treating as skip.\n", day)
			return PromptSkip, 0, nil
		}
		return PromptSetDay, day, nil
	}

	// Invalid input, default to skip for safety
	fmt.Fprintf(p.writer, "Invalid input '%s', treating as skip.\n", input)
	return PromptSkip, 0, nil
}

// ReviewMappings walks the mapping list, prompting for each one, and
// returns the edited list. "Accept all" stops prompting and keeps the
// remaining mappings as detected. "Quit" returns ErrReviewAborted and
// nothing should be applied.
func ReviewMappings(p *Prompter, mappings []mapping.FolderMapping) ([]mapping.FolderMapping, error) {
	result := make([]mapping.FolderMapping, 0, len(mappings))

	acceptAll := false
	for _, m := range mappings {
		if acceptAll {
			result = append(result, m)
			continue
		}

		choice, day, err := p.PromptForMapping(m)
		if err != nil {
			return nil, err
		}

		switch choice {
		case PromptAccept:
			result = append(result, m)
		case PromptSkip:
			result = append(result, m.WithSkip(true))
		case PromptSetDay:
			// A manual day assignment also un-skips the folder.
			result = append(result, m.WithDay(&day).WithSkip(false))
		case PromptAcceptAll:
			acceptAll = true
			result = append(result, m)
		case PromptQuit:
			return nil, ErrReviewAborted
		}
	}

	return result, nil
}
