// Package classifier infers trip day numbers from folder names for tripsort.
package classifier

import (
	"fmt"
	"regexp"
	"strconv"

	"tripsort/internal/dateparser"
)

// Confidence represents the trust level of an inferred day number.
type Confidence string

const (
	ConfidenceHigh       Confidence = "high"
	ConfidenceMedium     Confidence = "medium"
	ConfidenceLow        Confidence = "low"
	ConfidenceUndetected Confidence = "undetected"
)

// PatternID identifies the heuristic that produced a classification.
type PatternID string

const (
	PatternDayPrefix     PatternID = "day_prefix"
	PatternIsoDate       PatternID = "iso_date"
	PatternNumericPrefix PatternID = "numeric_prefix"
	PatternNone          PatternID = "none"
)

// Day numbers extracted from digit prefixes must fall in this range.
// Day offsets computed from ISO dates are deliberately not bounded.
const (
	minDay = 1
	maxDay = 31
)

// Match is the result of classifying a folder name.
type Match struct {
	Day        int
	Pattern    PatternID
	Confidence Confidence
}

// dayPrefixPattern matches names like "Day 1", "day_02", "D-3", "D1 Iceland".
// The digits must be followed by a non-digit or end of string, so "Day 123"
// does not match.
var dayPrefixPattern = regexp.MustCompile(`(?i)^(?:day|d)[ _-]?(\d{1,2})(?:\D|$)`)

// numericPrefixPattern matches names like "1 Iceland", "02_Reykjavik", "3-Hiking".
var numericPrefixPattern = regexp.MustCompile(`^(\d{1,2})[ _-]`)

// rule is one entry in the ordered heuristic table. Rules are evaluated
// top-to-bottom and the first one to report ok wins; later rules are never
// consulted. This ordering is the core contract of the classifier.
type rule struct {
	id      PatternID
	extract func(name string, tripStart *dateparser.IsoDate) (day int, confidence Confidence, ok bool)
}

var rules = []rule{
	{PatternDayPrefix, extractDayPrefix},
	{PatternIsoDate, extractIsoDate('-')},
	{PatternIsoDate, extractIsoDate('_')},
	{PatternNumericPrefix, extractNumericPrefix},
}

// Classify applies the heuristic rules to a folder name in strict priority
// order and returns the first match, or nil when no rule applies.
// tripStart is an optional YYYY-MM-DD string anchoring ISO-date folder names
// to trip days; an empty or unparseable tripStart is treated as absent.
func Classify(folderName string, tripStart string) *Match {
	var start *dateparser.IsoDate
	if tripStart != "" {
		if parsed, err := dateparser.ParseIsoDate(tripStart); err == nil {
			start = parsed
		}
	}

	for _, r := range rules {
		if day, confidence, ok := r.extract(folderName, start); ok {
			return &Match{
				Day:        day,
				Pattern:    r.id,
				Confidence: confidence,
			}
		}
	}
	return nil
}

// SuggestedName returns the normalized folder name for a day number:
// "Unsorted" for an unassigned day, "Day NN" (zero-padded) otherwise.
func SuggestedName(day *int) string {
	if day == nil {
		return "Unsorted"
	}
	return fmt.Sprintf("Day %02d", *day)
}

// extractDayPrefix handles explicit day markers ("Day 3", "D01").
// Out-of-range digits fall through to the next rule.
func extractDayPrefix(name string, _ *dateparser.IsoDate) (int, Confidence, bool) {
	matches := dayPrefixPattern.FindStringSubmatch(name)
	if matches == nil {
		return 0, "", false
	}
	day, err := strconv.Atoi(matches[1])
	if err != nil || day < minDay || day > maxDay {
		return 0, "", false
	}
	return day, ConfidenceHigh, true
}

// extractIsoDate builds an extractor for an embedded ISO date with the given
// separator. With a trip start the day number is the calendar offset from it;
// without one the date is compared to itself, which always yields day 1.
// That degenerate day-1 behavior is preserved intentionally.
func extractIsoDate(sep byte) func(string, *dateparser.IsoDate) (int, Confidence, bool) {
	return func(name string, tripStart *dateparser.IsoDate) (int, Confidence, bool) {
		date, found := dateparser.FindDate(name, sep)
		if !found {
			return 0, "", false
		}
		if tripStart == nil {
			return dateparser.DayOffset(date, date), ConfidenceMedium, true
		}
		return dateparser.DayOffset(date, tripStart), ConfidenceHigh, true
	}
}

// extractNumericPrefix handles bare numeric prefixes ("1 Iceland").
func extractNumericPrefix(name string, _ *dateparser.IsoDate) (int, Confidence, bool) {
	matches := numericPrefixPattern.FindStringSubmatch(name)
	if matches == nil {
		return 0, "", false
	}
	day, err := strconv.Atoi(matches[1])
	if err != nil || day < minDay || day > maxDay {
		return 0, "", false
	}
	return day, ConfidenceMedium, true
}
