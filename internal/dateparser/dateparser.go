// Package dateparser handles ISO date parsing and day-offset math for tripsort.
package dateparser

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateParseErrorType represents the type of date parsing error.
type DateParseErrorType string

const (
	InvalidFormat DateParseErrorType = "INVALID_FORMAT"
	InvalidDate   DateParseErrorType = "INVALID_DATE"
)

// DateParseError represents an error that occurred during date parsing.
type DateParseError struct {
	Type   DateParseErrorType
	Reason string
}

func (e *DateParseError) Error() string {
	switch e.Type {
	case InvalidFormat:
		return "invalid date format: expected YYYY-MM-DD"
	case InvalidDate:
		return fmt.Sprintf("invalid date: %s", e.Reason)
	default:
		return fmt.Sprintf("date parse error: %s", e.Reason)
	}
}

// IsoDate represents a parsed ISO date with year, month, and day components.
type IsoDate struct {
	Year  int
	Month int
	Day   int
}

// isoDatePattern matches the YYYY-MM-DD format strictly.
var isoDatePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// embeddedHyphenPattern finds a YYYY-MM-DD sequence anywhere in a string.
var embeddedHyphenPattern = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)

// embeddedUnderscorePattern finds a YYYY_MM_DD sequence anywhere in a string.
var embeddedUnderscorePattern = regexp.MustCompile(`(\d{4})_(\d{2})_(\d{2})`)

// ParseIsoDate parses a string in YYYY-MM-DD format and returns an IsoDate.
// It validates the format strictly and checks that the date is valid
// (correct month range, day range for the month, and leap year handling).
func ParseIsoDate(segment string) (*IsoDate, error) {
	matches := isoDatePattern.FindStringSubmatch(segment)
	if matches == nil {
		return nil, &DateParseError{Type: InvalidFormat}
	}
	return buildDate(matches[1], matches[2], matches[3])
}

// FindDate locates an ISO date embedded anywhere in name, using sep as the
// component separator ('-' for YYYY-MM-DD, '_' for YYYY_MM_DD).
// It returns false when no date-shaped sequence is present or when the
// sequence is not a real calendar date.
func FindDate(name string, sep byte) (*IsoDate, bool) {
	var pattern *regexp.Regexp
	switch sep {
	case '-':
		pattern = embeddedHyphenPattern
	case '_':
		pattern = embeddedUnderscorePattern
	default:
		return nil, false
	}

	matches := pattern.FindStringSubmatch(name)
	if matches == nil {
		return nil, false
	}

	date, err := buildDate(matches[1], matches[2], matches[3])
	if err != nil {
		return nil, false
	}
	return date, true
}

// buildDate validates the numeric components and assembles an IsoDate.
func buildDate(yearStr, monthStr, dayStr string) (*IsoDate, error) {
	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)

	// Validate month range (01-12)
	if month < 1 || month > 12 {
		return nil, &DateParseError{
			Type:   InvalidDate,
			Reason: fmt.Sprintf("month %02d is out of range (01-12)", month),
		}
	}

	// Validate day range for the given month
	maxDay := daysInMonth(year, month)
	if day < 1 || day > maxDay {
		return nil, &DateParseError{
			Type:   InvalidDate,
			Reason: fmt.Sprintf("day %02d is out of range for month %02d (01-%02d)", day, month, maxDay),
		}
	}

	return &IsoDate{
		Year:  year,
		Month: month,
		Day:   day,
	}, nil
}

// Time returns the date as a UTC midnight time.Time.
func (d *IsoDate) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// String returns the date in YYYY-MM-DD form.
func (d *IsoDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// DayOffset returns the 1-indexed day number of date relative to start:
// the start date itself is day 1, the next calendar day is day 2, and so on.
// Dates before start produce zero or negative offsets; callers that need a
// bound must apply their own.
func DayOffset(date, start *IsoDate) int {
	diff := date.Time().Sub(start.Time())
	return int(diff.Hours()/24) + 1
}

// daysInMonth returns the number of days in the given month for the given year.
func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// isLeapYear returns true if the given year is a leap year.
func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || (year%400 == 0)
}
