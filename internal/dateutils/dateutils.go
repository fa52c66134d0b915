// Package dateutils provides the date canonicalization used throughout the
// application. All dates entering the ledger are normalized to YYYY-MM-DD
// so that period filtering and ordering reduce to string comparison.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// LayoutISO is the canonical date layout used everywhere in the ledger.
const LayoutISO = "2006-01-02"

// commonFormats lists the formats commonly found in bank exports and
// receipt extractions, tried in order. Day-first variants come before
// month-first since UK statements are day-first.
var commonFormats = []string{
	LayoutISO,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2.1.2006",
	"01/02/2006",
	"2 January 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

var whitespace = regexp.MustCompile(`\s+`)

// Parse attempts to parse a date string using the common financial formats.
func Parse(dateStr string) (time.Time, error) {
	cleaned := whitespace.ReplaceAllString(strings.TrimSpace(dateStr), " ")
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}
	for _, format := range commonFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// Normalize converts a date string in any supported format to the
// canonical YYYY-MM-DD form.
func Normalize(dateStr string) (string, error) {
	t, err := Parse(dateStr)
	if err != nil {
		return "", err
	}
	return t.Format(LayoutISO), nil
}

// IsCanonical reports whether dateStr is already a valid canonical date.
func IsCanonical(dateStr string) bool {
	_, err := time.Parse(LayoutISO, dateStr)
	return err == nil
}

// ToISO formats a time.Time as a canonical date string.
func ToISO(t time.Time) string {
	return t.Format(LayoutISO)
}

// DaysBetween returns the absolute whole-day distance between two canonical
// date strings. Both arguments must be canonical; malformed input returns
// an error rather than a silent zero.
func DaysBetween(a, b string) (int, error) {
	ta, err := time.Parse(LayoutISO, a)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", a, err)
	}
	tb, err := time.Parse(LayoutISO, b)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", b, err)
	}
	days := int(tb.Sub(ta).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days, nil
}
