package dataprocessing

import (
	"fmt"
	"strings"
	"time"
)

// CanonicalDateLayout is the display form of a cleaned order date
const CanonicalDateLayout = "2006-01-02"

// orderDateLayouts are tried in order. Slash dates are read day-first; the
// month-first layout only matches when the day-first reading is impossible,
// e.g. 12/25/2024.
var orderDateLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:04:05",
	"2006-1-2T15:04:05",
	"2/1/2006",
	"1/2/2006",
	"2-Jan-2006",
	"2 Jan 2006",
}

// ParseOrderDate parses a raw order date in any of the accepted layouts and
// returns it in UTC. Values with no time of day are at midnight.
func ParseOrderDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errMissingDate
	}

	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// FormatOrderDate renders t as a canonical date string
func FormatOrderDate(t time.Time) string {
	return t.Format(CanonicalDateLayout)
}
