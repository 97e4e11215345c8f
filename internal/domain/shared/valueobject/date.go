package valueobject

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spa/backend/internal/domain/shared"
)

// Wire layouts used by the reporting API. Dates are civil dates in UTC.
const (
	DateLayout     = "DD-MM-YYYY"
	DateTimeLayout = "DD-MM-YYYY HH:MM:SS"
)

// FormatDate renders t as DD-MM-YYYY using its UTC calendar fields.
func FormatDate(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%02d-%02d-%04d", u.Day(), int(u.Month()), u.Year())
}

// ParseDate parses a D-M-YYYY string into UTC midnight of that day.
//
// Day and month take one or two digits, the year exactly four. Segments are
// range checked individually (day 1-31, month 1-12) but the combination is
// not: "31-02-2024" rolls over into March the same way time.Date normalizes it.
func ParseDate(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return time.Time{}, invalidDate(s)
	}

	day, ok := parseSegment(parts[0], 1, 2, 1, 31)
	if !ok {
		return time.Time{}, invalidDate(s)
	}
	month, ok := parseSegment(parts[1], 1, 2, 1, 12)
	if !ok {
		return time.Time{}, invalidDate(s)
	}
	year, ok := parseSegment(parts[2], 4, 4, 1, 9999)
	if !ok {
		return time.Time{}, invalidDate(s)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// FormatDateTime renders t as DD-MM-YYYY HH:MM:SS in UTC.
func FormatDateTime(t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%s %02d:%02d:%02d", FormatDate(u), u.Hour(), u.Minute(), u.Second())
}

// ParseDateTime accepts both "DD-MM-YYYY HH:MM:SS" and the compact
// "DD-MM-YYYYTHH:MM:SSZ" form. The result is always in UTC.
func ParseDateTime(s string) (time.Time, error) {
	raw := strings.TrimSpace(s)

	var datePart, timePart string
	if i := strings.IndexByte(raw, 'T'); i >= 0 {
		if !strings.HasSuffix(raw, "Z") {
			return time.Time{}, invalidDate(s)
		}
		datePart, timePart = raw[:i], strings.TrimSuffix(raw[i+1:], "Z")
	} else {
		var found bool
		datePart, timePart, found = strings.Cut(raw, " ")
		if !found {
			return time.Time{}, invalidDate(s)
		}
	}

	day, err := ParseDate(datePart)
	if err != nil {
		return time.Time{}, invalidDate(s)
	}

	clock := strings.Split(timePart, ":")
	if len(clock) != 3 {
		return time.Time{}, invalidDate(s)
	}
	hour, ok := parseSegment(clock[0], 2, 2, 0, 23)
	if !ok {
		return time.Time{}, invalidDate(s)
	}
	minute, ok := parseSegment(clock[1], 2, 2, 0, 59)
	if !ok {
		return time.Time{}, invalidDate(s)
	}
	second, ok := parseSegment(clock[2], 2, 2, 0, 59)
	if !ok {
		return time.Time{}, invalidDate(s)
	}

	return day.Add(time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second), nil
}

// StartOfDay truncates t to UTC midnight of its UTC calendar day.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

func parseSegment(s string, minWidth, maxWidth, lo, hi int) (int, bool) {
	if len(s) < minWidth || len(s) > maxWidth {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, false
	}
	return n, true
}

func invalidDate(s string) error {
	return shared.NewDomainError(shared.ErrInvalidDateFormat.Code, fmt.Sprintf("invalid date %q, expected %s", s, DateLayout))
}
