package report

import (
	"fmt"
	"time"

	"github.com/spa/backend/internal/domain/shared"
	"github.com/spa/backend/internal/domain/shared/valueobject"
	"github.com/spa/backend/internal/domain/spa"
)

// DateRange is an inclusive span of UTC civil days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange truncates both bounds to UTC midnight. A zero bound fails with
// shared.ErrMissingDateRange. Start after End is allowed and yields no days.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, shared.ErrMissingDateRange
	}
	return DateRange{
		Start: valueobject.StartOfDay(start),
		End:   valueobject.StartOfDay(end),
	}, nil
}

// ParseDateRange builds a range from two DD-MM-YYYY strings.
func ParseDateRange(start, end string) (DateRange, error) {
	if start == "" || end == "" {
		return DateRange{}, shared.ErrMissingDateRange
	}
	s, err := valueobject.ParseDate(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := valueobject.ParseDate(end)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(s, e)
}

// SingleDay returns the range covering only day.
func SingleDay(day time.Time) DateRange {
	d := valueobject.StartOfDay(day)
	return DateRange{Start: d, End: d}
}

// IsEmpty reports whether the range contains no day at all.
func (r DateRange) IsEmpty() bool {
	return r.Start.After(r.End)
}

// Days lists every day from Start to End, both included.
func (r DateRange) Days() []time.Time {
	if r.IsEmpty() {
		return nil
	}
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether t falls on one of the range's days.
func (r DateRange) Contains(t time.Time) bool {
	d := valueobject.StartOfDay(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// PreviousMonth shifts both bounds back one calendar month, keeping the day
// of month and clamping it to the last day of the target month.
func (r DateRange) PreviousMonth() DateRange {
	return DateRange{Start: shiftMonthClamped(r.Start, -1), End: shiftMonthClamped(r.End, -1)}
}

// Filter converts the range to a ledger read filter.
func (r DateRange) Filter() spa.DateFilter {
	return spa.DateFilter{StartDate: r.Start, EndDate: r.End}
}

// String renders the range with the wire date format.
func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", valueobject.FormatDate(r.Start), valueobject.FormatDate(r.End))
}

func shiftMonthClamped(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	day := min(t.Day(), daysIn(firstOfTarget.Year(), firstOfTarget.Month()))
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SelectorKind names a way of picking a reporting window.
type SelectorKind string

const (
	SelectorExplicit SelectorKind = "explicit"
	SelectorWeek     SelectorKind = "week"
	SelectorMonth    SelectorKind = "month"
	SelectorYear     SelectorKind = "year"
	SelectorToday    SelectorKind = "today"
)

// RangeSelector describes a reporting window before it is pinned to a
// calendar. Only the fields relevant to Kind are read. A zero Year or Month
// defaults to the reference instant passed to Resolve.
type RangeSelector struct {
	Kind  SelectorKind
	Start time.Time
	End   time.Time
	Year  int
	Month int
	Week  int
}

// Explicit selects [start, end].
func Explicit(start, end time.Time) RangeSelector {
	return RangeSelector{Kind: SelectorExplicit, Start: start, End: end}
}

// Week selects salary week n of year. Week 1 starts on the first Monday on or
// after 1 January and every week spans seven days.
func Week(year, n int) RangeSelector {
	return RangeSelector{Kind: SelectorWeek, Year: year, Week: n}
}

// Month selects the whole calendar month.
func Month(year, month int) RangeSelector {
	return RangeSelector{Kind: SelectorMonth, Year: year, Month: month}
}

// Year selects 1 January to 31 December.
func Year(year int) RangeSelector {
	return RangeSelector{Kind: SelectorYear, Year: year}
}

// Today selects the day of the reference instant.
func Today() RangeSelector {
	return RangeSelector{Kind: SelectorToday}
}

// Resolve pins the selector to a concrete range using now as the reference
// instant for defaults and for Today.
func (s RangeSelector) Resolve(now time.Time) (DateRange, error) {
	now = now.UTC()
	year := s.Year
	if year == 0 {
		year = now.Year()
	}
	if year < 1 || year > 9999 {
		return DateRange{}, invalidSelector("year %d out of range", s.Year)
	}

	switch s.Kind {
	case SelectorExplicit:
		return NewDateRange(s.Start, s.End)

	case SelectorWeek:
		if s.Week < 1 || s.Week > 53 {
			return DateRange{}, invalidSelector("week %d out of range", s.Week)
		}
		jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		toFirstMonday := (8 - int(jan1.Weekday())) % 7
		start := jan1.AddDate(0, 0, toFirstMonday+(s.Week-1)*7)
		return DateRange{Start: start, End: start.AddDate(0, 0, 6)}, nil

	case SelectorMonth:
		month := s.Month
		if month == 0 {
			month = int(now.Month())
		}
		if month < 1 || month > 12 {
			return DateRange{}, invalidSelector("month %d out of range", s.Month)
		}
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return DateRange{Start: start, End: start.AddDate(0, 1, -1)}, nil

	case SelectorYear:
		return DateRange{
			Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		}, nil

	case SelectorToday:
		return SingleDay(now), nil

	default:
		return DateRange{}, invalidSelector("unknown range selector %q", s.Kind)
	}
}

func invalidSelector(format string, args ...any) error {
	return shared.NewDomainError(shared.ErrInvalidInput.Code, fmt.Sprintf(format, args...))
}
