package report

import (
	"strings"

	"github.com/spa/backend/internal/domain/report"
	"github.com/spa/backend/internal/domain/shared/valueobject"
)

// RangeFilter is the transport-neutral description of a reporting window:
// either explicit DD-MM-YYYY bounds or a named selector.
type RangeFilter struct {
	StartDate string
	EndDate   string
	Selector  string
	Year      int
	Month     int
	Week      int
}

// ResolveRange pins f to a concrete range. Without a selector both dates are
// required.
func (s *ReportService) ResolveRange(f RangeFilter) (report.DateRange, error) {
	kind := report.SelectorKind(strings.ToLower(strings.TrimSpace(f.Selector)))
	if kind == "" || kind == report.SelectorExplicit {
		return report.ParseDateRange(strings.TrimSpace(f.StartDate), strings.TrimSpace(f.EndDate))
	}
	sel := report.RangeSelector{Kind: kind, Year: f.Year, Month: f.Month, Week: f.Week}
	return sel.Resolve(s.now())
}

func rangeResponse(r report.DateRange) RangeResponse {
	return RangeResponse{
		StartDate: valueobject.FormatDate(r.Start),
		EndDate:   valueobject.FormatDate(r.End),
	}
}
