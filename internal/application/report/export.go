package report

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spa/backend/internal/domain/report"
)

// XLSXContentType is the media type of exported workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var sheetTitle = cases.Title(language.English)

// sheet is one tab of an exported workbook.
type sheet struct {
	name    string
	headers []string
	rows    [][]any
}

// ExportWorkbook renders the reports of r as an XLSX workbook with one sheet
// per report.
func (s *ReportService) ExportWorkbook(ctx context.Context, r report.DateRange) ([]byte, error) {
	var (
		daily       DailyStatsResponse
		services    []TopServiceResponse
		days        []RevenueDayResponse
		commissions CommissionReportResponse
		expenses    []ExpenseGroupResponse
		payroll     PayrollResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { daily, err = s.DailyStats(gctx, r); return err })
	g.Go(func() (err error) { services, err = s.TopServices(gctx, r, 0); return err })
	g.Go(func() (err error) { days, err = s.TopRevenueDays(gctx, r, 0); return err })
	g.Go(func() (err error) { commissions, err = s.Commissions(gctx, r); return err })
	g.Go(func() (err error) { expenses, err = s.GroupedExpenses(gctx, r); return err })
	g.Go(func() (err error) { payroll, err = s.Payroll(gctx, r); return err })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sheets := []sheet{
		dailySheet(daily),
		servicesSheet(services),
		revenueDaysSheet(days),
		commissionsSheet(commissions),
		expensesSheet(expenses),
		payrollSheet(payroll),
	}
	return writeWorkbook(sheets)
}

func dailySheet(d DailyStatsResponse) sheet {
	sh := sheet{name: "daily stats", headers: []string{"Date", "Revenue", "Expenses", "Profit"}}
	for _, day := range d.Days {
		sh.rows = append(sh.rows, []any{day.Date, day.Revenue, day.Expenses, day.Profit})
	}
	sh.rows = append(sh.rows, []any{"Total", d.TotalRevenue, d.TotalExpenses, d.TotalProfit})
	sh.rows = append(sh.rows, []any{"Discounts", d.TotalDiscount})
	return sh
}

func servicesSheet(services []TopServiceResponse) sheet {
	sh := sheet{name: "top services", headers: []string{"Rank", "Service", "Price", "Count"}}
	for _, svc := range services {
		sh.rows = append(sh.rows, []any{svc.Rank, svc.Name, svc.Price, svc.Count})
	}
	return sh
}

func revenueDaysSheet(days []RevenueDayResponse) sheet {
	sh := sheet{name: "revenue days", headers: []string{"Rank", "Date", "Revenue", "Bookings"}}
	for _, d := range days {
		sh.rows = append(sh.rows, []any{d.Rank, d.Date, d.Revenue, len(d.Bookings)})
	}
	return sh
}

// noSourceLabel names the commission row of bookings without a source tag.
const noSourceLabel = "(no source)"

func commissionsSheet(c CommissionReportResponse) sheet {
	sh := sheet{name: "commissions", headers: []string{"Source", "Bookings", "Total", "Paid", "Unpaid"}}
	for _, src := range c.Sources {
		label := src.Source
		if src.Unknown {
			label = noSourceLabel
		}
		sh.rows = append(sh.rows, []any{label, src.Bookings, src.Total, src.Paid, src.Unpaid})
	}
	sh.rows = append(sh.rows, []any{"Total", "", c.Total, c.TotalPaid, c.TotalUnpaid})
	return sh
}

func expensesSheet(groups []ExpenseGroupResponse) sheet {
	sh := sheet{name: "expenses", headers: []string{"Expense", "Count", "Total"}}
	for _, g := range groups {
		sh.rows = append(sh.rows, []any{g.Label, g.Count, g.Total})
	}
	return sh
}

func payrollSheet(p PayrollResponse) sheet {
	sh := sheet{name: "payroll", headers: []string{"Employee", "Entries", "Paid", "Unpaid"}}
	for _, e := range p.Employees {
		sh.rows = append(sh.rows, []any{e.EmployeeID, e.Entries, e.Paid, e.Unpaid})
	}
	sh.rows = append(sh.rows, []any{"Total", "", p.TotalPaid, p.TotalUnpaid})
	return sh
}

func writeWorkbook(sheets []sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, sh := range sheets {
		name := sheetTitle.String(sh.name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}

		if err := f.SetSheetRow(name, "A1", &sh.headers); err != nil {
			return nil, err
		}
		last, err := excelize.CoordinatesToCellName(len(sh.headers), 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(name, "A1", last, header); err != nil {
			return nil, err
		}

		for j, row := range sh.rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return nil, fmt.Errorf("write %s row %d: %w", name, j+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
