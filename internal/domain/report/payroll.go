package report

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spa/backend/internal/domain/spa"
)

// EmployeePayroll is the salary position of one employee over a window.
type EmployeePayroll struct {
	EmployeeID uuid.UUID
	Paid       decimal.Decimal
	Unpaid     decimal.Decimal
	Entries    int
}

// PayrollSummary totals salaries over a window.
type PayrollSummary struct {
	TotalPaid   decimal.Decimal
	TotalUnpaid decimal.Decimal
	Total       decimal.Decimal
	Employees   []EmployeePayroll
}

// ComputePayroll sums the non-deleted salary entries of r by status and
// employee. Employees are ordered by total amount, highest first.
func ComputePayroll(r DateRange, salaries []spa.Salary) PayrollSummary {
	var sum PayrollSummary
	index := make(map[uuid.UUID]int)
	sum.Employees = []EmployeePayroll{}

	for _, s := range salaries {
		if s.Deleted || !r.Contains(s.Date) {
			continue
		}
		i, ok := index[s.EmployeeID]
		if !ok {
			i = len(sum.Employees)
			index[s.EmployeeID] = i
			sum.Employees = append(sum.Employees, EmployeePayroll{EmployeeID: s.EmployeeID})
		}
		e := &sum.Employees[i]
		e.Entries++
		if s.Status == spa.SalaryStatusPaid {
			e.Paid = e.Paid.Add(s.Amount)
			sum.TotalPaid = sum.TotalPaid.Add(s.Amount)
		} else {
			e.Unpaid = e.Unpaid.Add(s.Amount)
			sum.TotalUnpaid = sum.TotalUnpaid.Add(s.Amount)
		}
	}
	sum.Total = sum.TotalPaid.Add(sum.TotalUnpaid)

	sort.SliceStable(sum.Employees, func(i, j int) bool {
		a := sum.Employees[i].Paid.Add(sum.Employees[i].Unpaid)
		b := sum.Employees[j].Paid.Add(sum.Employees[j].Unpaid)
		return a.GreaterThan(b)
	})
	return sum
}
