package spa

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a charge paid out by the spa.
type Expense struct {
	ID            uuid.UUID
	Date          time.Time
	Name          string
	Type          string
	Price         decimal.Decimal
	Reason        string
	ResponsibleID *uuid.UUID
	Payment       string
	Deleted       bool
}

// SalaryStatus tracks whether a payroll entry has been settled.
type SalaryStatus string

const (
	SalaryStatusPaid   SalaryStatus = "PAID"
	SalaryStatusUnpaid SalaryStatus = "UNPAID"
)

// Salary is one payroll entry for an employee.
type Salary struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	Date       time.Time
	Status     SalaryStatus
	Amount     decimal.Decimal
	Deleted    bool
}
