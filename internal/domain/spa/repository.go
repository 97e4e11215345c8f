package spa

import (
	"context"
	"time"

	"github.com/spa/backend/internal/domain/shared"
)

// DateFilter bounds a ledger read to whole civil days. Both ends are
// inclusive; the time-of-day component is ignored.
type DateFilter struct {
	StartDate time.Time
	EndDate   time.Time
}

// Validate fails with shared.ErrMissingDateRange when either bound is unset.
func (f DateFilter) Validate() error {
	if f.StartDate.IsZero() || f.EndDate.IsZero() {
		return shared.ErrMissingDateRange
	}
	return nil
}

// BookingFilter narrows a booking read. A nil Status returns every status.
type BookingFilter struct {
	DateFilter
	Status *BookingStatus
}

// PayedOnly returns a filter restricted to PAYED bookings in the same range.
func (f BookingFilter) PayedOnly() BookingFilter {
	status := BookingStatusPayed
	f.Status = &status
	return f
}

// BookingReader reads non-deleted bookings with their discount snapshot resolved.
type BookingReader interface {
	FindBookings(ctx context.Context, filter BookingFilter) ([]Booking, error)
}

// ExpenseReader reads non-deleted expenses.
type ExpenseReader interface {
	FindExpenses(ctx context.Context, filter DateFilter) ([]Expense, error)
}

// SalaryReader reads non-deleted payroll entries.
type SalaryReader interface {
	FindSalaries(ctx context.Context, filter DateFilter) ([]Salary, error)
}

// DiscountReader looks discounts up by their redeemable code.
type DiscountReader interface {
	// FindByCode returns shared.ErrNotFound when no discount carries code.
	FindByCode(ctx context.Context, code string) (*Discount, error)
}
