package spa

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType selects how a discount value is applied.
type DiscountType string

const (
	// DiscountTypePercent applies value as percentage points of the gross total.
	DiscountTypePercent DiscountType = "PERCENT"
	// DiscountTypeCurrency deducts value as a flat amount.
	DiscountTypeCurrency DiscountType = "CURRENCY"
)

// DiscountStatus toggles whether a discount code can be redeemed.
type DiscountStatus string

const (
	DiscountStatusActive   DiscountStatus = "ACTIVE"
	DiscountStatusInactive DiscountStatus = "INACTIVE"
)

// Discount is a promotional code attached to bookings.
type Discount struct {
	ID          uuid.UUID
	Code        string
	Description string
	Type        DiscountType
	Value       decimal.Decimal
	Status      DiscountStatus
	StartDate   *time.Time
	EndDate     *time.Time
}

// IsPercent reports whether the discount uses the percentage policy.
func (d *Discount) IsPercent() bool {
	return strings.EqualFold(string(d.Type), string(DiscountTypePercent))
}

// IsCurrency reports whether the discount is a flat amount.
func (d *Discount) IsCurrency() bool {
	return strings.EqualFold(string(d.Type), string(DiscountTypeCurrency))
}

// CommissionType tags a commission as percentage or flat. Records written by
// the booking desk use "%" for percentages and any other tag for flat amounts.
type CommissionType string

const (
	CommissionTypePercent       CommissionType = "PERCENT"
	CommissionTypePercentSymbol CommissionType = "%"
	CommissionTypeFlat          CommissionType = "FLAT"
)

// Commission is the referral fee owed on a booking.
type Commission struct {
	Type  CommissionType
	Value decimal.Decimal
	Paid  bool
}

// IsPercent reports whether the commission uses the percentage policy.
func (c *Commission) IsPercent() bool {
	return c.Type == CommissionTypePercentSymbol ||
		strings.EqualFold(string(c.Type), string(CommissionTypePercent))
}
