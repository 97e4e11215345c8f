package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/spa/backend/internal/domain/spa"
)

func TestResolveDiscount(t *testing.T) {
	gross := decimal.NewFromInt(100)

	assertDec(t, "10", ResolveDiscount(gross, &spa.Discount{Type: spa.DiscountTypePercent, Value: dec("10")}))
	assertDec(t, "10", ResolveDiscount(gross, &spa.Discount{Type: spa.DiscountTypeCurrency, Value: dec("10")}))
	assertDec(t, "0", ResolveDiscount(gross, nil))
	assertDec(t, "0", ResolveDiscount(gross, &spa.Discount{Type: "BOGO", Value: dec("10")}))
	assertDec(t, "12.5", ResolveDiscount(dec("250"), &spa.Discount{Type: spa.DiscountTypePercent, Value: dec("5")}))
}

func TestBookingDiscount_EmptyReservations(t *testing.T) {
	b := spa.Booking{
		Status:   spa.BookingStatusPayed,
		Discount: &spa.Discount{Type: spa.DiscountTypeCurrency, Value: dec("50")},
	}
	assertDec(t, "0", BookingDiscount(b))
}

func TestTotalDiscountForRange(t *testing.T) {
	bookings := []spa.Booking{
		booking("2024-06-01", []spa.ServiceLine{svc("s1", "Massage", 300, "")}, withDiscount(spa.DiscountTypePercent, 10)),
		booking("2024-06-01", []spa.ServiceLine{svc("s1", "Massage", 200, "")}, withDiscount(spa.DiscountTypeCurrency, 15)),
		booking("2024-06-01", []spa.ServiceLine{svc("s1", "Massage", 500, "")},
			withDiscount(spa.DiscountTypeCurrency, 99), withStatus(spa.BookingStatusConfirmed)),
		booking("2024-06-01", []spa.ServiceLine{svc("s1", "Massage", 500, "")},
			withDiscount(spa.DiscountTypeCurrency, 99), deleted()),
		booking("2024-06-02", []spa.ServiceLine{svc("s1", "Massage", 500, "")}, withDiscount(spa.DiscountTypeCurrency, 7)),
	}

	assertDec(t, "45", TotalDiscountForRange(rng("2024-06-01", "2024-06-01"), bookings))
	assertDec(t, "52", TotalDiscountForRange(rng("2024-06-01", "2024-06-02"), bookings))
	assertDec(t, "0", TotalDiscountForRange(rng("2024-06-03", "2024-06-04"), bookings))
}

func TestCheckDiscount(t *testing.T) {
	start := day("2024-06-01")
	end := day("2024-06-30")
	active := &spa.Discount{Code: "SUMMER", Status: spa.DiscountStatusActive, StartDate: &start, EndDate: &end}

	assert.Equal(t, DiscountNotFound, CheckDiscount(nil, start))
	assert.Equal(t, DiscountValid, CheckDiscount(active, start))
	assert.Equal(t, DiscountValid, CheckDiscount(active, time.Date(2024, 6, 30, 22, 0, 0, 0, time.UTC)))
	assert.Equal(t, DiscountInvalid, CheckDiscount(active, day("2024-07-01")))
	assert.Equal(t, DiscountInvalid, CheckDiscount(active, day("2024-05-31")))

	inactive := *active
	inactive.Status = spa.DiscountStatusInactive
	assert.Equal(t, DiscountInvalid, CheckDiscount(&inactive, start))

	openEnded := &spa.Discount{Code: "FOREVER", Status: spa.DiscountStatusActive}
	assert.Equal(t, DiscountValid, CheckDiscount(openEnded, day("2030-01-01")))
}
