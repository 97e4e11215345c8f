package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spa/backend/internal/domain/spa"
)

func TestTopServices(t *testing.T) {
	massage := svc("s-massage", "Massage", 200, "Massage")
	hammam := svc("s-hammam", "Hammam", 150, "Beldi")
	scrub := svc("s-scrub", "Scrub", 80, "Beldi")
	mask := svc("s-mask", "Mask", 60, "Care")

	bookings := []spa.Booking{
		booking("2024-06-01", []spa.ServiceLine{hammam, massage}),
		booking("2024-06-01", []spa.ServiceLine{massage, scrub}),
		booking("2024-06-02", []spa.ServiceLine{hammam, mask}),
		booking("2024-06-02", []spa.ServiceLine{mask, mask, mask}, withStatus(spa.BookingStatusCanceled)),
		booking("2024-06-03", []spa.ServiceLine{{ServiceID: "s-massage", Name: "Massage (renamed)", Price: dec("999")}}),
	}
	r := rng("2024-06-01", "2024-06-03")

	t.Run("ranked with stable ties and first seen details", func(t *testing.T) {
		got := TopServices(r, bookings, 0)
		require.Len(t, got, 4)
		assert.Equal(t, "s-massage", got[0].ServiceID)
		assert.Equal(t, 3, got[0].Count)
		assert.Equal(t, "Massage", got[0].Name)
		assertDec(t, "200", got[0].Price)
		assert.Equal(t, "s-hammam", got[1].ServiceID)
		assert.Equal(t, 2, got[1].Count)
		// scrub was seen before mask.
		assert.Equal(t, "s-scrub", got[2].ServiceID)
		assert.Equal(t, "s-mask", got[3].ServiceID)
		assert.Equal(t, 1, got[3].Count)
	})

	t.Run("truncated to limit", func(t *testing.T) {
		got := TopServices(r, bookings, 2)
		require.Len(t, got, 2)
		all := TopServices(r, bookings, 100)
		for _, excluded := range all[2:] {
			assert.GreaterOrEqual(t, got[1].Count, excluded.Count)
		}
	})

	t.Run("default limit is four", func(t *testing.T) {
		var many []spa.ServiceLine
		for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
			many = append(many, svc(id, id, 10, ""))
		}
		got := TopServices(r, []spa.Booking{booking("2024-06-01", many)}, -1)
		assert.Len(t, got, DefaultTopServicesLimit)
	})
}

func TestTopRevenueDays(t *testing.T) {
	b1 := booking("2024-06-01", []spa.ServiceLine{svc("s1", "Massage", 100, "")})
	b2 := booking("2024-06-01", []spa.ServiceLine{svc("s1", "Massage", 250, "")})
	b3 := booking("2024-06-02", []spa.ServiceLine{svc("s1", "Massage", 500, "")})
	b4 := booking("2024-06-03", []spa.ServiceLine{svc("s1", "Massage", 350, "")})
	b5 := booking("2024-06-04", []spa.ServiceLine{svc("s1", "Massage", 900, "")}, withStatus(spa.BookingStatusConfirmed))
	bookings := []spa.Booking{b1, b2, b3, b4, b5}

	got := TopRevenueDays(rng("2024-06-01", "2024-06-30"), bookings, 0)
	require.Len(t, got, 3)

	assert.Equal(t, day("2024-06-02"), got[0].Date)
	assertDec(t, "500", got[0].Revenue)

	// 350 on the 1st and on the 3rd: chronological order.
	assert.Equal(t, day("2024-06-01"), got[1].Date)
	assertDec(t, "350", got[1].Revenue)
	require.Len(t, got[1].Bookings, 2)
	assert.Equal(t, b1.ID, got[1].Bookings[0].BookingID)
	assertDec(t, "250", got[1].Bookings[1].Revenue)

	assert.Equal(t, day("2024-06-03"), got[2].Date)

	assert.Len(t, TopRevenueDays(rng("2024-06-01", "2024-06-30"), bookings, 1), 1)
}

func TestSourceDistribution(t *testing.T) {
	lines := []spa.ServiceLine{svc("s1", "Massage", 100, "")}
	bookings := []spa.Booking{
		booking("2024-06-01", lines, withSource("WHATSAPP")),
		booking("2024-06-01", lines, withSource("whatsapp")),
		booking("2024-06-01", lines, withSource("Booking.com"), withStatus(spa.BookingStatusPending)),
		booking("2024-06-02", lines, withSource("Booking.com")),
		booking("2024-06-02", lines),
		booking("2024-06-02", lines, withSource("   ")),
		booking("2024-06-02", lines, withSource("WHATSAPP"), deleted()),
	}

	got := SourceDistribution(rng("2024-06-01", "2024-06-02"), bookings)
	require.Len(t, got, 3)
	assert.Equal(t, SourceCount{Source: "Booking.com", Count: 2}, got[0])
	assert.Equal(t, SourceCount{Source: "WHATSAPP", Count: 1}, got[1])
	assert.Equal(t, SourceCount{Source: "whatsapp", Count: 1}, got[2])
}

func TestSourceCaseHandlingDiffersBetweenReports(t *testing.T) {
	lines := []spa.ServiceLine{svc("s1", "Massage", 100, "")}
	bookings := []spa.Booking{
		booking("2024-06-01", lines, withSource("WHATSAPP"), withCommission("FLAT", 10, false)),
		booking("2024-06-01", lines, withSource("whatsapp"), withCommission("FLAT", 10, false)),
	}
	r := rng("2024-06-01", "2024-06-01")

	assert.Len(t, SourceDistribution(r, bookings), 2)

	commissions := CommissionBySource(r, bookings)
	require.Len(t, commissions, 1)
	assertDec(t, "20", commissions[0].Total)
}

func TestGroupedExpenses(t *testing.T) {
	expenses := []spa.Expense{
		expense("2024-06-01", "Oil", "Supplies", 40, "CASH"),
		expense("2024-06-02", "Oil", "Supplies", 60, "CASH"),
		expense("2024-06-02", "Oil", "Gift", 15, "CASH"),
		expense("2024-06-03", "Rent", "", 500, "TRANSFER"),
		expense("2024-07-01", "Rent", "", 500, "TRANSFER"),
	}
	gone := expense("2024-06-03", "Oil", "Supplies", 1000, "CASH")
	gone.Deleted = true
	expenses = append(expenses, gone)

	got := GroupedExpenses(rng("2024-06-01", "2024-06-30"), expenses)
	require.Len(t, got, 3)
	assert.Equal(t, "Rent", got[0].Label())
	assertDec(t, "500", got[0].Total)
	assert.Equal(t, "Oil - Supplies", got[1].Label())
	assertDec(t, "100", got[1].Total)
	assert.Equal(t, 2, got[1].Count)
	assert.Equal(t, "Gift", got[2].Type)
}

func TestComputePaymentChannels(t *testing.T) {
	bookings := []spa.Booking{
		booking("2024-06-01", []spa.ServiceLine{svc("s1", "Massage", 300, "")}, withCard(200)),
		booking("2024-06-01", []spa.ServiceLine{svc("s1", "Massage", 150, "")}),
		booking("2024-06-01", []spa.ServiceLine{svc("s1", "Massage", 700, "")}, withCard(700), withStatus(spa.BookingStatusDone)),
	}
	cashOnly := booking("2024-06-02", []spa.ServiceLine{svc("s1", "Massage", 50, "")})
	cashOnly.Payment = &spa.Payment{PaymentMethod: "CASH", DebitPaymentMethod: "CHEQUE", DebitAmount: dec("50")}
	bookings = append(bookings, cashOnly)

	expenses := []spa.Expense{
		expense("2024-06-01", "Oil", "Supplies", 40, "CASH"),
		expense("2024-06-01", "Rent", "Fixed", 500, "TRANSFER"),
		expense("2024-06-02", "Tips", "Staff", 20, ""),
		expense("2024-06-02", "Soap", "Supplies", 10, "CASH"),
	}

	rep := ComputePaymentChannels(rng("2024-06-01", "2024-06-02"), bookings, expenses)
	assertDec(t, "500", rep.TotalRevenue)
	assertDec(t, "200", rep.CardRevenue)
	assertDec(t, "300", rep.CashRevenue)
	assertDec(t, "570", rep.TotalExpenses)

	require.Len(t, rep.ExpensesByChannel, 3)
	assert.Equal(t, "TRANSFER", rep.ExpensesByChannel[0].Channel)
	assert.Equal(t, "CASH", rep.ExpensesByChannel[1].Channel)
	assertDec(t, "50", rep.ExpensesByChannel[1].Total)
	assert.True(t, rep.ExpensesByChannel[2].Untagged)
	assert.Empty(t, rep.ExpensesByChannel[2].Channel)
}

func TestComputePaymentChannels_UntaggedIsNotAChannelName(t *testing.T) {
	expenses := []spa.Expense{
		expense("2024-06-01", "Oil", "Supplies", 40, "unknown"),
		expense("2024-06-01", "Tips", "Staff", 20, ""),
		expense("2024-06-01", "Soap", "Supplies", 10, " "),
	}

	rep := ComputePaymentChannels(rng("2024-06-01", "2024-06-01"), nil, expenses)
	require.Len(t, rep.ExpensesByChannel, 2)
	assert.Equal(t, "unknown", rep.ExpensesByChannel[0].Channel)
	assert.False(t, rep.ExpensesByChannel[0].Untagged)
	assertDec(t, "40", rep.ExpensesByChannel[0].Total)
	assert.True(t, rep.ExpensesByChannel[1].Untagged)
	assertDec(t, "30", rep.ExpensesByChannel[1].Total)
}
