package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spa/backend/internal/domain/spa"
)

// BookingModel is the persistence model for appointments. Commission and
// payment are embedded as nullable column groups.
type BookingModel struct {
	BaseModel
	Date       time.Time         `gorm:"not null;index:idx_bookings_date_status,priority:1"`
	Time       string            `gorm:"column:time_slot;type:varchar(10)"`
	Status     spa.BookingStatus `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_bookings_date_status,priority:2"`
	DiscountID *uuid.UUID        `gorm:"type:uuid;index"`
	Discount   *DiscountModel    `gorm:"foreignKey:DiscountID"`
	Source     *string           `gorm:"type:varchar(100)"`
	Deposit    *decimal.Decimal  `gorm:"type:decimal(18,4)"`
	Deleted    bool              `gorm:"not null;default:false;index"`

	CommissionType  *string          `gorm:"type:varchar(20)"`
	CommissionValue *decimal.Decimal `gorm:"type:decimal(18,4)"`
	CommissionPaid  bool             `gorm:"not null;default:false"`

	PaymentMethod      string           `gorm:"type:varchar(30)"`
	PaymentCurrency    string           `gorm:"type:varchar(10)"`
	PaymentAmount      *decimal.Decimal `gorm:"type:decimal(18,4)"`
	DebitPaymentMethod string           `gorm:"type:varchar(30)"`
	DebitCurrency      string           `gorm:"type:varchar(10)"`
	DebitAmount        *decimal.Decimal `gorm:"type:decimal(18,4)"`

	Reservations []ReservationModel `gorm:"foreignKey:BookingID"`
}

// TableName returns the table name for GORM
func (BookingModel) TableName() string {
	return "bookings"
}

// ReservationModel is one guest entry of a booking.
type ReservationModel struct {
	BaseModel
	BookingID uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Position  int                       `gorm:"not null;default:0"`
	Guest     string                    `gorm:"type:varchar(200)"`
	Services  []ReservationServiceModel `gorm:"foreignKey:ReservationID"`
}

// TableName returns the table name for GORM
func (ReservationModel) TableName() string {
	return "reservations"
}

// ReservationServiceModel is a service line copied onto a reservation.
type ReservationServiceModel struct {
	BaseModel
	ReservationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position      int             `gorm:"not null;default:0"`
	ServiceID     string          `gorm:"type:varchar(64);index"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Price         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Type          string          `gorm:"type:varchar(50);index"`
}

// TableName returns the table name for GORM
func (ReservationServiceModel) TableName() string {
	return "reservation_services"
}

// ToDomain converts the persistence model to a domain Booking. Reservations
// and services must already be loaded in position order.
func (m *BookingModel) ToDomain() spa.Booking {
	b := spa.Booking{
		ID:           m.ID,
		Date:         m.Date.UTC(),
		Time:         m.Time,
		Status:       m.Status,
		Source:       m.Source,
		Deposit:      m.Deposit,
		Deleted:      m.Deleted,
		Reservations: make([]spa.Reservation, len(m.Reservations)),
	}
	if m.Discount != nil {
		b.Discount = m.Discount.ToDomain()
	}
	if m.CommissionType != nil {
		c := &spa.Commission{Type: spa.CommissionType(*m.CommissionType), Paid: m.CommissionPaid}
		if m.CommissionValue != nil {
			c.Value = *m.CommissionValue
		}
		b.Commission = c
	}
	if m.hasPayment() {
		p := &spa.Payment{
			PaymentMethod:      m.PaymentMethod,
			Currency:           m.PaymentCurrency,
			DebitPaymentMethod: m.DebitPaymentMethod,
			DebitCurrency:      m.DebitCurrency,
		}
		if m.PaymentAmount != nil {
			p.Amount = *m.PaymentAmount
		}
		if m.DebitAmount != nil {
			p.DebitAmount = *m.DebitAmount
		}
		b.Payment = p
	}
	for i, r := range m.Reservations {
		res := spa.Reservation{ID: r.ID, Guest: r.Guest, Services: make([]spa.ServiceLine, len(r.Services))}
		for j, s := range r.Services {
			res.Services[j] = spa.ServiceLine{ServiceID: s.ServiceID, Name: s.Name, Price: s.Price, Type: s.Type}
		}
		b.Reservations[i] = res
	}
	return b
}

func (m *BookingModel) hasPayment() bool {
	return m.PaymentMethod != "" || m.DebitPaymentMethod != "" || m.PaymentAmount != nil || m.DebitAmount != nil
}

// BookingModelFromDomain creates a persistence model, with its reservations
// and services, from a domain Booking. Missing ids are generated.
func BookingModelFromDomain(b *spa.Booking) *BookingModel {
	id := b.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	m := &BookingModel{
		BaseModel: BaseModel{ID: id},
		Date:      b.Date,
		Time:      b.Time,
		Status:    b.Status,
		Source:    b.Source,
		Deposit:   b.Deposit,
		Deleted:   b.Deleted,
	}
	if b.Discount != nil {
		discountID := b.Discount.ID
		m.DiscountID = &discountID
	}
	if b.Commission != nil {
		typ := string(b.Commission.Type)
		value := b.Commission.Value
		m.CommissionType = &typ
		m.CommissionValue = &value
		m.CommissionPaid = b.Commission.Paid
	}
	if b.Payment != nil {
		amount, debit := b.Payment.Amount, b.Payment.DebitAmount
		m.PaymentMethod = b.Payment.PaymentMethod
		m.PaymentCurrency = b.Payment.Currency
		m.PaymentAmount = &amount
		m.DebitPaymentMethod = b.Payment.DebitPaymentMethod
		m.DebitCurrency = b.Payment.DebitCurrency
		m.DebitAmount = &debit
	}
	for i, r := range b.Reservations {
		resID := r.ID
		if resID == uuid.Nil {
			resID = uuid.New()
		}
		rm := ReservationModel{BaseModel: BaseModel{ID: resID}, BookingID: id, Position: i, Guest: r.Guest}
		for j, s := range r.Services {
			rm.Services = append(rm.Services, ReservationServiceModel{
				BaseModel:     BaseModel{ID: uuid.New()},
				ReservationID: resID,
				Position:      j,
				ServiceID:     s.ServiceID,
				Name:          s.Name,
				Price:         s.Price,
				Type:          s.Type,
			})
		}
		m.Reservations = append(m.Reservations, rm)
	}
	return m
}
