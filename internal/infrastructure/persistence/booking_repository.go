package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/spa/backend/internal/domain/spa"
	"github.com/spa/backend/internal/infrastructure/persistence/models"
)

// GormBookingRepository implements spa.BookingReader using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindBookings returns the non-deleted bookings of the filter range with
// reservations, services and the referenced discount loaded. A discount
// reference that no longer resolves leaves Booking.Discount nil.
func (r *GormBookingRepository) FindBookings(ctx context.Context, filter spa.BookingFilter) ([]spa.Booking, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.BookingModel{}).
		Scopes(notDeleted, dateWithin(filter.DateFilter), chronological).
		Preload("Discount").
		Preload("Reservations", byPosition).
		Preload("Reservations.Services", byPosition)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var rows []models.BookingModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}

	bookings := make([]spa.Booking, len(rows))
	for i := range rows {
		bookings[i] = rows[i].ToDomain()
	}
	return bookings, nil
}

// Create inserts a booking together with its reservations.
// Reporting never writes; this is used by seeding tools and tests.
func (r *GormBookingRepository) Create(ctx context.Context, b *spa.Booking) error {
	m := models.BookingModelFromDomain(b)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	b.ID = m.ID
	return nil
}
