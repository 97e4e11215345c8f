package models

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all ledger tables.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// All lists every model in dependency order, for AutoMigrate in tests and
// local tooling. Production schemas are managed by the SQL migrations.
func All() []any {
	return []any{
		&DiscountModel{},
		&BookingModel{},
		&ReservationModel{},
		&ReservationServiceModel{},
		&ExpenseModel{},
		&SalaryModel{},
	}
}
