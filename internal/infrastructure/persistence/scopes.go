package persistence

import (
	"gorm.io/gorm"

	"github.com/spa/backend/internal/domain/shared/valueobject"
	"github.com/spa/backend/internal/domain/spa"
)

// notDeleted drops soft-deleted ledger rows.
func notDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("deleted = ?", false)
}

// dateWithin keeps rows dated on any day of f, both ends included. The
// upper bound is exclusive midnight of the day after EndDate so rows carrying
// a time of day are still matched.
func dateWithin(f spa.DateFilter) func(*gorm.DB) *gorm.DB {
	start := valueobject.StartOfDay(f.StartDate)
	endExclusive := valueobject.StartOfDay(f.EndDate).AddDate(0, 0, 1)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(`"date" >= ? AND "date" < ?`, start, endExclusive)
	}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func chronological(db *gorm.DB) *gorm.DB {
	return db.Order(`"date" ASC`).Order("created_at ASC")
}
