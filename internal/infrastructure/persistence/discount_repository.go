package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/spa/backend/internal/domain/shared"
	"github.com/spa/backend/internal/domain/spa"
	"github.com/spa/backend/internal/infrastructure/persistence/models"
)

// GormDiscountRepository implements spa.DiscountReader using GORM
type GormDiscountRepository struct {
	db *gorm.DB
}

// NewGormDiscountRepository creates a new GormDiscountRepository
func NewGormDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

// FindByCode finds a discount by its code
func (r *GormDiscountRepository) FindByCode(ctx context.Context, code string) (*spa.Discount, error) {
	var model models.DiscountModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("find discount: %w", err)
	}
	return model.ToDomain(), nil
}

// Create inserts a discount.
func (r *GormDiscountRepository) Create(ctx context.Context, d *spa.Discount) error {
	m := models.DiscountModelFromDomain(d)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create discount: %w", err)
	}
	d.ID = m.ID
	return nil
}
