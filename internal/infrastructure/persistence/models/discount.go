package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spa/backend/internal/domain/spa"
)

// DiscountModel is the persistence model for discount codes.
type DiscountModel struct {
	BaseModel
	Code        string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description string             `gorm:"type:varchar(500)"`
	Type        spa.DiscountType   `gorm:"type:varchar(20);not null"`
	Value       decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Status      spa.DiscountStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	StartDate   *time.Time
	EndDate     *time.Time
}

// TableName returns the table name for GORM
func (DiscountModel) TableName() string {
	return "discounts"
}

// ToDomain converts the persistence model to a domain Discount.
func (m *DiscountModel) ToDomain() *spa.Discount {
	return &spa.Discount{
		ID:          m.ID,
		Code:        m.Code,
		Description: m.Description,
		Type:        m.Type,
		Value:       m.Value,
		Status:      m.Status,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
	}
}

// DiscountModelFromDomain creates a persistence model from a domain Discount.
func DiscountModelFromDomain(d *spa.Discount) *DiscountModel {
	id := d.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &DiscountModel{
		BaseModel:   BaseModel{ID: id},
		Code:        d.Code,
		Description: d.Description,
		Type:        d.Type,
		Value:       d.Value,
		Status:      d.Status,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
	}
}
