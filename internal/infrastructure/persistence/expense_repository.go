package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/spa/backend/internal/domain/spa"
	"github.com/spa/backend/internal/infrastructure/persistence/models"
)

// GormExpenseRepository implements spa.ExpenseReader using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindExpenses returns the non-deleted expenses of the filter range.
func (r *GormExpenseRepository) FindExpenses(ctx context.Context, filter spa.DateFilter) ([]spa.Expense, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var rows []models.ExpenseModel
	err := r.db.WithContext(ctx).
		Scopes(notDeleted, dateWithin(filter), chronological).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find expenses: %w", err)
	}

	expenses := make([]spa.Expense, len(rows))
	for i := range rows {
		expenses[i] = rows[i].ToDomain()
	}
	return expenses, nil
}

// Create inserts an expense.
func (r *GormExpenseRepository) Create(ctx context.Context, e *spa.Expense) error {
	m := models.ExpenseModelFromDomain(e)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	e.ID = m.ID
	return nil
}

// GormSalaryRepository implements spa.SalaryReader using GORM
type GormSalaryRepository struct {
	db *gorm.DB
}

// NewGormSalaryRepository creates a new GormSalaryRepository
func NewGormSalaryRepository(db *gorm.DB) *GormSalaryRepository {
	return &GormSalaryRepository{db: db}
}

// FindSalaries returns the non-deleted payroll entries of the filter range.
func (r *GormSalaryRepository) FindSalaries(ctx context.Context, filter spa.DateFilter) ([]spa.Salary, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var rows []models.SalaryModel
	err := r.db.WithContext(ctx).
		Scopes(notDeleted, dateWithin(filter), chronological).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find salaries: %w", err)
	}

	salaries := make([]spa.Salary, len(rows))
	for i := range rows {
		salaries[i] = rows[i].ToDomain()
	}
	return salaries, nil
}

// Create inserts a payroll entry.
func (r *GormSalaryRepository) Create(ctx context.Context, s *spa.Salary) error {
	m := models.SalaryModelFromDomain(s)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create salary: %w", err)
	}
	s.ID = m.ID
	return nil
}
