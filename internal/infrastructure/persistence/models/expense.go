package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spa/backend/internal/domain/spa"
)

// ExpenseModel is the persistence model for charges.
type ExpenseModel struct {
	BaseModel
	Date          time.Time       `gorm:"not null;index"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Type          string          `gorm:"type:varchar(50)"`
	Price         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason        string          `gorm:"type:varchar(500)"`
	ResponsibleID *uuid.UUID      `gorm:"type:uuid"`
	Payment       string          `gorm:"type:varchar(30)"`
	Deleted       bool            `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense.
func (m *ExpenseModel) ToDomain() spa.Expense {
	return spa.Expense{
		ID:            m.ID,
		Date:          m.Date.UTC(),
		Name:          m.Name,
		Type:          m.Type,
		Price:         m.Price,
		Reason:        m.Reason,
		ResponsibleID: m.ResponsibleID,
		Payment:       m.Payment,
		Deleted:       m.Deleted,
	}
}

// ExpenseModelFromDomain creates a persistence model from a domain Expense.
func ExpenseModelFromDomain(e *spa.Expense) *ExpenseModel {
	id := e.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &ExpenseModel{
		BaseModel:     BaseModel{ID: id},
		Date:          e.Date,
		Name:          e.Name,
		Type:          e.Type,
		Price:         e.Price,
		Reason:        e.Reason,
		ResponsibleID: e.ResponsibleID,
		Payment:       e.Payment,
		Deleted:       e.Deleted,
	}
}

// SalaryModel is the persistence model for payroll entries.
type SalaryModel struct {
	BaseModel
	EmployeeID uuid.UUID        `gorm:"type:uuid;not null;index"`
	Date       time.Time        `gorm:"not null;index"`
	Status     spa.SalaryStatus `gorm:"type:varchar(20);not null;default:'UNPAID'"`
	Amount     decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Deleted    bool             `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (SalaryModel) TableName() string {
	return "salaries"
}

// ToDomain converts the persistence model to a domain Salary.
func (m *SalaryModel) ToDomain() spa.Salary {
	return spa.Salary{
		ID:         m.ID,
		EmployeeID: m.EmployeeID,
		Date:       m.Date.UTC(),
		Status:     m.Status,
		Amount:     m.Amount,
		Deleted:    m.Deleted,
	}
}

// SalaryModelFromDomain creates a persistence model from a domain Salary.
func SalaryModelFromDomain(s *spa.Salary) *SalaryModel {
	id := s.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &SalaryModel{
		BaseModel:  BaseModel{ID: id},
		EmployeeID: s.EmployeeID,
		Date:       s.Date,
		Status:     s.Status,
		Amount:     s.Amount,
		Deleted:    s.Deleted,
	}
}
