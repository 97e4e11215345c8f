// Package models contains GORM-specific persistence models that map to the
// ledger tables. They are kept apart from the spa domain types so the domain
// and reporting packages stay free of ORM tags.
//
// Structure:
//   - base.go: shared id and timestamp columns
//   - booking.go: bookings, reservations, reservation services
//   - discount.go: discount codes referenced by bookings
//   - expense.go: expenses (charges) and salaries
package models
