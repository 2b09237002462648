package models

import "time"

// FiscalYear represents a fiscal year row.
type FiscalYear struct {
	FiscalYearID string     `db:"fiscal_year_id"`
	Year         int        `db:"year"` // Unique label (e.g., 2026)
	Name         string     `db:"name"`
	StartDate    time.Time  `db:"start_date"`
	EndDate      time.Time  `db:"end_date"`
	IsActive     bool       `db:"is_active"`
	IsClosed     bool       `db:"is_closed"`
	ClosedBy     *string    `db:"closed_by"`
	ClosedAt     *time.Time `db:"closed_at"`
	AuditFields
}

// AccountingPeriod represents one period row within a fiscal year.
type AccountingPeriod struct {
	PeriodID     string     `db:"period_id"`
	FiscalYearID string     `db:"fiscal_year_id"`
	PeriodNumber int        `db:"period_number"` // Sequential within the year
	Name         string     `db:"name"`
	StartDate    time.Time  `db:"start_date"`
	EndDate      time.Time  `db:"end_date"`
	IsClosed     bool       `db:"is_closed"`
	ClosedBy     *string    `db:"closed_by"`
	ClosedAt     *time.Time `db:"closed_at"`
	AuditFields
}
