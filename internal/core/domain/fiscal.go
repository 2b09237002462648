package domain

import "time"

// FiscalYear is the top-level time container of the ledger. Journals may only
// be posted into an open fiscal year, and a year can only be closed once every
// child period is closed.
type FiscalYear struct {
	FiscalYearID string     `json:"fiscalYearID"` // Primary Key (e.g., UUID)
	Year         int        `json:"year"`         // Calendar or statutory year label, unique
	Name         string     `json:"name"`         // e.g., "FY 2026"
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	IsActive     bool       `json:"isActive"`
	IsClosed     bool       `json:"isClosed"`
	ClosedBy     *string    `json:"closedBy"` // UserID reference
	ClosedAt     *time.Time `json:"closedAt"`
	AuditFields
}

// ContainsDate reports whether d falls inside the year's range (inclusive).
func (f *FiscalYear) ContainsDate(d time.Time) bool {
	return !d.Before(f.StartDate) && !d.After(f.EndDate)
}

// Overlaps reports whether the two date ranges intersect.
func (f *FiscalYear) Overlaps(start, end time.Time) bool {
	return !f.EndDate.Before(start) && !f.StartDate.After(end)
}

// AccountingPeriod subdivides a fiscal year. Period numbers are sequential
// and unique within the year; ranges sit inside the parent year and never
// overlap a sibling. A closed period rejects journal creation and posting.
type AccountingPeriod struct {
	PeriodID     string     `json:"periodID"`     // Primary Key (e.g., UUID)
	FiscalYearID string     `json:"fiscalYearID"` // FK -> fiscal_years (Not Null)
	PeriodNumber int        `json:"periodNumber"` // Sequential within the year (1..n)
	Name         string     `json:"name"`         // e.g., "January 2026"
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	IsClosed     bool       `json:"isClosed"`
	ClosedBy     *string    `json:"closedBy"` // UserID reference
	ClosedAt     *time.Time `json:"closedAt"`
	AuditFields
}

// ContainsDate reports whether d falls inside the period's range (inclusive).
func (p *AccountingPeriod) ContainsDate(d time.Time) bool {
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// Overlaps reports whether the two date ranges intersect.
func (p *AccountingPeriod) Overlaps(start, end time.Time) bool {
	return !p.EndDate.Before(start) && !p.StartDate.After(end)
}
