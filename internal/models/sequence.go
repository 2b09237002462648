package models

// TransactionSequence tracks the last allocated transaction number for a
// (fiscal year, prefix) pair.
type TransactionSequence struct {
	FiscalYearID string `db:"fiscal_year_id"` // Composite PK
	Prefix       string `db:"prefix"`         // Composite PK
	LastNumber   int64  `db:"last_number"`
	Padding      int    `db:"padding"`
}
