package domain

import "fmt"

// DefaultSequencePrefix is used when a caller does not name a prefix.
const DefaultSequencePrefix = "TXN"

// TransactionSequence is the counter row behind transaction number
// generation. One row exists per (fiscal year, prefix) pair and is only ever
// mutated by the sequencer's atomic increment.
type TransactionSequence struct {
	FiscalYearID string `json:"fiscalYearID"` // FK -> fiscal_years (composite PK)
	Prefix       string `json:"prefix"`       // e.g., "TXN" (composite PK)
	LastNumber   int64  `json:"lastNumber"`   // Last number handed out
	Padding      int    `json:"padding"`      // Zero-pad width of the numeric part
}

// NumberString formats LastNumber as a transaction number, e.g. "TXN000042".
func (s TransactionSequence) NumberString() string {
	return fmt.Sprintf("%s%0*d", s.Prefix, s.Padding, s.LastNumber)
}
