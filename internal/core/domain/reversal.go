package domain

// Standardized reasons for journal reversals. Free text is accepted too;
// these cover the common cases so reports can group on them.
const (
	ReversalReasonDuplicateEntry       = "Duplicate entry"
	ReversalReasonIncorrectAmount      = "Incorrect amount"
	ReversalReasonWrongAccount         = "Wrong account"
	ReversalReasonWrongPeriod          = "Wrong period"
	ReversalReasonCancelledTransaction = "Cancelled transaction"
	ReversalReasonCorrection           = "Correction"
	ReversalReasonOther                = "Other"
)

// BatchReversalFailure records one journal that a batch reversal could not
// offset, together with why.
type BatchReversalFailure struct {
	JournalID string `json:"journalID"`
	Err       error  `json:"-"`
}

// BatchReversalResult collects the outcome of a batch reversal. Each
// journal's reversal is independent: failures never roll back or block the
// others, and both lists are always populated from the full attempt.
type BatchReversalResult struct {
	Succeeded []Journal              `json:"succeeded"` // The reversal journals created
	Failed    []BatchReversalFailure `json:"failed"`
}
