package domain

import "time"

// JournalStatus indicates where a journal sits in its lifecycle.
type JournalStatus string

const (
	Draft           JournalStatus = "DRAFT"
	PendingApproval JournalStatus = "PENDING_APPROVAL"
	Approved        JournalStatus = "APPROVED"
	Posted          JournalStatus = "POSTED"
	Reversed        JournalStatus = "REVERSED"
	Cancelled       JournalStatus = "CANCELLED"
)

// journalTransitions is the full transition table of the lifecycle.
// Posting from DRAFT is orchestrated as submit+approve+post, so no direct
// DRAFT -> POSTED edge exists here.
var journalTransitions = map[JournalStatus][]JournalStatus{
	Draft:           {PendingApproval, Approved},
	PendingApproval: {Approved, Cancelled},
	Approved:        {Posted},
	Posted:          {Reversed},
	Reversed:        {},
	Cancelled:       {},
}

// CanTransitionTo reports whether the lifecycle permits moving from s to next.
func (s JournalStatus) CanTransitionTo(next JournalStatus) bool {
	for _, allowed := range journalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s.
// POSTED is terminal for the normal flow but still admits reversal.
func (s JournalStatus) IsTerminal() bool {
	return len(journalTransitions[s]) == 0
}

// IsValid reports whether s is a known lifecycle status.
func (s JournalStatus) IsValid() bool {
	_, ok := journalTransitions[s]
	return ok
}

// Journal represents a single financial event composed of multiple entries.
// The transaction number is assigned at creation and never changes; entries
// are frozen once the journal is posted.
type Journal struct {
	JournalID          string        `json:"journalID"`          // Primary Key (e.g., UUID)
	TransactionNumber  string        `json:"transactionNumber"`  // Human-readable unique identifier (e.g., "TXN000042")
	JournalDate        time.Time     `json:"journalDate"`        // Date the event occurred
	Description        string        `json:"description"`        // Nullable user description
	FiscalYearID       string        `json:"fiscalYearID"`       // FK -> fiscal_years (Not Null)
	PeriodID           string        `json:"periodID"`           // FK -> accounting_periods (Not Null)
	Status             JournalStatus `json:"status"`             // Default: DRAFT
	SourceKind         *EntityKind   `json:"sourceKind"`         // Originating business event kind (e.g., payroll_run)
	SourceID           *string       `json:"sourceID"`           // Identifier within SourceKind
	ReversedJournalID  *string       `json:"reversedJournalID"`  // On a reversal: the journal it offsets
	ReversingJournalID *string       `json:"reversingJournalID"` // On a reversed original: the reversal that offset it
	ReversalReason     *string       `json:"reversalReason"`     // Why the reversal happened
	ApprovedBy         *string       `json:"approvedBy"`
	ApprovedAt         *time.Time    `json:"approvedAt"`
	PostedBy           *string       `json:"postedBy"`
	PostedAt           *time.Time    `json:"postedAt"`
	AuditFields
	Entries []JournalEntry `json:"entries,omitempty"` // Hydrated on single-journal reads
}

// IsReversal reports whether j was created to offset another journal.
func (j *Journal) IsReversal() bool {
	return j.ReversedJournalID != nil
}

// AffectsLedger reports whether j's entries count toward account balances.
// A REVERSED journal was posted and stays in the ledger; its offset comes
// from the reversal journal's flipped entries, not from excluding it.
func (j *Journal) AffectsLedger() bool {
	return j.Status == Posted || j.Status == Reversed
}
