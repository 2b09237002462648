package repositories

import (
	"context"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
)

// JournalFilter narrows journal listings. Nil fields are ignored.
type JournalFilter struct {
	Status     *domain.JournalStatus
	PeriodID   *string
	SourceKind *domain.EntityKind
	SourceID   *string
}

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// FindJournalByTransactionNumber retrieves a journal by its human-readable
	// transaction number. Numbers restart per fiscal year; on a cross-year
	// duplicate the most recently created journal is returned.
	FindJournalByTransactionNumber(ctx context.Context, transactionNumber string) (*domain.Journal, error)

	// ListJournals retrieves a paginated, filtered list of journals using token-based pagination.
	// It returns the journals, a token for the next page, and an error.
	ListJournals(ctx context.Context, filter JournalFilter, limit int, nextToken *string) ([]domain.Journal, *string, error)
}

// EntryReader defines read operations for journal entry data
type EntryReader interface {
	// FindEntriesByJournalID retrieves all entries of a single journal.
	FindEntriesByJournalID(ctx context.Context, journalID string) ([]domain.JournalEntry, error)

	// FindEntriesByJournalIDs retrieves entries for multiple journals, grouped by journal ID.
	FindEntriesByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal data. Every method
// persists the supplied audit events to the outbox inside the same database
// transaction as the financial change, so an event exists exactly when the
// change it describes committed.
type JournalWriter interface {
	// SaveJournal persists a journal and its entries atomically.
	SaveJournal(ctx context.Context, journal domain.Journal, entries []domain.JournalEntry, events []domain.AuditEvent) error

	// AddEntry appends an entry to a journal that is still in DRAFT.
	// The insert is guarded on the journal's status; a non-DRAFT journal
	// rejects the write with a conflict error.
	AddEntry(ctx context.Context, journalID string, entry domain.JournalEntry, events []domain.AuditEvent) error

	// UpdateJournalStatus persists journal's current status, stamps and
	// reversal links, guarded by the status the caller read (expected).
	// Zero rows updated surfaces as a conflict, never a partial write.
	UpdateJournalStatus(ctx context.Context, journal domain.Journal, expected domain.JournalStatus, events []domain.AuditEvent) error

	// SaveReversal persists a reversal journal with its entries and, when
	// original is non-nil, updates the original journal's status and links
	// in the same transaction (guarded on the original still being POSTED).
	// Partial reversals pass a nil original: the source journal is untouched.
	SaveReversal(ctx context.Context, reversal domain.Journal, entries []domain.JournalEntry, original *domain.Journal, events []domain.AuditEvent) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	JournalReader
	EntryReader
	JournalWriter
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
