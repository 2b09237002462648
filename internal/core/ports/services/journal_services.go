package services

import (
	"context"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	"github.com/zayyadi/paroll-sub000/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalByID retrieves a specific journal with its entries hydrated.
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a paginated, filtered list of journals.
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalWriterSvc defines the journal lifecycle. Every successful mutation
// emits exactly one audit event per logical action, delivered through the
// audit outbox in the same transaction as the change.
type JournalWriterSvc interface {
	// CreateJournal assigns a transaction number, resolves the fiscal year
	// and period from the journal date when not given, and persists the
	// journal in DRAFT (or runs the full submit+approve+post chain when
	// req.AutoPost is set).
	CreateJournal(ctx context.Context, actx domain.ActionContext, req dto.CreateJournalRequest) (*domain.Journal, error)

	// AddEntry appends an entry to a DRAFT journal. Posted journals are
	// immutable except for reversal metadata.
	AddEntry(ctx context.Context, actx domain.ActionContext, journalID string, req dto.CreateEntryRequest) (*domain.Journal, error)

	// SubmitForApproval moves DRAFT -> PENDING_APPROVAL. The journal must
	// balance before it reaches an approver.
	SubmitForApproval(ctx context.Context, actx domain.ActionContext, journalID string) (*domain.Journal, error)

	// ApproveJournal moves PENDING_APPROVAL (or DRAFT) -> APPROVED after
	// consulting the authorization policy. The creator can never approve
	// their own journal.
	ApproveJournal(ctx context.Context, actx domain.ActionContext, journalID string) (*domain.Journal, error)

	// RejectJournal moves PENDING_APPROVAL -> CANCELLED with a reason.
	RejectJournal(ctx context.Context, actx domain.ActionContext, journalID string, reason string) (*domain.Journal, error)

	// PostJournal moves APPROVED -> POSTED, auto-running submit and approve
	// first when the journal is still DRAFT. It re-validates the period is
	// open and the entries still balance before stamping the poster.
	PostJournal(ctx context.Context, actx domain.ActionContext, journalID string) (*domain.Journal, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
