package services

import (
	"context"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	"github.com/zayyadi/paroll-sub000/internal/dto"
)

// ReversalSvc offsets posted journals. All modes require the original to be
// POSTED, the target period to be open, and the authorization policy to
// allow the actor to reverse. Each journal's reversal is one atomic unit.
type ReversalSvc interface {
	// ReverseJournal fully offsets a posted journal: a new journal is
	// created with every entry flipped, auto-approved and posted, and the
	// original is marked REVERSED with links in both directions. Reversing
	// an already-reversed journal, or a reversal itself, fails.
	ReverseJournal(ctx context.Context, actx domain.ActionContext, journalID string, req dto.ReverseJournalRequest) (*domain.Journal, error)

	// ReverseJournalPartial offsets a subset of a posted journal's entries,
	// each at full or reduced amount. The original journal stays POSTED;
	// only the selected entries are logically offset by the new journal.
	ReverseJournalPartial(ctx context.Context, actx domain.ActionContext, journalID string, req dto.PartialReversalRequest) (*domain.Journal, error)

	// ReverseJournalWithCorrection performs a full reversal and then posts
	// an independent correction journal from the supplied entries, linked
	// to the original through its source reference. Both journals are
	// returned. The correction is its own atomic unit: if it fails, the
	// completed reversal stands and the error reports the correction.
	ReverseJournalWithCorrection(ctx context.Context, actx domain.ActionContext, journalID string, req dto.ReverseWithCorrectionRequest) (reversal *domain.Journal, correction *domain.Journal, err error)

	// BatchReverseJournals attempts a full reversal of every listed journal
	// independently, never aborting on the first failure. Successes and
	// failures are both collected; when any journal failed the returned
	// error is a *BatchReversalError summarizing all of them.
	BatchReverseJournals(ctx context.Context, actx domain.ActionContext, req dto.BatchReverseRequest) (*domain.BatchReversalResult, error)
}
