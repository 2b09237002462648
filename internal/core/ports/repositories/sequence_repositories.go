package repositories

import (
	"context"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
)

// SequenceRepository hands out transaction numbers. NextTransactionNumber is
// the one operation in the engine that needs a true atomic read-modify-write:
// two concurrent callers on the same (fiscal year, prefix) pair must never
// receive the same number.
type SequenceRepository interface {
	// NextTransactionNumber increments the counter for (fiscalYearID, prefix)
	// in a single atomic statement, creating the counter at 1 when absent,
	// and returns the zero-padded formatted number (e.g., "TXN000042").
	// It runs outside the caller's journal transaction: a journal insert that
	// later fails burns the number (a gap), it never duplicates one.
	NextTransactionNumber(ctx context.Context, fiscalYearID string, prefix string, padding int) (string, error)

	// GetSequence retrieves the current counter row for inspection.
	GetSequence(ctx context.Context, fiscalYearID string, prefix string) (*domain.TransactionSequence, error)
}
