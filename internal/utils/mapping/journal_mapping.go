package mapping

import (
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	"github.com/zayyadi/paroll-sub000/internal/models"
)

// ToModelJournal converts a domain Journal to a model Journal
func ToModelJournal(d domain.Journal) models.Journal {
	var sourceKind *string
	if d.SourceKind != nil {
		s := string(*d.SourceKind)
		sourceKind = &s
	}
	return models.Journal{
		JournalID:          d.JournalID,
		TransactionNumber:  d.TransactionNumber,
		JournalDate:        d.JournalDate,
		Description:        d.Description,
		FiscalYearID:       d.FiscalYearID,
		PeriodID:           d.PeriodID,
		Status:             string(d.Status),
		SourceKind:         sourceKind,
		SourceID:           d.SourceID,
		ReversedJournalID:  d.ReversedJournalID,
		ReversingJournalID: d.ReversingJournalID,
		ReversalReason:     d.ReversalReason,
		ApprovedBy:         d.ApprovedBy,
		ApprovedAt:         d.ApprovedAt,
		PostedBy:           d.PostedBy,
		PostedAt:           d.PostedAt,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model Journal to a domain Journal. Entries are
// loaded separately and attached by the caller when needed.
func ToDomainJournal(m models.Journal) domain.Journal {
	var sourceKind *domain.EntityKind
	if m.SourceKind != nil {
		k := domain.EntityKind(*m.SourceKind)
		sourceKind = &k
	}
	return domain.Journal{
		JournalID:          m.JournalID,
		TransactionNumber:  m.TransactionNumber,
		JournalDate:        m.JournalDate,
		Description:        m.Description,
		FiscalYearID:       m.FiscalYearID,
		PeriodID:           m.PeriodID,
		Status:             domain.JournalStatus(m.Status),
		SourceKind:         sourceKind,
		SourceID:           m.SourceID,
		ReversedJournalID:  m.ReversedJournalID,
		ReversingJournalID: m.ReversingJournalID,
		ReversalReason:     m.ReversalReason,
		ApprovedBy:         m.ApprovedBy,
		ApprovedAt:         m.ApprovedAt,
		PostedBy:           m.PostedBy,
		PostedAt:           m.PostedAt,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalSlice converts a slice of model Journals to domain Journals
func ToDomainJournalSlice(ms []models.Journal) []domain.Journal {
	ds := make([]domain.Journal, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournal(m)
	}
	return ds
}

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:     d.EntryID,
		JournalID:   d.JournalID,
		AccountID:   d.AccountID,
		EntryType:   string(d.EntryType),
		Amount:      d.Amount,
		Memo:        d.Memo,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:     m.EntryID,
		JournalID:   m.JournalID,
		AccountID:   m.AccountID,
		EntryType:   domain.EntryType(m.EntryType),
		Amount:      m.Amount,
		Memo:        m.Memo,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalEntrySlice converts a slice of model JournalEntries to domain JournalEntries
func ToDomainJournalEntrySlice(ms []models.JournalEntry) []domain.JournalEntry {
	ds := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntry(m)
	}
	return ds
}
