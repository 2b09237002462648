package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
)

// CreateEntryRequest defines one entry line of a journal being created.
type CreateEntryRequest struct {
	AccountID string           `json:"accountID" binding:"required"`
	EntryType domain.EntryType `json:"entryType" binding:"required,oneof=DEBIT CREDIT"`
	Amount    decimal.Decimal  `json:"amount" binding:"required"`
	Memo      *string          `json:"memo"`
}

// CreateJournalRequest defines the data needed to create a new journal.
// FiscalYearID and PeriodID are optional: when omitted they are derived from
// Date. SourceKind/SourceID optionally tag the originating business event.
type CreateJournalRequest struct {
	Date         time.Time            `json:"date" binding:"required"`
	Description  string               `json:"description" binding:"required"`
	FiscalYearID *string              `json:"fiscalYearID"`
	PeriodID     *string              `json:"periodID"`
	SourceKind   *string              `json:"sourceKind"`
	SourceID     *string              `json:"sourceID"`
	AutoPost     bool                 `json:"autoPost"` // Run submit+approve+post immediately after create
	Entries      []CreateEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// RejectJournalRequest carries the mandatory rejection reason.
type RejectJournalRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ReverseJournalRequest defines the data needed for a full reversal.
type ReverseJournalRequest struct {
	Reason string     `json:"reason" binding:"required"`
	Date   *time.Time `json:"date"` // Reversal date; defaults to the original journal's date
}

// PartialReversalRequest selects which entries of a posted journal to offset.
// Exactly one of EntryIDs (reverse at full amount) or Amounts (entry ID to
// reduced amount) must be supplied.
type PartialReversalRequest struct {
	Reason   string                     `json:"reason" binding:"required"`
	Date     *time.Time                 `json:"date"`
	EntryIDs []string                   `json:"entryIDs"`
	Amounts  map[string]decimal.Decimal `json:"amounts"`
}

// ReverseWithCorrectionRequest defines a full reversal followed by an
// independent correction journal built from the supplied entries.
type ReverseWithCorrectionRequest struct {
	Reason                string               `json:"reason" binding:"required"`
	Date                  *time.Time           `json:"date"`
	CorrectionDescription *string              `json:"correctionDescription"`
	CorrectionEntries     []CreateEntryRequest `json:"correctionEntries" binding:"required,min=2,dive"`
}

// BatchReverseRequest lists the journals to reverse independently.
type BatchReverseRequest struct {
	JournalIDs []string `json:"journalIDs" binding:"required,min=1"`
	Reason     string   `json:"reason" binding:"required"`
}

// ListJournalsParams defines query parameters for listing journals.
type ListJournalsParams struct {
	Status         *string `form:"status"`
	PeriodID       *string `form:"periodID"`
	SourceKind     *string `form:"sourceKind"`
	SourceID       *string `form:"sourceID"`
	IncludeEntries bool    `form:"includeEntries"`
	Limit          int     `form:"limit,default=20"`
	NextToken      *string `form:"nextToken"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID   string          `json:"entryID"`
	AccountID string          `json:"accountID"`
	EntryType string          `json:"entryType"` // DEBIT or CREDIT
	Amount    decimal.Decimal `json:"amount"`
	Memo      *string         `json:"memo,omitempty"`
}

// JournalResponse defines the data returned for a journal.
type JournalResponse struct {
	JournalID          string          `json:"journalID"`
	TransactionNumber  string          `json:"transactionNumber"`
	Date               time.Time       `json:"date"`
	Description        string          `json:"description"`
	FiscalYearID       string          `json:"fiscalYearID"`
	PeriodID           string          `json:"periodID"`
	Status             string          `json:"status"`
	SourceKind         *string         `json:"sourceKind,omitempty"`
	SourceID           *string         `json:"sourceID,omitempty"`
	ReversedJournalID  *string         `json:"reversedJournalID,omitempty"`
	ReversingJournalID *string         `json:"reversingJournalID,omitempty"`
	ReversalReason     *string         `json:"reversalReason,omitempty"`
	ApprovedBy         *string         `json:"approvedBy,omitempty"`
	ApprovedAt         *time.Time      `json:"approvedAt,omitempty"`
	PostedBy           *string         `json:"postedBy,omitempty"`
	PostedAt           *time.Time      `json:"postedAt,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	CreatedBy          string          `json:"createdBy"`
	Entries            []EntryResponse `json:"entries,omitempty"`
}

// ListJournalsResponse wraps a page of journals.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// BatchReverseFailureResponse describes one journal a batch run could not reverse.
type BatchReverseFailureResponse struct {
	JournalID string `json:"journalID"`
	Error     string `json:"error"`
}

// BatchReverseResponse reports the split outcome of a batch reversal.
type BatchReverseResponse struct {
	Succeeded []JournalResponse             `json:"succeeded"`
	Failed    []BatchReverseFailureResponse `json:"failed"`
}

// ReverseWithCorrectionResponse pairs the reversal journal with the
// correction journal posted after it.
type ReverseWithCorrectionResponse struct {
	Reversal   JournalResponse `json:"reversal"`
	Correction JournalResponse `json:"correction"`
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	return EntryResponse{
		EntryID:   e.EntryID,
		AccountID: e.AccountID,
		EntryType: string(e.EntryType),
		Amount:    e.Amount,
		Memo:      e.Memo,
	}
}

// ToEntryResponses converts a slice of domain.JournalEntry to []EntryResponse.
func ToEntryResponses(entries []domain.JournalEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:          j.JournalID,
		TransactionNumber:  j.TransactionNumber,
		Date:               j.JournalDate,
		Description:        j.Description,
		FiscalYearID:       j.FiscalYearID,
		PeriodID:           j.PeriodID,
		Status:             string(j.Status),
		SourceID:           j.SourceID,
		ReversedJournalID:  j.ReversedJournalID,
		ReversingJournalID: j.ReversingJournalID,
		ReversalReason:     j.ReversalReason,
		ApprovedBy:         j.ApprovedBy,
		ApprovedAt:         j.ApprovedAt,
		PostedBy:           j.PostedBy,
		PostedAt:           j.PostedAt,
		CreatedAt:          j.CreatedAt,
		CreatedBy:          j.CreatedBy,
	}
	if j.SourceKind != nil {
		kind := string(*j.SourceKind)
		resp.SourceKind = &kind
	}
	if len(j.Entries) > 0 {
		resp.Entries = ToEntryResponses(j.Entries)
	}
	return resp
}

// ToJournalResponses converts a slice of domain.Journal to []JournalResponse.
func ToJournalResponses(journals []domain.Journal) []JournalResponse {
	responses := make([]JournalResponse, len(journals))
	for i := range journals {
		responses[i] = ToJournalResponse(&journals[i])
	}
	return responses
}

// ToBatchReverseResponse converts a domain.BatchReversalResult to its DTO.
func ToBatchReverseResponse(result *domain.BatchReversalResult) BatchReverseResponse {
	resp := BatchReverseResponse{
		Succeeded: ToJournalResponses(result.Succeeded),
		Failed:    make([]BatchReverseFailureResponse, len(result.Failed)),
	}
	for i, f := range result.Failed {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		resp.Failed[i] = BatchReverseFailureResponse{JournalID: f.JournalID, Error: msg}
	}
	return resp
}
