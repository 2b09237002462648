package dto

import (
	"time"

	"github.com/zayyadi/paroll-sub000/internal/core/domain"
)

// CreateFiscalYearRequest defines the data needed to create a fiscal year.
type CreateFiscalYearRequest struct {
	Year      int       `json:"year" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}

// CreatePeriodRequest defines the data needed to create an accounting period.
type CreatePeriodRequest struct {
	PeriodNumber int       `json:"periodNumber" binding:"required,min=1"`
	Name         string    `json:"name" binding:"required"`
	StartDate    time.Time `json:"startDate" binding:"required"`
	EndDate      time.Time `json:"endDate" binding:"required"`
}

// CloseRequest carries the optional reason for closing or reopening.
type CloseRequest struct {
	Reason *string `json:"reason"`
}

// FiscalYearResponse defines the data returned for a fiscal year.
type FiscalYearResponse struct {
	FiscalYearID string     `json:"fiscalYearID"`
	Year         int        `json:"year"`
	Name         string     `json:"name"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	IsActive     bool       `json:"isActive"`
	IsClosed     bool       `json:"isClosed"`
	ClosedBy     *string    `json:"closedBy,omitempty"`
	ClosedAt     *time.Time `json:"closedAt,omitempty"`
}

// PeriodResponse defines the data returned for an accounting period.
type PeriodResponse struct {
	PeriodID     string     `json:"periodID"`
	FiscalYearID string     `json:"fiscalYearID"`
	PeriodNumber int        `json:"periodNumber"`
	Name         string     `json:"name"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	IsClosed     bool       `json:"isClosed"`
	ClosedBy     *string    `json:"closedBy,omitempty"`
	ClosedAt     *time.Time `json:"closedAt,omitempty"`
}

// ToFiscalYearResponse converts a domain.FiscalYear to FiscalYearResponse DTO.
func ToFiscalYearResponse(fy *domain.FiscalYear) FiscalYearResponse {
	return FiscalYearResponse{
		FiscalYearID: fy.FiscalYearID,
		Year:         fy.Year,
		Name:         fy.Name,
		StartDate:    fy.StartDate,
		EndDate:      fy.EndDate,
		IsActive:     fy.IsActive,
		IsClosed:     fy.IsClosed,
		ClosedBy:     fy.ClosedBy,
		ClosedAt:     fy.ClosedAt,
	}
}

// ToFiscalYearResponses converts a slice of domain.FiscalYear to DTOs.
func ToFiscalYearResponses(years []domain.FiscalYear) []FiscalYearResponse {
	responses := make([]FiscalYearResponse, len(years))
	for i := range years {
		responses[i] = ToFiscalYearResponse(&years[i])
	}
	return responses
}

// ToPeriodResponse converts a domain.AccountingPeriod to PeriodResponse DTO.
func ToPeriodResponse(p *domain.AccountingPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:     p.PeriodID,
		FiscalYearID: p.FiscalYearID,
		PeriodNumber: p.PeriodNumber,
		Name:         p.Name,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		IsClosed:     p.IsClosed,
		ClosedBy:     p.ClosedBy,
		ClosedAt:     p.ClosedAt,
	}
}

// ToPeriodResponses converts a slice of domain.AccountingPeriod to DTOs.
func ToPeriodResponses(periods []domain.AccountingPeriod) []PeriodResponse {
	responses := make([]PeriodResponse, len(periods))
	for i := range periods {
		responses[i] = ToPeriodResponse(&periods[i])
	}
	return responses
}
