package mapping

import (
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	"github.com/zayyadi/paroll-sub000/internal/models"
)

// ToModelFiscalYear converts a domain FiscalYear to a model FiscalYear
func ToModelFiscalYear(d domain.FiscalYear) models.FiscalYear {
	return models.FiscalYear{
		FiscalYearID: d.FiscalYearID,
		Year:         d.Year,
		Name:         d.Name,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		IsActive:     d.IsActive,
		IsClosed:     d.IsClosed,
		ClosedBy:     d.ClosedBy,
		ClosedAt:     d.ClosedAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFiscalYear converts a model FiscalYear to a domain FiscalYear
func ToDomainFiscalYear(m models.FiscalYear) domain.FiscalYear {
	return domain.FiscalYear{
		FiscalYearID: m.FiscalYearID,
		Year:         m.Year,
		Name:         m.Name,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		IsActive:     m.IsActive,
		IsClosed:     m.IsClosed,
		ClosedBy:     m.ClosedBy,
		ClosedAt:     m.ClosedAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainFiscalYearSlice converts a slice of model FiscalYears to domain FiscalYears
func ToDomainFiscalYearSlice(ms []models.FiscalYear) []domain.FiscalYear {
	ds := make([]domain.FiscalYear, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFiscalYear(m)
	}
	return ds
}

// ToModelAccountingPeriod converts a domain AccountingPeriod to a model AccountingPeriod
func ToModelAccountingPeriod(d domain.AccountingPeriod) models.AccountingPeriod {
	return models.AccountingPeriod{
		PeriodID:     d.PeriodID,
		FiscalYearID: d.FiscalYearID,
		PeriodNumber: d.PeriodNumber,
		Name:         d.Name,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		IsClosed:     d.IsClosed,
		ClosedBy:     d.ClosedBy,
		ClosedAt:     d.ClosedAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccountingPeriod converts a model AccountingPeriod to a domain AccountingPeriod
func ToDomainAccountingPeriod(m models.AccountingPeriod) domain.AccountingPeriod {
	return domain.AccountingPeriod{
		PeriodID:     m.PeriodID,
		FiscalYearID: m.FiscalYearID,
		PeriodNumber: m.PeriodNumber,
		Name:         m.Name,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		IsClosed:     m.IsClosed,
		ClosedBy:     m.ClosedBy,
		ClosedAt:     m.ClosedAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountingPeriodSlice converts a slice of model AccountingPeriods to domain AccountingPeriods
func ToDomainAccountingPeriodSlice(ms []models.AccountingPeriod) []domain.AccountingPeriod {
	ds := make([]domain.AccountingPeriod, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccountingPeriod(m)
	}
	return ds
}
