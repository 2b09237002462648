package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	fiscalRepo := newPgxFiscalRepository(dbPool)
	sequenceRepo := newPgxSequenceRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:   accountRepo,
		FiscalRepo:    fiscalRepo,
		SequenceRepo:  sequenceRepo,
		JournalRepo:   journalRepo,
		AuditRepo:     auditRepo,
		ReportingRepo: reportingRepo,
		UserRepo:      userRepo,
		Resolvers:     NewEntityResolvers(dbPool),
	}
}
