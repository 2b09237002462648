package services

import (
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
	portssvc "github.com/zayyadi/paroll-sub000/internal/core/ports/services"
	"github.com/zayyadi/paroll-sub000/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.AppConfig, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	// Create the container structure first
	container := &portssvc.ServiceContainer{}

	// Audit comes first: every mutating service feeds it
	container.Audit = NewAuditService(
		repos.AuditRepo,
		repos.Resolvers,
		WithFlushBatchSize(cfg.AuditFlushBatchSize),
	)

	// Gated lifecycle transitions consult the role policy
	policy := NewRolePolicy()

	container.Account = NewAccountService(repos.AccountRepo, repos.ReportingRepo, container.Audit)
	container.Fiscal = NewFiscalService(repos.FiscalRepo, repos.UserRepo, container.Audit, policy)
	container.Journal = NewJournalService(
		repos.JournalRepo,
		repos.SequenceRepo,
		container.Account,
		container.Fiscal,
		repos.UserRepo,
		container.Audit,
		policy,
		WithSequenceFormat(cfg.SequenceDefaultPrefix, cfg.SequencePadding),
	)
	container.Reversal = NewReversalService(
		repos.JournalRepo,
		repos.SequenceRepo,
		container.Account,
		container.Fiscal,
		repos.UserRepo,
		container.Audit,
		policy,
		WithReversalSequenceFormat(cfg.SequenceDefaultPrefix, cfg.SequencePadding),
	)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.AccountRepo, container.Fiscal)

	container.User = NewUserService(repos.UserRepo, container.Audit)
	container.TokenService = NewTokenService(cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)

	return container
}
