package repositories

import "github.com/zayyadi/paroll-sub000/internal/core/domain"

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo   AccountRepositoryFacade
	FiscalRepo    FiscalRepositoryFacade
	SequenceRepo  SequenceRepository
	JournalRepo   JournalRepositoryFacade
	AuditRepo     AuditRepositoryFacade
	ReportingRepo ReportingRepository
	UserRepo      UserRepositoryFacade

	// Resolvers seeds audit orphan cleanup with an existence check per
	// engine-owned entity kind.
	Resolvers map[domain.EntityKind]EntityResolver
}
