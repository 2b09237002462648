package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
)

// tableResolver answers existence checks against a single table. Table and
// column names come from the fixed set below, never from user input.
type tableResolver struct {
	pool     *pgxpool.Pool
	table    string
	idColumn string
}

// Ensure tableResolver implements portsrepo.EntityResolver
var _ portsrepo.EntityResolver = (*tableResolver)(nil)

func (r *tableResolver) Exists(ctx context.Context, entityID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ` + r.table + ` WHERE ` + r.idColumn + ` = $1);`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, entityID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed existence check on %s: %w", r.table, err)
	}
	return exists, nil
}

// NewEntityResolvers builds the existence resolvers for every entity kind the
// engine owns. External kinds (payroll run, cash advance) have no resolver
// here; orphan cleanup skips kinds it cannot resolve.
func NewEntityResolvers(pool *pgxpool.Pool) map[domain.EntityKind]portsrepo.EntityResolver {
	return map[domain.EntityKind]portsrepo.EntityResolver{
		domain.KindJournal:          &tableResolver{pool: pool, table: "journals", idColumn: "journal_id"},
		domain.KindJournalEntry:     &tableResolver{pool: pool, table: "journal_entries", idColumn: "entry_id"},
		domain.KindAccount:          &tableResolver{pool: pool, table: "accounts", idColumn: "account_id"},
		domain.KindFiscalYear:       &tableResolver{pool: pool, table: "fiscal_years", idColumn: "fiscal_year_id"},
		domain.KindAccountingPeriod: &tableResolver{pool: pool, table: "accounting_periods", idColumn: "period_id"},
		domain.KindUser:             &tableResolver{pool: pool, table: "users", idColumn: "user_id"},
	}
}
