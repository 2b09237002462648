package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zayyadi/paroll-sub000/internal/apperrors"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
	"github.com/zayyadi/paroll-sub000/internal/models"
	"github.com/zayyadi/paroll-sub000/internal/utils/mapping"
)

const fiscalYearColumns = `fiscal_year_id, year, name, start_date, end_date, is_active, is_closed, closed_by, closed_at, created_at, created_by, last_updated_at, last_updated_by`

const periodColumns = `period_id, fiscal_year_id, period_number, name, start_date, end_date, is_closed, closed_by, closed_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxFiscalRepository struct {
	BaseRepository
}

// newPgxFiscalRepository creates a new repository for fiscal calendar data.
func newPgxFiscalRepository(pool *pgxpool.Pool) portsrepo.FiscalRepositoryWithTx {
	return &PgxFiscalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxFiscalRepository implements portsrepo.FiscalRepositoryWithTx
var _ portsrepo.FiscalRepositoryWithTx = (*PgxFiscalRepository)(nil)

func scanFiscalYear(row pgx.Row) (models.FiscalYear, error) {
	var m models.FiscalYear
	err := row.Scan(
		&m.FiscalYearID,
		&m.Year,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.IsActive,
		&m.IsClosed,
		&m.ClosedBy,
		&m.ClosedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanPeriod(row pgx.Row) (models.AccountingPeriod, error) {
	var m models.AccountingPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.FiscalYearID,
		&m.PeriodNumber,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.IsClosed,
		&m.ClosedBy,
		&m.ClosedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveFiscalYear inserts a new fiscal year and its audit events atomically.
func (r *PgxFiscalRepository) SaveFiscalYear(ctx context.Context, year domain.FiscalYear, events []domain.AuditEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelFiscalYear(year)
	query := `
		INSERT INTO fiscal_years (` + fiscalYearColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, query,
		m.FiscalYearID,
		m.Year,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.IsActive,
		m.IsClosed,
		m.ClosedBy,
		m.ClosedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: fiscal year %d already exists", apperrors.ErrDuplicate, m.Year)
		}
		return fmt.Errorf("failed to save fiscal year %s: %w", m.FiscalYearID, err)
	}

	if err := insertOutboxEvents(ctx, tx, events); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SavePeriod inserts a single accounting period and its audit events atomically.
func (r *PgxFiscalRepository) SavePeriod(ctx context.Context, period domain.AccountingPeriod, events []domain.AuditEvent) error {
	return r.SavePeriods(ctx, []domain.AccountingPeriod{period}, events)
}

// SavePeriods inserts a batch of accounting periods and the audit events in
// one transaction; either all periods land or none do.
func (r *PgxFiscalRepository) SavePeriods(ctx context.Context, periods []domain.AccountingPeriod, events []domain.AuditEvent) error {
	if len(periods) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	batch := &pgx.Batch{}
	for _, period := range periods {
		m := mapping.ToModelAccountingPeriod(period)
		batch.Queue(query,
			m.PeriodID,
			m.FiscalYearID,
			m.PeriodNumber,
			m.Name,
			m.StartDate,
			m.EndDate,
			m.IsClosed,
			m.ClosedBy,
			m.ClosedAt,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for _, period := range periods {
		if _, err := results.Exec(); err != nil {
			results.Close()
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: period %d already exists in fiscal year %s", apperrors.ErrDuplicate, period.PeriodNumber, period.FiscalYearID)
			}
			return fmt.Errorf("failed to save period %s: %w", period.PeriodID, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to flush period batch: %w", err)
	}

	if err := insertOutboxEvents(ctx, tx, events); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateFiscalYearClosure persists the year's closure fields, guarded on the
// closed flag the caller observed. Zero affected rows surfaces as a conflict.
func (r *PgxFiscalRepository) UpdateFiscalYearClosure(ctx context.Context, year domain.FiscalYear, expectClosed bool, events []domain.AuditEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelFiscalYear(year)
	query := `
		UPDATE fiscal_years
		SET is_closed = $1, is_active = $2, closed_by = $3, closed_at = $4, last_updated_at = $5, last_updated_by = $6
		WHERE fiscal_year_id = $7 AND is_closed = $8;
	`
	tag, err := tx.Exec(ctx, query,
		m.IsClosed,
		m.IsActive,
		m.ClosedBy,
		m.ClosedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.FiscalYearID,
		expectClosed,
	)
	if err != nil {
		return fmt.Errorf("failed to update closure of fiscal year %s: %w", m.FiscalYearID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: fiscal year %s closure changed concurrently", apperrors.ErrConflict, m.FiscalYearID)
	}

	if err := insertOutboxEvents(ctx, tx, events); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdatePeriodClosure persists the period's closure fields, guarded on the
// closed flag the caller observed.
func (r *PgxFiscalRepository) UpdatePeriodClosure(ctx context.Context, period domain.AccountingPeriod, expectClosed bool, events []domain.AuditEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelAccountingPeriod(period)
	query := `
		UPDATE accounting_periods
		SET is_closed = $1, closed_by = $2, closed_at = $3, last_updated_at = $4, last_updated_by = $5
		WHERE period_id = $6 AND is_closed = $7;
	`
	tag, err := tx.Exec(ctx, query,
		m.IsClosed,
		m.ClosedBy,
		m.ClosedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.PeriodID,
		expectClosed,
	)
	if err != nil {
		return fmt.Errorf("failed to update closure of period %s: %w", m.PeriodID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: period %s closure changed concurrently", apperrors.ErrConflict, m.PeriodID)
	}

	if err := insertOutboxEvents(ctx, tx, events); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindFiscalYearByID retrieves a fiscal year by its ID.
func (r *PgxFiscalRepository) FindFiscalYearByID(ctx context.Context, fiscalYearID string) (*domain.FiscalYear, error) {
	query := `
		SELECT ` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE fiscal_year_id = $1;
	`
	m, err := scanFiscalYear(r.Pool.QueryRow(ctx, query, fiscalYearID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal year by ID %s: %w", fiscalYearID, err)
	}
	domainYear := mapping.ToDomainFiscalYear(m)
	return &domainYear, nil
}

// FindFiscalYearByYear retrieves a fiscal year by its year label.
func (r *PgxFiscalRepository) FindFiscalYearByYear(ctx context.Context, year int) (*domain.FiscalYear, error) {
	query := `
		SELECT ` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE year = $1;
	`
	m, err := scanFiscalYear(r.Pool.QueryRow(ctx, query, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal year %d: %w", year, err)
	}
	domainYear := mapping.ToDomainFiscalYear(m)
	return &domainYear, nil
}

// FindFiscalYearForDate retrieves the fiscal year whose range contains the
// date. Year ranges never overlap, so at most one row matches.
func (r *PgxFiscalRepository) FindFiscalYearForDate(ctx context.Context, date time.Time) (*domain.FiscalYear, error) {
	query := `
		SELECT ` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE start_date <= $1 AND end_date >= $1;
	`
	m, err := scanFiscalYear(r.Pool.QueryRow(ctx, query, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal year for date %s: %w", date.Format("2006-01-02"), err)
	}
	domainYear := mapping.ToDomainFiscalYear(m)
	return &domainYear, nil
}

// FindOverlappingYears retrieves fiscal years whose range intersects
// [start, end], excluding excludeID when non-nil.
func (r *PgxFiscalRepository) FindOverlappingYears(ctx context.Context, start, end time.Time, excludeID *string) ([]domain.FiscalYear, error) {
	query := `
		SELECT ` + fiscalYearColumns + `
		FROM fiscal_years
		WHERE start_date <= $2 AND end_date >= $1
	`
	args := []interface{}{start, end}
	if excludeID != nil {
		query += ` AND fiscal_year_id <> $3`
		args = append(args, *excludeID)
	}
	query += ` ORDER BY year;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping fiscal years: %w", err)
	}
	defer rows.Close()

	years := []models.FiscalYear{}
	for rows.Next() {
		m, err := scanFiscalYear(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal year row: %w", err)
		}
		years = append(years, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fiscal year rows: %w", err)
	}
	return mapping.ToDomainFiscalYearSlice(years), nil
}

// ListFiscalYears retrieves all fiscal years ordered by year.
func (r *PgxFiscalRepository) ListFiscalYears(ctx context.Context) ([]domain.FiscalYear, error) {
	query := `
		SELECT ` + fiscalYearColumns + `
		FROM fiscal_years
		ORDER BY year;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list fiscal years: %w", err)
	}
	defer rows.Close()

	years := []models.FiscalYear{}
	for rows.Next() {
		m, err := scanFiscalYear(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal year row: %w", err)
		}
		years = append(years, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fiscal year rows: %w", err)
	}
	return mapping.ToDomainFiscalYearSlice(years), nil
}

// CountOpenPeriods counts child periods of a fiscal year not yet closed.
func (r *PgxFiscalRepository) CountOpenPeriods(ctx context.Context, fiscalYearID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM accounting_periods
		WHERE fiscal_year_id = $1 AND is_closed = FALSE;
	`
	var count int
	if err := r.Pool.QueryRow(ctx, query, fiscalYearID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count open periods of fiscal year %s: %w", fiscalYearID, err)
	}
	return count, nil
}

// FindPeriodByID retrieves an accounting period by its ID.
func (r *PgxFiscalRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE period_id = $1;
	`
	m, err := scanPeriod(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period by ID %s: %w", periodID, err)
	}
	domainPeriod := mapping.ToDomainAccountingPeriod(m)
	return &domainPeriod, nil
}

// FindPeriodByNumber retrieves a period by its number within a fiscal year.
func (r *PgxFiscalRepository) FindPeriodByNumber(ctx context.Context, fiscalYearID string, periodNumber int) (*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE fiscal_year_id = $1 AND period_number = $2;
	`
	m, err := scanPeriod(r.Pool.QueryRow(ctx, query, fiscalYearID, periodNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period %d of fiscal year %s: %w", periodNumber, fiscalYearID, err)
	}
	domainPeriod := mapping.ToDomainAccountingPeriod(m)
	return &domainPeriod, nil
}

// FindPeriodForDate retrieves the period of a fiscal year containing the
// date. Sibling ranges never overlap, so at most one row matches.
func (r *PgxFiscalRepository) FindPeriodForDate(ctx context.Context, fiscalYearID string, date time.Time) (*domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE fiscal_year_id = $1 AND start_date <= $2 AND end_date >= $2;
	`
	m, err := scanPeriod(r.Pool.QueryRow(ctx, query, fiscalYearID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period for date %s in fiscal year %s: %w", date.Format("2006-01-02"), fiscalYearID, err)
	}
	domainPeriod := mapping.ToDomainAccountingPeriod(m)
	return &domainPeriod, nil
}

// ListPeriods retrieves all periods of a fiscal year ordered by period number.
func (r *PgxFiscalRepository) ListPeriods(ctx context.Context, fiscalYearID string) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE fiscal_year_id = $1
		ORDER BY period_number;
	`
	rows, err := r.Pool.Query(ctx, query, fiscalYearID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods of fiscal year %s: %w", fiscalYearID, err)
	}
	defer rows.Close()

	periods := []models.AccountingPeriod{}
	for rows.Next() {
		m, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		periods = append(periods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period rows: %w", err)
	}
	return mapping.ToDomainAccountingPeriodSlice(periods), nil
}
