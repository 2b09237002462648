package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zayyadi/paroll-sub000/internal/apperrors"
	"github.com/zayyadi/paroll-sub000/internal/core/domain"
	portsrepo "github.com/zayyadi/paroll-sub000/internal/core/ports/repositories"
	"github.com/zayyadi/paroll-sub000/internal/models"
	"github.com/zayyadi/paroll-sub000/internal/utils/mapping"
	"github.com/zayyadi/paroll-sub000/internal/utils/pagination"
)

const journalColumns = `journal_id, transaction_number, journal_date, description, fiscal_year_id, period_id, status,
	       source_kind, source_id, reversed_journal_id, reversing_journal_id, reversal_reason,
	       approved_by, approved_at, posted_by, posted_at,
	       created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `entry_id, journal_id, account_id, entry_type, amount, memo, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal and entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

func scanJournal(row pgx.Row) (models.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.TransactionNumber,
		&m.JournalDate,
		&m.Description,
		&m.FiscalYearID,
		&m.PeriodID,
		&m.Status,
		&m.SourceKind,
		&m.SourceID,
		&m.ReversedJournalID,
		&m.ReversingJournalID,
		&m.ReversalReason,
		&m.ApprovedBy,
		&m.ApprovedAt,
		&m.PostedBy,
		&m.PostedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.JournalID,
		&m.AccountID,
		&m.EntryType,
		&m.Amount,
		&m.Memo,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// insertJournalTx inserts a journal header row inside the given transaction.
func insertJournalTx(ctx context.Context, tx pgx.Tx, journal domain.Journal) error {
	m := mapping.ToModelJournal(journal)
	query := `
		INSERT INTO journals (
			journal_id, transaction_number, journal_date, description, fiscal_year_id, period_id, status,
			source_kind, source_id, reversed_journal_id, reversing_journal_id, reversal_reason,
			approved_by, approved_at, posted_by, posted_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := tx.Exec(ctx, query,
		m.JournalID,
		m.TransactionNumber,
		m.JournalDate,
		m.Description,
		m.FiscalYearID,
		m.PeriodID,
		m.Status,
		m.SourceKind,
		m.SourceID,
		m.ReversedJournalID,
		m.ReversingJournalID,
		m.ReversalReason,
		m.ApprovedBy,
		m.ApprovedAt,
		m.PostedBy,
		m.PostedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: journal %s or transaction number %s already exists", apperrors.ErrDuplicate, m.JournalID, m.TransactionNumber)
		}
		return apperrors.NewAppError(500, "failed to insert journal "+m.JournalID, err)
	}
	return nil
}

// insertEntriesTx batch-inserts entry rows inside the given transaction.
func insertEntriesTx(ctx context.Context, tx pgx.Tx, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, entry := range entries {
		m := mapping.ToModelJournalEntry(entry)
		batch.Queue(query,
			m.EntryID,
			m.JournalID,
			m.AccountID,
			m.EntryType,
			m.Amount,
			m.Memo,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for _, entry := range entries {
		if _, err := results.Exec(); err != nil {
			return apperrors.NewAppError(500, "failed to insert journal entry "+entry.EntryID, err)
		}
	}
	return nil
}

// SaveJournal persists a journal, its entries and the accompanying audit
// events in one database transaction.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, entries []domain.JournalEntry, events []domain.AuditEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertJournalTx(ctx, tx, journal); err != nil {
		return err
	}
	if err := insertEntriesTx(ctx, tx, entries); err != nil {
		return err
	}
	if err := insertOutboxEvents(ctx, tx, events); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// AddEntry appends one entry to a journal that is still in DRAFT. The journal
// row is locked for the duration of the transaction so a concurrent status
// transition cannot slip in between the check and the insert.
func (r *PgxJournalRepository) AddEntry(ctx context.Context, journalID string, entry domain.JournalEntry, events []domain.AuditEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM journals WHERE journal_id = $1 FOR UPDATE;`, journalID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock journal "+journalID, err)
	}
	if status != string(domain.Draft) {
		return fmt.Errorf("%w: journal %s is %s, entries can only be added while DRAFT", apperrors.ErrConflict, journalID, status)
	}

	if err := insertEntriesTx(ctx, tx, []domain.JournalEntry{entry}); err != nil {
		return err
	}

	touch := `UPDATE journals SET last_updated_at = $1, last_updated_by = $2 WHERE journal_id = $3;`
	if _, err := tx.Exec(ctx, touch, entry.LastUpdatedAt, entry.LastUpdatedBy, journalID); err != nil {
		return apperrors.NewAppError(500, "failed to touch journal "+journalID, err)
	}

	if err := insertOutboxEvents(ctx, tx, events); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateJournalStatus persists the journal's status, stamps and reversal
// links, guarded by the status the caller observed. Zero affected rows means
// another writer got there first and surfaces as a conflict.
func (r *PgxJournalRepository) UpdateJournalStatus(ctx context.Context, journal domain.Journal, expected domain.JournalStatus, events []domain.AuditEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelJournal(journal)
	query := `
		UPDATE journals
		SET status = $1, reversed_journal_id = $2, reversing_journal_id = $3, reversal_reason = $4,
		    approved_by = $5, approved_at = $6, posted_by = $7, posted_at = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE journal_id = $11 AND status = $12;
	`
	tag, err := tx.Exec(ctx, query,
		m.Status,
		m.ReversedJournalID,
		m.ReversingJournalID,
		m.ReversalReason,
		m.ApprovedBy,
		m.ApprovedAt,
		m.PostedBy,
		m.PostedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.JournalID,
		string(expected),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update journal status "+m.JournalID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal %s is no longer %s", apperrors.ErrConflict, m.JournalID, expected)
	}

	if err := insertOutboxEvents(ctx, tx, events); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveReversal persists a reversal journal with its entries and, for full
// reversals, flips the original journal to REVERSED in the same transaction.
// The original update is guarded on the journal still being POSTED so the
// same journal can never be fully reversed twice.
func (r *PgxJournalRepository) SaveReversal(ctx context.Context, reversal domain.Journal, entries []domain.JournalEntry, original *domain.Journal, events []domain.AuditEvent) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertJournalTx(ctx, tx, reversal); err != nil {
		return err
	}
	if err := insertEntriesTx(ctx, tx, entries); err != nil {
		return err
	}

	if original != nil {
		m := mapping.ToModelJournal(*original)
		query := `
			UPDATE journals
			SET status = $1, reversing_journal_id = $2, reversal_reason = $3, last_updated_at = $4, last_updated_by = $5
			WHERE journal_id = $6 AND status = $7;
		`
		tag, err := tx.Exec(ctx, query,
			m.Status,
			m.ReversingJournalID,
			m.ReversalReason,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
			m.JournalID,
			string(domain.Posted),
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark journal "+m.JournalID+" reversed", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: journal %s is no longer POSTED", apperrors.ErrConflict, m.JournalID)
		}
	}

	if err := insertOutboxEvents(ctx, tx, events); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindJournalByID retrieves a single journal header by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM journals
		WHERE journal_id = $1;
	`
	m, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by ID "+journalID, err)
	}
	domainJournal := mapping.ToDomainJournal(m)
	return &domainJournal, nil
}

// FindJournalByTransactionNumber retrieves a journal by its human-readable
// number. Numbers restart per fiscal year, so when the same number exists in
// several years the most recently created journal wins.
func (r *PgxJournalRepository) FindJournalByTransactionNumber(ctx context.Context, transactionNumber string) (*domain.Journal, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM journals
		WHERE transaction_number = $1
		ORDER BY created_at DESC
		LIMIT 1;
	`
	m, err := scanJournal(r.Pool.QueryRow(ctx, query, transactionNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by transaction number "+transactionNumber, err)
	}
	domainJournal := mapping.ToDomainJournal(m)
	return &domainJournal, nil
}

// ListJournals retrieves a filtered page of journals using token-based
// pagination ordered by journal date descending, creation time as tie-break.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, filter portsrepo.JournalFilter, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether a next page exists.
	fetchLimit := limit + 1

	conditions := []string{}
	args := []interface{}{}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.PeriodID != nil {
		args = append(args, *filter.PeriodID)
		conditions = append(conditions, "period_id = $"+strconv.Itoa(len(args)))
	}
	if filter.SourceKind != nil {
		args = append(args, string(*filter.SourceKind))
		conditions = append(conditions, "source_kind = $"+strconv.Itoa(len(args)))
	}
	if filter.SourceID != nil {
		args = append(args, *filter.SourceID)
		conditions = append(conditions, "source_id = $"+strconv.Itoa(len(args)))
	}

	if nextToken != nil && *nextToken != "" {
		lastJournalDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastJournalDate, lastCreatedAt)
		// Tuple comparison keeps the cursor stable under equal journal dates.
		conditions = append(conditions, "(journal_date, created_at) < ($"+strconv.Itoa(len(args)-1)+", $"+strconv.Itoa(len(args))+")")
	}

	query := `SELECT ` + journalColumns + ` FROM journals`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, fetchLimit)
	query += " ORDER BY journal_date DESC, created_at DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list journals", err)
	}
	defer rows.Close()

	journals := []models.Journal{}
	for rows.Next() {
		m, err := scanJournal(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal row", err)
		}
		journals = append(journals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal rows", err)
	}

	var newNextToken *string
	if len(journals) == fetchLimit {
		journals = journals[:limit]
		last := journals[len(journals)-1]
		token := pagination.EncodeToken(last.JournalDate, last.CreatedAt)
		newNextToken = &token
	}
	return mapping.ToDomainJournalSlice(journals), newNextToken, nil
}

// FindEntriesByJournalID retrieves all entries of a single journal in creation order.
func (r *PgxJournalRepository) FindEntriesByJournalID(ctx context.Context, journalID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE journal_id = $1
		ORDER BY created_at, entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries for journal "+journalID, err)
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row for journal "+journalID, err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entry rows for journal "+journalID, err)
	}
	return mapping.ToDomainJournalEntrySlice(entries), nil
}

// FindEntriesByJournalIDs retrieves entries for multiple journals, grouped by journal ID.
func (r *PgxJournalRepository) FindEntriesByJournalIDs(ctx context.Context, journalIDs []string) (map[string][]domain.JournalEntry, error) {
	if len(journalIDs) == 0 {
		return map[string][]domain.JournalEntry{}, nil
	}

	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE journal_id = ANY($1)
		ORDER BY journal_id, created_at, entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, journalIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries for journals", err)
	}
	defer rows.Close()

	grouped := make(map[string][]domain.JournalEntry, len(journalIDs))
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row", err)
		}
		grouped[m.JournalID] = append(grouped[m.JournalID], mapping.ToDomainJournalEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entry rows", err)
	}
	return grouped, nil
}
