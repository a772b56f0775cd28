package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/salonledger/finance_posting_app/internal/apperrors"
	"github.com/salonledger/finance_posting_app/internal/core/domain"
	portsrepo "github.com/salonledger/finance_posting_app/internal/core/ports/repositories"
	"github.com/salonledger/finance_posting_app/internal/models"
	"github.com/salonledger/finance_posting_app/internal/utils/mapping"
	"github.com/salonledger/finance_posting_app/internal/utils/pagination"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries in
// the universal transaction store.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// SaveEntry persists a journal entry header and its lines atomically.
// The posting period row is locked and its status re-checked inside the
// same transaction, so a close that committed after the service-level
// gate cannot be overtaken by this write.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	return r.writeEntry(ctx, entry, true)
}

// SaveClosingEntry persists a year-end closing journal. It skips the
// closed-period gate: the closing entry is written into an already
// closed period by design of the year-end process.
func (r *PgxJournalRepository) SaveClosingEntry(ctx context.Context, entry domain.JournalEntry) error {
	return r.writeEntry(ctx, entry, false)
}

func (r *PgxJournalRepository) writeEntry(ctx context.Context, entry domain.JournalEntry, gatePeriod bool) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if gatePeriod {
		if err := r.checkPeriodOpen(ctx, tx, entry.OrganizationID, entry.PeriodCode); err != nil {
			return err
		}
	}

	if entry.CorrelationID != nil {
		var exists bool
		dupQuery := `
			SELECT EXISTS (
				SELECT 1 FROM universal_transactions
				WHERE organization_id = $1 AND correlation_id = $2
			);
		`
		if err := tx.QueryRow(ctx, dupQuery, entry.OrganizationID, *entry.CorrelationID).Scan(&exists); err != nil {
			return apperrors.NewAppError(500, "failed to check correlation id "+*entry.CorrelationID, err)
		}
		if exists {
			return apperrors.ErrDuplicate
		}
	}

	header := mapping.ToTransactionRow(entry)
	headerQuery := `
		INSERT INTO universal_transactions (
			transaction_id, journal_entry_id, organization_id, category,
			transaction_date, currency_code, period_code, smart_code,
			origin_smart_code, correlation_id, total_debits, total_credits,
			is_balanced, created_at, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, headerQuery,
		header.TransactionID,
		header.JournalEntryID,
		header.OrganizationID,
		header.Category,
		header.TransactionDate,
		header.CurrencyCode,
		header.PeriodCode,
		header.SmartCode,
		header.OriginSmartCode,
		header.CorrelationID,
		header.TotalDebits,
		header.TotalCredits,
		header.IsBalanced,
		header.CreatedAt,
		header.CreatedBy,
	)
	if err != nil {
		// A concurrent write for the same correlation id hits the partial
		// unique index on (organization_id, correlation_id).
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert journal entry "+header.JournalEntryID, err)
	}

	lines := make([]domain.PostingLine, len(entry.Lines))
	copy(lines, entry.Lines)
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].LineNumber < lines[j].LineNumber
	})

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO universal_transaction_lines (
			line_id, transaction_id, line_number, account_code, account_name,
			debit_amount, credit_amount, description, smart_code,
			entity_id, cost_center_id, department_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, line := range lines {
		lineRow := mapping.ToTransactionLineRow(entry.TransactionID, uuid.NewString(), line)
		batch.Queue(lineQuery,
			lineRow.LineID,
			lineRow.TransactionID,
			lineRow.LineNumber,
			lineRow.AccountCode,
			lineRow.AccountName,
			lineRow.DebitAmount,
			lineRow.CreditAmount,
			lineRow.Description,
			lineRow.SmartCode,
			lineRow.EntityID,
			lineRow.CostCenterID,
			lineRow.DepartmentID,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for journal entry "+header.JournalEntryID, err)
	}

	return r.Commit(ctx, tx)
}

// checkPeriodOpen locks the period entity row and verifies the period
// still accepts postings. The row lock is held until commit, serializing
// this write against a concurrent ClosePeriod.
func (r *PgxJournalRepository) checkPeriodOpen(ctx context.Context, tx pgx.Tx, organizationID, periodCode string) error {
	row, err := findEntity(ctx, tx, organizationID, models.EntityTypeFiscalPeriod, periodCode, true)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewAppError(500, "posting period "+periodCode+" does not exist", nil)
		}
		return err
	}
	state, err := getDynamicData(ctx, tx, row.EntityID, models.FieldPeriodState)
	if err != nil {
		return err
	}
	var period domain.FiscalPeriod
	if err := json.Unmarshal(state, &period); err != nil {
		return apperrors.NewAppError(500, "failed to decode fiscal period state for entity "+row.EntityID, err)
	}
	if period.Status == domain.PeriodClosed || period.Status == domain.PeriodClosing {
		return apperrors.ErrConflict
	}
	return nil
}

// FindEntryByID retrieves a journal entry header with its lines in
// ascending line-number order.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, organizationID, journalEntryID string) (*domain.JournalEntry, error) {
	query := headerSelect + ` WHERE organization_id = $1 AND journal_entry_id = $2;`
	return r.findEntry(ctx, query, organizationID, journalEntryID)
}

// FindEntryByCorrelationID retrieves the journal entry previously written
// for a correlation id, if any.
func (r *PgxJournalRepository) FindEntryByCorrelationID(ctx context.Context, organizationID, correlationID string) (*domain.JournalEntry, error) {
	query := headerSelect + ` WHERE organization_id = $1 AND correlation_id = $2;`
	return r.findEntry(ctx, query, organizationID, correlationID)
}

const headerSelect = `
	SELECT transaction_id, journal_entry_id, organization_id, category,
	       transaction_date, currency_code, period_code, origin_smart_code,
	       correlation_id, total_debits, total_credits, is_balanced,
	       created_at, created_by
	FROM universal_transactions`

func (r *PgxJournalRepository) findEntry(ctx context.Context, query string, args ...any) (*domain.JournalEntry, error) {
	var header models.TransactionRow
	err := r.Pool.QueryRow(ctx, query, args...).Scan(
		&header.TransactionID,
		&header.JournalEntryID,
		&header.OrganizationID,
		&header.Category,
		&header.TransactionDate,
		&header.CurrencyCode,
		&header.PeriodCode,
		&header.OriginSmartCode,
		&header.CorrelationID,
		&header.TotalDebits,
		&header.TotalCredits,
		&header.IsBalanced,
		&header.CreatedAt,
		&header.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry", err)
	}

	lineQuery := `
		SELECT line_id, transaction_id, line_number, account_code, account_name,
		       debit_amount, credit_amount, description, smart_code,
		       entity_id, cost_center_id, department_id
		FROM universal_transaction_lines
		WHERE transaction_id = $1
		ORDER BY line_number;
	`
	rows, err := r.Pool.Query(ctx, lineQuery, header.TransactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for transaction "+header.TransactionID, err)
	}
	defer rows.Close()

	lineRows := []models.TransactionLineRow{}
	for rows.Next() {
		var l models.TransactionLineRow
		err := rows.Scan(
			&l.LineID,
			&l.TransactionID,
			&l.LineNumber,
			&l.AccountCode,
			&l.AccountName,
			&l.DebitAmount,
			&l.CreditAmount,
			&l.Description,
			&l.SmartCode,
			&l.EntityID,
			&l.CostCenterID,
			&l.DepartmentID,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for transaction "+header.TransactionID, err)
		}
		lineRows = append(lineRows, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for transaction "+header.TransactionID, err)
	}

	entry := mapping.ToDomainJournalEntry(header, lineRows)
	return &entry, nil
}

// ListEntries retrieves a paginated list of journal entry headers for an
// organization using token-based pagination, newest first. It returns
// the entries (without lines), a token for the next page, and an error.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to decide whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := headerSelect + `
	WHERE organization_id = $1`
	// Ordering must be stable across pages; created_at breaks date ties.
	orderByClause := `ORDER BY transaction_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []any{organizationID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `AND (transaction_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries for organization "+organizationID, err)
	}
	defer rows.Close()

	headers := make([]models.TransactionRow, 0, fetchLimit)
	for rows.Next() {
		var h models.TransactionRow
		scanErr := rows.Scan(
			&h.TransactionID,
			&h.JournalEntryID,
			&h.OrganizationID,
			&h.Category,
			&h.TransactionDate,
			&h.CurrencyCode,
			&h.PeriodCode,
			&h.OriginSmartCode,
			&h.CorrelationID,
			&h.TotalDebits,
			&h.TotalCredits,
			&h.IsBalanced,
			&h.CreatedAt,
			&h.CreatedBy,
		)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry row", scanErr)
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}

	var nextTokenVal *string
	results := headers
	if len(headers) > limit {
		last := headers[limit-1]
		token := pagination.EncodeToken(last.TransactionDate, last.CreatedAt)
		nextTokenVal = &token
		results = headers[:limit]
	}

	entries := make([]domain.JournalEntry, len(results))
	for i, h := range results {
		entries[i] = mapping.ToDomainJournalEntry(h, nil)
	}
	return entries, nextTokenVal, nil
}

// SumAccountActivity aggregates debit/credit totals per account code over
// the given date range, restricted to the provided accounts.
func (r *PgxJournalRepository) SumAccountActivity(ctx context.Context, organizationID string, from, to time.Time, accountCodes []string) ([]portsrepo.AccountActivity, error) {
	if len(accountCodes) == 0 {
		return []portsrepo.AccountActivity{}, nil
	}

	query := `
		SELECT l.account_code,
		       COALESCE(SUM(l.debit_amount), 0) AS total_debits,
		       COALESCE(SUM(l.credit_amount), 0) AS total_credits
		FROM universal_transaction_lines l
		JOIN universal_transactions t ON t.transaction_id = l.transaction_id
		WHERE t.organization_id = $1
		  AND t.transaction_date >= $2 AND t.transaction_date <= $3
		  AND l.account_code = ANY($4)
		GROUP BY l.account_code
		ORDER BY l.account_code;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, from, to, accountCodes)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to aggregate account activity for organization "+organizationID, err)
	}
	defer rows.Close()

	activity := []portsrepo.AccountActivity{}
	for rows.Next() {
		var a portsrepo.AccountActivity
		if err := rows.Scan(&a.AccountCode, &a.TotalDebits, &a.TotalCredits); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account activity row", err)
		}
		activity = append(activity, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account activity rows", err)
	}
	return activity, nil
}
