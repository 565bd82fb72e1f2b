package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fundacct/fundledger/internal/apperrors"
	"github.com/fundacct/fundledger/internal/core/domain"
	portsrepo "github.com/fundacct/fundledger/internal/core/ports/repositories"
	"github.com/fundacct/fundledger/internal/models"
	"github.com/fundacct/fundledger/internal/utils/mapping"
	"github.com/fundacct/fundledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool, schema *SchemaCaps) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool, Schema: schema}}
}

var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

// entrySelect builds the entry header SELECT list. The status marker differs
// across installations (status string, legacy posted boolean, or neither), so
// both shapes scan and ParseEntryStatus canonicalizes them.
func (r *PgxJournalRepository) entrySelect() string {
	entityCol := r.Schema.Column("journal_entries", ColEntryEntity)
	dateCol := r.Schema.Column("journal_entries", ColEntryDate)
	refCol := r.Schema.Column("journal_entries", ColEntryReference)
	typeCol := r.Schema.Column("journal_entries", ColEntryType)
	totalCol := r.Schema.Column("journal_entries", ColEntryTotal)

	targetExpr := "''"
	if targetCol, ok := r.Schema.OptionalColumn("journal_entries", ColEntryTarget); ok {
		targetExpr = "COALESCE(e." + targetCol + ", '')"
	}
	statusExpr := "''"
	if statusCol, ok := r.Schema.OptionalColumn("journal_entries", ColEntryStatus); ok {
		statusExpr = "COALESCE(e." + statusCol + ", '')"
	}
	postedExpr := "NULL::boolean"
	if postedCol, ok := r.Schema.OptionalColumn("journal_entries", ColEntryPosted); ok {
		postedExpr = "e." + postedCol
	}
	modeExpr := "''"
	if modeCol, ok := r.Schema.OptionalColumn("journal_entries", ColEntryMode); ok {
		modeExpr = "COALESCE(e." + modeCol + ", '')"
	}

	return fmt.Sprintf(`
		SELECT e.entry_id, e.%s, %s, e.%s, COALESCE(e.%s, ''), e.%s, %s, %s, %s,
		       COALESCE(e.%s, 0), COALESCE(e.description, ''),
		       e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
		FROM journal_entries e
	`, entityCol, targetExpr, dateCol, refCol, typeCol, statusExpr, postedExpr, modeExpr, totalCol)
}

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var m models.JournalEntry
	var posted *bool
	err := row.Scan(&m.EntryID, &m.EntityCode, &m.TargetEntityCode, &m.EntryDate, &m.ReferenceNumber,
		&m.EntryType, &m.Status, &posted, &m.EntryMode, &m.TotalAmount, &m.Description,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
	}
	m.Status = string(domain.ParseEntryStatus(m.Status, posted))
	d := mapping.ToDomainJournalEntry(m)
	return &d, nil
}

// itemSelect builds the line item SELECT list against resolved column names.
// The classification snapshot scans as '' on installations without the column.
func (r *PgxJournalRepository) itemSelect() string {
	entryCol := r.Schema.Column("journal_entry_items", ColItemEntry)
	accountCol := r.Schema.Column("journal_entry_items", ColItemAccount)
	fundCol := r.Schema.Column("journal_entry_items", ColItemFund)
	debitCol := r.Schema.Column("journal_entry_items", ColItemDebit)
	creditCol := r.Schema.Column("journal_entry_items", ColItemCredit)
	memoCol := r.Schema.Column("journal_entry_items", ColItemMemo)

	classExpr := "''"
	if classCol, ok := r.Schema.OptionalColumn("journal_entry_items", ColItemClassification); ok {
		classExpr = "COALESCE(i." + classCol + ", '')"
	}

	return fmt.Sprintf(`
		SELECT i.item_id, i.%s, i.%s, i.%s, %s, COALESCE(i.%s, 0), COALESCE(i.%s, 0), COALESCE(i.%s, ''),
		       i.created_at, i.created_by, i.last_updated_at, i.last_updated_by
		FROM journal_entry_items i
	`, entryCol, accountCol, fundCol, classExpr, debitCol, creditCol, memoCol)
}

// FindEntryByID retrieves an entry header by id. Lines load separately.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return scanEntry(r.Pool.QueryRow(ctx, r.entrySelect()+` WHERE e.entry_id = $1;`, entryID))
}

// FindLinesByEntryID retrieves all line items of an entry in insertion order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	entryCol := r.Schema.Column("journal_entry_items", ColItemEntry)
	query := r.itemSelect() + fmt.Sprintf(` WHERE i.%s = $1 ORDER BY i.created_at, i.item_id;`, entryCol)

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		var m models.JournalEntryItem
		if err := rows.Scan(&m.ItemID, &m.EntryID, &m.AccountID, &m.FundID, &m.Classification, &m.Debit, &m.Credit, &m.Memo,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, mapping.ToDomainJournalLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}
	return lines, nil
}

// ListEntriesByEntity retrieves entries for an entity newest first, using a
// (entry_date, created_at) cursor token for stable pagination.
func (r *PgxJournalRepository) ListEntriesByEntity(ctx context.Context, entityCode string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	entityCol := r.Schema.Column("journal_entries", ColEntryEntity)
	dateCol := r.Schema.Column("journal_entries", ColEntryDate)

	query := r.entrySelect() + fmt.Sprintf(` WHERE upper(e.%s) = upper($1)`, entityCol)
	args := []interface{}{entityCode}

	if nextToken != nil && *nextToken != "" {
		tokenDate, tokenCreated, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid pagination token: " + err.Error())
		}
		query += fmt.Sprintf(` AND (e.%s, e.created_at) < ($2, $3)`, dateCol)
		args = append(args, tokenDate, tokenCreated)
	}
	query += fmt.Sprintf(` ORDER BY e.%s DESC, e.created_at DESC LIMIT %d;`, dateCol, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for entity "+entityCode, err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		var m models.JournalEntry
		var posted *bool
		if err := rows.Scan(&m.EntryID, &m.EntityCode, &m.TargetEntityCode, &m.EntryDate, &m.ReferenceNumber,
			&m.EntryType, &m.Status, &posted, &m.EntryMode, &m.TotalAmount, &m.Description,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row for entity "+entityCode, err)
		}
		m.Status = string(domain.ParseEntryStatus(m.Status, posted))
		entries = append(entries, mapping.ToDomainJournalEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows for entity "+entityCode, err)
	}

	var outToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		outToken = &token
	}
	return entries, outToken, nil
}

// ReferenceExists reports whether any entry carries the given reference number.
func (r *PgxJournalRepository) ReferenceExists(ctx context.Context, referenceNumber string) (bool, error) {
	if referenceNumber == "" {
		return false, nil
	}
	refCol := r.Schema.Column("journal_entries", ColEntryReference)
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM journal_entries WHERE %s = $1);`, refCol)

	var exists bool
	if err := r.Pool.QueryRow(ctx, query, referenceNumber).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check reference "+referenceNumber, err)
	}
	return exists, nil
}

// SaveEntry inserts the header and all lines and applies the balance deltas in
// one transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, deltas portsrepo.BalanceDeltas) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertHeader(ctx, tx, entry); err != nil {
		return err
	}
	if err := r.insertLines(ctx, tx, entry.EntryID, lines); err != nil {
		return err
	}
	if err := r.applyBalanceDeltas(ctx, tx, deltas, entry.LastUpdatedBy, entry.LastUpdatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// ReplaceEntryLines swaps an entry's lines for a new set. The deltas argument
// already nets the reversal of the old lines against the effect of the new
// ones, so one balance pass inside the transaction keeps the caches exact.
func (r *PgxJournalRepository) ReplaceEntryLines(ctx context.Context, entryID string, newLines []domain.JournalLine, newTotal decimal.Decimal, deltas portsrepo.BalanceDeltas, updatedBy string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	entryCol := r.Schema.Column("journal_entry_items", ColItemEntry)
	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM journal_entry_items WHERE %s = $1;`, entryCol), entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines of entry "+entryID, err)
	}
	if err := r.insertLines(ctx, tx, entryID, newLines); err != nil {
		return err
	}

	totalCol := r.Schema.Column("journal_entries", ColEntryTotal)
	updateQuery := fmt.Sprintf(`
		UPDATE journal_entries
		SET %s = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1;
	`, totalCol)
	cmdTag, err := tx.Exec(ctx, updateQuery, entryID, newTotal, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update total of entry "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("entry " + entryID + " not found for line replacement")
	}

	if err := r.applyBalanceDeltas(ctx, tx, deltas, updatedBy, updatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateEntryStatus writes the entry's new lifecycle state using whichever
// status marker this installation has.
func (r *PgxJournalRepository) UpdateEntryStatus(ctx context.Context, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	return r.updateStatus(ctx, r.Pool, entryID, status, updatedBy, updatedAt)
}

// MarkPosted transitions an entry to Posted and applies its balance deltas in
// the same transaction.
func (r *PgxJournalRepository) MarkPosted(ctx context.Context, entryID string, deltas portsrepo.BalanceDeltas, updatedBy string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.updateStatus(ctx, tx, entryID, domain.Posted, updatedBy, updatedAt); err != nil {
		return err
	}
	if err := r.applyBalanceDeltas(ctx, tx, deltas, updatedBy, updatedAt); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// execer covers the pool and a transaction; status updates run on either.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *PgxJournalRepository) updateStatus(ctx context.Context, db execer, entryID string, status domain.EntryStatus, updatedBy string, updatedAt time.Time) error {
	setClause := ""
	args := []interface{}{entryID, updatedAt, updatedBy}

	if statusCol, ok := r.Schema.OptionalColumn("journal_entries", ColEntryStatus); ok {
		setClause = fmt.Sprintf(", %s = $4", statusCol)
		args = append(args, string(status))
	} else if postedCol, ok := r.Schema.OptionalColumn("journal_entries", ColEntryPosted); ok {
		setClause = fmt.Sprintf(", %s = $4", postedCol)
		args = append(args, status == domain.Posted)
	}

	query := fmt.Sprintf(`
		UPDATE journal_entries
		SET last_updated_at = $2, last_updated_by = $3%s
		WHERE entry_id = $1;
	`, setClause)
	cmdTag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of entry "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("entry " + entryID + " not found for status update")
	}
	return nil
}

// DeleteEntry applies the reversal deltas and removes the entry with its lines
// in one transaction.
func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, entryID string, deltas portsrepo.BalanceDeltas) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.applyBalanceDeltas(ctx, tx, deltas, "", time.Now().UTC()); err != nil {
		return err
	}

	entryCol := r.Schema.Column("journal_entry_items", ColItemEntry)
	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM journal_entry_items WHERE %s = $1;`, entryCol), entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines of entry "+entryID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete entry "+entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("entry " + entryID + " not found for delete")
	}
	return r.Commit(ctx, tx)
}

// insertHeader writes the entry header row, including only the status/mode
// columns the installation actually has.
func (r *PgxJournalRepository) insertHeader(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)

	entityCol := r.Schema.Column("journal_entries", ColEntryEntity)
	dateCol := r.Schema.Column("journal_entries", ColEntryDate)
	refCol := r.Schema.Column("journal_entries", ColEntryReference)
	typeCol := r.Schema.Column("journal_entries", ColEntryType)
	totalCol := r.Schema.Column("journal_entries", ColEntryTotal)

	columns := fmt.Sprintf(`entry_id, %s, %s, %s, %s, %s, description,
		created_at, created_by, last_updated_at, last_updated_by`,
		entityCol, dateCol, refCol, typeCol, totalCol)
	placeholders := "$1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11"
	args := []interface{}{m.EntryID, m.EntityCode, m.EntryDate, m.ReferenceNumber, m.EntryType, m.TotalAmount, m.Description,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy}
	n := len(args)

	if targetCol, ok := r.Schema.OptionalColumn("journal_entries", ColEntryTarget); ok && m.TargetEntityCode != "" {
		n++
		columns += ", " + targetCol
		placeholders += fmt.Sprintf(", $%d", n)
		args = append(args, m.TargetEntityCode)
	}
	if statusCol, ok := r.Schema.OptionalColumn("journal_entries", ColEntryStatus); ok {
		n++
		columns += ", " + statusCol
		placeholders += fmt.Sprintf(", $%d", n)
		args = append(args, m.Status)
	} else if postedCol, ok := r.Schema.OptionalColumn("journal_entries", ColEntryPosted); ok {
		n++
		columns += ", " + postedCol
		placeholders += fmt.Sprintf(", $%d", n)
		args = append(args, entry.Status == domain.Posted)
	}
	if modeCol, ok := r.Schema.OptionalColumn("journal_entries", ColEntryMode); ok {
		n++
		columns += ", " + modeCol
		placeholders += fmt.Sprintf(", $%d", n)
		args = append(args, m.EntryMode)
	}

	query := fmt.Sprintf(`INSERT INTO journal_entries (%s) VALUES (%s);`, columns, placeholders)
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: reference number %s already used", apperrors.ErrDuplicate, m.ReferenceNumber)
		}
		return apperrors.NewAppError(500, "failed to insert entry "+m.EntryID, err)
	}
	return nil
}

// insertLines batches the line inserts for one entry.
func (r *PgxJournalRepository) insertLines(ctx context.Context, tx pgx.Tx, entryID string, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}

	entryCol := r.Schema.Column("journal_entry_items", ColItemEntry)
	accountCol := r.Schema.Column("journal_entry_items", ColItemAccount)
	fundCol := r.Schema.Column("journal_entry_items", ColItemFund)
	debitCol := r.Schema.Column("journal_entry_items", ColItemDebit)
	creditCol := r.Schema.Column("journal_entry_items", ColItemCredit)
	memoCol := r.Schema.Column("journal_entry_items", ColItemMemo)

	columns := fmt.Sprintf(`item_id, %s, %s, %s, %s, %s, %s,
			created_at, created_by, last_updated_at, last_updated_by`,
		entryCol, accountCol, fundCol, debitCol, creditCol, memoCol)
	placeholders := "$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11"
	classCol, hasClass := r.Schema.OptionalColumn("journal_entry_items", ColItemClassification)
	if hasClass {
		columns += ", " + classCol
		placeholders += ", $12"
	}
	query := fmt.Sprintf(`INSERT INTO journal_entry_items (%s) VALUES (%s);`, columns, placeholders)

	batch := &pgx.Batch{}
	for _, line := range lines {
		m := mapping.ToModelJournalEntryItem(line)
		args := []interface{}{m.ItemID, entryID, m.AccountID, m.FundID, m.Debit, m.Credit, m.Memo,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy}
		if hasClass {
			args = append(args, m.Classification)
		}
		batch.Queue(query, args...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines of entry "+entryID, err)
	}
	return nil
}

// applyBalanceDeltas updates the account and fund balance caches inside tx.
// Rows are locked in sorted id order so concurrent postings touching the same
// accounts cannot deadlock. Installations without a cache column skip it.
func (r *PgxJournalRepository) applyBalanceDeltas(ctx context.Context, tx pgx.Tx, deltas portsrepo.BalanceDeltas, updatedBy string, updatedAt time.Time) error {
	if balanceCol, ok := r.Schema.OptionalColumn("accounts", ColAccountBalance); ok && len(deltas.Accounts) > 0 {
		ids := sortedKeys(deltas.Accounts)
		if _, err := tx.Exec(ctx, `SELECT account_id FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE;`, ids); err != nil {
			return apperrors.NewAppError(500, "failed to lock account rows", err)
		}

		query := fmt.Sprintf(`
			UPDATE accounts
			SET %s = COALESCE(%s, 0) + $2, last_updated_at = $3, last_updated_by = $4
			WHERE account_id = $1;
		`, balanceCol, balanceCol)
		batch := &pgx.Batch{}
		for _, id := range ids {
			if deltas.Accounts[id].IsZero() {
				continue
			}
			batch.Queue(query, id, deltas.Accounts[id], updatedAt, updatedBy)
		}
		if batch.Len() > 0 {
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return apperrors.NewAppError(500, "failed to apply account balance deltas", err)
			}
		}
	}

	if balanceCol, ok := r.Schema.OptionalColumn("funds", ColFundBalance); ok && len(deltas.Funds) > 0 {
		ids := sortedKeys(deltas.Funds)
		if _, err := tx.Exec(ctx, `SELECT fund_id FROM funds WHERE fund_id = ANY($1) ORDER BY fund_id FOR UPDATE;`, ids); err != nil {
			return apperrors.NewAppError(500, "failed to lock fund rows", err)
		}

		query := fmt.Sprintf(`
			UPDATE funds
			SET %s = COALESCE(%s, 0) + $2, last_updated_at = $3, last_updated_by = $4
			WHERE fund_id = $1;
		`, balanceCol, balanceCol)
		batch := &pgx.Batch{}
		for _, id := range ids {
			if deltas.Funds[id].IsZero() {
				continue
			}
			batch.Queue(query, id, deltas.Funds[id], updatedAt, updatedBy)
		}
		if batch.Len() > 0 {
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return apperrors.NewAppError(500, "failed to apply fund balance deltas", err)
			}
		}
	}
	return nil
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
