package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fundacct/fundledger/internal/apperrors"
	"github.com/fundacct/fundledger/internal/core/domain"
	portsrepo "github.com/fundacct/fundledger/internal/core/ports/repositories"
	"github.com/fundacct/fundledger/internal/models"
	"github.com/fundacct/fundledger/internal/utils/codes"
	"github.com/fundacct/fundledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool, schema *SchemaCaps) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool, Schema: schema}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// accountSelect builds the account SELECT list against this installation's
// resolved column names. Optional columns scan as typed zero values.
func (r *PgxAccountRepository) accountSelect() string {
	codeCol := r.Schema.Column("accounts", ColAccountCode)
	classCol := r.Schema.Column("accounts", ColAccountClassification)

	legacyExpr := "''"
	if legacyCol, ok := r.Schema.OptionalColumn("accounts", ColAccountLegacy); ok {
		legacyExpr = "COALESCE(a." + legacyCol + ", '')"
	}
	statusExpr := "'ACTIVE'"
	if statusCol, ok := r.Schema.OptionalColumn("accounts", ColAccountStatus); ok {
		statusExpr = "COALESCE(a." + statusCol + ", 'ACTIVE')"
	}
	balanceExpr := "0::numeric"
	if balanceCol, ok := r.Schema.OptionalColumn("accounts", ColAccountBalance); ok {
		balanceExpr = "COALESCE(a." + balanceCol + ", 0)"
	}
	lastUsedExpr := "NULL::timestamptz"
	if lastUsedCol, ok := r.Schema.OptionalColumn("accounts", ColAccountLastUsed); ok {
		lastUsedExpr = "a." + lastUsedCol
	}

	return fmt.Sprintf(`
		SELECT a.account_id, a.entity_code, a.gl_code, a.fund_number, a.restriction,
		       a.%s, %s, a.%s, COALESCE(a.description, ''), %s, a.balance_sheet,
		       COALESCE(a.beginning_balance, 0), a.beginning_balance_date, %s, %s,
		       a.created_at, a.created_by, a.last_updated_at, a.last_updated_by
		FROM accounts a
	`, codeCol, legacyExpr, classCol, statusExpr, balanceExpr, lastUsedExpr)
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(&m.AccountID, &m.EntityCode, &m.GLCode, &m.FundNumber, &m.Restriction,
		&m.AccountCode, &m.LegacyCode, &m.Classification, &m.Description, &m.Status, &m.BalanceSheet,
		&m.BeginningBalance, &m.BeginningBalanceDate, &m.CurrentBalance, &m.LastUsed,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan account row", err)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

func (r *PgxAccountRepository) collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()
	var accounts []domain.Account
	for rows.Next() {
		var m models.Account
		if err := rows.Scan(&m.AccountID, &m.EntityCode, &m.GLCode, &m.FundNumber, &m.Restriction,
			&m.AccountCode, &m.LegacyCode, &m.Classification, &m.Description, &m.Status, &m.BalanceSheet,
			&m.BeginningBalance, &m.BeginningBalanceDate, &m.CurrentBalance, &m.LastUsed,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return accounts, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return scanAccount(r.Pool.QueryRow(ctx, r.accountSelect()+` WHERE a.account_id = $1;`, accountID))
}

// FindAccountByCanonicalCode retrieves the account whose code canonicalizes to
// the given value. The caller canonicalizes; the comparison strips punctuation
// and case on the stored side too.
func (r *PgxAccountRepository) FindAccountByCanonicalCode(ctx context.Context, canonicalCode string) (*domain.Account, error) {
	codeCol := r.Schema.Column("accounts", ColAccountCode)
	query := r.accountSelect() + fmt.Sprintf(
		` WHERE lower(regexp_replace(a.%s, '[^a-zA-Z0-9]', '', 'g')) = $1;`, codeCol)
	return scanAccount(r.Pool.QueryRow(ctx, query, canonicalCode))
}

// ResolveAccount resolves a raw reference to an account, trying in order:
// exact id, canonical composite-code match, legacy alias-column match.
func (r *PgxAccountRepository) ResolveAccount(ctx context.Context, rawRef string) (*domain.Account, error) {
	account, err := r.FindAccountByID(ctx, rawRef)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	canonical := codes.Canonicalize(rawRef)
	account, err = r.FindAccountByCanonicalCode(ctx, canonical)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if legacyCol, ok := r.Schema.OptionalColumn("accounts", ColAccountLegacy); ok {
		query := r.accountSelect() + fmt.Sprintf(
			` WHERE lower(regexp_replace(COALESCE(a.%s, ''), '[^a-zA-Z0-9]', '', 'g')) = $1;`, legacyCol)
		account, err = scanAccount(r.Pool.QueryRow(ctx, query, canonical))
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: account %q", apperrors.ErrNotFound, rawRef)
}

// FindAccountsByIDs retrieves accounts for the given ids, keyed by id.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	rows, err := r.Pool.Query(ctx, r.accountSelect()+` WHERE a.account_id = ANY($1);`, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts by ids", err)
	}
	accounts, err := r.collectAccounts(rows)
	if err != nil {
		return nil, err
	}
	result := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		result[acc.AccountID] = acc
	}
	return result, nil
}

// ListAccounts retrieves accounts for an entity, ordered by account code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, entityCode string, limit, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 100
	}
	codeCol := r.Schema.Column("accounts", ColAccountCode)
	query := r.accountSelect() + fmt.Sprintf(
		` WHERE upper(a.entity_code) = upper($1) ORDER BY a.%s LIMIT $2 OFFSET $3;`, codeCol)
	rows, err := r.Pool.Query(ctx, query, entityCode, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts for entity "+entityCode, err)
	}
	return r.collectAccounts(rows)
}

// FindGLCodes loads the GL-code lookup table keyed by code. Installations
// without the table get an empty map; classification then must come from the
// CSV rows themselves.
func (r *PgxAccountRepository) FindGLCodes(ctx context.Context) (map[string]domain.Classification, error) {
	result := make(map[string]domain.Classification)
	if !r.Schema.HasTable("gl_codes") {
		return result, nil
	}

	rows, err := r.Pool.Query(ctx, `SELECT gl_code, classification FROM gl_codes;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query gl_codes", err)
	}
	defer rows.Close()

	for rows.Next() {
		var code, raw string
		if err := rows.Scan(&code, &raw); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan gl_code row", err)
		}
		if classification, ok := domain.ParseClassification(raw); ok {
			result[code] = classification
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating gl_code rows", err)
	}
	return result, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := r.UpsertAccountInTx(ctx, tx, account); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpsertAccountInTx inserts the account or updates the existing row with the
// same canonical code, inside the supplied transaction. Returns true when a
// new row was inserted. Used by the CSV import commit phase so the whole file
// commits or rolls back together.
func (r *PgxAccountRepository) UpsertAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) (bool, error) {
	m := mapping.ToModelAccount(account)
	codeCol := r.Schema.Column("accounts", ColAccountCode)
	classCol := r.Schema.Column("accounts", ColAccountClassification)

	var existingID string
	findQuery := fmt.Sprintf(
		`SELECT account_id FROM accounts WHERE lower(regexp_replace(%s, '[^a-zA-Z0-9]', '', 'g')) = $1 FOR UPDATE;`, codeCol)
	err := tx.QueryRow(ctx, findQuery, codes.Canonicalize(m.AccountCode)).Scan(&existingID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return false, apperrors.NewAppError(500, "failed to look up account code "+m.AccountCode, err)
	}

	if existingID != "" {
		setClauses := fmt.Sprintf(`entity_code = $2, gl_code = $3, fund_number = $4, restriction = $5, %s = $6,
			description = $7, balance_sheet = $8, beginning_balance = $9, beginning_balance_date = $10,
			last_updated_at = $11, last_updated_by = $12`, classCol)
		args := []interface{}{existingID, m.EntityCode, m.GLCode, m.FundNumber, m.Restriction, m.Classification,
			m.Description, m.BalanceSheet, m.BeginningBalance, m.BeginningBalanceDate,
			m.LastUpdatedAt, m.LastUpdatedBy}
		n := len(args)
		if statusCol, ok := r.Schema.OptionalColumn("accounts", ColAccountStatus); ok {
			n++
			setClauses += fmt.Sprintf(", %s = $%d", statusCol, n)
			args = append(args, m.Status)
		}
		if lastUsedCol, ok := r.Schema.OptionalColumn("accounts", ColAccountLastUsed); ok {
			n++
			setClauses += fmt.Sprintf(", %s = $%d", lastUsedCol, n)
			args = append(args, m.LastUsed)
		}
		updateQuery := fmt.Sprintf(`UPDATE accounts SET %s WHERE account_id = $1;`, setClauses)
		if _, err := tx.Exec(ctx, updateQuery, args...); err != nil {
			return false, apperrors.NewAppError(500, "failed to update account "+m.AccountCode, err)
		}
		return false, nil
	}

	columns := fmt.Sprintf(`account_id, entity_code, gl_code, fund_number, restriction, %s, %s,
		description, balance_sheet, beginning_balance, beginning_balance_date,
		created_at, created_by, last_updated_at, last_updated_by`, codeCol, classCol)
	placeholders := "$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15"
	args := []interface{}{m.AccountID, m.EntityCode, m.GLCode, m.FundNumber, m.Restriction, m.AccountCode, m.Classification,
		m.Description, m.BalanceSheet, m.BeginningBalance, m.BeginningBalanceDate,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy}
	n := len(args)
	if statusCol, ok := r.Schema.OptionalColumn("accounts", ColAccountStatus); ok {
		n++
		columns += ", " + statusCol
		placeholders += fmt.Sprintf(", $%d", n)
		args = append(args, m.Status)
	}
	if legacyCol, ok := r.Schema.OptionalColumn("accounts", ColAccountLegacy); ok && m.LegacyCode != "" {
		n++
		columns += ", " + legacyCol
		placeholders += fmt.Sprintf(", $%d", n)
		args = append(args, m.LegacyCode)
	}
	if lastUsedCol, ok := r.Schema.OptionalColumn("accounts", ColAccountLastUsed); ok && m.LastUsed != nil {
		n++
		columns += ", " + lastUsedCol
		placeholders += fmt.Sprintf(", $%d", n)
		args = append(args, m.LastUsed)
	}

	insertQuery := fmt.Sprintf(`INSERT INTO accounts (%s) VALUES (%s);`, columns, placeholders)
	if _, err := tx.Exec(ctx, insertQuery, args...); err != nil {
		return false, apperrors.NewAppError(500, "failed to insert account "+m.AccountCode, err)
	}
	return true, nil
}

// UpdateAccountStatus flips an account between active and inactive. A no-op
// error on installations whose schema has no status column.
func (r *PgxAccountRepository) UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, updatedBy string, updatedAt time.Time) error {
	statusCol, ok := r.Schema.OptionalColumn("accounts", ColAccountStatus)
	if !ok {
		return apperrors.NewSchemaCapabilityError("accounts table has no status column on this installation")
	}
	query := fmt.Sprintf(`
		UPDATE accounts
		SET %s = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`, statusCol)
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, string(status), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for account "+accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + accountID + " not found for status update")
	}
	return nil
}

// FindAccountsByIDsForUpdate locks the account rows within tx and returns them
// keyed by id. Row locks serialize concurrent balance updates to the same
// accounts.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	rows, err := tx.Query(ctx, r.accountSelect()+` WHERE a.account_id = ANY($1) FOR UPDATE OF a;`, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}
	accounts, err := r.collectAccounts(rows)
	if err != nil {
		return nil, err
	}

	result := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		result[acc.AccountID] = acc
	}
	for _, id := range accountIDs {
		if _, ok := result[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return result, nil
}

// ApplyBalanceDeltasInTx adds each signed delta to the account balance cache
// column inside tx. Installations without the column skip the cache entirely;
// balances are then derivable only, which is always the source of truth anyway.
func (r *PgxAccountRepository) ApplyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	balanceCol, ok := r.Schema.OptionalColumn("accounts", ColAccountBalance)
	if !ok {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE accounts
		SET %s = COALESCE(%s, 0) + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`, balanceCol, balanceCol)

	batch := &pgx.Batch{}
	for accountID, delta := range deltas {
		if delta.IsZero() {
			continue
		}
		batch.Queue(query, accountID, delta, updatedAt, updatedBy)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to apply account balance deltas", err)
	}
	return nil
}

// SumPostedDeltas recomputes the signed delta total for an account from its
// posted line history, using the same sign convention SQL-side: debit-normal
// classifications add debits and subtract credits, credit-normal the reverse.
func (r *PgxAccountRepository) SumPostedDeltas(ctx context.Context, accountID string) (decimal.Decimal, error) {
	itemsTable := "journal_entry_items"
	debitCol := r.Schema.Column(itemsTable, ColItemDebit)
	creditCol := r.Schema.Column(itemsTable, ColItemCredit)
	accountCol := r.Schema.Column(itemsTable, ColItemAccount)
	entryCol := r.Schema.Column(itemsTable, ColItemEntry)
	classCol := r.Schema.Column("accounts", ColAccountClassification)

	postedPredicate := "TRUE" // no marker at all: all history counts as posted
	if statusCol, ok := r.Schema.OptionalColumn("journal_entries", ColEntryStatus); ok {
		postedPredicate = fmt.Sprintf("upper(e.%s) = 'POSTED'", statusCol)
	} else if postedCol, ok := r.Schema.OptionalColumn("journal_entries", ColEntryPosted); ok {
		postedPredicate = fmt.Sprintf("e.%s = TRUE", postedCol)
	}

	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(
			CASE WHEN upper(a.%s) IN ('LIABILITY', 'EQUITY', 'REVENUE', 'INCOME')
			     THEN COALESCE(i.%s, 0) - COALESCE(i.%s, 0)
			     ELSE COALESCE(i.%s, 0) - COALESCE(i.%s, 0)
			END), 0)
		FROM %s i
		JOIN journal_entries e ON e.entry_id = i.%s
		JOIN accounts a ON a.account_id = i.%s
		WHERE i.%s = $1 AND %s;
	`, classCol, creditCol, debitCol, debitCol, creditCol,
		itemsTable, entryCol, accountCol, accountCol, postedPredicate)

	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&total); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum posted deltas for account "+accountID, err)
	}
	return total, nil
}
