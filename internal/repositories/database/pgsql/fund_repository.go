package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fundacct/fundledger/internal/apperrors"
	"github.com/fundacct/fundledger/internal/core/domain"
	portsrepo "github.com/fundacct/fundledger/internal/core/ports/repositories"
	"github.com/fundacct/fundledger/internal/models"
	"github.com/fundacct/fundledger/internal/utils/codes"
	"github.com/fundacct/fundledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxFundRepository struct {
	BaseRepository
}

// newPgxFundRepository creates a new repository for fund data.
func newPgxFundRepository(pool *pgxpool.Pool, schema *SchemaCaps) portsrepo.FundRepositoryFacade {
	return &PgxFundRepository{BaseRepository: BaseRepository{Pool: pool, Schema: schema}}
}

var _ portsrepo.FundRepositoryFacade = (*PgxFundRepository)(nil)

// fundSelect builds the fund SELECT list against this installation's resolved
// column names. The balance cache column may be absent; it then scans as zero.
func (r *PgxFundRepository) fundSelect() string {
	numberCol := r.Schema.Column("funds", ColFundNumber)
	restrictionCol := r.Schema.Column("funds", ColFundRestriction)
	balanceExpr := "0::numeric"
	if balanceCol, ok := r.Schema.OptionalColumn("funds", ColFundBalance); ok {
		balanceExpr = "COALESCE(f." + balanceCol + ", 0)"
	}
	return fmt.Sprintf(`
		SELECT f.fund_id, f.entity_id, e.entity_code, f.%s, f.%s, f.name, %s,
		       f.created_at, f.created_by, f.last_updated_at, f.last_updated_by
		FROM funds f
		JOIN entities e ON f.entity_id = e.entity_id
	`, numberCol, restrictionCol, balanceExpr)
}

func scanFund(row pgx.Row) (*domain.Fund, error) {
	var m models.Fund
	err := row.Scan(&m.FundID, &m.EntityID, &m.EntityCode, &m.FundNumber, &m.Restriction, &m.Name, &m.Balance,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan fund row", err)
	}
	d := mapping.ToDomainFund(m)
	return &d, nil
}

// SaveFund inserts a new fund.
func (r *PgxFundRepository) SaveFund(ctx context.Context, fund domain.Fund) error {
	m := mapping.ToModelFund(fund)

	numberCol := r.Schema.Column("funds", ColFundNumber)
	restrictionCol := r.Schema.Column("funds", ColFundRestriction)

	columns := fmt.Sprintf("fund_id, entity_id, %s, %s, name, created_at, created_by, last_updated_at, last_updated_by", numberCol, restrictionCol)
	placeholders := "$1, $2, $3, $4, $5, $6, $7, $8, $9"
	args := []interface{}{m.FundID, m.EntityID, m.FundNumber, m.Restriction, m.Name,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy}

	if balanceCol, ok := r.Schema.OptionalColumn("funds", ColFundBalance); ok {
		columns += ", " + balanceCol
		placeholders += ", $10"
		args = append(args, decimal.Zero)
	}

	query := fmt.Sprintf(`INSERT INTO funds (%s) VALUES (%s);`, columns, placeholders)
	if _, err := r.Pool.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: fund %s/%s/%s already exists", apperrors.ErrDuplicate, m.EntityCode, m.FundNumber, m.Restriction)
		}
		return apperrors.NewAppError(500, "failed to save fund "+m.FundID, err)
	}
	return nil
}

// UpdateFund updates a fund's mutable fields.
func (r *PgxFundRepository) UpdateFund(ctx context.Context, fund domain.Fund) error {
	m := mapping.ToModelFund(fund)
	query := `
		UPDATE funds
		SET name = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE fund_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, m.FundID, m.Name, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update fund "+m.FundID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("fund " + m.FundID + " not found for update")
	}
	return nil
}

// FindFundByID retrieves a fund by its ID.
func (r *PgxFundRepository) FindFundByID(ctx context.Context, fundID string) (*domain.Fund, error) {
	return scanFund(r.Pool.QueryRow(ctx, r.fundSelect()+` WHERE f.fund_id = $1;`, fundID))
}

// ResolveFund resolves a raw fund token for an entity: exact id first, then
// (entity, fund_number) with both sides canonicalized so "GEN", "gen" and
// "G-E-N" compare equal.
func (r *PgxFundRepository) ResolveFund(ctx context.Context, entityCode, fundToken string) (*domain.Fund, error) {
	fund, err := r.FindFundByID(ctx, fundToken)
	if err == nil {
		return fund, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	numberCol := r.Schema.Column("funds", ColFundNumber)
	query := r.fundSelect() + fmt.Sprintf(`
		WHERE upper(e.entity_code) = upper($1)
		  AND lower(regexp_replace(f.%s, '[^a-zA-Z0-9]', '', 'g')) = $2;
	`, numberCol)

	fund, err = scanFund(r.Pool.QueryRow(ctx, query, entityCode, codes.Canonicalize(fundToken)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: fund %q for entity %q", apperrors.ErrNotFound, fundToken, entityCode)
		}
		return nil, err
	}
	return fund, nil
}

// ListFundsByEntity retrieves all funds belonging to an entity.
func (r *PgxFundRepository) ListFundsByEntity(ctx context.Context, entityCode string) ([]domain.Fund, error) {
	numberCol := r.Schema.Column("funds", ColFundNumber)
	query := r.fundSelect() + fmt.Sprintf(` WHERE upper(e.entity_code) = upper($1) ORDER BY f.%s;`, numberCol)

	rows, err := r.Pool.Query(ctx, query, entityCode)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query funds for entity "+entityCode, err)
	}
	defer rows.Close()

	var funds []domain.Fund
	for rows.Next() {
		var m models.Fund
		if err := rows.Scan(&m.FundID, &m.EntityID, &m.EntityCode, &m.FundNumber, &m.Restriction, &m.Name, &m.Balance,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan fund row for entity "+entityCode, err)
		}
		funds = append(funds, mapping.ToDomainFund(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating fund rows for entity "+entityCode, err)
	}
	return funds, nil
}
