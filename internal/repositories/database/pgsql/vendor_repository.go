package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fundacct/fundledger/internal/apperrors"
	"github.com/fundacct/fundledger/internal/core/domain"
	portsrepo "github.com/fundacct/fundledger/internal/core/ports/repositories"
	"github.com/fundacct/fundledger/internal/models"
	"github.com/fundacct/fundledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxVendorRepository reads vendor master data. Vendors are maintained by the
// payables system; this engine only resolves them during payment imports.
type PgxVendorRepository struct {
	BaseRepository
}

func newPgxVendorRepository(pool *pgxpool.Pool, schema *SchemaCaps) portsrepo.VendorRepositoryFacade {
	return &PgxVendorRepository{BaseRepository: BaseRepository{Pool: pool, Schema: schema}}
}

var _ portsrepo.VendorRepositoryFacade = (*PgxVendorRepository)(nil)

const vendorSelect = `
	SELECT vendor_id, vendor_code, name, COALESCE(default_expense_account, ''), COALESCE(bank_name, ''),
	       created_at, created_by, last_updated_at, last_updated_by
	FROM vendors
`

func scanVendor(row pgx.Row) (*domain.Vendor, error) {
	var m models.Vendor
	err := row.Scan(&m.VendorID, &m.VendorCode, &m.Name, &m.DefaultExpenseAccount, &m.BankName,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan vendor row", err)
	}
	d := mapping.ToDomainVendor(m)
	return &d, nil
}

// FindVendorByCode retrieves a vendor by its human-readable code.
func (r *PgxVendorRepository) FindVendorByCode(ctx context.Context, vendorCode string) (*domain.Vendor, error) {
	if err := r.Schema.RequireTable("vendors"); err != nil {
		return nil, err
	}
	return scanVendor(r.Pool.QueryRow(ctx, vendorSelect+` WHERE upper(vendor_code) = upper($1);`, vendorCode))
}

// FindVendorsByCodes retrieves vendors for the given codes, keyed by upper-cased
// code. Missing codes are absent from the map; callers decide whether that is
// an error.
func (r *PgxVendorRepository) FindVendorsByCodes(ctx context.Context, vendorCodes []string) (map[string]domain.Vendor, error) {
	if err := r.Schema.RequireTable("vendors"); err != nil {
		return nil, err
	}
	if len(vendorCodes) == 0 {
		return map[string]domain.Vendor{}, nil
	}

	rows, err := r.Pool.Query(ctx, vendorSelect+` WHERE upper(vendor_code) = ANY(SELECT upper(unnest($1::text[])));`, vendorCodes)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query vendors by codes", err)
	}
	defer rows.Close()

	result := make(map[string]domain.Vendor, len(vendorCodes))
	for rows.Next() {
		var m models.Vendor
		if err := rows.Scan(&m.VendorID, &m.VendorCode, &m.Name, &m.DefaultExpenseAccount, &m.BankName,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan vendor row", err)
		}
		d := mapping.ToDomainVendor(m)
		result[strings.ToUpper(d.VendorCode)] = d
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating vendor rows", err)
	}
	return result, nil
}

// PgxEFTBatchRepository persists pending electronic-payment batches.
type PgxEFTBatchRepository struct {
	BaseRepository
}

func newPgxEFTBatchRepository(pool *pgxpool.Pool, schema *SchemaCaps) portsrepo.EFTBatchRepositoryFacade {
	return &PgxEFTBatchRepository{BaseRepository: BaseRepository{Pool: pool, Schema: schema}}
}

var _ portsrepo.EFTBatchRepositoryFacade = (*PgxEFTBatchRepository)(nil)

// SaveBatch inserts a batch header and its items atomically.
func (r *PgxEFTBatchRepository) SaveBatch(ctx context.Context, batch domain.EFTBatch) error {
	if err := r.Schema.RequireTable("eft_batches"); err != nil {
		return err
	}
	if err := r.Schema.RequireTable("eft_batch_items"); err != nil {
		return err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelEFTBatch(batch)
	headerQuery := `
		INSERT INTO eft_batches (batch_id, reference_number, effective_date, settlement_bank_code, status, total_amount,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, headerQuery,
		m.BatchID, m.ReferenceNumber, m.EffectiveDate, m.SettlementBankCode, m.Status, m.TotalAmount,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: batch reference %s already exists", apperrors.ErrDuplicate, m.ReferenceNumber)
		}
		return apperrors.NewAppError(500, "failed to insert batch "+m.BatchID, err)
	}

	itemQuery := `
		INSERT INTO eft_batch_items (item_id, batch_id, vendor_id, amount, memo,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	itemBatch := &pgx.Batch{}
	for _, item := range batch.Items {
		im := mapping.ToModelEFTBatchItem(item)
		itemBatch.Queue(itemQuery, im.ItemID, m.BatchID, im.VendorID, im.Amount, im.Memo,
			im.CreatedAt, im.CreatedBy, im.LastUpdatedAt, im.LastUpdatedBy)
	}
	if itemBatch.Len() > 0 {
		if err := tx.SendBatch(ctx, itemBatch).Close(); err != nil {
			return apperrors.NewAppError(500, "failed to insert items of batch "+m.BatchID, err)
		}
	}
	return r.Commit(ctx, tx)
}

// FindBatchByID retrieves a batch with its items.
func (r *PgxEFTBatchRepository) FindBatchByID(ctx context.Context, batchID string) (*domain.EFTBatch, error) {
	if err := r.Schema.RequireTable("eft_batches"); err != nil {
		return nil, err
	}

	headerQuery := `
		SELECT batch_id, reference_number, effective_date, settlement_bank_code, status, total_amount,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM eft_batches
		WHERE batch_id = $1;
	`
	var m models.EFTBatch
	err := r.Pool.QueryRow(ctx, headerQuery, batchID).Scan(
		&m.BatchID, &m.ReferenceNumber, &m.EffectiveDate, &m.SettlementBankCode, &m.Status, &m.TotalAmount,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan batch row", err)
	}

	itemsQuery := `
		SELECT item_id, batch_id, vendor_id, amount, COALESCE(memo, ''),
		       created_at, created_by, last_updated_at, last_updated_by
		FROM eft_batch_items
		WHERE batch_id = $1
		ORDER BY created_at, item_id;
	`
	rows, err := r.Pool.Query(ctx, itemsQuery, batchID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items of batch "+batchID, err)
	}
	defer rows.Close()

	batch := domain.EFTBatch{
		BatchID:            m.BatchID,
		ReferenceNumber:    m.ReferenceNumber,
		EffectiveDate:      m.EffectiveDate,
		SettlementBankCode: m.SettlementBankCode,
		Status:             domain.EFTBatchStatus(m.Status),
		TotalAmount:        m.TotalAmount,
		AuditFields:        mapping.ToDomainAuditFields(m.AuditFields),
	}
	for rows.Next() {
		var im models.EFTBatchItem
		if err := rows.Scan(&im.ItemID, &im.BatchID, &im.VendorID, &im.Amount, &im.Memo,
			&im.CreatedAt, &im.CreatedBy, &im.LastUpdatedAt, &im.LastUpdatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan item row of batch "+batchID, err)
		}
		batch.Items = append(batch.Items, domain.EFTBatchItem{
			ItemID:      im.ItemID,
			BatchID:     im.BatchID,
			VendorID:    im.VendorID,
			Amount:      im.Amount,
			Memo:        im.Memo,
			AuditFields: mapping.ToDomainAuditFields(im.AuditFields),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating item rows of batch "+batchID, err)
	}
	return &batch, nil
}
