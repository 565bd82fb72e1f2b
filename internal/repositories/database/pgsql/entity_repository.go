package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fundacct/fundledger/internal/apperrors"
	"github.com/fundacct/fundledger/internal/core/domain"
	portsrepo "github.com/fundacct/fundledger/internal/core/ports/repositories"
	"github.com/fundacct/fundledger/internal/models"
	"github.com/fundacct/fundledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxEntityRepository struct {
	BaseRepository
}

// newPgxEntityRepository creates a new repository for entity data.
func newPgxEntityRepository(pool *pgxpool.Pool, schema *SchemaCaps) portsrepo.EntityRepositoryFacade {
	return &PgxEntityRepository{BaseRepository: BaseRepository{Pool: pool, Schema: schema}}
}

var _ portsrepo.EntityRepositoryFacade = (*PgxEntityRepository)(nil)

// SaveEntity inserts a new entity.
func (r *PgxEntityRepository) SaveEntity(ctx context.Context, entity domain.Entity) error {
	m := mapping.ToModelEntity(entity)

	query := `
		INSERT INTO entities (entity_id, entity_code, name, parent_entity_id, is_consolidated, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	var parentID sql.NullString
	if m.ParentEntityID != "" {
		parentID = sql.NullString{String: m.ParentEntityID, Valid: true}
	}

	_, err := r.Pool.Exec(ctx, query,
		m.EntityID, m.EntityCode, m.Name, parentID, m.IsConsolidated,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: entity with code %s already exists", apperrors.ErrDuplicate, m.EntityCode)
		}
		return apperrors.NewAppError(500, "failed to save entity "+m.EntityID, err)
	}
	return nil
}

// UpdateEntity updates an entity's mutable fields.
func (r *PgxEntityRepository) UpdateEntity(ctx context.Context, entity domain.Entity) error {
	m := mapping.ToModelEntity(entity)

	query := `
		UPDATE entities
		SET name = $2,
		    is_consolidated = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE entity_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, m.EntityID, m.Name, m.IsConsolidated, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update entity "+m.EntityID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("entity " + m.EntityID + " not found for update")
	}
	return nil
}

func (r *PgxEntityRepository) scanEntity(row pgx.Row) (*domain.Entity, error) {
	var m models.Entity
	var parentID sql.NullString
	err := row.Scan(&m.EntityID, &m.EntityCode, &m.Name, &parentID, &m.IsConsolidated,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan entity row", err)
	}
	if parentID.Valid {
		m.ParentEntityID = parentID.String
	}
	d := mapping.ToDomainEntity(m)
	return &d, nil
}

const entitySelect = `
	SELECT entity_id, entity_code, name, parent_entity_id, is_consolidated,
	       created_at, created_by, last_updated_at, last_updated_by
	FROM entities
`

// FindEntityByID retrieves an entity by its ID.
func (r *PgxEntityRepository) FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error) {
	return r.scanEntity(r.Pool.QueryRow(ctx, entitySelect+` WHERE entity_id = $1;`, entityID))
}

// FindEntityByCode retrieves an entity by its human-readable code.
func (r *PgxEntityRepository) FindEntityByCode(ctx context.Context, entityCode string) (*domain.Entity, error) {
	return r.scanEntity(r.Pool.QueryRow(ctx, entitySelect+` WHERE upper(entity_code) = upper($1);`, entityCode))
}

// ListEntities retrieves all entities ordered by code.
func (r *PgxEntityRepository) ListEntities(ctx context.Context) ([]domain.Entity, error) {
	rows, err := r.Pool.Query(ctx, entitySelect+` ORDER BY entity_code;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entities", err)
	}
	defer rows.Close()

	var entities []domain.Entity
	for rows.Next() {
		var m models.Entity
		var parentID sql.NullString
		if err := rows.Scan(&m.EntityID, &m.EntityCode, &m.Name, &parentID, &m.IsConsolidated,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entity row", err)
		}
		if parentID.Valid {
			m.ParentEntityID = parentID.String
		}
		entities = append(entities, mapping.ToDomainEntity(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entity rows", err)
	}
	return entities, nil
}

// IsEntityReferenced reports whether accounts or funds reference the entity
// code. Referenced codes are immutable.
func (r *PgxEntityRepository) IsEntityReferenced(ctx context.Context, entityCode string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM accounts WHERE upper(entity_code) = upper($1))
		    OR EXISTS (SELECT 1 FROM funds f JOIN entities e ON f.entity_id = e.entity_id WHERE upper(e.entity_code) = upper($1));
	`
	var referenced bool
	if err := r.Pool.QueryRow(ctx, query, entityCode).Scan(&referenced); err != nil {
		return false, apperrors.NewAppError(500, "failed to check entity references for "+entityCode, err)
	}
	return referenced, nil
}
