package repositories

import (
	"context"

	"github.com/fundacct/fundledger/internal/core/domain"
)

// EntityReader defines read operations for entity data.
type EntityReader interface {
	// FindEntityByID retrieves an entity by its unique identifier.
	FindEntityByID(ctx context.Context, entityID string) (*domain.Entity, error)

	// FindEntityByCode retrieves an entity by its human-readable code.
	FindEntityByCode(ctx context.Context, entityCode string) (*domain.Entity, error)

	// ListEntities retrieves all entities, ordered by code.
	ListEntities(ctx context.Context) ([]domain.Entity, error)

	// IsEntityReferenced reports whether any account or fund references the
	// entity's code. Referenced codes are immutable.
	IsEntityReferenced(ctx context.Context, entityCode string) (bool, error)
}

// EntityWriter defines write operations for entity data.
type EntityWriter interface {
	// SaveEntity inserts a new entity.
	SaveEntity(ctx context.Context, entity domain.Entity) error

	// UpdateEntity updates an entity's mutable fields (name, parent,
	// consolidation flag). The code itself is only updatable while unreferenced;
	// the service enforces that.
	UpdateEntity(ctx context.Context, entity domain.Entity) error
}

// EntityRepositoryFacade combines all entity repository interfaces.
type EntityRepositoryFacade interface {
	EntityReader
	EntityWriter
}
