package services

import (
	"context"

	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/fundacct/fundledger/internal/dto"
)

// EntitySvcFacade defines the entity administration operations.
type EntitySvcFacade interface {
	CreateEntity(ctx context.Context, req dto.CreateEntityRequest, creatorUserID string) (*domain.Entity, error)
	GetEntityByCode(ctx context.Context, entityCode string) (*domain.Entity, error)
	ListEntities(ctx context.Context) ([]domain.Entity, error)
	UpdateEntity(ctx context.Context, entityCode string, req dto.UpdateEntityRequest, userID string) (*domain.Entity, error)
}
