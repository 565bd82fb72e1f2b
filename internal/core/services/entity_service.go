package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fundacct/fundledger/internal/apperrors"
	"github.com/fundacct/fundledger/internal/core/domain"
	portsrepo "github.com/fundacct/fundledger/internal/core/ports/repositories"
	portssvc "github.com/fundacct/fundledger/internal/core/ports/services"
	"github.com/fundacct/fundledger/internal/dto"
	"github.com/fundacct/fundledger/internal/middleware"
	"github.com/google/uuid"
)

type entityService struct {
	repo portsrepo.EntityRepositoryFacade
}

// NewEntityService creates the entity administration service.
func NewEntityService(repo portsrepo.EntityRepositoryFacade) portssvc.EntitySvcFacade {
	return &entityService{repo: repo}
}

var _ portssvc.EntitySvcFacade = (*entityService)(nil)

// CreateEntity creates a new entity. The code is stored upper-cased and must
// be unique.
func (s *entityService) CreateEntity(ctx context.Context, req dto.CreateEntityRequest, creatorUserID string) (*domain.Entity, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.ParentEntityID != "" {
		if _, err := s.repo.FindEntityByID(ctx, req.ParentEntityID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError("parent entity " + req.ParentEntityID + " does not exist")
			}
			return nil, err
		}
	}

	now := time.Now().UTC()
	entity := domain.Entity{
		EntityID:       uuid.NewString(),
		EntityCode:     strings.ToUpper(strings.TrimSpace(req.EntityCode)),
		Name:           req.Name,
		ParentEntityID: req.ParentEntityID,
		IsConsolidated: req.IsConsolidated,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.repo.SaveEntity(ctx, entity); err != nil {
		return nil, err
	}
	logger.Info("Entity created", "entity_id", entity.EntityID, "entity_code", entity.EntityCode)
	return &entity, nil
}

// GetEntityByCode retrieves an entity by its human-readable code.
func (s *entityService) GetEntityByCode(ctx context.Context, entityCode string) (*domain.Entity, error) {
	entity, err := s.repo.FindEntityByCode(ctx, entityCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: entity %q", apperrors.ErrNotFound, entityCode)
		}
		return nil, err
	}
	return entity, nil
}

// ListEntities retrieves all entities.
func (s *entityService) ListEntities(ctx context.Context) ([]domain.Entity, error) {
	return s.repo.ListEntities(ctx)
}

// UpdateEntity applies the non-nil fields of the request to an entity.
func (s *entityService) UpdateEntity(ctx context.Context, entityCode string, req dto.UpdateEntityRequest, userID string) (*domain.Entity, error) {
	entity, err := s.GetEntityByCode(ctx, entityCode)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		entity.Name = *req.Name
	}
	if req.IsConsolidated != nil {
		entity.IsConsolidated = *req.IsConsolidated
	}
	entity.LastUpdatedAt = time.Now().UTC()
	entity.LastUpdatedBy = userID

	if err := s.repo.UpdateEntity(ctx, *entity); err != nil {
		return nil, err
	}
	return entity, nil
}
