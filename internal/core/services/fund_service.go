package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fundacct/fundledger/internal/apperrors"
	"github.com/fundacct/fundledger/internal/core/domain"
	portsrepo "github.com/fundacct/fundledger/internal/core/ports/repositories"
	portssvc "github.com/fundacct/fundledger/internal/core/ports/services"
	"github.com/fundacct/fundledger/internal/dto"
	"github.com/fundacct/fundledger/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fundService struct {
	fundRepo   portsrepo.FundRepositoryFacade
	entityRepo portsrepo.EntityRepositoryFacade
}

// NewFundService creates the fund administration service.
func NewFundService(fundRepo portsrepo.FundRepositoryFacade, entityRepo portsrepo.EntityRepositoryFacade) portssvc.FundSvcFacade {
	return &fundService{fundRepo: fundRepo, entityRepo: entityRepo}
}

var _ portssvc.FundSvcFacade = (*fundService)(nil)

// CreateFund creates a new fund under an existing entity.
func (s *fundService) CreateFund(ctx context.Context, req dto.CreateFundRequest, creatorUserID string) (*domain.Fund, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entity, err := s.entityRepo.FindEntityByCode(ctx, req.EntityCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("entity " + req.EntityCode + " does not exist")
		}
		return nil, err
	}

	restriction, ok := domain.ParseRestriction(req.Restriction)
	if !ok {
		return nil, apperrors.NewValidationError("unrecognized restriction " + req.Restriction)
	}

	now := time.Now().UTC()
	fund := domain.Fund{
		FundID:      uuid.NewString(),
		EntityID:    entity.EntityID,
		EntityCode:  entity.EntityCode,
		FundNumber:  strings.ToUpper(strings.TrimSpace(req.FundNumber)),
		Restriction: restriction,
		Name:        req.Name,
		Balance:     decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.fundRepo.SaveFund(ctx, fund); err != nil {
		return nil, err
	}
	logger.Info("Fund created", "fund_id", fund.FundID, "entity_code", fund.EntityCode, "fund_number", fund.FundNumber)
	return &fund, nil
}

// ResolveFund resolves a raw fund token (id or fund number in any spelling)
// within an entity.
func (s *fundService) ResolveFund(ctx context.Context, entityCode, fundToken string) (*domain.Fund, error) {
	return s.fundRepo.ResolveFund(ctx, entityCode, fundToken)
}

// ListFundsByEntity retrieves all funds belonging to an entity.
func (s *fundService) ListFundsByEntity(ctx context.Context, entityCode string) ([]domain.Fund, error) {
	return s.fundRepo.ListFundsByEntity(ctx, entityCode)
}
