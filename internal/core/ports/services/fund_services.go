package services

import (
	"context"

	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/fundacct/fundledger/internal/dto"
)

// FundSvcFacade defines the fund administration operations.
type FundSvcFacade interface {
	CreateFund(ctx context.Context, req dto.CreateFundRequest, creatorUserID string) (*domain.Fund, error)
	ResolveFund(ctx context.Context, entityCode, fundToken string) (*domain.Fund, error)
	ListFundsByEntity(ctx context.Context, entityCode string) ([]domain.Fund, error)
}
