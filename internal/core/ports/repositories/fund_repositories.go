package repositories

import (
	"context"

	"github.com/fundacct/fundledger/internal/core/domain"
)

// FundReader defines read operations for fund data.
type FundReader interface {
	// FindFundByID retrieves a fund by its unique identifier.
	FindFundByID(ctx context.Context, fundID string) (*domain.Fund, error)

	// ResolveFund resolves a fund from an entity code and a raw fund token,
	// trying exact id match first, then (entity, fund_number) with the token
	// canonicalized. Returns apperrors.ErrNotFound when nothing matches.
	ResolveFund(ctx context.Context, entityCode, fundToken string) (*domain.Fund, error)

	// ListFundsByEntity retrieves all funds belonging to an entity.
	ListFundsByEntity(ctx context.Context, entityCode string) ([]domain.Fund, error)
}

// FundWriter defines write operations for fund data.
type FundWriter interface {
	// SaveFund inserts a new fund. (entity, fund_number, restriction) must be
	// unique; violations surface as apperrors.ErrDuplicate.
	SaveFund(ctx context.Context, fund domain.Fund) error

	// UpdateFund updates a fund's mutable fields (name).
	UpdateFund(ctx context.Context, fund domain.Fund) error
}

// FundRepositoryFacade combines all fund repository interfaces.
type FundRepositoryFacade interface {
	FundReader
	FundWriter
}
