package services

import (
	"context"

	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/fundacct/fundledger/internal/dto"
)

// AccountSvcFacade defines the chart-of-accounts operations.
type AccountSvcFacade interface {
	// ResolveAccount resolves a raw reference (id, canonical code, legacy
	// alias) to an account.
	ResolveAccount(ctx context.Context, rawRef string) (*domain.Account, error)

	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, entityCode string, limit, offset int) ([]domain.Account, error)
	DeactivateAccount(ctx context.Context, accountID string, userID string) error

	// CheckBalance recomputes the account balance from beginning balance plus
	// posted history, compares it to the stored cache, and flags divergence.
	// The derived value is authoritative; the cache is advisory.
	CheckBalance(ctx context.Context, accountID string) (*dto.BalanceCheckResponse, error)
}
