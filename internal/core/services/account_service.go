package services

import (
	"context"
	"time"

	"github.com/fundacct/fundledger/internal/core/domain"
	portsrepo "github.com/fundacct/fundledger/internal/core/ports/repositories"
	portssvc "github.com/fundacct/fundledger/internal/core/ports/services"
	"github.com/fundacct/fundledger/internal/dto"
	"github.com/fundacct/fundledger/internal/middleware"
)

type accountService struct {
	repo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates the chart-of-accounts service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{repo: repo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// ResolveAccount resolves a raw reference (id, canonical code in any spelling,
// or legacy alias) to an account.
func (s *accountService) ResolveAccount(ctx context.Context, rawRef string) (*domain.Account, error) {
	return s.repo.ResolveAccount(ctx, rawRef)
}

// GetAccountByID retrieves an account by id.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.repo.FindAccountByID(ctx, accountID)
}

// GetAccountsByIDs retrieves accounts for the given ids, keyed by id.
func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	return s.repo.FindAccountsByIDs(ctx, accountIDs)
}

// ListAccounts retrieves an entity's accounts ordered by account code.
func (s *accountService) ListAccounts(ctx context.Context, entityCode string, limit, offset int) ([]domain.Account, error) {
	return s.repo.ListAccounts(ctx, entityCode, limit, offset)
}

// DeactivateAccount marks an account inactive. Inactive accounts keep their
// history but reject new postings.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.repo.UpdateAccountStatus(ctx, accountID, domain.AccountInactive, userID, time.Now().UTC()); err != nil {
		return err
	}
	logger.Info("Account deactivated", "account_id", accountID)
	return nil
}

// CheckBalance recomputes the account balance from beginning balance plus
// posted history and compares it to the stored cache. The derived value is
// authoritative; a divergent cache means some writer bypassed balance
// propagation and is logged for operators.
func (s *accountService) CheckBalance(ctx context.Context, accountID string) (*dto.BalanceCheckResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.repo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	postedDelta, err := s.repo.SumPostedDeltas(ctx, accountID)
	if err != nil {
		return nil, err
	}

	derived := account.BeginningBalance.Add(postedDelta)
	divergent := !derived.Round(2).Equal(account.CurrentBalance.Round(2))
	if divergent {
		logger.Warn("Account balance cache diverges from posted history",
			"account_id", accountID,
			"account_code", account.AccountCode,
			"cached", account.CurrentBalance.String(),
			"derived", derived.String(),
		)
	}

	return &dto.BalanceCheckResponse{
		AccountID:      account.AccountID,
		AccountCode:    account.AccountCode,
		CachedBalance:  account.CurrentBalance,
		DerivedBalance: derived,
		Divergent:      divergent,
	}, nil
}
