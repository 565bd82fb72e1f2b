package repositories

import (
	"context"
	"time"

	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ResolveAccount resolves a raw reference to an account, trying in order:
	// exact id match, canonical composite-code match (case-insensitive,
	// punctuation-stripped), legacy alias-column match. Returns
	// apperrors.ErrNotFound when nothing matches.
	ResolveAccount(ctx context.Context, rawRef string) (*domain.Account, error)

	// FindAccountsByIDs retrieves accounts for the given ids, keyed by id.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountByCanonicalCode retrieves an account whose account code
	// canonicalizes to the given value (already canonicalized by the caller).
	FindAccountByCanonicalCode(ctx context.Context, canonicalCode string) (*domain.Account, error)

	// ListAccounts retrieves accounts for an entity, ordered by account code.
	ListAccounts(ctx context.Context, entityCode string, limit, offset int) ([]domain.Account, error)

	// FindGLCodes loads the GL-code lookup table keyed by code. Accounts whose
	// CSV rows omit a classification inherit it from here.
	FindGLCodes(ctx context.Context) (map[string]domain.Classification, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount inserts a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpsertAccountInTx inserts the account, or updates the existing row with
	// the same canonical code, inside the supplied transaction. Returns true
	// when a new row was inserted.
	UpsertAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) (inserted bool, err error)

	// UpdateAccountStatus flips an account between active and inactive.
	UpdateAccountStatus(ctx context.Context, accountID string, status domain.AccountStatus, updatedBy string, updatedAt time.Time) error
}

// AccountBalancer defines the balance-propagation operations. Balance cache
// columns are only ever written through these, inside posting transactions.
type AccountBalancer interface {
	// FindAccountsByIDsForUpdate locks the account rows within tx and returns
	// them keyed by id. Missing ids surface as apperrors.ErrNotFound.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceDeltasInTx adds each signed delta to the account balance
	// cache column inside tx. A no-op when this installation's schema has no
	// balance cache column.
	ApplyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, updatedBy string, updatedAt time.Time) error

	// SumPostedDeltas recomputes the signed delta total for an account from its
	// posted line history. Used to audit the cache, never to maintain it.
	SumPostedDeltas(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalancer
	TransactionManager
}
