package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager defines explicit transaction boundaries for repositories
// that perform multi-statement mutations. Every such mutation either commits
// whole or rolls back whole; there is no partial completion.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	Rollback(ctx context.Context, tx pgx.Tx) error
}

// RepositoryProvider aggregates all repository facades for dependency injection.
type RepositoryProvider struct {
	EntityRepo    EntityRepositoryFacade
	FundRepo      FundRepositoryFacade
	AccountRepo   AccountRepositoryFacade
	JournalRepo   JournalRepositoryWithTx
	VendorRepo    VendorRepositoryFacade
	EFTBatchRepo  EFTBatchRepositoryFacade
	ReportingRepo ReportingRepositoryFacade
}
