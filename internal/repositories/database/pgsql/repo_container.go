package pgsql

import (
	portsrepo "github.com/fundacct/fundledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql repository against the shared pool
// and the schema capability set resolved at startup.
func NewRepositoryProvider(pool *pgxpool.Pool, schema *SchemaCaps) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		EntityRepo:    newPgxEntityRepository(pool, schema),
		FundRepo:      newPgxFundRepository(pool, schema),
		AccountRepo:   newPgxAccountRepository(pool, schema),
		JournalRepo:   newPgxJournalRepository(pool, schema),
		VendorRepo:    newPgxVendorRepository(pool, schema),
		EFTBatchRepo:  newPgxEFTBatchRepository(pool, schema),
		ReportingRepo: newPgxReportingRepository(pool, schema),
	}
}
