package services

import (
	"context"
	"io"

	"github.com/fundacct/fundledger/internal/dto"
)

// AccountImportSvcFacade defines the chart-of-accounts CSV import pipeline.
type AccountImportSvcFacade interface {
	// ImportAccounts runs the two-phase import: validate every row (collecting
	// all failures), then commit all rows in one transaction only if
	// validation produced zero failures.
	ImportAccounts(ctx context.Context, csv io.Reader, userID string) (*dto.AccountsImportResult, error)
}

// PaymentImportSvcFacade defines the batched-payments import pipeline.
type PaymentImportSvcFacade interface {
	// ImportBatchedPayments groups rows into pending EFT batches and completed
	// journal entries. Unresolved rows are logged and skipped; re-running the
	// same file is a no-op for rows whose reference numbers already posted.
	ImportBatchedPayments(ctx context.Context, req dto.ImportPaymentsRequest, userID string) (*dto.PaymentsImportResult, error)
}
