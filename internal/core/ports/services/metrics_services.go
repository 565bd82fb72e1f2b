package services

import (
	"context"
	"time"

	"github.com/fundacct/fundledger/internal/core/domain"
)

// MetricsSvcFacade defines the read-only rollups built by re-running the sign
// rules over posted history. It depends on, but never mutates, the ledger.
type MetricsSvcFacade interface {
	// Summarize computes total assets, total liabilities and YTD revenue for
	// an entity (all entities when entityCode is empty) as of the given date.
	Summarize(ctx context.Context, entityCode string, asOf time.Time) (*domain.LedgerSummary, error)
}
