package repositories

import (
	"context"
	"time"

	"github.com/fundacct/fundledger/internal/core/domain"
)

// ReportingRepositoryFacade defines the read-only queries the metrics
// aggregator runs over posted history. It never mutates anything.
type ReportingRepositoryFacade interface {
	// FindPostedLines retrieves all posted line items for an entity (all
	// entities when entityCode is empty) with entry dates in [from, to],
	// joined with the classification and restriction they were posted under.
	FindPostedLines(ctx context.Context, entityCode string, from, to time.Time) ([]domain.PostedLine, error)
}
