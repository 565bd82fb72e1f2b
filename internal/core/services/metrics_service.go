package services

import (
	"context"
	"time"

	"github.com/fundacct/fundledger/internal/core/domain"
	portsrepo "github.com/fundacct/fundledger/internal/core/ports/repositories"
	portssvc "github.com/fundacct/fundledger/internal/core/ports/services"
	"github.com/fundacct/fundledger/internal/middleware"
	"github.com/fundacct/fundledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

type metricsService struct {
	reportingRepo portsrepo.ReportingRepositoryFacade
}

// NewMetricsService creates the read-only rollup service.
func NewMetricsService(reportingRepo portsrepo.ReportingRepositoryFacade) portssvc.MetricsSvcFacade {
	return &metricsService{reportingRepo: reportingRepo}
}

var _ portssvc.MetricsSvcFacade = (*metricsService)(nil)

// earliestEntryDate bounds the balance-sheet scan. Installations predate any
// plausible entry by decades at this point.
var earliestEntryDate = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// Summarize recomputes total assets, total liabilities and YTD revenue by
// re-running the sign rules over posted history. It never reads the cached
// balance columns, so a stale cache cannot leak into reports. One history scan
// up to asOf serves everything: the year-to-date revenue window is a subset of
// it, filtered on each line's entry date.
func (s *metricsService) Summarize(ctx context.Context, entityCode string, asOf time.Time) (*domain.LedgerSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	allLines, err := s.reportingRepo.FindPostedLines(ctx, entityCode, earliestEntryDate, asOf)
	if err != nil {
		return nil, err
	}

	yearStart := time.Date(asOf.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	summary := &domain.LedgerSummary{
		FundTotals: make(map[domain.Restriction]decimal.Decimal),
	}
	for _, line := range allLines {
		delta := accounting.SignedDelta(line.Classification, line.Debit, line.Credit)
		switch line.Classification {
		case domain.Asset:
			summary.TotalAssets = summary.TotalAssets.Add(delta)
		case domain.Liability:
			summary.TotalLiabilities = summary.TotalLiabilities.Add(delta)
		case domain.Revenue:
			if !line.EntryDate.Before(yearStart) {
				summary.YTDRevenue = summary.YTDRevenue.Add(delta)
			}
		}
		if line.Restriction != "" {
			summary.FundTotals[line.Restriction] = summary.FundTotals[line.Restriction].Add(delta)
		}
	}

	logger.Info("Ledger summary computed",
		"entity_code", entityCode,
		"as_of", asOf.Format("2006-01-02"),
		"posted_lines", len(allLines),
	)
	return summary, nil
}
