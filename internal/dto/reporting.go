package dto

import (
	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerSummaryResponse is the metrics rollup served to dashboards.
type LedgerSummaryResponse struct {
	TotalAssets      decimal.Decimal            `json:"totalAssets"`
	TotalLiabilities decimal.Decimal            `json:"totalLiabilities"`
	YTDRevenue       decimal.Decimal            `json:"ytdRevenue"`
	FundTotals       map[string]decimal.Decimal `json:"fundTotals"`
}

// ToLedgerSummaryResponse converts a domain.LedgerSummary to its response DTO.
func ToLedgerSummaryResponse(s *domain.LedgerSummary) LedgerSummaryResponse {
	fundTotals := make(map[string]decimal.Decimal, len(s.FundTotals))
	for restriction, total := range s.FundTotals {
		fundTotals[string(restriction)] = total
	}
	return LedgerSummaryResponse{
		TotalAssets:      s.TotalAssets,
		TotalLiabilities: s.TotalLiabilities,
		YTDRevenue:       s.YTDRevenue,
		FundTotals:       fundTotals,
	}
}
