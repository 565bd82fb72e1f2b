package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostedLine is a flattened posted line item joined with the classification it
// was posted under. The metrics aggregator recomputes rollups from these rather
// than trusting cached balances. EntryDate is the owning entry's date, so one
// history scan can serve both all-time and year-to-date rollups.
type PostedLine struct {
	AccountID      string
	FundID         string
	Classification Classification
	Restriction    Restriction
	EntryDate      time.Time
	Debit          decimal.Decimal
	Credit         decimal.Decimal
}

// LedgerSummary is the read-only rollup served by the metrics aggregator.
type LedgerSummary struct {
	TotalAssets      decimal.Decimal            `json:"totalAssets"`
	TotalLiabilities decimal.Decimal            `json:"totalLiabilities"`
	YTDRevenue       decimal.Decimal            `json:"ytdRevenue"`
	FundTotals       map[Restriction]decimal.Decimal `json:"fundTotals"`
}
