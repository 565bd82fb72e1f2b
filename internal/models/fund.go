package models

import "github.com/shopspring/decimal"

// Fund mirrors the funds table. The balance column is resolved through the
// schema adapter and may be absent on older installs.
type Fund struct {
	FundID      string          `db:"fund_id"`
	EntityID    string          `db:"entity_id"`
	EntityCode  string          `db:"entity_code"`
	FundNumber  string          `db:"fund_number"`
	Restriction string          `db:"restriction"`
	Name        string          `db:"name"`
	Balance     decimal.Decimal `db:"balance"`
	AuditFields
}
