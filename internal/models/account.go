package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account mirrors the accounts table. account_code, legacy_code, classification
// and current_balance are aliased columns resolved through the schema adapter.
type Account struct {
	AccountID            string          `db:"account_id"`
	EntityCode           string          `db:"entity_code"`
	GLCode               string          `db:"gl_code"`
	FundNumber           string          `db:"fund_number"`
	Restriction          string          `db:"restriction"`
	AccountCode          string          `db:"account_code"`
	LegacyCode           string          `db:"legacy_code"`
	Classification       string          `db:"classification"`
	Description          string          `db:"description"`
	Status               string          `db:"status"`
	BalanceSheet         bool            `db:"balance_sheet"`
	BeginningBalance     decimal.Decimal `db:"beginning_balance"`
	BeginningBalanceDate *time.Time      `db:"beginning_balance_date"`
	CurrentBalance       decimal.Decimal `db:"current_balance"`
	LastUsed             *time.Time      `db:"last_used"`
	AuditFields
}
