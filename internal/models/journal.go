package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry mirrors the journal_entries table. status may be stored as a
// string column or a legacy boolean `posted`; entry_mode is optional. Those
// shapes are resolved by the schema adapter and canonicalized at the scan
// boundary.
type JournalEntry struct {
	EntryID          string          `db:"entry_id"`
	EntityCode       string          `db:"entity_code"`
	TargetEntityCode string          `db:"target_entity_code"` // Nullable
	EntryDate        time.Time       `db:"entry_date"`
	ReferenceNumber  string          `db:"reference_number"` // Nullable
	EntryType        string          `db:"entry_type"`
	Status           string          `db:"status"`
	EntryMode        string          `db:"entry_mode"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	Description      string          `db:"description"`
	AuditFields
}

// JournalEntryItem mirrors the journal_entry_items table. The debit/credit and
// account/fund reference columns carry historical aliases resolved by the
// schema adapter. classification is the snapshot taken at write time; optional,
// older installations do not have the column.
type JournalEntryItem struct {
	ItemID         string          `db:"item_id"`
	EntryID        string          `db:"entry_id"`
	AccountID      string          `db:"account_id"`
	FundID         string          `db:"fund_id"`
	Classification string          `db:"classification"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	Memo           string          `db:"memo"`
	AuditFields
}
