package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vendor mirrors the vendors table (read-side only in this engine).
type Vendor struct {
	VendorID              string `db:"vendor_id"`
	VendorCode            string `db:"vendor_code"`
	Name                  string `db:"name"`
	DefaultExpenseAccount string `db:"default_expense_account"`
	BankName              string `db:"bank_name"`
	AuditFields
}

// EFTBatch mirrors the eft_batches table.
type EFTBatch struct {
	BatchID            string          `db:"batch_id"`
	ReferenceNumber    string          `db:"reference_number"`
	EffectiveDate      time.Time       `db:"effective_date"`
	SettlementBankCode string          `db:"settlement_bank_code"`
	Status             string          `db:"status"`
	TotalAmount        decimal.Decimal `db:"total_amount"`
	AuditFields
}

// EFTBatchItem mirrors the eft_batch_items table.
type EFTBatchItem struct {
	ItemID   string          `db:"item_id"`
	BatchID  string          `db:"batch_id"`
	VendorID string          `db:"vendor_id"`
	Amount   decimal.Decimal `db:"amount"`
	Memo     string          `db:"memo"`
	AuditFields
}
