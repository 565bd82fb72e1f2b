package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vendor is a payee referenced by the batched-payments pipeline. Vendor CRUD
// lives outside this engine; the importer only resolves them.
type Vendor struct {
	VendorID              string `json:"vendorID"`   // Primary Key (UUID)
	VendorCode            string `json:"vendorCode"` // Unique human-readable code
	Name                  string `json:"name"`
	DefaultExpenseAccount string `json:"defaultExpenseAccount"` // Canonical account code, nullable
	BankName              string `json:"bankName"`
	AuditFields
}

// EFTBatchStatus is the lifecycle of a pending electronic-payment batch.
type EFTBatchStatus string

const (
	BatchPending EFTBatchStatus = "PENDING"
	BatchSettled EFTBatchStatus = "SETTLED"
)

// EFTBatch groups pending electronic payments that settle together. The
// NACHA-style settlement file itself is produced outside this engine.
type EFTBatch struct {
	BatchID            string          `json:"batchID"` // Primary Key (UUID)
	ReferenceNumber    string          `json:"referenceNumber"`
	EffectiveDate      time.Time       `json:"effectiveDate"`
	SettlementBankCode string          `json:"settlementBankCode"`
	Status             EFTBatchStatus  `json:"status"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	Items              []EFTBatchItem  `json:"items,omitempty"`
	AuditFields
}

// EFTBatchItem is one vendor payment within a batch.
type EFTBatchItem struct {
	ItemID   string          `json:"itemID"`
	BatchID  string          `json:"batchID"`
	VendorID string          `json:"vendorID"`
	Amount   decimal.Decimal `json:"amount"`
	Memo     string          `json:"memo"`
	AuditFields
}
