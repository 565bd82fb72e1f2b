package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ImportLogRow is one line of an import audit log. Status is "OK" or "FAIL";
// Action is "Inserted"/"Updated" for successful account rows.
type ImportLogRow struct {
	Row     int    `json:"row"`
	Status  string `json:"status"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// String renders the audit line in the `OK,Inserted,row,code` format the
// operators grep for.
func (r ImportLogRow) String() string {
	if r.Status == "OK" {
		return fmt.Sprintf("OK,%s,%d,%s", r.Action, r.Row, r.Code)
	}
	return fmt.Sprintf("FAIL,%d,%s,%s", r.Row, r.Code, r.Message)
}

// AccountsImportResult is the outcome of a chart-of-accounts CSV import.
// Ok is false when validation failed; in that case nothing was committed and
// Log holds every row failure, not just the first.
type AccountsImportResult struct {
	Ok       bool           `json:"ok"`
	Inserted int            `json:"inserted"`
	Updated  int            `json:"updated"`
	Log      []ImportLogRow `json:"log"`
}

// PaymentRowStatus distinguishes rows routed to a pending EFT batch from rows
// posted as completed payments.
const (
	PaymentRowPending   = "pending"
	PaymentRowCompleted = "completed"
)

// PaymentRow is one raw row of a batched-payments file.
type PaymentRow struct {
	ReferenceNumber    string          `json:"referenceNumber" binding:"required"`
	EffectiveDate      time.Time       `json:"effectiveDate" binding:"required"`
	Status             string          `json:"status" binding:"required,oneof=pending completed"`
	EntityCode         string          `json:"entityCode" binding:"required"`
	VendorCode         string          `json:"vendorCode" binding:"required"`
	Amount             decimal.Decimal `json:"amount" binding:"required"`
	Memo               string          `json:"memo"`
	FundRef            string          `json:"fundRef"`
	ExpenseAccountRef  string          `json:"expenseAccountRef"`
	SettlementBankCode string          `json:"settlementBankCode"`
}

// PaymentMapping supplies the installation-specific account wiring the
// payments pipeline needs: which bank/cash account each entity settles
// through, and fallbacks for rows that omit their own references.
type PaymentMapping struct {
	BankAccountByEntity   map[string]string `json:"bankAccountByEntity" binding:"required"`
	DefaultExpenseAccount string            `json:"defaultExpenseAccount"`
	DefaultSettlementBank string            `json:"defaultSettlementBank"`
	DefaultFundRef        string            `json:"defaultFundRef"`
}

// ImportPaymentsRequest is the payload of a batched-payments import.
type ImportPaymentsRequest struct {
	Rows    []PaymentRow   `json:"rows" binding:"required,min=1,dive"`
	Mapping PaymentMapping `json:"mapping" binding:"required"`
}

// PaymentsImportResult is the outcome of a batched-payments import. Unresolved
// rows are logged and skipped; they never abort the batch.
type PaymentsImportResult struct {
	BatchIDs []string       `json:"batches"`
	EntryIDs []string       `json:"journalEntries"`
	Errors   []ImportLogRow `json:"errors"`
}
