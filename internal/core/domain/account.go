package domain

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Classification defines the fundamental accounting type of an account.
type Classification string

const (
	Asset     Classification = "ASSET"
	Liability Classification = "LIABILITY"
	Equity    Classification = "EQUITY"
	Revenue   Classification = "REVENUE"
	Expense   Classification = "EXPENSE"
)

// ParseClassification canonicalizes classification spellings found in legacy
// data ("A", "Assets", "income", ...). Unrecognized input returns false.
func ParseClassification(raw string) (Classification, bool) {
	switch normalizeToken(raw) {
	case "a", "asset", "assets":
		return Asset, true
	case "l", "liability", "liabilities":
		return Liability, true
	case "q", "e", "equity", "netassets", "fundbalance":
		return Equity, true
	case "r", "i", "revenue", "revenues", "income":
		return Revenue, true
	case "x", "expense", "expenses":
		return Expense, true
	}
	return "", false
}

// AccountStatus marks whether an account accepts new postings.
type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountInactive AccountStatus = "INACTIVE"
)

// Account is a chart-of-accounts row. Its identity is the composite of
// entity code, GL code, fund number and restriction; AccountCode must always
// equal the deterministic concatenation of those four parts.
type Account struct {
	AccountID            string          `json:"accountID"` // Primary Key (UUID)
	EntityCode           string          `json:"entityCode"`
	GLCode               string          `json:"glCode"`
	FundNumber           string          `json:"fundNumber"`
	Restriction          Restriction     `json:"restriction"`
	AccountCode          string          `json:"accountCode"` // Canonical composite code
	LegacyCode           string          `json:"legacyCode"`  // Pre-migration alias, nullable
	Classification       Classification  `json:"classification"`
	Description          string          `json:"description"`
	Status               AccountStatus   `json:"status"`
	BalanceSheet         bool            `json:"balanceSheet"`
	BeginningBalance     decimal.Decimal `json:"beginningBalance"`
	BeginningBalanceDate *time.Time      `json:"beginningBalanceDate"`
	CurrentBalance       decimal.Decimal `json:"currentBalance"` // Cached; advisory only
	LastUsed             *time.Time      `json:"lastUsed"`
	AuditFields
}

// ParseAccountStatus canonicalizes account status spellings ("A", "Active",
// "I", "Closed", ...). Anything not recognizably inactive counts as active.
func ParseAccountStatus(raw string) AccountStatus {
	switch normalizeToken(raw) {
	case "i", "inactive", "closed", "disabled", "false", "0":
		return AccountInactive
	}
	return AccountActive
}

// IsActive reports whether the account accepts new postings.
func (a Account) IsActive() bool {
	return a.Status != AccountInactive
}

// normalizeToken lower-cases and strips everything non-alphanumeric, so legacy
// spellings like "Temp. Restricted" and "TEMPRESTRICTED" compare equal.
func normalizeToken(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
