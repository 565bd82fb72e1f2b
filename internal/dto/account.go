package dto

import (
	"time"

	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountResponse defines the data returned for a chart-of-accounts row.
type AccountResponse struct {
	AccountID        string          `json:"accountID"`
	AccountCode      string          `json:"accountCode"`
	EntityCode       string          `json:"entityCode"`
	GLCode           string          `json:"glCode"`
	FundNumber       string          `json:"fundNumber"`
	Restriction      string          `json:"restriction"`
	Classification   string          `json:"classification"`
	Description      string          `json:"description"`
	Status           string          `json:"status"`
	BalanceSheet     bool            `json:"balanceSheet"`
	BeginningBalance decimal.Decimal `json:"beginningBalance"`
	CurrentBalance   decimal.Decimal `json:"currentBalance"`
	LastUsed         *time.Time      `json:"lastUsed,omitempty"`
}

// BalanceCheckResponse reports a derivation audit of one account: the balance
// recomputed from posted history against the stored cache.
type BalanceCheckResponse struct {
	AccountID      string          `json:"accountID"`
	AccountCode    string          `json:"accountCode"`
	CachedBalance  decimal.Decimal `json:"cachedBalance"`
	DerivedBalance decimal.Decimal `json:"derivedBalance"`
	Divergent      bool            `json:"divergent"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:        a.AccountID,
		AccountCode:      a.AccountCode,
		EntityCode:       a.EntityCode,
		GLCode:           a.GLCode,
		FundNumber:       a.FundNumber,
		Restriction:      string(a.Restriction),
		Classification:   string(a.Classification),
		Description:      a.Description,
		Status:           string(a.Status),
		BalanceSheet:     a.BalanceSheet,
		BeginningBalance: a.BeginningBalance,
		CurrentBalance:   a.CurrentBalance,
		LastUsed:         a.LastUsed,
	}
}
