package mapping

import (
	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/fundacct/fundledger/internal/models"
)

// ToModelAccount converts a domain.Account to its storage model.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:            d.AccountID,
		EntityCode:           d.EntityCode,
		GLCode:               d.GLCode,
		FundNumber:           d.FundNumber,
		Restriction:          string(d.Restriction),
		AccountCode:          d.AccountCode,
		LegacyCode:           d.LegacyCode,
		Classification:       string(d.Classification),
		Description:          d.Description,
		Status:               string(d.Status),
		BalanceSheet:         d.BalanceSheet,
		BeginningBalance:     d.BeginningBalance,
		BeginningBalanceDate: d.BeginningBalanceDate,
		CurrentBalance:       d.CurrentBalance,
		LastUsed:             d.LastUsed,
		AuditFields:          ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a storage model account to its domain form. Legacy
// classification and restriction spellings are canonicalized here so business
// logic never sees raw strings.
func ToDomainAccount(m models.Account) domain.Account {
	classification, ok := domain.ParseClassification(m.Classification)
	if !ok {
		// Unrecognized classifications pass through; SignedDelta treats them
		// as debit-normal rather than dropping amounts.
		classification = domain.Classification(m.Classification)
	}
	restriction, ok := domain.ParseRestriction(m.Restriction)
	if !ok {
		restriction = domain.Restriction(m.Restriction)
	}
	status := domain.ParseAccountStatus(m.Status)
	return domain.Account{
		AccountID:            m.AccountID,
		EntityCode:           m.EntityCode,
		GLCode:               m.GLCode,
		FundNumber:           m.FundNumber,
		Restriction:          restriction,
		AccountCode:          m.AccountCode,
		LegacyCode:           m.LegacyCode,
		Classification:       classification,
		Description:          m.Description,
		Status:               status,
		BalanceSheet:         m.BalanceSheet,
		BeginningBalance:     m.BeginningBalance,
		BeginningBalanceDate: m.BeginningBalanceDate,
		CurrentBalance:       m.CurrentBalance,
		LastUsed:             m.LastUsed,
		AuditFields:          ToDomainAuditFields(m.AuditFields),
	}
}
