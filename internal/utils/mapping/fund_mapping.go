package mapping

import (
	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/fundacct/fundledger/internal/models"
)

// ToModelFund converts a domain.Fund to its storage model.
func ToModelFund(d domain.Fund) models.Fund {
	return models.Fund{
		FundID:      d.FundID,
		EntityID:    d.EntityID,
		EntityCode:  d.EntityCode,
		FundNumber:  d.FundNumber,
		Restriction: string(d.Restriction),
		Name:        d.Name,
		Balance:     d.Balance,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFund converts a storage model fund to its domain form.
func ToDomainFund(m models.Fund) domain.Fund {
	restriction, ok := domain.ParseRestriction(m.Restriction)
	if !ok {
		restriction = domain.Restriction(m.Restriction)
	}
	return domain.Fund{
		FundID:      m.FundID,
		EntityID:    m.EntityID,
		EntityCode:  m.EntityCode,
		FundNumber:  m.FundNumber,
		Restriction: restriction,
		Name:        m.Name,
		Balance:     m.Balance,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
