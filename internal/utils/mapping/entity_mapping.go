package mapping

import (
	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/fundacct/fundledger/internal/models"
)

// ToModelEntity converts a domain.Entity to its storage model.
func ToModelEntity(d domain.Entity) models.Entity {
	return models.Entity{
		EntityID:       d.EntityID,
		EntityCode:     d.EntityCode,
		Name:           d.Name,
		ParentEntityID: d.ParentEntityID,
		IsConsolidated: d.IsConsolidated,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntity converts a storage model entity to its domain form.
func ToDomainEntity(m models.Entity) domain.Entity {
	return domain.Entity{
		EntityID:       m.EntityID,
		EntityCode:     m.EntityCode,
		Name:           m.Name,
		ParentEntityID: m.ParentEntityID,
		IsConsolidated: m.IsConsolidated,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
