package dto

import "github.com/fundacct/fundledger/internal/core/domain"

// CreateEntityRequest defines the payload for creating an entity.
type CreateEntityRequest struct {
	EntityCode     string `json:"entityCode" binding:"required,alphanum,max=10"`
	Name           string `json:"name" binding:"required"`
	ParentEntityID string `json:"parentEntityID"`
	IsConsolidated bool   `json:"isConsolidated"`
}

// UpdateEntityRequest defines the payload for updating an entity.
type UpdateEntityRequest struct {
	Name           *string `json:"name"`
	IsConsolidated *bool   `json:"isConsolidated"`
}

// EntityResponse defines the data returned for an entity.
type EntityResponse struct {
	EntityID       string `json:"entityID"`
	EntityCode     string `json:"entityCode"`
	Name           string `json:"name"`
	ParentEntityID string `json:"parentEntityID,omitempty"`
	IsConsolidated bool   `json:"isConsolidated"`
}

// ToEntityResponse converts a domain.Entity to its response DTO.
func ToEntityResponse(e *domain.Entity) EntityResponse {
	return EntityResponse{
		EntityID:       e.EntityID,
		EntityCode:     e.EntityCode,
		Name:           e.Name,
		ParentEntityID: e.ParentEntityID,
		IsConsolidated: e.IsConsolidated,
	}
}
