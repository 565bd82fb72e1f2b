package domain

// Entity represents a legal/organizational unit that owns funds and accounts.
// Entities form a tree via ParentEntityID; consolidated entities roll up their
// children in reporting.
type Entity struct {
	EntityID       string `json:"entityID"`       // Primary Key (UUID)
	EntityCode     string `json:"entityCode"`     // Unique human-readable code, immutable once referenced
	Name           string `json:"name"`           // Display name
	ParentEntityID string `json:"parentEntityID"` // Nullable self-reference
	IsConsolidated bool   `json:"isConsolidated"`
	AuditFields
}
