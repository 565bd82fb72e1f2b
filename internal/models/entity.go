package models

// Entity mirrors the entities table.
type Entity struct {
	EntityID       string `db:"entity_id"`
	EntityCode     string `db:"entity_code"`
	Name           string `db:"name"`
	ParentEntityID string `db:"parent_entity_id"` // Nullable
	IsConsolidated bool   `db:"is_consolidated"`
	AuditFields
}
