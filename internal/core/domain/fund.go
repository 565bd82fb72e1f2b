package domain

import "github.com/shopspring/decimal"

// Restriction is the donor-imposed constraint class on a fund.
type Restriction string

const (
	Unrestricted          Restriction = "U"
	TemporarilyRestricted Restriction = "T"
	PermanentlyRestricted Restriction = "P"
)

// ParseRestriction canonicalizes the restriction spellings seen across
// installations ("U", "Unrestricted", "TEMP", ...) into one tagged value.
// Unrecognized input returns false; callers decide whether that is fatal.
func ParseRestriction(raw string) (Restriction, bool) {
	switch normalizeToken(raw) {
	case "u", "unrestricted":
		return Unrestricted, true
	case "t", "tr", "temp", "temporarilyrestricted", "temporarily":
		return TemporarilyRestricted, true
	case "p", "pr", "perm", "permanentlyrestricted", "permanently":
		return PermanentlyRestricted, true
	}
	return "", false
}

// Fund is a sub-ledger scoped to one entity. (entity, fund_number, restriction)
// is unique. Balance is a derived cache maintained only by balance propagation;
// the posted line history is authoritative.
type Fund struct {
	FundID      string          `json:"fundID"`     // Primary Key (UUID)
	EntityID    string          `json:"entityID"`   // FK -> entities.entity_id
	EntityCode  string          `json:"entityCode"` // Denormalized for resolution
	FundNumber  string          `json:"fundNumber"` // Unique within entity
	Restriction Restriction     `json:"restriction"`
	Name        string          `json:"name"`
	Balance     decimal.Decimal `json:"balance"` // Cached; advisory only
	AuditFields
}
