package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the lifecycle state of a journal entry. Draft and Pending
// entries may still be edited; Posted is terminal (delete reverses balances).
type EntryStatus string

const (
	Draft   EntryStatus = "DRAFT"
	Pending EntryStatus = "PENDING"
	Posted  EntryStatus = "POSTED"
)

// ParseEntryStatus canonicalizes the status shapes that coexist across
// installations: a status string column, a legacy boolean `posted` column, or
// both. This is the single place raw storage values become an EntryStatus;
// business logic never branches on raw strings.
func ParseEntryStatus(raw string, postedFlag *bool) EntryStatus {
	switch normalizeToken(raw) {
	case "posted", "p", "true", "1", "complete", "completed":
		return Posted
	case "pending":
		return Pending
	case "draft", "d", "open":
		return Draft
	}
	if postedFlag != nil {
		if *postedFlag {
			return Posted
		}
		return Draft
	}
	// Historical installs wrote entries straight to posted with no marker.
	if raw == "" {
		return Posted
	}
	return Draft
}

// EntryMode records whether a journal entry was keyed by a user or produced by
// an automated importer.
type EntryMode string

const (
	Manual EntryMode = "MANUAL"
	Auto   EntryMode = "AUTO"
)

// JournalEntry is the header of a balanced financial event. It exclusively owns
// its lines; TotalAmount caches the sum of debits for display.
type JournalEntry struct {
	EntryID          string          `json:"entryID"`          // Primary Key (UUID)
	EntityCode       string          `json:"entityCode"`       // Owning entity
	TargetEntityCode string          `json:"targetEntityCode"` // Nullable; inter-entity transfers
	EntryDate        time.Time       `json:"entryDate"`
	ReferenceNumber  string          `json:"referenceNumber"` // Unique across the ledger when present
	EntryType        string          `json:"entryType"`       // Free-form source tag (GJ, AP, EFT, ...)
	Status           EntryStatus     `json:"status"`
	EntryMode        EntryMode       `json:"entryMode"`
	TotalAmount      decimal.Decimal `json:"totalAmount"` // Cached sum of debits
	Description      string          `json:"description"`
	Lines            []JournalLine   `json:"lines,omitempty"` // Often loaded separately
	AuditFields
}

// JournalLine is one line item of a journal entry. Exactly one of Debit/Credit
// is non-zero. Classification records the account's classification at the time
// the line was written; reversals use it, not the account's current value,
// so re-importing an account under a new classification cannot corrupt the
// balance caches. Empty on rows written before the column existed.
type JournalLine struct {
	LineID         string          `json:"lineID"`  // Primary Key (UUID)
	EntryID        string          `json:"entryID"` // FK -> JournalEntry.entryID
	AccountID      string          `json:"accountID"`
	FundID         string          `json:"fundID"`
	Classification Classification  `json:"classification,omitempty"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Memo           string          `json:"memo"`
	AuditFields
}

// Amount returns the non-zero side of the line.
func (l JournalLine) Amount() decimal.Decimal {
	if l.Debit.IsZero() {
		return l.Credit
	}
	return l.Debit
}

// IsDebit reports whether the line's non-zero side is the debit side.
func (l JournalLine) IsDebit() bool {
	return !l.Debit.IsZero()
}
