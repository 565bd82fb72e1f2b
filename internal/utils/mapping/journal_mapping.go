package mapping

import (
	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/fundacct/fundledger/internal/models"
)

// ToModelJournalEntry converts a domain entry header to its storage model.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          d.EntryID,
		EntityCode:       d.EntityCode,
		TargetEntityCode: d.TargetEntityCode,
		EntryDate:        d.EntryDate,
		ReferenceNumber:  d.ReferenceNumber,
		EntryType:        d.EntryType,
		Status:           string(d.Status),
		EntryMode:        string(d.EntryMode),
		TotalAmount:      d.TotalAmount,
		Description:      d.Description,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a storage model header to its domain form.
// The status string has already been canonicalized by the repository scan
// (which also consults the legacy posted flag when present).
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	mode := domain.Manual
	if m.EntryMode != "" {
		mode = domain.EntryMode(m.EntryMode)
	}
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		EntityCode:       m.EntityCode,
		TargetEntityCode: m.TargetEntityCode,
		EntryDate:        m.EntryDate,
		ReferenceNumber:  m.ReferenceNumber,
		EntryType:        m.EntryType,
		Status:           domain.EntryStatus(m.Status),
		EntryMode:        mode,
		TotalAmount:      m.TotalAmount,
		Description:      m.Description,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalEntryItem converts a domain line to its storage model.
func ToModelJournalEntryItem(d domain.JournalLine) models.JournalEntryItem {
	return models.JournalEntryItem{
		ItemID:         d.LineID,
		EntryID:        d.EntryID,
		AccountID:      d.AccountID,
		FundID:         d.FundID,
		Classification: string(d.Classification),
		Debit:          d.Debit,
		Credit:         d.Credit,
		Memo:           d.Memo,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalLine converts a storage model line to its domain form. An
// empty or unrecognized classification snapshot stays empty; delta computation
// falls back to the account's current classification for those lines.
func ToDomainJournalLine(m models.JournalEntryItem) domain.JournalLine {
	classification, _ := domain.ParseClassification(m.Classification)
	return domain.JournalLine{
		LineID:         m.ItemID,
		EntryID:        m.EntryID,
		AccountID:      m.AccountID,
		FundID:         m.FundID,
		Classification: classification,
		Debit:          m.Debit,
		Credit:         m.Credit,
		Memo:           m.Memo,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalLineSlice converts a slice of storage model lines.
func ToDomainJournalLineSlice(ms []models.JournalEntryItem) []domain.JournalLine {
	out := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		out[i] = ToDomainJournalLine(m)
	}
	return out
}
