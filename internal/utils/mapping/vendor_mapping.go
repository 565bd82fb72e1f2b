package mapping

import (
	"github.com/fundacct/fundledger/internal/core/domain"
	"github.com/fundacct/fundledger/internal/models"
)

// ToDomainVendor converts a storage model vendor to its domain form.
func ToDomainVendor(m models.Vendor) domain.Vendor {
	return domain.Vendor{
		VendorID:              m.VendorID,
		VendorCode:            m.VendorCode,
		Name:                  m.Name,
		DefaultExpenseAccount: m.DefaultExpenseAccount,
		BankName:              m.BankName,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEFTBatch converts a domain EFT batch header to its storage model.
func ToModelEFTBatch(d domain.EFTBatch) models.EFTBatch {
	return models.EFTBatch{
		BatchID:            d.BatchID,
		ReferenceNumber:    d.ReferenceNumber,
		EffectiveDate:      d.EffectiveDate,
		SettlementBankCode: d.SettlementBankCode,
		Status:             string(d.Status),
		TotalAmount:        d.TotalAmount,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToModelEFTBatchItem converts a domain EFT batch item to its storage model.
func ToModelEFTBatchItem(d domain.EFTBatchItem) models.EFTBatchItem {
	return models.EFTBatchItem{
		ItemID:      d.ItemID,
		BatchID:     d.BatchID,
		VendorID:    d.VendorID,
		Amount:      d.Amount,
		Memo:        d.Memo,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}
