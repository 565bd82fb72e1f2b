package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fundacct/fundledger/internal/apperrors"
	"github.com/fundacct/fundledger/internal/core/domain"
	portsrepo "github.com/fundacct/fundledger/internal/core/ports/repositories"
	portssvc "github.com/fundacct/fundledger/internal/core/ports/services"
	"github.com/fundacct/fundledger/internal/dto"
	"github.com/fundacct/fundledger/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type paymentImportService struct {
	journalRepo portsrepo.JournalRepositoryWithTx
	accountRepo portsrepo.AccountRepositoryFacade
	fundRepo    portsrepo.FundRepositoryFacade
	entityRepo  portsrepo.EntityRepositoryFacade
	vendorRepo  portsrepo.VendorRepositoryFacade
	eftRepo     portsrepo.EFTBatchRepositoryFacade
}

// NewPaymentImportService creates the batched-payments import service.
func NewPaymentImportService(
	journalRepo portsrepo.JournalRepositoryWithTx,
	accountRepo portsrepo.AccountRepositoryFacade,
	fundRepo portsrepo.FundRepositoryFacade,
	entityRepo portsrepo.EntityRepositoryFacade,
	vendorRepo portsrepo.VendorRepositoryFacade,
	eftRepo portsrepo.EFTBatchRepositoryFacade,
) portssvc.PaymentImportSvcFacade {
	return &paymentImportService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		fundRepo:    fundRepo,
		entityRepo:  entityRepo,
		vendorRepo:  vendorRepo,
		eftRepo:     eftRepo,
	}
}

var _ portssvc.PaymentImportSvcFacade = (*paymentImportService)(nil)

// batchKey groups pending rows that settle together.
type batchKey struct {
	reference  string
	effective  string
	settlement string
}

// ImportBatchedPayments routes each row by status: pending rows group into EFT
// batches keyed by (reference, effective date, settlement bank), completed
// rows each post as a balanced two-line journal entry. Rows that cannot be
// resolved are logged and skipped; they never abort the rest of the file.
// Completed rows whose reference number already posted are skipped silently,
// so re-running a file is a no-op.
func (s *paymentImportService) ImportBatchedPayments(ctx context.Context, req dto.ImportPaymentsRequest, userID string) (*dto.PaymentsImportResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	result := &dto.PaymentsImportResult{}
	now := time.Now().UTC()

	vendorCodes := make([]string, 0, len(req.Rows))
	seenVendor := make(map[string]bool)
	for _, row := range req.Rows {
		code := strings.ToUpper(row.VendorCode)
		if !seenVendor[code] {
			seenVendor[code] = true
			vendorCodes = append(vendorCodes, code)
		}
	}
	vendors, err := s.vendorRepo.FindVendorsByCodes(ctx, vendorCodes)
	if err != nil {
		return nil, err
	}

	type pendingItem struct {
		rowNum int
		row    dto.PaymentRow
		vendor domain.Vendor
	}
	pendingByBatch := make(map[batchKey][]pendingItem)
	var batchOrder []batchKey

	for i, row := range req.Rows {
		rowNum := i + 1

		vendor, ok := vendors[strings.ToUpper(row.VendorCode)]
		if !ok {
			result.Errors = append(result.Errors, failRow(rowNum, row.ReferenceNumber, fmt.Sprintf("unknown vendor %q", row.VendorCode)))
			continue
		}
		if !row.Amount.IsPositive() {
			result.Errors = append(result.Errors, failRow(rowNum, row.ReferenceNumber, "amount must be positive"))
			continue
		}

		switch row.Status {
		case dto.PaymentRowPending:
			key := batchKey{
				reference:  row.ReferenceNumber,
				effective:  row.EffectiveDate.Format("2006-01-02"),
				settlement: s.settlementBankOf(row, req.Mapping),
			}
			if _, exists := pendingByBatch[key]; !exists {
				batchOrder = append(batchOrder, key)
			}
			pendingByBatch[key] = append(pendingByBatch[key], pendingItem{rowNum: rowNum, row: row, vendor: vendor})

		case dto.PaymentRowCompleted:
			entryID, err := s.postCompletedRow(ctx, row, vendor, req.Mapping, userID, now)
			if err != nil {
				result.Errors = append(result.Errors, failRow(rowNum, row.ReferenceNumber, err.Error()))
				continue
			}
			if entryID == "" {
				// Reference already posted; idempotent skip.
				logger.Info("Payment row skipped, reference already posted",
					"row", rowNum, "reference", row.ReferenceNumber)
				continue
			}
			result.EntryIDs = append(result.EntryIDs, entryID)

		default:
			result.Errors = append(result.Errors, failRow(rowNum, row.ReferenceNumber, fmt.Sprintf("unrecognized status %q", row.Status)))
		}
	}

	for _, key := range batchOrder {
		items := pendingByBatch[key]
		batch := domain.EFTBatch{
			BatchID:            uuid.NewString(),
			ReferenceNumber:    key.reference,
			EffectiveDate:      items[0].row.EffectiveDate,
			SettlementBankCode: key.settlement,
			Status:             domain.BatchPending,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}

		// Exported files repeat rows; identical (vendor, amount, memo) within
		// one batch collapses to a single item.
		seenItem := make(map[string]bool)
		total := decimal.Zero
		for _, item := range items {
			dedupKey := item.vendor.VendorID + "|" + item.row.Amount.String() + "|" + item.row.Memo
			if seenItem[dedupKey] {
				continue
			}
			seenItem[dedupKey] = true
			batch.Items = append(batch.Items, domain.EFTBatchItem{
				ItemID:   uuid.NewString(),
				BatchID:  batch.BatchID,
				VendorID: item.vendor.VendorID,
				Amount:   item.row.Amount,
				Memo:     item.row.Memo,
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     userID,
					LastUpdatedAt: now,
					LastUpdatedBy: userID,
				},
			})
			total = total.Add(item.row.Amount)
		}
		batch.TotalAmount = total

		if err := s.eftRepo.SaveBatch(ctx, batch); err != nil {
			for _, item := range items {
				result.Errors = append(result.Errors, failRow(item.rowNum, key.reference, "batch save failed: "+err.Error()))
			}
			continue
		}
		result.BatchIDs = append(result.BatchIDs, batch.BatchID)
	}

	logger.Info("Batched payments import finished",
		"batches", len(result.BatchIDs),
		"entries", len(result.EntryIDs),
		"errors", len(result.Errors),
	)
	return result, nil
}

// postCompletedRow posts one completed payment as a two-line entry: debit the
// expense account, credit the entity's settlement bank account. Returns an
// empty id when the reference number already posted.
func (s *paymentImportService) postCompletedRow(ctx context.Context, row dto.PaymentRow, vendor domain.Vendor, mapping dto.PaymentMapping, userID string, now time.Time) (string, error) {
	exists, err := s.journalRepo.ReferenceExists(ctx, row.ReferenceNumber)
	if err != nil {
		return "", err
	}
	if exists {
		return "", nil
	}

	expenseRef := row.ExpenseAccountRef
	if expenseRef == "" {
		expenseRef = vendor.DefaultExpenseAccount
	}
	if expenseRef == "" {
		expenseRef = mapping.DefaultExpenseAccount
	}
	if expenseRef == "" {
		return "", fmt.Errorf("no expense account: row, vendor %s and mapping all omit one", vendor.VendorCode)
	}
	expenseAccount, err := s.resolveActiveAccount(ctx, expenseRef)
	if err != nil {
		return "", err
	}

	bankRef, ok := mapping.BankAccountByEntity[strings.ToUpper(row.EntityCode)]
	if !ok {
		return "", fmt.Errorf("no bank account mapped for entity %q", row.EntityCode)
	}
	bankAccount, err := s.resolveActiveAccount(ctx, bankRef)
	if err != nil {
		return "", err
	}

	fundRef := row.FundRef
	if fundRef == "" {
		fundRef = mapping.DefaultFundRef
	}
	if fundRef == "" {
		fundRef = expenseAccount.FundNumber
	}
	fund, err := s.fundRepo.ResolveFund(ctx, expenseAccount.EntityCode, fundRef)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("unknown fund %q for entity %s", fundRef, expenseAccount.EntityCode)
		}
		return "", err
	}
	bankFund, err := s.fundRepo.ResolveFund(ctx, bankAccount.EntityCode, bankAccount.FundNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", fmt.Errorf("unknown fund %q for bank account %s", bankAccount.FundNumber, bankAccount.AccountCode)
		}
		return "", err
	}

	entryID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	memo := row.Memo
	if memo == "" {
		memo = "Payment to " + vendor.Name
	}
	lines := []domain.JournalLine{
		{
			LineID:         uuid.NewString(),
			EntryID:        entryID,
			AccountID:      expenseAccount.AccountID,
			FundID:         fund.FundID,
			Classification: expenseAccount.Classification,
			Debit:          row.Amount,
			Memo:           memo,
			AuditFields:    audit,
		},
		{
			LineID:         uuid.NewString(),
			EntryID:        entryID,
			AccountID:      bankAccount.AccountID,
			FundID:         bankFund.FundID,
			Classification: bankAccount.Classification,
			Credit:         row.Amount,
			Memo:           memo,
			AuditFields:    audit,
		},
	}

	entry := domain.JournalEntry{
		EntryID:         entryID,
		EntityCode:      strings.ToUpper(row.EntityCode),
		EntryDate:       row.EffectiveDate,
		ReferenceNumber: row.ReferenceNumber,
		EntryType:       "EFT",
		Status:          domain.Posted,
		EntryMode:       domain.Auto,
		TotalAmount:     row.Amount,
		Description:     memo,
		AuditFields:     audit,
	}

	accounts := map[string]domain.Account{
		expenseAccount.AccountID: *expenseAccount,
		bankAccount.AccountID:    *bankAccount,
	}

	if err := s.journalRepo.SaveEntry(ctx, entry, lines, computeDeltas(lines, accounts)); err != nil {
		// A concurrent import may have won the reference race; treat the
		// duplicate as the idempotent skip it is.
		if errors.Is(err, apperrors.ErrDuplicate) {
			return "", nil
		}
		return "", err
	}
	return entryID, nil
}

func (s *paymentImportService) resolveActiveAccount(ctx context.Context, rawRef string) (*domain.Account, error) {
	account, err := s.accountRepo.ResolveAccount(ctx, rawRef)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("unknown account %q", rawRef)
		}
		return nil, err
	}
	if !account.IsActive() {
		return nil, fmt.Errorf("account %s is inactive", account.AccountCode)
	}
	return account, nil
}

func (s *paymentImportService) settlementBankOf(row dto.PaymentRow, mapping dto.PaymentMapping) string {
	if row.SettlementBankCode != "" {
		return row.SettlementBankCode
	}
	return mapping.DefaultSettlementBank
}
