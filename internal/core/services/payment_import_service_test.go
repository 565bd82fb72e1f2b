package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fundacct/fundledger/internal/apperrors"
	"github.com/fundacct/fundledger/internal/core/domain"
	portsrepo "github.com/fundacct/fundledger/internal/core/ports/repositories"
	portssvc "github.com/fundacct/fundledger/internal/core/ports/services"
	"github.com/fundacct/fundledger/internal/core/services"
	"github.com/fundacct/fundledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PaymentImportTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	mockFundRepo    *MockFundRepository
	mockEntityRepo  *MockEntityRepository
	mockVendorRepo  *MockVendorRepository
	mockEFTRepo     *MockEFTBatchRepository
	service         portssvc.PaymentImportSvcFacade

	vendor         domain.Vendor
	expenseAccount domain.Account
	bankAccount    domain.Account
	genFund        domain.Fund
	effectiveDate  time.Time
	mapping        dto.PaymentMapping
	userID         string
}

func (suite *PaymentImportTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockFundRepo = new(MockFundRepository)
	suite.mockEntityRepo = new(MockEntityRepository)
	suite.mockVendorRepo = new(MockVendorRepository)
	suite.mockEFTRepo = new(MockEFTBatchRepository)
	suite.service = services.NewPaymentImportService(
		suite.mockJournalRepo,
		suite.mockAccountRepo,
		suite.mockFundRepo,
		suite.mockEntityRepo,
		suite.mockVendorRepo,
		suite.mockEFTRepo,
	)

	suite.vendor = domain.Vendor{
		VendorID:              "ven-1",
		VendorCode:            "ACME",
		Name:                  "Acme Supplies",
		DefaultExpenseAccount: "TPF-5000-GEN-U",
	}
	suite.expenseAccount = domain.Account{
		AccountID:      "acc-exp",
		EntityCode:     "TPF",
		FundNumber:     "GEN",
		AccountCode:    "TPF-5000-GEN-U",
		Classification: domain.Expense,
		Status:         domain.AccountActive,
	}
	suite.bankAccount = domain.Account{
		AccountID:      "acc-bank",
		EntityCode:     "TPF",
		FundNumber:     "GEN",
		AccountCode:    "TPF-1000-GEN-U",
		Classification: domain.Asset,
		Status:         domain.AccountActive,
	}
	suite.genFund = domain.Fund{FundID: "fund-gen", EntityCode: "TPF", FundNumber: "GEN"}
	suite.effectiveDate = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	suite.mapping = dto.PaymentMapping{
		BankAccountByEntity:   map[string]string{"TPF": "TPF-1000-GEN-U"},
		DefaultSettlementBank: "BANK1",
	}
	suite.userID = "importer"
}

func (suite *PaymentImportTestSuite) pendingRow(reference string, amount int64, memo string) dto.PaymentRow {
	return dto.PaymentRow{
		ReferenceNumber: reference,
		EffectiveDate:   suite.effectiveDate,
		Status:          dto.PaymentRowPending,
		EntityCode:      "TPF",
		VendorCode:      "acme",
		Amount:          decimal.NewFromInt(amount),
		Memo:            memo,
	}
}

func (suite *PaymentImportTestSuite) completedRow(reference string, amount int64) dto.PaymentRow {
	return dto.PaymentRow{
		ReferenceNumber: reference,
		EffectiveDate:   suite.effectiveDate,
		Status:          dto.PaymentRowCompleted,
		EntityCode:      "TPF",
		VendorCode:      "ACME",
		Amount:          decimal.NewFromInt(amount),
	}
}

func (suite *PaymentImportTestSuite) vendorsByCode() map[string]domain.Vendor {
	return map[string]domain.Vendor{"ACME": suite.vendor}
}

func (suite *PaymentImportTestSuite) TestImport_PendingRowsGroupAndDedup() {
	ctx := context.Background()
	req := dto.ImportPaymentsRequest{
		Rows: []dto.PaymentRow{
			suite.pendingRow("EFT-1", 100, "rent"),
			suite.pendingRow("EFT-1", 100, "rent"), // exported duplicate
			suite.pendingRow("EFT-1", 50, "utilities"),
			suite.pendingRow("EFT-2", 75, "insurance"),
		},
		Mapping: suite.mapping,
	}

	suite.mockVendorRepo.On("FindVendorsByCodes", mock.Anything, []string{"ACME"}).Return(suite.vendorsByCode(), nil).Once()
	suite.mockEFTRepo.On("SaveBatch", mock.Anything,
		mock.MatchedBy(func(b domain.EFTBatch) bool {
			return b.ReferenceNumber == "EFT-1" &&
				b.SettlementBankCode == "BANK1" &&
				b.Status == domain.BatchPending &&
				len(b.Items) == 2 &&
				b.TotalAmount.Equal(decimal.NewFromInt(150))
		}),
	).Return(nil).Once()
	suite.mockEFTRepo.On("SaveBatch", mock.Anything,
		mock.MatchedBy(func(b domain.EFTBatch) bool {
			return b.ReferenceNumber == "EFT-2" &&
				len(b.Items) == 1 &&
				b.TotalAmount.Equal(decimal.NewFromInt(75))
		}),
	).Return(nil).Once()

	result, err := suite.service.ImportBatchedPayments(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Len(result.BatchIDs, 2)
	suite.Empty(result.EntryIDs)
	suite.Empty(result.Errors)
	suite.mockEFTRepo.AssertExpectations(suite.T())
}

func (suite *PaymentImportTestSuite) TestImport_CompletedRowPostsTwoLineEntry() {
	ctx := context.Background()
	req := dto.ImportPaymentsRequest{
		Rows:    []dto.PaymentRow{suite.completedRow("CHK-9001", 100)},
		Mapping: suite.mapping,
	}
	hundred := decimal.NewFromInt(100)

	suite.mockVendorRepo.On("FindVendorsByCodes", mock.Anything, []string{"ACME"}).Return(suite.vendorsByCode(), nil).Once()
	suite.mockJournalRepo.On("ReferenceExists", mock.Anything, "CHK-9001").Return(false, nil).Once()
	suite.mockAccountRepo.On("ResolveAccount", mock.Anything, "TPF-5000-GEN-U").Return(&suite.expenseAccount, nil).Once()
	suite.mockAccountRepo.On("ResolveAccount", mock.Anything, "TPF-1000-GEN-U").Return(&suite.bankAccount, nil).Once()
	suite.mockFundRepo.On("ResolveFund", mock.Anything, "TPF", "GEN").Return(&suite.genFund, nil)
	suite.mockJournalRepo.On("SaveEntry", mock.Anything,
		mock.MatchedBy(func(e domain.JournalEntry) bool {
			return e.EntryType == "EFT" &&
				e.Status == domain.Posted &&
				e.EntryMode == domain.Auto &&
				e.ReferenceNumber == "CHK-9001" &&
				e.TotalAmount.Equal(hundred)
		}),
		mock.MatchedBy(func(lines []domain.JournalLine) bool {
			return len(lines) == 2 &&
				lines[0].AccountID == "acc-exp" && lines[0].Debit.Equal(hundred) &&
				lines[1].AccountID == "acc-bank" && lines[1].Credit.Equal(hundred)
		}),
		mock.MatchedBy(func(d portsrepo.BalanceDeltas) bool {
			return d.Accounts["acc-exp"].Equal(hundred) &&
				d.Accounts["acc-bank"].Equal(hundred.Neg()) &&
				d.Funds["fund-gen"].IsZero()
		}),
	).Return(nil).Once()

	result, err := suite.service.ImportBatchedPayments(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Len(result.EntryIDs, 1)
	suite.Empty(result.Errors)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PaymentImportTestSuite) TestImport_CompletedRowAlreadyPostedSkips() {
	ctx := context.Background()
	req := dto.ImportPaymentsRequest{
		Rows:    []dto.PaymentRow{suite.completedRow("CHK-9001", 100)},
		Mapping: suite.mapping,
	}

	suite.mockVendorRepo.On("FindVendorsByCodes", mock.Anything, []string{"ACME"}).Return(suite.vendorsByCode(), nil).Once()
	suite.mockJournalRepo.On("ReferenceExists", mock.Anything, "CHK-9001").Return(true, nil).Once()

	result, err := suite.service.ImportBatchedPayments(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Empty(result.EntryIDs)
	suite.Empty(result.Errors)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentImportTestSuite) TestImport_ReferenceRaceTreatedAsSkip() {
	ctx := context.Background()
	req := dto.ImportPaymentsRequest{
		Rows:    []dto.PaymentRow{suite.completedRow("CHK-9001", 100)},
		Mapping: suite.mapping,
	}

	suite.mockVendorRepo.On("FindVendorsByCodes", mock.Anything, []string{"ACME"}).Return(suite.vendorsByCode(), nil).Once()
	suite.mockJournalRepo.On("ReferenceExists", mock.Anything, "CHK-9001").Return(false, nil).Once()
	suite.mockAccountRepo.On("ResolveAccount", mock.Anything, "TPF-5000-GEN-U").Return(&suite.expenseAccount, nil).Once()
	suite.mockAccountRepo.On("ResolveAccount", mock.Anything, "TPF-1000-GEN-U").Return(&suite.bankAccount, nil).Once()
	suite.mockFundRepo.On("ResolveFund", mock.Anything, "TPF", "GEN").Return(&suite.genFund, nil)
	suite.mockJournalRepo.On("SaveEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	result, err := suite.service.ImportBatchedPayments(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Empty(result.EntryIDs)
	suite.Empty(result.Errors)
}

func (suite *PaymentImportTestSuite) TestImport_UnknownVendorLoggedAndSkipped() {
	ctx := context.Background()
	rows := []dto.PaymentRow{
		suite.completedRow("CHK-1", 100),
		suite.pendingRow("EFT-1", 50, "rent"),
	}
	rows[0].VendorCode = "GHOST"
	req := dto.ImportPaymentsRequest{Rows: rows, Mapping: suite.mapping}

	suite.mockVendorRepo.On("FindVendorsByCodes", mock.Anything, []string{"GHOST", "ACME"}).Return(suite.vendorsByCode(), nil).Once()
	suite.mockEFTRepo.On("SaveBatch", mock.Anything, mock.AnythingOfType("domain.EFTBatch")).Return(nil).Once()

	result, err := suite.service.ImportBatchedPayments(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Len(result.BatchIDs, 1)
	suite.Require().Len(result.Errors, 1)
	suite.Equal(1, result.Errors[0].Row)
	suite.Contains(result.Errors[0].Message, "unknown vendor")
	suite.mockEFTRepo.AssertExpectations(suite.T())
}

func (suite *PaymentImportTestSuite) TestImport_NonPositiveAmountRejected() {
	ctx := context.Background()
	row := suite.pendingRow("EFT-1", 0, "rent")
	req := dto.ImportPaymentsRequest{Rows: []dto.PaymentRow{row}, Mapping: suite.mapping}

	suite.mockVendorRepo.On("FindVendorsByCodes", mock.Anything, []string{"ACME"}).Return(suite.vendorsByCode(), nil).Once()

	result, err := suite.service.ImportBatchedPayments(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Empty(result.BatchIDs)
	suite.Require().Len(result.Errors, 1)
	suite.Contains(result.Errors[0].Message, "amount must be positive")
	suite.mockEFTRepo.AssertNotCalled(suite.T(), "SaveBatch", mock.Anything, mock.Anything)
}

func (suite *PaymentImportTestSuite) TestImport_NoBankMappingFailsTheRow() {
	ctx := context.Background()
	req := dto.ImportPaymentsRequest{
		Rows:    []dto.PaymentRow{suite.completedRow("CHK-1", 100)},
		Mapping: dto.PaymentMapping{BankAccountByEntity: map[string]string{}},
	}

	suite.mockVendorRepo.On("FindVendorsByCodes", mock.Anything, []string{"ACME"}).Return(suite.vendorsByCode(), nil).Once()
	suite.mockJournalRepo.On("ReferenceExists", mock.Anything, "CHK-1").Return(false, nil).Once()
	suite.mockAccountRepo.On("ResolveAccount", mock.Anything, "TPF-5000-GEN-U").Return(&suite.expenseAccount, nil).Once()

	result, err := suite.service.ImportBatchedPayments(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(result.Errors, 1)
	suite.Contains(result.Errors[0].Message, "no bank account mapped")
}

func TestPaymentImportService(t *testing.T) {
	suite.Run(t, new(PaymentImportTestSuite))
}
