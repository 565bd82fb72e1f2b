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

type PostingServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountRepo *MockAccountRepository
	mockFundRepo    *MockFundRepository
	mockEntityRepo  *MockEntityRepository
	service         portssvc.PostingSvcFacade

	entity         domain.Entity
	expenseAccount domain.Account
	cashAccount    domain.Account
	genFund        domain.Fund
	restFund       domain.Fund
	userID         string
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockFundRepo = new(MockFundRepository)
	suite.mockEntityRepo = new(MockEntityRepository)
	suite.service = services.NewPostingService(
		suite.mockJournalRepo,
		suite.mockAccountRepo,
		suite.mockFundRepo,
		suite.mockEntityRepo,
	)

	suite.userID = "user-1"
	suite.entity = domain.Entity{EntityID: "ent-1", EntityCode: "TPF", Name: "The Parent Foundation"}
	suite.expenseAccount = domain.Account{
		AccountID:      "acc-exp",
		EntityCode:     "TPF",
		GLCode:         "5000",
		FundNumber:     "GEN",
		Restriction:    domain.Unrestricted,
		AccountCode:    "TPF-5000-GEN-U",
		Classification: domain.Expense,
		Status:         domain.AccountActive,
	}
	suite.cashAccount = domain.Account{
		AccountID:      "acc-cash",
		EntityCode:     "TPF",
		GLCode:         "1000",
		FundNumber:     "GEN",
		Restriction:    domain.Unrestricted,
		AccountCode:    "TPF-1000-GEN-U",
		Classification: domain.Asset,
		Status:         domain.AccountActive,
	}
	suite.genFund = domain.Fund{FundID: "fund-gen", EntityCode: "TPF", FundNumber: "GEN", Restriction: domain.Unrestricted}
	suite.restFund = domain.Fund{FundID: "fund-rest", EntityCode: "TPF", FundNumber: "REST", Restriction: domain.TemporarilyRestricted}
}

func (suite *PostingServiceTestSuite) balancedRequest(status string) dto.CreateEntryRequest {
	return dto.CreateEntryRequest{
		EntityCode: "TPF",
		EntryDate:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:     status,
		Lines: []dto.EntryLineRequest{
			{AccountRef: "TPF-5000-GEN-U", FundRef: "REST", Debit: decimal.NewFromInt(100)},
			{AccountRef: "TPF-1000-GEN-U", Credit: decimal.NewFromInt(100)},
		},
	}
}

func (suite *PostingServiceTestSuite) expectResolution() {
	ctx := mock.Anything
	suite.mockEntityRepo.On("FindEntityByCode", ctx, "TPF").Return(&suite.entity, nil)
	suite.mockAccountRepo.On("ResolveAccount", ctx, "TPF-5000-GEN-U").Return(&suite.expenseAccount, nil)
	suite.mockAccountRepo.On("ResolveAccount", ctx, "TPF-1000-GEN-U").Return(&suite.cashAccount, nil)
	suite.mockFundRepo.On("ResolveFund", ctx, "TPF", "REST").Return(&suite.restFund, nil)
	// The credit line omits its fund; it falls back to the account's own.
	suite.mockFundRepo.On("ResolveFund", ctx, "TPF", "GEN").Return(&suite.genFund, nil)
}

func (suite *PostingServiceTestSuite) TestCreateEntry_PostedComputesDeltas() {
	ctx := context.Background()
	suite.expectResolution()

	hundred := decimal.NewFromInt(100)
	suite.mockJournalRepo.On("SaveEntry", mock.Anything,
		mock.AnythingOfType("domain.JournalEntry"),
		mock.AnythingOfType("[]domain.JournalLine"),
		mock.MatchedBy(func(d portsrepo.BalanceDeltas) bool {
			return d.Accounts["acc-exp"].Equal(hundred) &&
				d.Accounts["acc-cash"].Equal(hundred.Neg()) &&
				d.Funds["fund-rest"].Equal(hundred) &&
				d.Funds["fund-gen"].Equal(hundred.Neg())
		}),
	).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.balancedRequest("posted"), suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(entry)
	suite.Equal(domain.Posted, entry.Status)
	suite.Equal(domain.Manual, entry.EntryMode)
	suite.Equal("TPF", entry.EntityCode)
	suite.True(entry.TotalAmount.Equal(hundred))
	suite.Len(entry.Lines, 2)
	suite.Equal("fund-rest", entry.Lines[0].FundID)
	suite.Equal("fund-gen", entry.Lines[1].FundID)
	suite.Equal(domain.Expense, entry.Lines[0].Classification)
	suite.Equal(domain.Asset, entry.Lines[1].Classification)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestCreateEntry_DraftLeavesBalancesAlone() {
	ctx := context.Background()
	suite.expectResolution()

	suite.mockJournalRepo.On("SaveEntry", mock.Anything,
		mock.AnythingOfType("domain.JournalEntry"),
		mock.AnythingOfType("[]domain.JournalLine"),
		mock.MatchedBy(func(d portsrepo.BalanceDeltas) bool {
			return len(d.Accounts) == 0 && len(d.Funds) == 0
		}),
	).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, suite.balancedRequest(""), suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, entry.Status)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestCreateEntry_UnbalancedRejected() {
	ctx := context.Background()
	suite.expectResolution()

	req := suite.balancedRequest("posted")
	req.Lines[1].Credit = decimal.NewFromInt(90)

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestCreateEntry_PendingMayBeUnbalanced() {
	ctx := context.Background()
	suite.expectResolution()

	req := suite.balancedRequest("pending")
	req.Lines = req.Lines[:1]

	suite.mockJournalRepo.On("SaveEntry", mock.Anything,
		mock.AnythingOfType("domain.JournalEntry"),
		mock.AnythingOfType("[]domain.JournalLine"),
		mock.MatchedBy(func(d portsrepo.BalanceDeltas) bool {
			return len(d.Accounts) == 0 && len(d.Funds) == 0
		}),
	).Return(nil).Once()

	entry, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Pending, entry.Status)
	suite.Len(entry.Lines, 1)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestCreateEntry_PendingStillValidatesEachLine() {
	ctx := context.Background()
	suite.expectResolution()

	// Pending relaxes the balance check only. A line carrying both sides and a
	// line carrying neither are malformed regardless of status.
	req := suite.balancedRequest("pending")
	req.Lines[0].Debit = decimal.NewFromInt(50)
	req.Lines[0].Credit = decimal.NewFromInt(50)
	req.Lines[1].Debit = decimal.Zero
	req.Lines[1].Credit = decimal.Zero

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.NotErrorIs(err, apperrors.ErrUnbalanced)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestCreateEntry_PendingNegativeAmountRejected() {
	ctx := context.Background()
	suite.expectResolution()

	req := suite.balancedRequest("pending")
	req.Lines[0].Debit = decimal.NewFromInt(-100)

	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestCreateEntry_BadStatusRejected() {
	ctx := context.Background()

	req := suite.balancedRequest("approved")
	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockEntityRepo.AssertNotCalled(suite.T(), "FindEntityByCode", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestCreateEntry_UnknownEntityRejected() {
	ctx := context.Background()
	suite.mockEntityRepo.On("FindEntityByCode", mock.Anything, "TPF").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateEntry(ctx, suite.balancedRequest(""), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestCreateEntry_DuplicateReferenceRejected() {
	ctx := context.Background()
	suite.mockEntityRepo.On("FindEntityByCode", mock.Anything, "TPF").Return(&suite.entity, nil)
	suite.mockJournalRepo.On("ReferenceExists", mock.Anything, "CHK-1001").Return(true, nil).Once()

	req := suite.balancedRequest("")
	req.ReferenceNumber = "CHK-1001"
	_, err := suite.service.CreateEntry(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestCreateEntry_UnknownAccountRejected() {
	ctx := context.Background()
	suite.mockEntityRepo.On("FindEntityByCode", mock.Anything, "TPF").Return(&suite.entity, nil)
	suite.mockAccountRepo.On("ResolveAccount", mock.Anything, "TPF-5000-GEN-U").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateEntry(ctx, suite.balancedRequest(""), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "unknown account")
}

func (suite *PostingServiceTestSuite) TestCreateEntry_InactiveAccountRejected() {
	ctx := context.Background()
	inactive := suite.expenseAccount
	inactive.Status = domain.AccountInactive

	suite.mockEntityRepo.On("FindEntityByCode", mock.Anything, "TPF").Return(&suite.entity, nil)
	suite.mockAccountRepo.On("ResolveAccount", mock.Anything, "TPF-5000-GEN-U").Return(&inactive, nil).Once()

	_, err := suite.service.CreateEntry(ctx, suite.balancedRequest(""), suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "inactive")
}

func (suite *PostingServiceTestSuite) storedLines(entryID string) []domain.JournalLine {
	return []domain.JournalLine{
		{LineID: "line-1", EntryID: entryID, AccountID: "acc-exp", FundID: "fund-rest", Debit: decimal.NewFromInt(100)},
		{LineID: "line-2", EntryID: entryID, AccountID: "acc-cash", FundID: "fund-gen", Credit: decimal.NewFromInt(100)},
	}
}

func (suite *PostingServiceTestSuite) accountsByID() map[string]domain.Account {
	return map[string]domain.Account{
		"acc-exp":  suite.expenseAccount,
		"acc-cash": suite.cashAccount,
	}
}

func (suite *PostingServiceTestSuite) TestPostEntry_AppliesDeltasAtomically() {
	ctx := context.Background()
	entry := &domain.JournalEntry{EntryID: "entry-1", EntityCode: "TPF", Status: domain.Draft}
	hundred := decimal.NewFromInt(100)

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "entry-1").Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "entry-1").Return(suite.storedLines("entry-1"), nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, []string{"acc-exp", "acc-cash"}).Return(suite.accountsByID(), nil).Once()
	suite.mockJournalRepo.On("MarkPosted", mock.Anything, "entry-1",
		mock.MatchedBy(func(d portsrepo.BalanceDeltas) bool {
			return d.Accounts["acc-exp"].Equal(hundred) &&
				d.Accounts["acc-cash"].Equal(hundred.Neg()) &&
				d.Funds["fund-rest"].Equal(hundred) &&
				d.Funds["fund-gen"].Equal(hundred.Neg())
		}),
		suite.userID, mock.AnythingOfType("time.Time"),
	).Return(nil).Once()

	posted, err := suite.service.PostEntry(ctx, "entry-1", suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.Len(posted.Lines, 2)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostEntry_AlreadyPostedConflicts() {
	ctx := context.Background()
	entry := &domain.JournalEntry{EntryID: "entry-1", Status: domain.Posted}
	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "entry-1").Return(entry, nil).Once()

	_, err := suite.service.PostEntry(ctx, "entry-1", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostEntry_UnbalancedRejected() {
	ctx := context.Background()
	entry := &domain.JournalEntry{EntryID: "entry-1", Status: domain.Pending}
	lines := suite.storedLines("entry-1")[:1]

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "entry-1").Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "entry-1").Return(lines, nil).Once()

	_, err := suite.service.PostEntry(ctx, "entry-1", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostEntry_InactiveAccountRejected() {
	ctx := context.Background()
	entry := &domain.JournalEntry{EntryID: "entry-1", Status: domain.Draft}
	accounts := suite.accountsByID()
	inactive := accounts["acc-exp"]
	inactive.Status = domain.AccountInactive
	accounts["acc-exp"] = inactive

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "entry-1").Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "entry-1").Return(suite.storedLines("entry-1"), nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, []string{"acc-exp", "acc-cash"}).Return(accounts, nil).Once()

	_, err := suite.service.PostEntry(ctx, "entry-1", suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "MarkPosted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestDeleteEntry_PostedReversesBalances() {
	ctx := context.Background()
	entry := &domain.JournalEntry{EntryID: "entry-1", Status: domain.Posted}
	hundred := decimal.NewFromInt(100)

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "entry-1").Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "entry-1").Return(suite.storedLines("entry-1"), nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, []string{"acc-exp", "acc-cash"}).Return(suite.accountsByID(), nil).Once()
	suite.mockJournalRepo.On("DeleteEntry", mock.Anything, "entry-1",
		mock.MatchedBy(func(d portsrepo.BalanceDeltas) bool {
			return d.Accounts["acc-exp"].Equal(hundred.Neg()) &&
				d.Accounts["acc-cash"].Equal(hundred) &&
				d.Funds["fund-rest"].Equal(hundred.Neg()) &&
				d.Funds["fund-gen"].Equal(hundred)
		}),
	).Return(nil).Once()

	err := suite.service.DeleteEntry(ctx, "entry-1", suite.userID)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestDeleteEntry_ReversesUnderRecordedClassification() {
	ctx := context.Background()
	entry := &domain.JournalEntry{EntryID: "entry-1", Status: domain.Posted}
	hundred := decimal.NewFromInt(100)

	// Lines written since the classification snapshot carry the classification
	// they posted under. The reversal follows the snapshot, so a later CSV
	// re-import that reclassifies an account cannot skew it, and the current
	// account rows are never fetched.
	lines := []domain.JournalLine{
		{LineID: "line-1", EntryID: "entry-1", AccountID: "acc-exp", FundID: "fund-rest",
			Classification: domain.Expense, Debit: hundred},
		{LineID: "line-2", EntryID: "entry-1", AccountID: "acc-cash", FundID: "fund-gen",
			Classification: domain.Asset, Credit: hundred},
	}

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "entry-1").Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "entry-1").Return(lines, nil).Once()
	suite.mockJournalRepo.On("DeleteEntry", mock.Anything, "entry-1",
		mock.MatchedBy(func(d portsrepo.BalanceDeltas) bool {
			return d.Accounts["acc-exp"].Equal(hundred.Neg()) &&
				d.Accounts["acc-cash"].Equal(hundred) &&
				d.Funds["fund-rest"].Equal(hundred.Neg()) &&
				d.Funds["fund-gen"].Equal(hundred)
		}),
	).Return(nil).Once()

	err := suite.service.DeleteEntry(ctx, "entry-1", suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestDeleteEntry_DraftSkipsBalances() {
	ctx := context.Background()
	entry := &domain.JournalEntry{EntryID: "entry-1", Status: domain.Draft}

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "entry-1").Return(entry, nil).Once()
	suite.mockJournalRepo.On("DeleteEntry", mock.Anything, "entry-1",
		mock.MatchedBy(func(d portsrepo.BalanceDeltas) bool {
			return len(d.Accounts) == 0 && len(d.Funds) == 0
		}),
	).Return(nil).Once()

	err := suite.service.DeleteEntry(ctx, "entry-1", suite.userID)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindLinesByEntryID", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReplaceLines_PostedNetsDeltas() {
	ctx := context.Background()
	entry := &domain.JournalEntry{EntryID: "entry-1", EntityCode: "TPF", Status: domain.Posted, TotalAmount: decimal.NewFromInt(100)}
	oldLines := []domain.JournalLine{
		{LineID: "line-1", EntryID: "entry-1", AccountID: "acc-exp", FundID: "fund-gen", Debit: decimal.NewFromInt(100)},
		{LineID: "line-2", EntryID: "entry-1", AccountID: "acc-cash", FundID: "fund-gen", Credit: decimal.NewFromInt(100)},
	}
	req := dto.ReplaceLinesRequest{
		Lines: []dto.EntryLineRequest{
			{AccountRef: "TPF-5000-GEN-U", Debit: decimal.NewFromInt(40)},
			{AccountRef: "TPF-1000-GEN-U", Credit: decimal.NewFromInt(40)},
		},
	}

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "entry-1").Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "entry-1").Return(oldLines, nil).Once()
	suite.mockAccountRepo.On("ResolveAccount", mock.Anything, "TPF-5000-GEN-U").Return(&suite.expenseAccount, nil)
	suite.mockAccountRepo.On("ResolveAccount", mock.Anything, "TPF-1000-GEN-U").Return(&suite.cashAccount, nil)
	suite.mockFundRepo.On("ResolveFund", mock.Anything, "TPF", "GEN").Return(&suite.genFund, nil)
	suite.mockAccountRepo.On("FindAccountsByIDs", mock.Anything, []string{"acc-exp", "acc-cash"}).Return(suite.accountsByID(), nil).Once()

	sixty := decimal.NewFromInt(60)
	forty := decimal.NewFromInt(40)
	suite.mockJournalRepo.On("ReplaceEntryLines", mock.Anything, "entry-1",
		mock.AnythingOfType("[]domain.JournalLine"),
		mock.MatchedBy(func(total decimal.Decimal) bool { return total.Equal(forty) }),
		mock.MatchedBy(func(d portsrepo.BalanceDeltas) bool {
			// Old effects reversed plus new effects applied: 100 debit down to 40.
			return d.Accounts["acc-exp"].Equal(sixty.Neg()) &&
				d.Accounts["acc-cash"].Equal(sixty) &&
				d.Funds["fund-gen"].IsZero()
		}),
		suite.userID, mock.AnythingOfType("time.Time"),
	).Return(nil).Once()

	updated, err := suite.service.ReplaceLines(ctx, "entry-1", req, suite.userID)

	suite.Require().NoError(err)
	suite.True(updated.TotalAmount.Equal(forty))
	suite.Len(updated.Lines, 2)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReplaceLines_DraftSkipsDeltas() {
	ctx := context.Background()
	entry := &domain.JournalEntry{EntryID: "entry-1", EntityCode: "TPF", Status: domain.Draft}
	req := dto.ReplaceLinesRequest{
		Lines: []dto.EntryLineRequest{
			{AccountRef: "TPF-5000-GEN-U", Debit: decimal.NewFromInt(40)},
			{AccountRef: "TPF-1000-GEN-U", Credit: decimal.NewFromInt(40)},
		},
	}

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "entry-1").Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "entry-1").Return([]domain.JournalLine{}, nil).Once()
	suite.mockAccountRepo.On("ResolveAccount", mock.Anything, "TPF-5000-GEN-U").Return(&suite.expenseAccount, nil)
	suite.mockAccountRepo.On("ResolveAccount", mock.Anything, "TPF-1000-GEN-U").Return(&suite.cashAccount, nil)
	suite.mockFundRepo.On("ResolveFund", mock.Anything, "TPF", "GEN").Return(&suite.genFund, nil)
	suite.mockJournalRepo.On("ReplaceEntryLines", mock.Anything, "entry-1",
		mock.AnythingOfType("[]domain.JournalLine"),
		mock.AnythingOfType("decimal.Decimal"),
		mock.MatchedBy(func(d portsrepo.BalanceDeltas) bool {
			return len(d.Accounts) == 0 && len(d.Funds) == 0
		}),
		suite.userID, mock.AnythingOfType("time.Time"),
	).Return(nil).Once()

	_, err := suite.service.ReplaceLines(ctx, "entry-1", req, suite.userID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountsByIDs", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestGetEntryByID_AttachesLines() {
	ctx := context.Background()
	entry := &domain.JournalEntry{EntryID: "entry-1", Status: domain.Posted}
	lines := suite.storedLines("entry-1")

	suite.mockJournalRepo.On("FindEntryByID", mock.Anything, "entry-1").Return(entry, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", mock.Anything, "entry-1").Return(lines, nil).Once()

	got, err := suite.service.GetEntryByID(ctx, "entry-1")

	suite.Require().NoError(err)
	suite.Len(got.Lines, 2)
}

func (suite *PostingServiceTestSuite) TestListEntries_MapsToResponse() {
	ctx := context.Background()
	entries := []domain.JournalEntry{
		{EntryID: "entry-2", EntityCode: "TPF", Status: domain.Posted},
		{EntryID: "entry-1", EntityCode: "TPF", Status: domain.Draft},
	}
	suite.mockJournalRepo.On("ListEntriesByEntity", mock.Anything, "TPF", 10, (*string)(nil)).Return(entries, "tok", nil).Once()

	resp, err := suite.service.ListEntries(ctx, "TPF", dto.ListEntriesParams{Limit: 10})

	suite.Require().NoError(err)
	suite.Len(resp.Entries, 2)
	suite.Equal("entry-2", resp.Entries[0].EntryID)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal("tok", *resp.NextToken)
}

func TestPostingService(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
