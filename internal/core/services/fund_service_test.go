package services_test

import (
	"context"
	"testing"

	"github.com/fundacct/fundledger/internal/apperrors"
	"github.com/fundacct/fundledger/internal/core/domain"
	portssvc "github.com/fundacct/fundledger/internal/core/ports/services"
	"github.com/fundacct/fundledger/internal/core/services"
	"github.com/fundacct/fundledger/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type FundServiceTestSuite struct {
	suite.Suite
	mockFundRepo   *MockFundRepository
	mockEntityRepo *MockEntityRepository
	service        portssvc.FundSvcFacade
	entity         domain.Entity
}

func (suite *FundServiceTestSuite) SetupTest() {
	suite.mockFundRepo = new(MockFundRepository)
	suite.mockEntityRepo = new(MockEntityRepository)
	suite.service = services.NewFundService(suite.mockFundRepo, suite.mockEntityRepo)
	suite.entity = domain.Entity{EntityID: "ent-1", EntityCode: "TPF"}
}

func (suite *FundServiceTestSuite) TestCreateFund_Success() {
	ctx := context.Background()
	req := dto.CreateFundRequest{
		EntityCode:  "TPF",
		FundNumber:  "gen",
		Restriction: "Temporarily Restricted",
		Name:        "General Fund",
	}

	suite.mockEntityRepo.On("FindEntityByCode", ctx, "TPF").Return(&suite.entity, nil).Once()
	suite.mockFundRepo.On("SaveFund", ctx, mock.MatchedBy(func(f domain.Fund) bool {
		return f.EntityID == "ent-1" &&
			f.FundNumber == "GEN" &&
			f.Restriction == domain.TemporarilyRestricted &&
			f.Balance.IsZero()
	})).Return(nil).Once()

	fund, err := suite.service.CreateFund(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.NotEmpty(fund.FundID)
	suite.Equal("GEN", fund.FundNumber)
	suite.mockFundRepo.AssertExpectations(suite.T())
}

func (suite *FundServiceTestSuite) TestCreateFund_UnknownEntity() {
	ctx := context.Background()
	req := dto.CreateFundRequest{EntityCode: "XXX", FundNumber: "GEN", Restriction: "U", Name: "General"}
	suite.mockEntityRepo.On("FindEntityByCode", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateFund(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFundRepo.AssertNotCalled(suite.T(), "SaveFund", mock.Anything, mock.Anything)
}

func (suite *FundServiceTestSuite) TestCreateFund_BadRestriction() {
	ctx := context.Background()
	req := dto.CreateFundRequest{EntityCode: "TPF", FundNumber: "GEN", Restriction: "sometimes", Name: "General"}
	suite.mockEntityRepo.On("FindEntityByCode", ctx, "TPF").Return(&suite.entity, nil).Once()

	_, err := suite.service.CreateFund(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FundServiceTestSuite) TestResolveFund_PassesThrough() {
	ctx := context.Background()
	fund := &domain.Fund{FundID: "fund-1", EntityCode: "TPF", FundNumber: "GEN"}
	suite.mockFundRepo.On("ResolveFund", ctx, "TPF", "gen").Return(fund, nil).Once()

	got, err := suite.service.ResolveFund(ctx, "TPF", "gen")

	suite.Require().NoError(err)
	suite.Equal("fund-1", got.FundID)
}

func TestFundService(t *testing.T) {
	suite.Run(t, new(FundServiceTestSuite))
}
