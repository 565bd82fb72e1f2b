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

type EntityServiceTestSuite struct {
	suite.Suite
	mockRepo *MockEntityRepository
	service  portssvc.EntitySvcFacade
}

func (suite *EntityServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockEntityRepository)
	suite.service = services.NewEntityService(suite.mockRepo)
}

func (suite *EntityServiceTestSuite) TestCreateEntity_UpperCasesCode() {
	ctx := context.Background()
	req := dto.CreateEntityRequest{EntityCode: " tpf ", Name: "The Parent Foundation"}

	suite.mockRepo.On("SaveEntity", ctx, mock.MatchedBy(func(e domain.Entity) bool {
		return e.EntityCode == "TPF" && e.Name == "The Parent Foundation"
	})).Return(nil).Once()

	entity, err := suite.service.CreateEntity(ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal("TPF", entity.EntityCode)
	suite.NotEmpty(entity.EntityID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *EntityServiceTestSuite) TestCreateEntity_UnknownParent() {
	ctx := context.Background()
	req := dto.CreateEntityRequest{EntityCode: "SUB", Name: "Subsidiary", ParentEntityID: "missing"}
	suite.mockRepo.On("FindEntityByID", ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateEntity(ctx, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveEntity", mock.Anything, mock.Anything)
}

func (suite *EntityServiceTestSuite) TestUpdateEntity_PatchesOnlyGivenFields() {
	ctx := context.Background()
	existing := &domain.Entity{EntityID: "ent-1", EntityCode: "TPF", Name: "Old Name", IsConsolidated: true}
	newName := "New Name"

	suite.mockRepo.On("FindEntityByCode", ctx, "TPF").Return(existing, nil).Once()
	suite.mockRepo.On("UpdateEntity", ctx, mock.MatchedBy(func(e domain.Entity) bool {
		return e.Name == "New Name" && e.IsConsolidated
	})).Return(nil).Once()

	updated, err := suite.service.UpdateEntity(ctx, "TPF", dto.UpdateEntityRequest{Name: &newName}, "user-1")

	suite.Require().NoError(err)
	suite.Equal("New Name", updated.Name)
	suite.True(updated.IsConsolidated)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *EntityServiceTestSuite) TestGetEntityByCode_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindEntityByCode", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetEntityByCode(ctx, "XXX")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Contains(err.Error(), "XXX")
}

func TestEntityService(t *testing.T) {
	suite.Run(t, new(EntityServiceTestSuite))
}
