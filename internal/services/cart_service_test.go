package services

import (
	"context"
	"testing"
	"time"

	"canteenhub/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CartServiceTestSuite struct {
	suite.Suite
	menuItemRepo *MockMenuItemRepository
	cache        *MockCacheService
	service      CartService

	item *models.MenuItem
}

func (s *CartServiceTestSuite) SetupTest() {
	s.menuItemRepo = new(MockMenuItemRepository)
	s.cache = new(MockCacheService)
	s.service = NewCartService(s.menuItemRepo, s.cache, 30*time.Minute)

	s.item = &models.MenuItem{
		ID:       uuid.New(),
		Name:     "Masala Dosa",
		Price:    decimal.NewFromInt(30),
		Quantity: 10,
	}
}

func (s *CartServiceTestSuite) TestAddItemMergesQuantities() {
	sessionID := "session-1"
	s.cache.On("GetMenuItem", mock.Anything, s.item.ID).Return(s.item, nil)
	s.cache.On("GetCart", mock.Anything, sessionID).Return(models.Cart{s.item.ID.String(): 2}, nil)
	s.cache.On("SetCart", mock.Anything, sessionID, models.Cart{s.item.ID.String(): 5}, 30*time.Minute).Return(nil)

	err := s.service.AddItem(context.Background(), sessionID, s.item.ID, 3)

	s.NoError(err)
	s.cache.AssertExpectations(s.T())
}

func (s *CartServiceTestSuite) TestAddItemCoercesNonPositiveQuantityToOne() {
	sessionID := "session-2"
	s.cache.On("GetMenuItem", mock.Anything, s.item.ID).Return(s.item, nil)
	s.cache.On("GetCart", mock.Anything, sessionID).Return(models.Cart{}, nil)
	s.cache.On("SetCart", mock.Anything, sessionID, models.Cart{s.item.ID.String(): 1}, 30*time.Minute).Return(nil)

	err := s.service.AddItem(context.Background(), sessionID, s.item.ID, -4)

	s.NoError(err)
	s.cache.AssertExpectations(s.T())
}

func (s *CartServiceTestSuite) TestAddItemUnknownItem() {
	sessionID := "session-3"
	unknownID := uuid.New()
	s.cache.On("GetMenuItem", mock.Anything, unknownID).Return(nil, nil)
	s.menuItemRepo.On("GetByID", mock.Anything, unknownID).Return(nil, nil)

	err := s.service.AddItem(context.Background(), sessionID, unknownID, 1)

	s.ErrorIs(err, ErrItemNotFound)
	s.cache.AssertNotCalled(s.T(), "SetCart", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *CartServiceTestSuite) TestRemoveItemIsIdempotent() {
	sessionID := "session-4"
	absentID := uuid.New()
	s.cache.On("GetCart", mock.Anything, sessionID).Return(models.Cart{}, nil)

	err := s.service.RemoveItem(context.Background(), sessionID, absentID)

	s.NoError(err)
	s.cache.AssertNotCalled(s.T(), "SetCart", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *CartServiceTestSuite) TestRemoveItemDropsEntry() {
	sessionID := "session-5"
	s.cache.On("GetCart", mock.Anything, sessionID).Return(models.Cart{s.item.ID.String(): 2}, nil)
	s.cache.On("SetCart", mock.Anything, sessionID, models.Cart{}, 30*time.Minute).Return(nil)

	err := s.service.RemoveItem(context.Background(), sessionID, s.item.ID)

	s.NoError(err)
	s.cache.AssertExpectations(s.T())
}

func (s *CartServiceTestSuite) TestViewDropsDeletedItems() {
	sessionID := "session-6"
	deletedID := uuid.New()
	s.cache.On("GetCart", mock.Anything, sessionID).Return(models.Cart{
		s.item.ID.String(): 2,
		deletedID.String(): 1,
	}, nil)
	s.cache.On("GetMenuItem", mock.Anything, s.item.ID).Return(s.item, nil)
	s.cache.On("GetMenuItem", mock.Anything, deletedID).Return(nil, nil)
	s.menuItemRepo.On("GetByID", mock.Anything, deletedID).Return(nil, nil)

	view, err := s.service.View(context.Background(), sessionID)

	s.Require().NoError(err)
	s.Require().Len(view.Lines, 1)
	s.Equal(s.item.ID, view.Lines[0].Item.ID)
	s.Equal(2, view.Lines[0].Quantity)
	s.True(view.Lines[0].Amount.Equal(decimal.NewFromInt(60)))
	s.True(view.Total.Equal(decimal.NewFromInt(60)))
}

func (s *CartServiceTestSuite) TestViewEmptyCart() {
	sessionID := "session-7"
	s.cache.On("GetCart", mock.Anything, sessionID).Return(models.Cart{}, nil)

	view, err := s.service.View(context.Background(), sessionID)

	s.Require().NoError(err)
	s.Empty(view.Lines)
	s.True(view.Total.IsZero())
}

func TestCartServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}
