package services

import (
	"context"
	"testing"
	"time"

	"canteenhub/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAvailableMenuFiltersSoldOutItems(t *testing.T) {
	menuItemRepo := new(MockMenuItemRepository)
	cache := new(MockCacheService)
	service := NewMenuService(menuItemRepo, cache, nil, "canteen-photos")

	at := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) // Monday noon
	inStock := &models.MenuItem{ID: uuid.New(), Name: "Coffee", Quantity: 20, StartTime: "09:00", EndTime: "14:00", Days: []string{"Monday"}}
	soldOut := &models.MenuItem{ID: uuid.New(), Name: "Veg Thali", Quantity: 0, StartTime: "09:00", EndTime: "14:00", Days: []string{"Monday"}}
	menuItemRepo.On("ListAvailable", mock.Anything, "Monday", "12:00").
		Return([]*models.MenuItem{inStock, soldOut}, nil)

	items, err := service.AvailableMenu(context.Background(), at)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Coffee", items[0].Name)
}

func TestCreateItemRejectsInvertedWindow(t *testing.T) {
	menuItemRepo := new(MockMenuItemRepository)
	cache := new(MockCacheService)
	service := NewMenuService(menuItemRepo, cache, nil, "canteen-photos")

	err := service.CreateItem(context.Background(), &models.MenuItem{
		Name:      "Breakfast",
		Price:     decimal.NewFromInt(20),
		StartTime: "11:00",
		EndTime:   "08:00",
	})

	assert.Error(t, err)
	menuItemRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRestockRejectsNonPositiveQuantity(t *testing.T) {
	menuItemRepo := new(MockMenuItemRepository)
	cache := new(MockCacheService)
	service := NewMenuService(menuItemRepo, cache, nil, "canteen-photos")

	_, err := service.Restock(context.Background(), uuid.New(), 0)

	assert.Error(t, err)
	menuItemRepo.AssertNotCalled(t, "Restock", mock.Anything, mock.Anything, mock.Anything)
}

func TestLowStockItemsUsesThresholdFilter(t *testing.T) {
	menuItemRepo := new(MockMenuItemRepository)
	cache := new(MockCacheService)
	service := NewMenuService(menuItemRepo, cache, nil, "canteen-photos")

	menuItemRepo.On("AdvancedSearch", mock.Anything, mock.MatchedBy(func(f *models.MenuItemSearchFilter) bool {
		return f.StockThreshold != nil && *f.StockThreshold == 5
	})).Return([]*models.MenuItem{}, nil)

	_, err := service.LowStockItems(context.Background(), 5)

	require.NoError(t, err)
	menuItemRepo.AssertExpectations(t)
}
