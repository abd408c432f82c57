package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"canteenhub/internal/caching"
	"canteenhub/internal/models"
	"canteenhub/internal/repositories"

	"github.com/google/uuid"
)

const menuItemCacheTTL = 5 * time.Minute

// MenuService manages the catalog and answers the availability question the
// kiosk asks: what can be ordered right now.
type MenuService interface {
	CreateItem(ctx context.Context, item *models.MenuItem) error
	GetItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListItems(ctx context.Context, limit, offset int) ([]*models.MenuItem, error)
	AvailableMenu(ctx context.Context, at time.Time) ([]*models.MenuItem, error)
	Restock(ctx context.Context, id uuid.UUID, qty int) (*models.MenuItem, error)
	Search(ctx context.Context, filter *models.MenuItemSearchFilter) ([]*models.MenuItem, error)
	LowStockItems(ctx context.Context, threshold int) ([]*models.MenuItem, error)
	AttachPhoto(ctx context.Context, id uuid.UUID, reader io.Reader, size int64, contentType string) (*models.MenuItem, error)
	PhotoURL(ctx context.Context, id uuid.UUID) (string, error)
}

type menuService struct {
	menuItemRepo repositories.MenuItemRepository
	cache        caching.CacheService
	minio        *MinioService
	photoBucket  string
}

func NewMenuService(menuItemRepo repositories.MenuItemRepository, cache caching.CacheService, minio *MinioService, photoBucket string) MenuService {
	return &menuService{
		menuItemRepo: menuItemRepo,
		cache:        cache,
		minio:        minio,
		photoBucket:  photoBucket,
	}
}

func (s *menuService) CreateItem(ctx context.Context, item *models.MenuItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.StartTime > item.EndTime {
		return fmt.Errorf("serving window start %s is after end %s", item.StartTime, item.EndTime)
	}
	return s.menuItemRepo.Create(ctx, item)
}

func (s *menuService) GetItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	cached, err := s.cache.GetMenuItem(ctx, id)
	if err != nil {
		log.Printf("WARN: menu item cache read failed: %v", err)
	} else if cached != nil {
		return cached, nil
	}

	item, err := s.menuItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item != nil {
		if cacheErr := s.cache.SetMenuItem(ctx, item, menuItemCacheTTL); cacheErr != nil {
			log.Printf("WARN: menu item cache write failed: %v", cacheErr)
		}
	}
	return item, nil
}

func (s *menuService) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	existing, err := s.menuItemRepo.GetByID(ctx, item.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrItemNotFound
	}
	if item.StartTime > item.EndTime {
		return fmt.Errorf("serving window start %s is after end %s", item.StartTime, item.EndTime)
	}
	if err := s.menuItemRepo.Update(ctx, item); err != nil {
		return err
	}
	return s.invalidate(ctx, item.ID)
}

func (s *menuService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.menuItemRepo.Delete(ctx, id); err != nil {
		return err
	}
	return s.invalidate(ctx, id)
}

func (s *menuService) ListItems(ctx context.Context, limit, offset int) ([]*models.MenuItem, error) {
	return s.menuItemRepo.List(ctx, limit, offset)
}

// AvailableMenu returns items orderable at the given local time: offered on
// its weekday, inside their serving window and with stock left.
func (s *menuService) AvailableMenu(ctx context.Context, at time.Time) ([]*models.MenuItem, error) {
	items, err := s.menuItemRepo.ListAvailable(ctx, at.Weekday().String(), at.Format("15:04"))
	if err != nil {
		return nil, err
	}

	available := make([]*models.MenuItem, 0, len(items))
	for _, item := range items {
		if item.AvailableAt(at) {
			available = append(available, item)
		}
	}
	return available, nil
}

// Restock adds stock back to an item and returns the refreshed row.
func (s *menuService) Restock(ctx context.Context, id uuid.UUID, qty int) (*models.MenuItem, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("restock quantity must be positive")
	}

	item, err := s.menuItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	if err := s.menuItemRepo.Restock(ctx, id, qty); err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx, id); err != nil {
		return nil, err
	}
	return s.menuItemRepo.GetByID(ctx, id)
}

func (s *menuService) Search(ctx context.Context, filter *models.MenuItemSearchFilter) ([]*models.MenuItem, error) {
	return s.menuItemRepo.AdvancedSearch(ctx, filter)
}

// LowStockItems returns items at or below the threshold, for the stock alert
// job and the admin dashboard.
func (s *menuService) LowStockItems(ctx context.Context, threshold int) ([]*models.MenuItem, error) {
	return s.menuItemRepo.AdvancedSearch(ctx, &models.MenuItemSearchFilter{
		StockThreshold: &threshold,
		SortBy:         "quantity",
		SortOrder:      "asc",
	})
}

// AttachPhoto uploads an item photo to the object store and records its key.
func (s *menuService) AttachPhoto(ctx context.Context, id uuid.UUID, reader io.Reader, size int64, contentType string) (*models.MenuItem, error) {
	item, err := s.menuItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	key := fmt.Sprintf("menu/%s/%d", id, time.Now().UnixNano())
	if err := s.minio.UploadStream(ctx, s.photoBucket, key, reader, size, contentType); err != nil {
		return nil, err
	}

	if item.PhotoKey != nil {
		if delErr := s.minio.DeleteObject(ctx, s.photoBucket, *item.PhotoKey); delErr != nil {
			log.Printf("WARN: failed to delete replaced photo %s: %v", *item.PhotoKey, delErr)
		}
	}

	item.PhotoKey = &key
	if err := s.menuItemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	if err := s.invalidate(ctx, id); err != nil {
		return nil, err
	}
	return item, nil
}

// PhotoURL returns a presigned download link for the item photo.
func (s *menuService) PhotoURL(ctx context.Context, id uuid.UUID) (string, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "", ErrItemNotFound
	}
	if item.PhotoKey == nil {
		return "", fmt.Errorf("menu item %s has no photo", id)
	}
	return s.minio.GetPresignedURL(ctx, s.photoBucket, *item.PhotoKey, 15*time.Minute)
}

func (s *menuService) invalidate(ctx context.Context, id uuid.UUID) error {
	if err := s.cache.DeleteMenuItem(ctx, id); err != nil {
		log.Printf("WARN: failed to invalidate menu item cache: %v", err)
	}
	return nil
}
