package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"canteenhub/internal/caching"
	"canteenhub/internal/models"
	"canteenhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartService manages session carts. Carts live only in the cache; nothing
// touches the database until the order is committed.
type CartService interface {
	AddItem(ctx context.Context, sessionID string, itemID uuid.UUID, qty int) error
	RemoveItem(ctx context.Context, sessionID string, itemID uuid.UUID) error
	View(ctx context.Context, sessionID string) (*models.CartView, error)
	Clear(ctx context.Context, sessionID string) error
}

type cartService struct {
	menuItemRepo repositories.MenuItemRepository
	cache        caching.CacheService
	cartTTL      time.Duration
}

func NewCartService(menuItemRepo repositories.MenuItemRepository, cache caching.CacheService, cartTTL time.Duration) CartService {
	return &cartService{
		menuItemRepo: menuItemRepo,
		cache:        cache,
		cartTTL:      cartTTL,
	}
}

// AddItem merges a quantity into the session cart. The item must exist at add
// time; availability and stock are re-checked at commit.
func (s *cartService) AddItem(ctx context.Context, sessionID string, itemID uuid.UUID, qty int) error {
	item, err := s.lookupItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}

	cart, err := s.cache.GetCart(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	cart.Add(itemID.String(), qty)
	return s.cache.SetCart(ctx, sessionID, cart, s.cartTTL)
}

// RemoveItem drops an entry from the cart. Removing an entry that is not in
// the cart is a no-op.
func (s *cartService) RemoveItem(ctx context.Context, sessionID string, itemID uuid.UUID) error {
	cart, err := s.cache.GetCart(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}
	if _, present := cart[itemID.String()]; !present {
		return nil
	}
	cart.Remove(itemID.String())
	return s.cache.SetCart(ctx, sessionID, cart, s.cartTTL)
}

// View resolves the cart against the catalog. Entries whose item has been
// deleted since they were added are dropped silently.
func (s *cartService) View(ctx context.Context, sessionID string) (*models.CartView, error) {
	cart, err := s.cache.GetCart(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	view := &models.CartView{Lines: []models.CartLine{}, Total: decimal.Zero}
	for idStr, qty := range cart {
		itemID, err := uuid.Parse(idStr)
		if err != nil {
			log.Printf("WARN: dropping malformed cart entry %q", idStr)
			continue
		}
		item, err := s.lookupItem(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			continue // item deleted since it was added
		}
		amount := item.Price.Mul(decimal.NewFromInt(int64(qty)))
		view.Lines = append(view.Lines, models.CartLine{Item: item, Quantity: qty, Amount: amount})
		view.Total = view.Total.Add(amount)
	}
	return view, nil
}

func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	return s.cache.ClearCart(ctx, sessionID)
}

// lookupItem reads through the menu item cache, falling back to the database.
func (s *cartService) lookupItem(ctx context.Context, itemID uuid.UUID) (*models.MenuItem, error) {
	cached, err := s.cache.GetMenuItem(ctx, itemID)
	if err != nil {
		log.Printf("WARN: menu item cache read failed: %v", err)
	} else if cached != nil {
		return cached, nil
	}

	item, err := s.menuItemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu item: %w", err)
	}
	if item != nil {
		if cacheErr := s.cache.SetMenuItem(ctx, item, menuItemCacheTTL); cacheErr != nil {
			log.Printf("WARN: menu item cache write failed: %v", cacheErr)
		}
	}
	return item, nil
}
