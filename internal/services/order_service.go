package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"canteenhub/internal/caching"
	"canteenhub/internal/models"
	"canteenhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderService commits session carts into orders. The commit is a single
// database transaction: stock decrements, the wallet debit and the per-day
// order number allocation all succeed or roll back together.
type OrderService interface {
	PlaceOrder(ctx context.Context, sessionID string) (*models.Order, []*models.OrderLine, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, []*models.OrderLine, error)
	ListEmployeeOrders(ctx context.Context, employeeID uuid.UUID, limit, offset int) ([]*models.Order, error)
	ListOrdersByDate(ctx context.Context, date time.Time) ([]*models.Order, error)
	PurgeOrdersByDate(ctx context.Context, date time.Time) (int64, error)
}

type orderService struct {
	db           repositories.Database
	orderRepo    repositories.OrderRepository
	orderItems   repositories.OrderItemRepository
	menuItemRepo repositories.MenuItemRepository
	employeeRepo repositories.EmployeeRepository
	cache        caching.CacheService
	notifier     NotificationService
	now          func() time.Time
}

func NewOrderService(
	db repositories.Database,
	orderRepo repositories.OrderRepository,
	orderItems repositories.OrderItemRepository,
	menuItemRepo repositories.MenuItemRepository,
	employeeRepo repositories.EmployeeRepository,
	cache caching.CacheService,
	notifier NotificationService,
) OrderService {
	return &orderService{
		db:           db,
		orderRepo:    orderRepo,
		orderItems:   orderItems,
		menuItemRepo: menuItemRepo,
		employeeRepo: employeeRepo,
		cache:        cache,
		notifier:     notifier,
		now:          time.Now,
	}
}

// orderLine is a resolved cart entry pending commit.
type orderLine struct {
	item *models.MenuItem
	qty  int
}

// PlaceOrder commits the session cart. Preconditions run in order: the cart
// must be non-empty, the session must be verified, the cart must resolve to
// at least one existing item, every line must be in stock, and the wallet
// must cover the total. Stock and wallet are re-validated by guarded updates
// inside the transaction, so a concurrent commit that wins the race makes
// this one fail cleanly instead of oversubscribing.
func (s *orderService) PlaceOrder(ctx context.Context, sessionID string) (*models.Order, []*models.OrderLine, error) {
	cart, err := s.cache.GetCart(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cart) == 0 {
		return nil, nil, ErrEmptyCart
	}

	employeeID, verified, err := s.cache.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if !verified {
		return nil, nil, ErrUnauthenticated
	}

	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load employee: %w", err)
	}
	if employee == nil {
		return nil, nil, ErrEmployeeNotFound
	}

	lines, err := s.resolveCart(ctx, cart)
	if err != nil {
		return nil, nil, err
	}
	if len(lines) == 0 {
		// Every entry referenced a deleted item. Clear the stale cart so
		// the next add starts fresh.
		if clearErr := s.cache.ClearCart(ctx, sessionID); clearErr != nil {
			log.Printf("WARN: failed to clear stale cart: %v", clearErr)
		}
		return nil, nil, ErrEmptyCart
	}

	at := s.now()
	total := decimal.Zero
	for _, line := range lines {
		if line.qty > line.item.Quantity {
			return nil, nil, &InsufficientStockError{
				Item:      line.item.Name,
				Requested: line.qty,
				Available: line.item.Quantity,
			}
		}
		total = total.Add(line.item.Price.Mul(decimal.NewFromInt(int64(line.qty))))
	}
	if employee.WalletAmount.LessThan(total) {
		return nil, nil, &InsufficientFundsError{Required: total, Available: employee.WalletAmount}
	}

	order, err := s.commit(ctx, employee, lines, total, at)
	if err != nil {
		return nil, nil, err
	}

	if err := s.cache.ClearCart(ctx, sessionID); err != nil {
		log.Printf("WARN: failed to clear cart after commit: %v", err)
	}
	for _, line := range lines {
		if err := s.cache.DeleteMenuItem(ctx, line.item.ID); err != nil {
			log.Printf("WARN: failed to invalidate menu item cache: %v", err)
		}
	}

	confirmLines := make([]*models.OrderLine, 0, len(lines))
	for _, line := range lines {
		confirmLines = append(confirmLines, &models.OrderLine{
			ItemName:  line.item.Name,
			Quantity:  line.qty,
			UnitPrice: line.item.Price,
			Amount:    line.item.Price.Mul(decimal.NewFromInt(int64(line.qty))),
		})
	}

	// Confirmation is best effort. The order is already committed.
	if err := s.notifier.SendOrderConfirmation(ctx, employee, order, confirmLines); err != nil {
		log.Printf("WARN: order confirmation not delivered for order %s: %v", order.ID, err)
	}
	if err := s.notifier.SendWebhook(ctx, "order.placed", order); err != nil {
		log.Printf("WARN: order webhook not delivered for order %s: %v", order.ID, err)
	}

	return order, confirmLines, nil
}

// commit runs the transactional part of the order: number allocation, the
// order row, guarded stock decrements, line inserts, the guarded wallet debit
// and the total finalize.
func (s *orderService) commit(ctx context.Context, employee *models.Employee, lines []orderLine, total decimal.Decimal, at time.Time) (*models.Order, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin order transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	number, err := s.orderRepo.NextDailyNumber(ctx, tx, at)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate order number: %w", err)
	}

	order := &models.Order{
		ID:               uuid.New(),
		EmployeeID:       employee.ID,
		TotalAmount:      decimal.Zero,
		DailyOrderNumber: number,
		CreatedAt:        at,
	}
	if err := s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, line := range lines {
		applied, err := s.menuItemRepo.DecrementStock(ctx, tx, line.item.ID, line.qty)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}
		if !applied {
			// A concurrent commit consumed the stock first.
			return nil, &InsufficientStockError{
				Item:      line.item.Name,
				Requested: line.qty,
				Available: line.item.Quantity,
			}
		}

		orderItem := &models.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			MenuItemID: line.item.ID,
			Quantity:   line.qty,
			UnitPrice:  line.item.Price,
		}
		if err := s.orderItems.Create(ctx, tx, orderItem); err != nil {
			return nil, fmt.Errorf("failed to create order line: %w", err)
		}
	}

	debited, err := s.employeeRepo.DebitWallet(ctx, tx, employee.ID, total)
	if err != nil {
		return nil, fmt.Errorf("failed to debit wallet: %w", err)
	}
	if !debited {
		return nil, &InsufficientFundsError{Required: total, Available: employee.WalletAmount}
	}

	if err := s.orderRepo.UpdateTotal(ctx, tx, order.ID, total); err != nil {
		return nil, fmt.Errorf("failed to finalize order total: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	order.TotalAmount = total
	return order, nil
}

// resolveCart loads each cart entry's menu item, silently dropping entries
// whose item no longer exists. Lines come back in item id order so concurrent
// commits touch stock rows in a consistent order.
func (s *orderService) resolveCart(ctx context.Context, cart models.Cart) ([]orderLine, error) {
	ids := make([]string, 0, len(cart))
	for idStr := range cart {
		ids = append(ids, idStr)
	}
	sort.Strings(ids)

	var lines []orderLine
	for _, idStr := range ids {
		itemID, err := uuid.Parse(idStr)
		if err != nil {
			log.Printf("WARN: dropping malformed cart entry %q", idStr)
			continue
		}
		item, err := s.menuItemRepo.GetByID(ctx, itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to load menu item: %w", err)
		}
		if item == nil {
			continue
		}
		lines = append(lines, orderLine{item: item, qty: cart[idStr]})
	}
	return lines, nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, []*models.OrderLine, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, nil, nil
	}
	lines, err := s.orderItems.LinesByOrder(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load order lines: %w", err)
	}
	return order, lines, nil
}

func (s *orderService) ListEmployeeOrders(ctx context.Context, employeeID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	return s.orderRepo.ListByEmployee(ctx, employeeID, limit, offset)
}

func (s *orderService) ListOrdersByDate(ctx context.Context, date time.Time) ([]*models.Order, error) {
	return s.orderRepo.ListByDate(ctx, date)
}

// PurgeOrdersByDate deletes all orders for a calendar date. Admin cleanup,
// typically after the daily report has been exported.
func (s *orderService) PurgeOrdersByDate(ctx context.Context, date time.Time) (int64, error) {
	deleted, err := s.orderRepo.DeleteByDate(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to purge orders: %w", err)
	}
	if deleted > 0 {
		log.Printf("Purged %d orders for %s", deleted, date.Format("2006-01-02"))
	}
	return deleted, nil
}
