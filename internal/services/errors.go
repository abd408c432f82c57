package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnauthenticated means the session token is not bound to a verified
	// employee. Verification must happen before cart and order operations.
	ErrUnauthenticated = errors.New("session is not verified")

	// ErrIncorrectPin means the employee exists but the submitted PIN did not
	// match.
	ErrIncorrectPin = errors.New("incorrect pin")

	// ErrEmployeeNotFound means no employee matches the submitted identifier.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrItemNotFound means the referenced menu item does not exist.
	ErrItemNotFound = errors.New("menu item not found")

	// ErrEmptyCart means the cart holds no committable lines, either because
	// it was never filled or every entry referenced a deleted item.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNotificationDelivery wraps transport failures on confirmations.
	ErrNotificationDelivery = errors.New("notification delivery failed")
)

// InsufficientStockError reports a cart line asking for more than the item
// has left. Available is the stock observed when the commit was rejected.
type InsufficientStockError struct {
	Item      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Item, e.Requested, e.Available)
}

// InsufficientFundsError reports a wallet balance below the order total.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient wallet balance: order total %s, balance %s", e.Required.StringFixed(2), e.Available.StringFixed(2))
}
