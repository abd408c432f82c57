package models

import "github.com/shopspring/decimal"

// Cart is the session-scoped mapping from menu item id to requested quantity.
// It lives in redis keyed by session token and is never persisted to the
// database; committed lines become OrderItem rows.
type Cart map[string]int

// Add merges qty into the existing entry. Non-positive quantities are coerced
// to 1, matching the add-to-cart form contract.
func (c Cart) Add(itemID string, qty int) {
	if qty <= 0 {
		qty = 1
	}
	c[itemID] += qty
}

// Remove deletes the entry if present. Removing an absent entry is a no-op.
func (c Cart) Remove(itemID string) {
	delete(c, itemID)
}

// CartLine is a cart entry resolved against the catalog.
type CartLine struct {
	Item     *MenuItem       `json:"item"`
	Quantity int             `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// CartView is the resolved cart with its grand total. Entries whose item no
// longer exists are dropped before the view is built.
type CartView struct {
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}
