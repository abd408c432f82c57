package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Weekday names as stored in menu_item_days (Monday..Sunday).
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// MenuItemSearchFilter holds search and filter criteria for menu item queries
type MenuItemSearchFilter struct {
	Query          string   `json:"query,omitempty"`           // Full-text search across name and description
	Day            string   `json:"day,omitempty"`             // Weekday filter (Monday..Sunday)
	StockThreshold *int     `json:"stock_threshold,omitempty"` // Quantity <= threshold (low stock alerts)
	MinPrice       *float64 `json:"min_price,omitempty"`
	MaxPrice       *float64 `json:"max_price,omitempty"`
	SortBy         string   `json:"sort_by,omitempty"`    // Sort field: name, price, quantity, updated_at
	SortOrder      string   `json:"sort_order,omitempty"` // Sort order: asc, desc
	Limit          int      `json:"limit,omitempty"`      // Page size (default: 50)
	Offset         int      `json:"offset,omitempty"`     // Page offset
}

type MenuItem struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Quantity    int             `json:"quantity" db:"quantity"`
	StartTime   string          `json:"start_time" db:"start_time"` // HH:MM, inclusive window start
	EndTime     string          `json:"end_time" db:"end_time"`     // HH:MM, inclusive window end
	PhotoKey    *string         `json:"photo_key" db:"photo_key"`
	Days        []string        `json:"available_days"` // from menu_item_days
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// AvailableOn reports whether the item is offered on the given weekday.
func (m *MenuItem) AvailableOn(day string) bool {
	for _, d := range m.Days {
		if d == day {
			return true
		}
	}
	return false
}

// AvailableAt reports whether the item can be ordered at the given local time:
// the weekday is in the available-day set, the clock falls inside the
// [StartTime, EndTime] window and there is stock left.
func (m *MenuItem) AvailableAt(t time.Time) bool {
	if !m.AvailableOn(t.Weekday().String()) {
		return false
	}
	clock := t.Format("15:04")
	return m.StartTime <= clock && clock <= m.EndTime && m.Quantity > 0
}
