package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	EmployeeID       uuid.UUID       `json:"employee_id" db:"employee_id"`
	TotalAmount      decimal.Decimal `json:"total_amount" db:"total_amount"`
	DailyOrderNumber int             `json:"daily_order_number" db:"daily_order_number"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// OrderLine is a resolved order line used by confirmations and reports.
type OrderLine struct {
	ItemName  string          `json:"item_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// DailyReportRow is one order rendered into the daily report.
type DailyReportRow struct {
	EmployeeName string          `json:"employee_name"`
	Items        string          `json:"items"` // "Idli × 2, Coffee × 1"
	TotalAmount  decimal.Decimal `json:"total_amount"`
	OrderedAt    time.Time       `json:"ordered_at"`
}
