package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	Email        string          `json:"email" db:"email"`
	Department   string          `json:"department" db:"department"`
	PIN          string          `json:"-" db:"pin"` // Never serialize in JSON
	WalletAmount decimal.Decimal `json:"wallet_amount" db:"wallet_amount"`
	QRKey        *string         `json:"qr_key" db:"qr_key"`
	PhotoKey     *string         `json:"photo_key" db:"photo_key"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}
