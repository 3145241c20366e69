package commerce

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one vehicle line in a user's cart. Price is captured when the
// line is first added.
type CartItem struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	VehicleID string          `json:"vehicleId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	AddedAt   time.Time       `json:"addedAt"`
}

// LineTotal is price × quantity.
func (c CartItem) LineTotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
