package commerce

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus tracks fulfilment progress.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// ParseOrderStatus accepts any casing of a known status.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch s := OrderStatus(strings.ToUpper(strings.TrimSpace(raw))); s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return s, true
	default:
		return "", false
	}
}

// PaymentCreditCard is the only payment method checkout supports.
const PaymentCreditCard = "Credit Card"

// OrderItem snapshots a cart line at checkout time.
type OrderItem struct {
	VehicleID string          `json:"vehicleId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Order is a confirmed purchase.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Items           []OrderItem     `json:"items"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	ShippingAddress string          `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// CheckoutRequest carries the payment details submitted at checkout.
type CheckoutRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	CreditCardNumber string `json:"creditCardNumber"`
	ExpiryDate       string `json:"expiryDate"`
	CVV              string `json:"cvv"`
	BillingAddress   string `json:"billingAddress"`
	PhoneNumber      string `json:"phoneNumber,omitempty"`
}
