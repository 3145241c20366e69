package order

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/ev-commerce/backend/internal/metrics"
	"github.com/zhouzirui/ev-commerce/backend/internal/model/commerce"
	"github.com/zhouzirui/ev-commerce/backend/internal/service/cart"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
)

// Service turns carts into orders.
type Service struct {
	carts   *cart.Service
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time

	mu     sync.RWMutex
	orders map[string]commerce.Order
}

// NewService wires checkout to the cart service. m and logger may be nil.
func NewService(carts *cart.Service, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		carts:   carts,
		metrics: m,
		logger:  logger,
		now:     time.Now,
		orders:  make(map[string]commerce.Order),
	}
}

// Checkout validates the payment form, snapshots the cart into a confirmed
// order and empties the cart.
func (s *Service) Checkout(userID string, req commerce.CheckoutRequest) (commerce.Order, error) {
	if err := Validate(req); err != nil {
		return commerce.Order{}, err
	}

	lines, total := s.carts.Drain(userID)
	if len(lines) == 0 {
		return commerce.Order{}, ErrEmptyCart
	}

	items := make([]commerce.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, commerce.OrderItem{
			VehicleID: line.VehicleID,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}

	now := s.now()
	order := commerce.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           items,
		Total:           total,
		Status:          commerce.OrderConfirmed,
		ShippingAddress: strings.TrimSpace(req.BillingAddress),
		PaymentMethod:   commerce.PaymentCreditCard,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	s.mu.Lock()
	s.orders[order.ID] = order
	s.mu.Unlock()

	s.metrics.ObserveOrder()
	s.logger.Info("order confirmed",
		zap.String("order", order.ID),
		zap.String("user", userID),
		zap.Int("items", len(items)),
		zap.String("total", total.StringFixed(2)))
	return order, nil
}

// ListByUser returns the user's orders, newest first.
func (s *Service) ListByUser(userID string) []commerce.Order {
	s.mu.RLock()
	result := make([]commerce.Order, 0)
	for _, o := range s.orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// Get looks up an order.
func (s *Service) Get(orderID string) (commerce.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	if !ok {
		return commerce.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	return o, nil
}

// UpdateStatus moves an order to the named status.
func (s *Service) UpdateStatus(orderID, rawStatus string) (commerce.Order, error) {
	status, ok := commerce.ParseOrderStatus(rawStatus)
	if !ok {
		return commerce.Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, rawStatus)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o, exists := s.orders[orderID]
	if !exists {
		return commerce.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}
	o.Status = status
	o.UpdatedAt = s.now()
	s.orders[orderID] = o
	return o, nil
}
