package cart

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zhouzirui/ev-commerce/backend/internal/model/catalog"
	"github.com/zhouzirui/ev-commerce/backend/internal/model/commerce"
)

var (
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrVehicleUnavailable = errors.New("vehicle is not available")
	ErrItemNotFound       = errors.New("cart item not found")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrUserRequired       = errors.New("user id is required")
)

// Service keeps per-user carts in memory.
type Service struct {
	vehicles catalog.Store
	now      func() time.Time

	mu    sync.RWMutex
	carts map[string][]commerce.CartItem
}

// NewService creates an empty cart service backed by the vehicle store.
func NewService(vehicles catalog.Store) *Service {
	return &Service{
		vehicles: vehicles,
		now:      time.Now,
		carts:    make(map[string][]commerce.CartItem),
	}
}

// Items returns the user's cart lines in insertion order.
func (s *Service) Items(userID string) []commerce.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]commerce.CartItem{}, s.carts[userID]...)
}

// Add puts quantity units of a vehicle in the cart, merging with an existing line.
func (s *Service) Add(userID, vehicleID string, quantity int) (commerce.CartItem, error) {
	if userID == "" {
		return commerce.CartItem{}, ErrUserRequired
	}
	if quantity <= 0 {
		return commerce.CartItem{}, ErrInvalidQuantity
	}
	vehicle, ok := s.vehicles.FindByID(vehicleID)
	if !ok {
		return commerce.CartItem{}, fmt.Errorf("%w: %s", ErrVehicleNotFound, vehicleID)
	}
	if !vehicle.Available {
		return commerce.CartItem{}, fmt.Errorf("%w: %s", ErrVehicleUnavailable, vehicleID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	for i := range items {
		if items[i].VehicleID == vehicleID {
			items[i].Quantity += quantity
			return items[i], nil
		}
	}

	item := commerce.CartItem{
		ID:        uuid.NewString(),
		UserID:    userID,
		VehicleID: vehicleID,
		Quantity:  quantity,
		Price:     vehicle.Price,
		AddedAt:   s.now(),
	}
	s.carts[userID] = append(items, item)
	return item, nil
}

// Update sets a line's quantity. A quantity of zero or less removes the line
// and returns removed=true.
func (s *Service) Update(userID, itemID string, quantity int) (item commerce.CartItem, removed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	idx := indexOf(items, itemID)
	if idx < 0 {
		return commerce.CartItem{}, false, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if quantity <= 0 {
		s.carts[userID] = append(items[:idx], items[idx+1:]...)
		return commerce.CartItem{}, true, nil
	}
	items[idx].Quantity = quantity
	return items[idx], false, nil
}

// Remove deletes a line from the cart.
func (s *Service) Remove(userID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.carts[userID]
	idx := indexOf(items, itemID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	s.carts[userID] = append(items[:idx], items[idx+1:]...)
	return nil
}

// Clear empties the user's cart.
func (s *Service) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}

// Total sums every line total.
func (s *Service) Total(userID string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return total(s.carts[userID])
}

// Count returns the number of lines, not units.
func (s *Service) Count(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.carts[userID])
}

// Drain atomically returns and clears the user's cart. Checkout uses it so a
// concurrent add cannot slip between snapshot and clear.
func (s *Service) Drain(userID string) ([]commerce.CartItem, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[userID]
	delete(s.carts, userID)
	return items, total(items)
}

func total(items []commerce.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

func indexOf(items []commerce.CartItem, itemID string) int {
	for i, item := range items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}
