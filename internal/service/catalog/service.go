package catalog

import (
	"errors"
	"fmt"

	"github.com/zhouzirui/ev-commerce/backend/internal/finance/loan"
	"github.com/zhouzirui/ev-commerce/backend/internal/model/catalog"
)

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrNoVehicles      = errors.New("at least one vehicle id is required")
)

// Comparison pairs a vehicle with its quick financing estimate.
type Comparison struct {
	Vehicle  catalog.Vehicle `json:"vehicle"`
	Estimate loan.Presented  `json:"estimate"`
}

// Service answers catalog queries.
type Service struct {
	store catalog.Store
}

// NewService wraps a vehicle store.
func NewService(store catalog.Store) *Service {
	return &Service{store: store}
}

// ListAvailable returns vehicles currently offered for sale.
func (s *Service) ListAvailable() []catalog.Vehicle {
	return s.Filter(catalog.Filter{})
}

// Get returns a vehicle regardless of availability.
func (s *Service) Get(id string) (catalog.Vehicle, error) {
	v, ok := s.store.FindByID(id)
	if !ok {
		return catalog.Vehicle{}, fmt.Errorf("%w: %s", ErrVehicleNotFound, id)
	}
	return v, nil
}

// Filter returns available vehicles satisfying f.
func (s *Service) Filter(f catalog.Filter) []catalog.Vehicle {
	result := make([]catalog.Vehicle, 0)
	for _, v := range s.store.List() {
		if v.Available && f.Matches(v) {
			result = append(result, v)
		}
	}
	return result
}

// Brands lists distinct brands of available vehicles.
func (s *Service) Brands() []string {
	return catalog.Brands(s.ListAvailable())
}

// Estimate computes the quick financing estimate for a vehicle.
func (s *Service) Estimate(id string) (catalog.Vehicle, loan.Quote, error) {
	v, err := s.Get(id)
	if err != nil {
		return catalog.Vehicle{}, loan.Quote{}, err
	}
	price, _ := v.Price.Float64()
	return v, loan.QuickEstimate(price), nil
}

// Compare resolves every id in order. Unknown ids fail the whole comparison.
func (s *Service) Compare(ids []string) ([]Comparison, error) {
	if len(ids) == 0 {
		return nil, ErrNoVehicles
	}
	result := make([]Comparison, 0, len(ids))
	for _, id := range ids {
		v, quote, err := s.Estimate(id)
		if err != nil {
			return nil, err
		}
		result = append(result, Comparison{Vehicle: v, Estimate: quote.Rounded()})
	}
	return result, nil
}
