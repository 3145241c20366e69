package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Filter narrows a listing. Zero-valued fields are ignored.
type Filter struct {
	Brand    string
	Category Category
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	MinRange int
}

// Matches reports whether v satisfies every set criterion.
func (f Filter) Matches(v Vehicle) bool {
	if f.Brand != "" && !strings.EqualFold(f.Brand, v.Brand) {
		return false
	}
	if f.Category != "" && f.Category != v.Category {
		return false
	}
	if f.MinPrice != nil && v.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && v.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.MinRange > 0 && v.RangeKm < f.MinRange {
		return false
	}
	return true
}

// Store exposes vehicle retrieval for services and HTTP handlers.
type Store interface {
	List() []Vehicle
	FindByID(id string) (Vehicle, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Vehicle
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied vehicles.
func NewMemoryStore(items []Vehicle) *MemoryStore {
	return &MemoryStore{items: append([]Vehicle(nil), items...)}
}

// List returns every vehicle, available or not, in catalog order.
func (s *MemoryStore) List() []Vehicle {
	return append([]Vehicle(nil), s.items...)
}

// FindByID looks up a vehicle by identifier.
func (s *MemoryStore) FindByID(id string) (Vehicle, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Vehicle{}, false
}

// Brands returns the distinct brands in alphabetical order.
func Brands(items []Vehicle) []string {
	seen := make(map[string]struct{}, len(items))
	brands := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Brand]; ok {
			continue
		}
		seen[item.Brand] = struct{}{}
		brands = append(brands, item.Brand)
	}
	sort.Strings(brands)
	return brands
}
