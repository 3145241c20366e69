package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Category is the body style used for catalog filtering.
type Category string

const (
	CategoryCompact Category = "COMPACT"
	CategorySedan   Category = "SEDAN"
	CategorySUV     Category = "SUV"
	CategoryLuxury  Category = "LUXURY"
	CategorySports  Category = "SPORTS"
)

// ParseCategory accepts any casing of a known category.
func ParseCategory(raw string) (Category, bool) {
	switch c := Category(strings.ToUpper(strings.TrimSpace(raw))); c {
	case CategoryCompact, CategorySedan, CategorySUV, CategoryLuxury, CategorySports:
		return c, true
	default:
		return "", false
	}
}

// Vehicle is an electric vehicle offered by the storefront.
type Vehicle struct {
	ID                 string          `json:"id"`
	Model              string          `json:"model"`
	Brand              string          `json:"brand"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price"`
	RangeKm            int             `json:"rangeKm"`
	BatteryCapacityKwh int             `json:"batteryCapacityKwh"`
	ChargingTimeHours  int             `json:"chargingTimeHours"`
	ImageURL           string          `json:"imageUrl,omitempty"`
	Category           Category        `json:"category"`
	Available          bool            `json:"available"`
}

// DisplayName is brand plus model, e.g. "Tesla Model 3".
func (v Vehicle) DisplayName() string {
	return v.Brand + " " + v.Model
}

// Seed provides the demo catalog.
func Seed() []Vehicle {
	return []Vehicle{
		{
			ID:                 "tesla-model-3",
			Model:              "Model 3",
			Brand:              "Tesla",
			Description:        "The Tesla Model 3 is an electric compact sedan with advanced autopilot capabilities.",
			Price:              decimal.NewFromInt(45000),
			RangeKm:            350,
			BatteryCapacityKwh: 75,
			ChargingTimeHours:  8,
			ImageURL:           "https://example.com/tesla-model-3.jpg",
			Category:           CategorySedan,
			Available:          true,
		},
		{
			ID:                 "tesla-model-y",
			Model:              "Model Y",
			Brand:              "Tesla",
			Description:        "The Tesla Model Y is a compact electric SUV with spacious interior and excellent range.",
			Price:              decimal.NewFromInt(55000),
			RangeKm:            330,
			BatteryCapacityKwh: 75,
			ChargingTimeHours:  8,
			ImageURL:           "https://example.com/tesla-model-y.jpg",
			Category:           CategorySUV,
			Available:          true,
		},
		{
			ID:                 "nissan-leaf",
			Model:              "Leaf",
			Brand:              "Nissan",
			Description:        "The Nissan Leaf is a reliable electric hatchback perfect for daily commuting.",
			Price:              decimal.NewFromInt(32000),
			RangeKm:            240,
			BatteryCapacityKwh: 62,
			ChargingTimeHours:  7,
			ImageURL:           "https://example.com/nissan-leaf.jpg",
			Category:           CategoryCompact,
			Available:          true,
		},
		{
			ID:                 "chevrolet-bolt-ev",
			Model:              "Bolt EV",
			Brand:              "Chevrolet",
			Description:        "The Chevrolet Bolt EV offers impressive range in a compact package.",
			Price:              decimal.NewFromInt(35000),
			RangeKm:            259,
			BatteryCapacityKwh: 66,
			ChargingTimeHours:  9,
			ImageURL:           "https://example.com/chevrolet-bolt.jpg",
			Category:           CategoryCompact,
			Available:          true,
		},
		{
			ID:                 "ford-mustang-mach-e",
			Model:              "Mustang Mach-E",
			Brand:              "Ford",
			Description:        "The Ford Mustang Mach-E combines iconic styling with electric performance.",
			Price:              decimal.NewFromInt(48000),
			RangeKm:            300,
			BatteryCapacityKwh: 68,
			ChargingTimeHours:  10,
			ImageURL:           "https://example.com/ford-mach-e.jpg",
			Category:           CategorySUV,
			Available:          true,
		},
		{
			ID:                 "porsche-taycan",
			Model:              "Taycan",
			Brand:              "Porsche",
			Description:        "The Porsche Taycan is a high-performance electric sports car.",
			Price:              decimal.NewFromInt(85000),
			RangeKm:            282,
			BatteryCapacityKwh: 93,
			ChargingTimeHours:  9,
			ImageURL:           "https://example.com/porsche-taycan.jpg",
			Category:           CategorySports,
			Available:          true,
		},
	}
}
