// Package loan computes fixed-payment vehicle financing quotes.
//
// Compute is total over its domain: degenerate inputs produce the zero quote
// instead of an error, so callers can recompute on every keystroke without an
// error path.
package loan

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// QuickEstimateRatePercent and QuickEstimateTermMonths drive the estimate
	// shown on vehicle detail and comparison views.
	QuickEstimateRatePercent = 5.0
	QuickEstimateTermMonths  = 60
)

// Quote is a computed loan. It is never cached or persisted.
type Quote struct {
	Principal         float64 `json:"principal"`
	DownPayment       float64 `json:"downPayment"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TermMonths        int     `json:"termMonths"`
	MonthlyPayment    float64 `json:"monthlyPayment"`
	TotalPayment      float64 `json:"totalPayment"`
	TotalInterest     float64 `json:"totalInterest"`
}

// Financed returns the amount actually borrowed.
func (q Quote) Financed() float64 {
	return q.Principal - q.DownPayment
}

// IsZero reports whether q is the zero quote returned for degenerate input.
func (q Quote) IsZero() bool {
	return q.MonthlyPayment == 0 && q.TotalPayment == 0 && q.TotalInterest == 0
}

// Compute returns the annuity quote for the given inputs.
//
// A non-positive financed amount, a non-positive rate or a non-positive term
// yields the zero quote. A rate of exactly zero is not treated as a
// straight-line loan; it also yields the zero quote.
func Compute(principal, downPayment, annualRatePercent float64, termMonths int) Quote {
	q := Quote{
		Principal:         principal,
		DownPayment:       downPayment,
		AnnualRatePercent: annualRatePercent,
		TermMonths:        termMonths,
	}

	net := principal - downPayment
	monthlyRate := (annualRatePercent / 100) / 12

	// NaN fails every comparison, so it is rejected explicitly.
	if !(net > 0) || !(monthlyRate > 0) || termMonths <= 0 {
		return q
	}

	growth := math.Pow(1+monthlyRate, float64(termMonths))
	payment := net * monthlyRate * growth / (growth - 1)
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return q
	}

	q.MonthlyPayment = payment
	q.TotalPayment = payment * float64(termMonths)
	q.TotalInterest = q.TotalPayment - net
	return q
}

// QuickEstimate is the no-down-payment estimate used next to a vehicle price.
func QuickEstimate(price float64) Quote {
	return Compute(price, 0, QuickEstimateRatePercent, QuickEstimateTermMonths)
}

// CalculatorDefaults returns the inputs the standalone calculator starts with.
func CalculatorDefaults() Quote {
	return Compute(50000, 10000, 5.0, 60)
}

// ParseAmount parses a user-entered number. Anything unparsable is 0.
func ParseAmount(raw string) float64 {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ParseTerm parses a user-entered month count. Anything unparsable is 0.
func ParseTerm(raw string) int {
	v := ParseAmount(raw)
	if v <= 0 || v > math.MaxInt32 {
		return 0
	}
	return int(v)
}

// Presented is a quote rounded to cents for display.
type Presented struct {
	Principal         decimal.Decimal `json:"principal"`
	DownPayment       decimal.Decimal `json:"downPayment"`
	Financed          decimal.Decimal `json:"financed"`
	AnnualRatePercent decimal.Decimal `json:"annualRatePercent"`
	TermMonths        int             `json:"termMonths"`
	MonthlyPayment    decimal.Decimal `json:"monthlyPayment"`
	TotalPayment      decimal.Decimal `json:"totalPayment"`
	TotalInterest     decimal.Decimal `json:"totalInterest"`
}

// Rounded converts q to its presentation form. This is the only place where
// amounts are rounded.
func (q Quote) Rounded() Presented {
	return Presented{
		Principal:         cents(q.Principal),
		DownPayment:       cents(q.DownPayment),
		Financed:          cents(q.Financed()),
		AnnualRatePercent: decimal.NewFromFloat(q.AnnualRatePercent).Round(3),
		TermMonths:        q.TermMonths,
		MonthlyPayment:    cents(q.MonthlyPayment),
		TotalPayment:      cents(q.TotalPayment),
		TotalInterest:     cents(q.TotalInterest),
	}
}

func cents(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(2)
}
