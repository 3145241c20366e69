package loan

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeReferenceQuote(t *testing.T) {
	q := Compute(45000, 5000, 5.0, 60)

	require.InDelta(t, 40000, q.Financed(), 1e-9)
	assert.InDelta(t, 754.85, q.MonthlyPayment, 0.005)
	assert.InDelta(t, 45290.96, q.TotalPayment, 0.01)
	assert.InDelta(t, 5290.96, q.TotalInterest, 0.01)

	rounded := q.Rounded()
	assert.Equal(t, "754.85", rounded.MonthlyPayment.StringFixed(2))
	assert.Equal(t, "45290.96", rounded.TotalPayment.StringFixed(2))
	assert.Equal(t, "5290.96", rounded.TotalInterest.StringFixed(2))
	assert.Equal(t, "40000.00", rounded.Financed.StringFixed(2))
}

func TestComputeTotalsAreConsistent(t *testing.T) {
	cases := []struct {
		principal, down, rate float64
		term                  int
	}{
		{10000, 0, 12, 24},
		{32000, 2000, 3.5, 36},
		{85000, 15000, 8.5, 84},
		{1, 0, 0.01, 1},
		{1_000_000, 0, 25, 600},
	}

	for _, tc := range cases {
		q := Compute(tc.principal, tc.down, tc.rate, tc.term)
		require.False(t, q.IsZero(), "expected non-zero quote for %+v", tc)

		want := q.MonthlyPayment * float64(tc.term)
		assert.LessOrEqual(t, math.Abs(q.TotalPayment-want)/want, 1e-6)
		assert.InDelta(t, q.TotalPayment-(tc.principal-tc.down), q.TotalInterest, 1e-6)
		assert.Greater(t, q.TotalInterest, 0.0)
	}
}

func TestComputeSingleMonth(t *testing.T) {
	q := Compute(1200, 0, 12, 1)
	// One payment of principal plus one month of interest.
	assert.InDelta(t, 1212, q.MonthlyPayment, 1e-9)
}

func TestComputeZeroQuote(t *testing.T) {
	cases := []struct {
		name                  string
		principal, down, rate float64
		term                  int
	}{
		{"zero rate", 45000, 5000, 0, 60},
		{"down payment equals price", 45000, 45000, 5, 60},
		{"down payment exceeds price", 45000, 50000, 5, 60},
		{"negative down payment beyond zero principal", 0, 10, 5, 60},
		{"zero principal", 0, 0, 5, 60},
		{"negative rate", 45000, 0, -1, 60},
		{"zero term", 45000, 0, 5, 0},
		{"NaN rate", 45000, 0, math.NaN(), 60},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := Compute(tc.principal, tc.down, tc.rate, tc.term)
			assert.True(t, q.IsZero())
			assert.Zero(t, q.MonthlyPayment)
			assert.Zero(t, q.TotalPayment)
			assert.Zero(t, q.TotalInterest)
			assert.Equal(t, tc.term, q.TermMonths)
		})
	}
}

func TestQuickEstimateMatchesCompute(t *testing.T) {
	assert.Equal(t, Compute(48000, 0, 5, 60), QuickEstimate(48000))
	assert.InDelta(t, 905.82, QuickEstimate(48000).MonthlyPayment, 0.005)
}

func TestCalculatorDefaults(t *testing.T) {
	q := CalculatorDefaults()
	assert.Equal(t, 50000.0, q.Principal)
	assert.Equal(t, 10000.0, q.DownPayment)
	assert.Equal(t, 60, q.TermMonths)
	assert.InDelta(t, 754.85, q.MonthlyPayment, 0.005)
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 45000.0, ParseAmount(" 45000 "))
	assert.Equal(t, 5.25, ParseAmount("5.25"))
	assert.Equal(t, 0.0, ParseAmount(""))
	assert.Equal(t, 0.0, ParseAmount("abc"))
	assert.Equal(t, 0.0, ParseAmount("NaN"))
	assert.Equal(t, 0.0, ParseAmount("Inf"))
	assert.Equal(t, -10.0, ParseAmount("-10"))

	assert.Equal(t, 60, ParseTerm("60"))
	assert.Equal(t, 0, ParseTerm("-5"))
	assert.Equal(t, 0, ParseTerm("x"))
}

func TestRatesReturnsCopy(t *testing.T) {
	rates := Rates()
	require.Len(t, rates, 4)
	assert.Equal(t, 3.5, rates[TierExcellent])

	rates[TierExcellent] = 99
	rate, ok := RateFor(TierExcellent)
	require.True(t, ok)
	assert.Equal(t, 3.5, rate)

	_, ok = RateFor("platinum")
	assert.False(t, ok)
}

func TestComputeConcurrentCallsAgree(t *testing.T) {
	want := Compute(55000, 5000, 4.5, 72)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, Compute(55000, 5000, 4.5, 72))
		}()
	}
	wg.Wait()
}
