package loan

// CreditTier is a coarse credit band used for indicative rates.
type CreditTier string

const (
	TierExcellent CreditTier = "excellent"
	TierGood      CreditTier = "good"
	TierFair      CreditTier = "fair"
	TierPoor      CreditTier = "poor"
)

var indicativeRates = map[CreditTier]float64{
	TierExcellent: 3.5,
	TierGood:      4.5,
	TierFair:      6.0,
	TierPoor:      8.5,
}

// Rates returns a copy of the indicative annual rates, in percent.
func Rates() map[CreditTier]float64 {
	out := make(map[CreditTier]float64, len(indicativeRates))
	for tier, rate := range indicativeRates {
		out[tier] = rate
	}
	return out
}

// RateFor returns the indicative rate for a tier.
func RateFor(tier CreditTier) (float64, bool) {
	rate, ok := indicativeRates[tier]
	return rate, ok
}
