package enum

// CustomerTier classifies customers for loyalty-point accrual
type CustomerTier string

const (
	CustomerTierStandard CustomerTier = "standard"
	CustomerTierLoyal    CustomerTier = "loyal"
	CustomerTierVIP      CustomerTier = "vip"
)

// Multiplier returns the loyalty accrual factor for the tier. Unknown
// tiers fall back to the standard rate.
func (t CustomerTier) Multiplier() float64 {
	switch t {
	case CustomerTierLoyal:
		return 1.5
	case CustomerTierVIP:
		return 2.0
	default:
		return 1.0
	}
}

// Valid reports whether t is a known tier
func (t CustomerTier) Valid() bool {
	switch t {
	case CustomerTierStandard, CustomerTierLoyal, CustomerTierVIP:
		return true
	}
	return false
}
