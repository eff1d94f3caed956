package billing

import (
	"math"

	"github.com/supermart/billing-engine/internal/domain/enum"
)

// One loyalty point is worth one rupee when redeemed.
const pointValuePaise = 100

// Accrual: one base point per whole ₹100 of the grand total, scaled by the
// customer's tier multiplier, floored to whole points.
const accrualUnitPaise = 100 * 100

// PointsEarned returns the loyalty points accrued for a bill
func PointsEarned(grandTotal int64, tier enum.CustomerTier) int64 {
	if grandTotal <= 0 {
		return 0
	}
	base := grandTotal / accrualUnitPaise
	return int64(math.Floor(float64(base) * tier.Multiplier()))
}

// PointsValue converts a point count to its monetary value in paise
func PointsValue(points int64) int64 {
	return points * pointValuePaise
}

// MaxRedeemablePoints caps redemption at half the bill's value
func MaxRedeemablePoints(grandTotal int64) int64 {
	if grandTotal <= 0 {
		return 0
	}
	return grandTotal / 2 / pointValuePaise
}
