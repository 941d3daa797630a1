package billing

import (
	"math"

	"ratescope/internal/model"
)

// resolveTiers walks an increasing-block tier list in document order,
// consuming min(remaining, tier_max) units per tier. A tier without a
// tier_max absorbs everything left. Returns the base charge and the
// adjustment charge separately.
func resolveTiers(tiers []model.TierRate, quantity float64) (base, adjustment float64) {
	remaining := quantity
	for _, tier := range tiers {
		if remaining <= 0 {
			break
		}
		amount := remaining
		if tier.TierMax != nil && amount > *tier.TierMax {
			amount = *tier.TierMax
		}
		base += amount * tier.Rate
		adjustment += amount * tier.Adjustment
		remaining -= amount
	}
	return base, adjustment
}

// demandCharges computes the charge for a billed demand. When the tariff
// carries a reactive power charge and a declared power factor below 1, a
// kVAR surcharge is added ahead of the tiered portion. This models
// reactive billing from the declared power factor rather than a measured
// kVAR draw, so it is an approximation.
func demandCharges(t *model.Tariff, tiers []model.TierRate, demandKW float64) (base, adjustment float64) {
	if demandKW > 0 && t.ReactivePowerCharge > 0 && t.PowerFactor > 0 && t.PowerFactor < 1 {
		apparentKVA := demandKW / t.PowerFactor
		reactiveKVAR := math.Sqrt(apparentKVA*apparentKVA - demandKW*demandKW)
		base += reactiveKVAR * t.ReactivePowerCharge
	}
	b, a := resolveTiers(tiers, demandKW)
	return base + b, adjustment + a
}
