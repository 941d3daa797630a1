package billing

import (
	"fmt"
	"sort"

	"ratescope/internal/model"
)

// MonthlyBillRow is one row of per-month output.
// This is the primary artifact for "what does this tariff cost" on a profile.
type MonthlyBillRow struct {
	Year  int
	Month int // 1-12

	TotalKWH   float64
	PeakKW     float64
	AverageKW  float64
	LoadFactor float64

	EnergyCharge     float64
	EnergyAdjustment float64

	TOUDemandCharge     float64
	TOUDemandAdjustment float64

	FlatDemandCharge     float64
	FlatDemandAdjustment float64

	FixedCharge      float64
	AdjustmentCharge float64 // extracted free-text adjustments, scaled

	TotalCharge float64

	// Per-period breakdowns keyed by a display label like "on-peak summer".
	EnergyByPeriod map[string]float64 // kWh
	PeakByPeriod   map[string]float64 // kW
}

// Result is the output of one calculation run.
type Result struct {
	Rows []MonthlyBillRow

	Adjustments      []Adjustment
	AdjustmentsFound bool

	TotalKWH    float64
	TotalCharge float64
}

// summerMonths is the fixed display season split: June through September
// is summer, the rest winter. Display convenience only, not load-bearing
// for charge math.
var summerMonths = map[int]bool{6: true, 7: true, 8: true, 9: true}

func seasonTag(month int) string {
	if summerMonths[month] {
		return "summer"
	}
	return "winter"
}

// periodRoles names rate periods by price ordering: the cheapest first
// tier is off-peak, the priciest on-peak. Four or more periods fall back
// to positional names.
func periodRoles(structure [][]model.TierRate) []string {
	n := len(structure)
	roles := make([]string, n)
	switch n {
	case 0:
		return roles
	case 1:
		roles[0] = "flat"
		return roles
	}
	if n > 3 {
		for i := range roles {
			roles[i] = fmt.Sprintf("period-%d", i)
		}
		return roles
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return firstRate(structure[order[a]]) < firstRate(structure[order[b]])
	})
	names := []string{"off-peak", "on-peak"}
	if n == 3 {
		names = []string{"off-peak", "mid-peak", "on-peak"}
	}
	for rank, idx := range order {
		roles[idx] = names[rank]
	}
	return roles
}

func firstRate(tiers []model.TierRate) float64 {
	if len(tiers) == 0 {
		return 0
	}
	return tiers[0].Rate
}

func periodLabel(roles []string, period, month int) string {
	role := fmt.Sprintf("period-%d", period)
	if period >= 0 && period < len(roles) && roles[period] != "" {
		role = roles[period]
	}
	return role + " " + seasonTag(month)
}
