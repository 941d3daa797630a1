package analysis

import (
	"math"
	"sort"
	"time"

	"ratescope/internal/billing"
	"ratescope/internal/model"
)

// PlanCost is a tariff-level summary you can use for ranking. It carries
// both the billed totals and raw load statistics so a cheap plan on a
// peaky profile is explainable.
type PlanCost struct {
	Name    string
	Utility string

	Start time.Time
	End   time.Time

	Months   int
	TotalKWH float64

	PeakKW float64
	MeanKW float64
	P95KW  float64

	TotalCharge     float64
	AverageMonthly  float64
	EffectivePerKWH float64

	AdjustmentsFound bool
}

// ComputePlanCost runs the bill engine for one tariff over the profile and
// summarizes the result.
func ComputePlanCost(name string, t *model.Tariff, intervals []model.Interval, opts billing.Options) (PlanCost, error) {
	pc := PlanCost{Name: name, Utility: t.Utility}
	if t.Name != "" {
		pc.Name = t.Name
	}
	result, err := billing.New(opts).Run(t, intervals)
	if err != nil {
		return pc, err
	}

	pc.Months = len(result.Rows)
	pc.TotalKWH = result.TotalKWH
	pc.TotalCharge = result.TotalCharge
	pc.AdjustmentsFound = result.AdjustmentsFound
	if pc.Months > 0 {
		pc.AverageMonthly = pc.TotalCharge / float64(pc.Months)
	}
	if pc.TotalKWH > 0 {
		pc.EffectivePerKWH = pc.TotalCharge / pc.TotalKWH
	}

	pc.Start = intervals[0].Timestamp
	pc.End = intervals[len(intervals)-1].Timestamp
	sum := 0.0
	loads := make([]float64, 0, len(intervals))
	for _, iv := range intervals {
		loads = append(loads, iv.LoadKW)
		sum += iv.LoadKW
		if iv.LoadKW > pc.PeakKW {
			pc.PeakKW = iv.LoadKW
		}
	}
	sort.Float64s(loads)
	pc.MeanKW = sum / float64(len(loads))
	pc.P95KW = percentileSorted(loads, 0.95)
	return pc, nil
}

// RankedPlan is one entry of a cost comparison, cheapest first.
type RankedPlan struct {
	Rank int
	PlanCost
}

// RankByTotalCost bills the same profile under every tariff and sorts
// ascending by total charge. Tariffs that fail validation are skipped;
// the caller sees them missing from the ranking.
func RankByTotalCost(tariffs map[string]*model.Tariff, intervals []model.Interval, opts billing.Options) []RankedPlan {
	out := make([]RankedPlan, 0, len(tariffs))
	for name, t := range tariffs {
		pc, err := ComputePlanCost(name, t, intervals, opts)
		if err != nil {
			continue
		}
		out = append(out, RankedPlan{PlanCost: pc})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TotalCharge < out[j].TotalCharge
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
