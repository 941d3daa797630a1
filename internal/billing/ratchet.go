package billing

import "ratescope/internal/model"

// monthKey identifies a (year, month) bucket.
type monthKey struct {
	Year  int
	Month int // 1-12
}

// RatchetState maps (year, month) to the recorded billed (post-ratchet)
// peak for that month. It is scoped to a single calculation run and must
// never be shared between runs. Months within a year must be applied in
// increasing month order: lookups consider only strictly earlier months of
// the same year, so out-of-order application yields wrong ratchets.
type RatchetState map[monthKey]float64

// NewRatchetState creates an empty state for one calculation run.
func NewRatchetState() RatchetState {
	return make(RatchetState)
}

// Apply resolves the billed demand for a measured monthly peak. When the
// month carries a ratchet percentage, the billed demand is floored at that
// fraction of the highest billed peak recorded for earlier months of the
// same year; when the month carries a minimum billed demand, the result is
// floored at that too. The resulting value is recorded before returning.
func (rs RatchetState) Apply(t *model.Tariff, year, month int, peakKW float64) float64 {
	billed := peakKW
	if pct := t.RatchetPercentage(month); pct > 0 {
		historical := 0.0
		for m := 1; m < month; m++ {
			if p, ok := rs[monthKey{Year: year, Month: m}]; ok && p > historical {
				historical = p
			}
		}
		if floor := historical * pct / 100; floor > billed {
			billed = floor
		}
	}
	if floor := t.MinRatchet(month); floor > 0 && floor > billed {
		billed = floor
	}
	// A month may carry several demand periods; keep the largest billed
	// peak as the month's record.
	key := monthKey{Year: year, Month: month}
	if prev, ok := rs[key]; !ok || billed > prev {
		rs[key] = billed
	}
	return billed
}
