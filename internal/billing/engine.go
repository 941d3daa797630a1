package billing

import (
	"log"
	"sort"

	"ratescope/internal/model"
)

// Options configures one calculation run.
type Options struct {
	// IntervalMinutes overrides interval-length inference in the loader.
	IntervalMinutes int
	// ServiceVoltageKV, when set, is checked against the tariff's voltage
	// band. Mismatches are advisory only.
	ServiceVoltageKV float64
	// OutputCSV, when set, persists the bill table after a successful run.
	OutputCSV string
}

// Engine computes a month-by-month bill for one tariff/profile pair. A run
// is a single-pass synchronous batch. Run never writes to its inputs and the
// only mutable state is the per-run ratchet map, so one loaded profile can
// feed any number of concurrent Run calls.
type Engine struct {
	opts Options
}

func New(opts Options) *Engine { return &Engine{opts: opts} }

// Run validates the tariff, classifies every interval, and aggregates one
// bill row per (year, month). Months are processed in chronological order,
// which the ratchet carry-forward depends on.
func (e *Engine) Run(t *model.Tariff, intervals []model.Interval) (*Result, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if msg, ok := t.CheckVoltage(e.opts.ServiceVoltageKV); !ok {
		log.Printf("[Billing] advisory: %s", msg)
	}
	if len(intervals) == 0 {
		return nil, model.ProfileInvalid("EMPTY_PROFILE", "load profile has no intervals")
	}

	// Classification is per-tariff, so it goes into a private copy; the
	// caller's slice stays untouched and can feed other runs concurrently.
	classified := make([]model.Interval, len(intervals))
	copy(classified, intervals)
	if err := ClassifyIntervals(t, classified); err != nil {
		return nil, err
	}

	adjustments, found := ExtractAdjustments(t)
	if !found {
		log.Printf("[Billing] no supplementary adjustments detected in tariff text")
	}

	months := groupByMonth(classified)
	energyRoles := periodRoles(t.EnergyRateStructure)
	demandRoles := periodRoles(t.DemandRateStructure)

	result := &Result{
		Adjustments:      adjustments,
		AdjustmentsFound: found,
		Rows:             make([]MonthlyBillRow, 0, len(months)),
	}
	ratchet := NewRatchetState()

	for _, mg := range months {
		row := e.billMonth(t, mg, ratchet, adjustments, energyRoles, demandRoles)
		result.Rows = append(result.Rows, row)
		result.TotalKWH += row.TotalKWH
		result.TotalCharge += row.TotalCharge
	}
	return result, nil
}

// monthGroup holds one calendar month's intervals.
type monthGroup struct {
	Key       monthKey
	Intervals []model.Interval
}

// groupByMonth buckets intervals by (year, month) and orders the buckets
// chronologically regardless of input order.
func groupByMonth(intervals []model.Interval) []monthGroup {
	buckets := make(map[monthKey][]model.Interval)
	for _, iv := range intervals {
		key := monthKey{Year: iv.Year, Month: iv.Month}
		buckets[key] = append(buckets[key], iv)
	}
	out := make([]monthGroup, 0, len(buckets))
	for key, ivs := range buckets {
		out = append(out, monthGroup{Key: key, Intervals: ivs})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Year != out[j].Key.Year {
			return out[i].Key.Year < out[j].Key.Year
		}
		return out[i].Key.Month < out[j].Key.Month
	})
	return out
}

func (e *Engine) billMonth(t *model.Tariff, mg monthGroup, ratchet RatchetState, adjustments []Adjustment, energyRoles, demandRoles []string) MonthlyBillRow {
	year, month := mg.Key.Year, mg.Key.Month
	row := MonthlyBillRow{
		Year:           year,
		Month:          month,
		EnergyByPeriod: make(map[string]float64),
		PeakByPeriod:   make(map[string]float64),
	}

	// Consumption and peak statistics.
	var loadSum float64
	for _, iv := range mg.Intervals {
		row.TotalKWH += iv.EnergyKWh
		loadSum += iv.LoadKW
		if iv.LoadKW > row.PeakKW {
			row.PeakKW = iv.LoadKW
		}
	}
	row.AverageKW = loadSum / float64(len(mg.Intervals))
	if row.PeakKW > 0 {
		row.LoadFactor = row.AverageKW / row.PeakKW
	}

	// Energy charges: each interval's kWh goes through its period's tier
	// list in document order.
	for _, iv := range mg.Intervals {
		base, adj := resolveTiers(t.EnergyRateStructure[iv.EnergyPeriod], iv.EnergyKWh)
		row.EnergyCharge += base
		row.EnergyAdjustment += adj
		row.EnergyByPeriod[periodLabel(energyRoles, iv.EnergyPeriod, month)] += iv.EnergyKWh
	}

	// TOU demand: one charge per demand period from the ratcheted peak.
	// Periods run in ascending index order; the ratchet map is keyed by
	// month, so ordering within the month does not affect lookups.
	if t.HasDemandTOU() {
		periodPeaks := make([]float64, len(t.DemandRateStructure))
		for _, iv := range mg.Intervals {
			if iv.LoadKW > periodPeaks[iv.DemandPeriod] {
				periodPeaks[iv.DemandPeriod] = iv.LoadKW
			}
		}
		for p, peak := range periodPeaks {
			if peak <= 0 {
				continue
			}
			billed := ratchet.Apply(t, year, month, peak)
			base, adj := demandCharges(t, t.DemandRateStructure[p], billed)
			row.TOUDemandCharge += base
			row.TOUDemandAdjustment += adj
			row.PeakByPeriod[periodLabel(demandRoles, p, month)] = peak
		}
	} else if row.PeakKW > 0 {
		row.PeakByPeriod["flat "+seasonTag(month)] = row.PeakKW
	}

	// Flat (seasonal) demand from the month's single peak.
	if t.HasFlatDemand() && row.PeakKW > 0 {
		p := t.FlatDemandMonths[month-1]
		base, adj := resolveTiers(t.FlatDemandStructure[p], row.PeakKW)
		row.FlatDemandCharge += base
		row.FlatDemandAdjustment += adj
	}

	// Fixed charge: the greater of the flat fixed charge and any declared
	// monthly minimum.
	row.FixedCharge = t.FixedCharge
	if t.MinMonthlyCharge > row.FixedCharge {
		row.FixedCharge = t.MinMonthlyCharge
	}

	// Extracted free-text adjustments scale with the month's consumption
	// or peak.
	for _, adj := range adjustments {
		switch adj.Unit {
		case PerKW:
			row.AdjustmentCharge += adj.Rate * row.PeakKW
		default:
			row.AdjustmentCharge += adj.Rate * row.TotalKWH
		}
	}

	row.TotalCharge = row.EnergyCharge + row.EnergyAdjustment +
		row.TOUDemandCharge + row.TOUDemandAdjustment +
		row.FlatDemandCharge + row.FlatDemandAdjustment +
		row.FixedCharge + row.AdjustmentCharge
	return row
}
