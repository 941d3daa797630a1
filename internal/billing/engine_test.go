package billing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratescope/internal/model"
)

func flatTariff() *model.Tariff {
	return &model.Tariff{
		EnergyRateStructure:   [][]model.TierRate{{{Rate: 0.12}}},
		EnergyWeekdaySchedule: uniformSchedule(0),
		EnergyWeekendSchedule: uniformSchedule(0),
		FixedCharge:           10,
	}
}

// constantProfile builds n intervals of constant load starting at start.
func constantProfile(start time.Time, kw float64, n int, step time.Duration) []model.Interval {
	hours := step.Hours()
	out := make([]model.Interval, n)
	for i := range out {
		out[i] = model.Interval{
			Timestamp: start.Add(time.Duration(i) * step),
			LoadKW:    kw,
			EnergyKWh: kw * hours,
		}
		out[i].DeriveCalendar()
	}
	return out
}

func TestEngineFlatRateEndToEnd(t *testing.T) {
	tariff := flatTariff()
	// 30 days of constant 10 kW at 15-minute intervals, all inside April.
	intervals := constantProfile(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 10, 30*24*4, 15*time.Minute)

	res, err := New(Options{}).Run(tariff, intervals)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)

	row := res.Rows[0]
	assert.Equal(t, 2024, row.Year)
	assert.Equal(t, 4, row.Month)
	assert.InDelta(t, 7200.0, row.TotalKWH, 1e-6)
	assert.InDelta(t, 864.0, row.EnergyCharge, 1e-6)
	assert.InDelta(t, 10.0, row.FixedCharge, 1e-9)
	assert.InDelta(t, 874.0, row.TotalCharge, 1e-6)
	assert.InDelta(t, 10.0, row.PeakKW, 1e-9)
	assert.InDelta(t, 1.0, row.LoadFactor, 1e-9)
	assert.False(t, res.AdjustmentsFound)
}

func TestEngineAggregationIdentity(t *testing.T) {
	tariff := touTariff()
	tariff.FixedCharge = 12.5
	tariff.DemandRateStructure = [][]model.TierRate{{{Rate: 5, Adjustment: 0.25}}}
	tariff.DemandWeekdaySchedule = uniformSchedule(0)
	tariff.DemandWeekendSchedule = uniformSchedule(0)
	tariff.FlatDemandStructure = [][]model.TierRate{{{Rate: 2}}}
	tariff.FlatDemandMonths = make([]int, 12)
	tariff.Description = "FCA($0.001)"

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	intervals := make([]model.Interval, 0, 14*24)
	for i := 0; i < 14*24; i++ {
		kw := 4.0 + float64(i%7) // uneven load
		iv := model.Interval{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			LoadKW:    kw,
			EnergyKWh: kw,
		}
		iv.DeriveCalendar()
		intervals = append(intervals, iv)
	}

	res, err := New(Options{}).Run(tariff, intervals)
	require.NoError(t, err)
	require.True(t, res.AdjustmentsFound)
	require.Len(t, res.Rows, 1)

	row := res.Rows[0]
	sum := row.EnergyCharge + row.EnergyAdjustment +
		row.TOUDemandCharge + row.TOUDemandAdjustment +
		row.FlatDemandCharge + row.FlatDemandAdjustment +
		row.FixedCharge + row.AdjustmentCharge
	assert.InDelta(t, sum, row.TotalCharge, 1e-9)

	// Extracted per-kWh adjustment scales with consumption.
	assert.InDelta(t, 0.001*row.TotalKWH, row.AdjustmentCharge, 1e-9)

	// Flat demand bills the month's single peak at $2/kW.
	assert.InDelta(t, 2*row.PeakKW, row.FlatDemandCharge, 1e-9)
}

func TestEngineRatchetAcrossMonths(t *testing.T) {
	tariff := flatTariff()
	tariff.EnergyRateStructure = [][]model.TierRate{{{Rate: 0}}}
	tariff.FixedCharge = 0
	tariff.DemandRateStructure = [][]model.TierRate{{{Rate: 10}}}
	tariff.DemandWeekdaySchedule = uniformSchedule(0)
	tariff.DemandWeekendSchedule = uniformSchedule(0)
	pcts := make([]float64, 12)
	for i := range pcts {
		pcts[i] = 80
	}
	tariff.DemandRatchetPercentage = pcts

	// Three months with peaks 100, 40, 60.
	var intervals []model.Interval
	for m, peak := range []float64{100, 40, 60} {
		start := time.Date(2024, time.Month(m+1), 1, 0, 0, 0, 0, time.UTC)
		month := constantProfile(start, 20, 24, time.Hour)
		month[5].LoadKW = peak
		month[5].EnergyKWh = peak
		intervals = append(intervals, month...)
	}

	res, err := New(Options{}).Run(tariff, intervals)
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)

	// Month 2's billed demand is floored at 0.8*100=80, not the raw 40.
	assert.InDelta(t, 1000.0, res.Rows[0].TOUDemandCharge, 1e-6)
	assert.InDelta(t, 800.0, res.Rows[1].TOUDemandCharge, 1e-6)
	assert.InDelta(t, 800.0, res.Rows[2].TOUDemandCharge, 1e-6)
}

func TestEnginePeriodBreakdownLabels(t *testing.T) {
	tariff := touTariff()
	tariff.FixedCharge = 0

	// One on-peak weekday hour in July and one off-peak.
	peak := model.Interval{Timestamp: time.Date(2024, 7, 3, 18, 0, 0, 0, time.UTC), LoadKW: 8, EnergyKWh: 8}
	night := model.Interval{Timestamp: time.Date(2024, 7, 3, 2, 0, 0, 0, time.UTC), LoadKW: 2, EnergyKWh: 2}
	peak.DeriveCalendar()
	night.DeriveCalendar()

	res, err := New(Options{}).Run(tariff, []model.Interval{night, peak})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)

	row := res.Rows[0]
	assert.InDelta(t, 8.0, row.EnergyByPeriod["on-peak summer"], 1e-9)
	assert.InDelta(t, 2.0, row.EnergyByPeriod["off-peak summer"], 1e-9)
	// No demand structure: peak lands under the flat label.
	assert.InDelta(t, 8.0, row.PeakByPeriod["flat summer"], 1e-9)
}

func TestEngineSeasonTags(t *testing.T) {
	assert.Equal(t, "summer", seasonTag(6))
	assert.Equal(t, "summer", seasonTag(9))
	assert.Equal(t, "winter", seasonTag(5))
	assert.Equal(t, "winter", seasonTag(12))
}

func TestPeriodRoles(t *testing.T) {
	single := periodRoles([][]model.TierRate{{{Rate: 0.1}}})
	assert.Equal(t, []string{"flat"}, single)

	three := periodRoles([][]model.TierRate{
		{{Rate: 0.20}}, // priciest
		{{Rate: 0.08}}, // cheapest
		{{Rate: 0.12}},
	})
	assert.Equal(t, []string{"on-peak", "off-peak", "mid-peak"}, three)

	many := periodRoles([][]model.TierRate{{{Rate: 1}}, {{Rate: 2}}, {{Rate: 3}}, {{Rate: 4}}})
	assert.Equal(t, "period-3", many[3])
}

func TestEngineLeavesInputIntervalsUntouched(t *testing.T) {
	tariff := touTariff()
	intervals := constantProfile(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 10, 48, time.Hour)

	_, err := New(Options{}).Run(tariff, intervals)
	require.NoError(t, err)

	// Period assignment happens on a private copy; the loaded profile keeps
	// its zero values even for hours the tariff classifies as on-peak.
	for _, iv := range intervals {
		assert.Zero(t, iv.EnergyPeriod)
		assert.Zero(t, iv.DemandPeriod)
	}
}

func TestEngineConcurrentRunsShareProfile(t *testing.T) {
	intervals := constantProfile(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 10, 14*24, time.Hour)

	// One loaded profile billed under several tariffs at once, the pattern a
	// comparison host uses. Every run must see the same numbers it would
	// have seen alone.
	tariffs := []*model.Tariff{flatTariff(), touTariff(), flatTariff(), touTariff()}
	want := make([]float64, len(tariffs))
	for i, tariff := range tariffs {
		res, err := New(Options{}).Run(tariff, intervals)
		require.NoError(t, err)
		want[i] = res.TotalCharge
	}

	got := make([]float64, len(tariffs))
	errs := make([]error, len(tariffs))
	var wg sync.WaitGroup
	for i, tariff := range tariffs {
		wg.Add(1)
		go func(i int, tariff *model.Tariff) {
			defer wg.Done()
			res, err := New(Options{}).Run(tariff, intervals)
			if err != nil {
				errs[i] = err
				return
			}
			got[i] = res.TotalCharge
		}(i, tariff)
	}
	wg.Wait()

	for i := range tariffs {
		require.NoError(t, errs[i])
		assert.InDelta(t, want[i], got[i], 1e-9)
	}
}

func TestEngineEmptyProfile(t *testing.T) {
	_, err := New(Options{}).Run(flatTariff(), nil)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindProfileInvalid))
}

func TestEngineInvalidTariff(t *testing.T) {
	_, err := New(Options{}).Run(&model.Tariff{}, constantProfile(time.Now(), 1, 4, time.Hour))
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindTariffInvalid))
}
