package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullSchedule(period int) Schedule {
	sched := make(Schedule, 12)
	for m := range sched {
		row := make([]int, 24)
		for h := range row {
			row[h] = period
		}
		sched[m] = row
	}
	return sched
}

func validTariff() *Tariff {
	return &Tariff{
		EnergyRateStructure:   [][]TierRate{{{Rate: 0.12}}},
		EnergyWeekdaySchedule: fullSchedule(0),
		EnergyWeekendSchedule: fullSchedule(0),
	}
}

func TestValidateOK(t *testing.T) {
	require.NoError(t, validTariff().Validate())
}

func TestValidateMissingEnergyRates(t *testing.T) {
	tariff := validTariff()
	tariff.EnergyRateStructure = nil
	err := tariff.Validate()
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTariffInvalid))
	assert.Contains(t, err.Error(), "MISSING_ENERGY_RATES")
}

func TestValidateMissingSchedule(t *testing.T) {
	tariff := validTariff()
	tariff.EnergyWeekendSchedule = nil
	err := tariff.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MISSING_ENERGY_SCHEDULE")
}

func TestValidateScheduleShape(t *testing.T) {
	tariff := validTariff()
	tariff.EnergyWeekdaySchedule = tariff.EnergyWeekdaySchedule[:11]
	err := tariff.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAD_SCHEDULE_SHAPE")
}

func TestValidatePartialDemandStructure(t *testing.T) {
	tariff := validTariff()
	tariff.DemandRateStructure = [][]TierRate{{{Rate: 5}}}
	// Rate structure without schedules.
	err := tariff.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PARTIAL_DEMAND_STRUCTURE")

	tariff.DemandWeekdaySchedule = fullSchedule(0)
	tariff.DemandWeekendSchedule = fullSchedule(0)
	require.NoError(t, tariff.Validate())
}

func TestValidateFlatDemandMonths(t *testing.T) {
	tariff := validTariff()
	tariff.FlatDemandStructure = [][]TierRate{{{Rate: 2}}}

	tariff.FlatDemandMonths = []int{0, 0, 0}
	err := tariff.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAD_FLAT_DEMAND_MONTHS")

	tariff.FlatDemandMonths = make([]int, 12)
	tariff.FlatDemandMonths[6] = 3 // out of range for a 1-period structure
	err = tariff.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAD_FLAT_DEMAND_MONTHS")

	tariff.FlatDemandMonths[6] = 0
	require.NoError(t, tariff.Validate())
}

func TestValidateRatchetShape(t *testing.T) {
	tariff := validTariff()
	tariff.DemandRatchetPercentage = []float64{80, 80}
	err := tariff.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAD_RATCHET_SHAPE")
}

func TestCheckVoltage(t *testing.T) {
	tariff := validTariff()
	tariff.VoltageMinimum = 2
	tariff.VoltageMaximum = 50

	_, ok := tariff.CheckVoltage(12)
	assert.True(t, ok)

	msg, ok := tariff.CheckVoltage(0.48)
	assert.False(t, ok)
	assert.Contains(t, msg, "below")

	msg, ok = tariff.CheckVoltage(115)
	assert.False(t, ok)
	assert.Contains(t, msg, "above")

	// Unknown service voltage or no declared band passes.
	_, ok = tariff.CheckVoltage(0)
	assert.True(t, ok)
	_, ok = validTariff().CheckVoltage(115)
	assert.True(t, ok)
}

func TestSchedulePeriodAt(t *testing.T) {
	sched := fullSchedule(0)
	sched[3][10] = 2

	p, err := sched.PeriodAt(4, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, p)

	_, err = sched.PeriodAt(0, 10)
	assert.Error(t, err)
	_, err = sched.PeriodAt(13, 10)
	assert.Error(t, err)
	_, err = sched.PeriodAt(4, 24)
	assert.Error(t, err)

	// Short row fails instead of indexing past the end.
	sched[5] = sched[5][:12]
	_, err = sched.PeriodAt(6, 20)
	assert.Error(t, err)
}

func TestEnergyPeriodAtRangeCheck(t *testing.T) {
	tariff := validTariff()
	tariff.EnergyWeekdaySchedule[0][0] = 7

	_, err := tariff.EnergyPeriodAt(1, 0, false)
	assert.Error(t, err)

	p, err := tariff.EnergyPeriodAt(1, 0, true) // weekend schedule untouched
	require.NoError(t, err)
	assert.Equal(t, 0, p)
}

func TestDemandPeriodAtWithoutStructure(t *testing.T) {
	p, err := validTariff().DemandPeriodAt(7, 18, false)
	require.NoError(t, err)
	assert.Equal(t, 0, p)
}

func TestRatchetAccessors(t *testing.T) {
	tariff := validTariff()
	assert.Zero(t, tariff.RatchetPercentage(3))
	assert.Zero(t, tariff.MinRatchet(3))

	pcts := make([]float64, 12)
	pcts[2] = 75
	mins := make([]float64, 12)
	mins[2] = 30
	tariff.DemandRatchetPercentage = pcts
	tariff.MinDemandRatchet = mins

	assert.InDelta(t, 75.0, tariff.RatchetPercentage(3), 1e-9)
	assert.InDelta(t, 30.0, tariff.MinRatchet(3), 1e-9)
	assert.Zero(t, tariff.RatchetPercentage(13))
}

func TestInputErrorKinds(t *testing.T) {
	err := TariffInvalid("SOME_CODE", "bad tariff: %d", 7)
	assert.True(t, IsKind(err, KindTariffInvalid))
	assert.False(t, IsKind(err, KindProfileInvalid))
	assert.Contains(t, err.Error(), "SOME_CODE")
	assert.Contains(t, err.Error(), "bad tariff: 7")

	wrapped := WrapProfileInvalid("INNER", "outer", assert.AnError)
	assert.True(t, IsKind(wrapped, KindProfileInvalid))
	assert.ErrorIs(t, wrapped, assert.AnError)
}
