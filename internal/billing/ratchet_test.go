package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ratescope/internal/model"
)

func ratchetTariff(pct float64) *model.Tariff {
	pcts := make([]float64, 12)
	for i := range pcts {
		pcts[i] = pct
	}
	return &model.Tariff{DemandRatchetPercentage: pcts}
}

func TestRatchetCarryForward(t *testing.T) {
	tariff := ratchetTariff(80)
	rs := NewRatchetState()

	// Peaks 100, 40, 60 with an 80% ratchet: later months are floored at
	// 80% of the year's highest billed peak so far.
	assert.InDelta(t, 100.0, rs.Apply(tariff, 2024, 1, 100), 1e-9)
	assert.InDelta(t, 80.0, rs.Apply(tariff, 2024, 2, 40), 1e-9)
	assert.InDelta(t, 80.0, rs.Apply(tariff, 2024, 3, 60), 1e-9)
}

func TestRatchetDoesNotCrossYears(t *testing.T) {
	tariff := ratchetTariff(80)
	rs := NewRatchetState()

	rs.Apply(tariff, 2023, 12, 200)
	// January of the next year sees no historical peaks.
	assert.InDelta(t, 10.0, rs.Apply(tariff, 2024, 1, 10), 1e-9)
}

func TestRatchetMinimumDemand(t *testing.T) {
	mins := make([]float64, 12)
	mins[4] = 25 // May
	tariff := &model.Tariff{MinDemandRatchet: mins}
	rs := NewRatchetState()

	assert.InDelta(t, 25.0, rs.Apply(tariff, 2024, 5, 10), 1e-9)
	assert.InDelta(t, 40.0, rs.Apply(tariff, 2024, 5, 40), 1e-9)
}

func TestRatchetNoRules(t *testing.T) {
	tariff := &model.Tariff{}
	rs := NewRatchetState()

	assert.InDelta(t, 42.0, rs.Apply(tariff, 2024, 6, 42), 1e-9)
}

func TestRatchetRecordsLargestBilledPeak(t *testing.T) {
	tariff := ratchetTariff(100)
	rs := NewRatchetState()

	// Two demand periods in the same month; the month's record is the
	// larger billed peak, and the next month ratchets off it.
	rs.Apply(tariff, 2024, 1, 30)
	rs.Apply(tariff, 2024, 1, 90)
	assert.InDelta(t, 90.0, rs.Apply(tariff, 2024, 2, 10), 1e-9)
}
