package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratescope/internal/model"
)

func minimalTariffJSON() string {
	sched := "[" + strings.Repeat("[0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0],", 11) +
		"[0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0]]"
	return `{
		"energy_rate_structure": [[{"rate": 0.12}]],
		"energy_weekday_schedule": ` + sched + `,
		"energy_weekend_schedule": ` + sched + `,
		"fixed_charge": 10
	}`
}

func TestParseTariffDirectObject(t *testing.T) {
	tariff, err := ParseTariff([]byte(minimalTariffJSON()))
	require.NoError(t, err)
	assert.InDelta(t, 0.12, tariff.EnergyRateStructure[0][0].Rate, 1e-9)
	assert.InDelta(t, 10.0, tariff.FixedCharge, 1e-9)
}

func TestParseTariffItemsWrapper(t *testing.T) {
	raw := `{"items": [` + minimalTariffJSON() + `]}`
	tariff, err := ParseTariff([]byte(raw))
	require.NoError(t, err)
	assert.InDelta(t, 0.12, tariff.EnergyRateStructure[0][0].Rate, 1e-9)
}

func TestParseTariffMalformedJSON(t *testing.T) {
	_, err := ParseTariff([]byte(`{"energy_rate_structure": [`))
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindTariffInvalid))
	assert.Contains(t, err.Error(), "MALFORMED_JSON")
}

func TestParseTariffValidationPropagates(t *testing.T) {
	_, err := ParseTariff([]byte(`{"energy_rate_structure": [[{"rate": 0.1}]]}`))
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindTariffInvalid))
	assert.Contains(t, err.Error(), "MISSING_ENERGY_SCHEDULE")
}

func TestLoadTariffJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tariff.json")
	require.NoError(t, os.WriteFile(path, []byte(minimalTariffJSON()), 0o644))

	tariff, err := LoadTariffJSON(path)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, tariff.FixedCharge, 1e-9)
}

func TestLoadTariffJSONMissingFile(t *testing.T) {
	_, err := LoadTariffJSON(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindTariffInvalid))
}
