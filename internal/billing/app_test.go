package billing

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppRowsFoldsAdjustments(t *testing.T) {
	result := &Result{
		Rows: []MonthlyBillRow{{
			Year: 2024, Month: 1,
			TotalKWH:         1000,
			PeakKW:           50,
			LoadFactor:       0.61234,
			EnergyCharge:     120,
			EnergyAdjustment: 3,
			TOUDemandCharge:  200,
			FlatDemandCharge: 40,
			FixedCharge:      15,
			AdjustmentCharge: 1 + 25, // 0.001*1000 + 0.5*50, already billed
			TotalCharge:      404,
		}},
		Adjustments: []Adjustment{
			{Name: "FCA", Rate: 0.001, Unit: PerKWH},
			{Name: "ECRDC", Rate: 0.5, Unit: PerKW},
		},
		AdjustmentsFound: true,
	}

	rows := AppRows(result)
	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, "January 2024", row.Month)
	// Per-kWh extracted rate folds into the energy column, per-kW into demand.
	assert.InDelta(t, 120+3+1, row.TotalEnergyCost, 1e-9)
	assert.InDelta(t, 200+40+25, row.TotalDemandCost, 1e-9)
	assert.InDelta(t, 15, row.FixedCharge, 1e-9)
	assert.InDelta(t, 404, row.TotalCharge, 1e-9)
	// Display values are rounded to cents.
	assert.InDelta(t, 0.61, row.LoadFactor, 1e-9)
}

func TestCalculateMonthlyBillFromFiles(t *testing.T) {
	dir := t.TempDir()

	sched := "["
	for m := 0; m < 12; m++ {
		if m > 0 {
			sched += ","
		}
		sched += "[0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0]"
	}
	sched += "]"
	tariffPath := filepath.Join(dir, "tariff.json")
	require.NoError(t, os.WriteFile(tariffPath, []byte(`{
		"energy_rate_structure": [[{"rate": 0.10}]],
		"energy_weekday_schedule": `+sched+`,
		"energy_weekend_schedule": `+sched+`,
		"fixed_charge": 5
	}`), 0o644))

	profilePath := filepath.Join(dir, "profile.csv")
	require.NoError(t, os.WriteFile(profilePath, []byte(
		"timestamp,load_kW\n"+
			"2024-03-01T00:00:00Z,10\n"+
			"2024-03-01T01:00:00Z,10\n"+
			"2024-03-01T02:00:00Z,10\n"), 0o644))

	outPath := filepath.Join(dir, "bill.csv")
	result, err := CalculateMonthlyBill(profilePath, tariffPath, Options{OutputCSV: outPath})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)

	assert.InDelta(t, 30.0, result.TotalKWH, 1e-9)
	assert.InDelta(t, 30*0.10+5, result.TotalCharge, 1e-9)

	// The bill table landed on disk with one header and one data row.
	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "year", records[0][0])
	assert.Equal(t, "2024", records[1][0])
	assert.Equal(t, "3", records[1][1])
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "July 2023", monthName(2023, 7))
	assert.Equal(t, "December 2024", monthName(2024, 12))
}
