package billing

import (
	"fmt"
	"math"
	"time"

	"ratescope/internal/data"
	"ratescope/internal/model"
)

// CalculateMonthlyBill is the file-path entry point: it loads the profile
// and tariff, runs a calculation, and optionally persists the bill CSV
// when opts.OutputCSV is set.
func CalculateMonthlyBill(profilePath, tariffPath string, opts Options) (*Result, error) {
	tariff, err := data.LoadTariffJSON(tariffPath)
	if err != nil {
		return nil, err
	}
	intervals, err := data.LoadProfileCSV(profilePath, data.LoadOptions{IntervalMinutes: opts.IntervalMinutes})
	if err != nil {
		return nil, err
	}
	result, err := New(opts).Run(tariff, intervals)
	if err != nil {
		return nil, err
	}
	if opts.OutputCSV != "" {
		if err := WriteBillCSV(opts.OutputCSV, result.Rows); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// AppBillRow is the simplified display row for the app surface: combined
// energy/demand cost columns, a human-readable month name, and values
// rounded for display.
type AppBillRow struct {
	Month           string  `json:"month"` // e.g. "January 2024"
	TotalKWH        float64 `json:"total_kwh"`
	PeakKW          float64 `json:"peak_kw"`
	LoadFactor      float64 `json:"load_factor"`
	TotalEnergyCost float64 `json:"total_energy_cost"`
	TotalDemandCost float64 `json:"total_demand_cost"`
	FixedCharge     float64 `json:"fixed_charge"`
	TotalCharge     float64 `json:"total_charge"`
}

// CalculateForApp runs a calculation against an already-parsed tariff and
// returns the simplified table. Per-kWh extracted adjustments fold into the
// energy cost column, per-kW ones into the demand cost column.
func CalculateForApp(tariff *model.Tariff, profilePath string, opts Options) ([]AppBillRow, error) {
	intervals, err := data.LoadProfileCSV(profilePath, data.LoadOptions{IntervalMinutes: opts.IntervalMinutes})
	if err != nil {
		return nil, err
	}
	result, err := New(opts).Run(tariff, intervals)
	if err != nil {
		return nil, err
	}
	return AppRows(result), nil
}

// AppRows converts a full result into the simplified display table.
func AppRows(result *Result) []AppBillRow {
	var perKWHRate, perKWRate float64
	for _, adj := range result.Adjustments {
		switch adj.Unit {
		case PerKW:
			perKWRate += adj.Rate
		default:
			perKWHRate += adj.Rate
		}
	}

	rows := make([]AppBillRow, len(result.Rows))
	for i, r := range result.Rows {
		energy := r.EnergyCharge + r.EnergyAdjustment + perKWHRate*r.TotalKWH
		demand := r.TOUDemandCharge + r.TOUDemandAdjustment +
			r.FlatDemandCharge + r.FlatDemandAdjustment + perKWRate*r.PeakKW
		rows[i] = AppBillRow{
			Month:           monthName(r.Year, r.Month),
			TotalKWH:        round2(r.TotalKWH),
			PeakKW:          round2(r.PeakKW),
			LoadFactor:      round2(r.LoadFactor),
			TotalEnergyCost: round2(energy),
			TotalDemandCost: round2(demand),
			FixedCharge:     round2(r.FixedCharge),
			TotalCharge:     round2(r.TotalCharge),
		}
	}
	return rows
}

func monthName(year, month int) string {
	return fmt.Sprintf("%s %d", time.Month(month), year)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
