package billing

import (
	"encoding/csv"
	"os"
	"strconv"
)

// WriteBillCSV persists the monthly bill table, one row per (year, month).
func WriteBillCSV(path string, rows []MonthlyBillRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"year",
		"month",
		"total_kwh",
		"peak_kw",
		"average_kw",
		"load_factor",
		"energy_charge",
		"energy_adjustment",
		"tou_demand_charge",
		"tou_demand_adjustment",
		"flat_demand_charge",
		"flat_demand_adjustment",
		"fixed_charge",
		"adjustment_charge",
		"total_charge",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Month),
			fmtFloat(r.TotalKWH),
			fmtFloat(r.PeakKW),
			fmtFloat(r.AverageKW),
			fmtFloat(r.LoadFactor),
			fmtFloat(r.EnergyCharge),
			fmtFloat(r.EnergyAdjustment),
			fmtFloat(r.TOUDemandCharge),
			fmtFloat(r.TOUDemandAdjustment),
			fmtFloat(r.FlatDemandCharge),
			fmtFloat(r.FlatDemandAdjustment),
			fmtFloat(r.FixedCharge),
			fmtFloat(r.AdjustmentCharge),
			fmtFloat(r.TotalCharge),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
