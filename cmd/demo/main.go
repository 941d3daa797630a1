package main

import (
	"flag"
	"fmt"
	"time"

	"ratescope/internal/billing"
	"ratescope/internal/data"
	"ratescope/internal/model"
)

// Demo:
// - Build a flat-rate tariff (single period, $0.12/kWh, $10 fixed charge)
// - Bill a constant 10 kW load for 30 days at 15-minute intervals
// - Print the monthly table to show how the pieces fit together
//
// Expected: 7200 kWh, $864.00 energy, $874.00 total for the month.
func main() {
	tariffPath := flag.String("tariff", "", "Optional: path to a URDB tariff JSON instead of the built-in flat rate")
	flag.Parse()

	tariff := flatRateTariff()
	if *tariffPath != "" {
		loaded, err := data.LoadTariffJSON(*tariffPath)
		if err != nil {
			panic(err)
		}
		tariff = loaded
	}

	intervals := constantLoad(10.0, 30*24*4, 15*time.Minute)

	res, err := billing.New(billing.Options{IntervalMinutes: 15}).Run(tariff, intervals)
	if err != nil {
		panic(err)
	}

	fmt.Printf("%-16s %-10s %-10s %-10s %-10s\n", "month", "kWh", "peak kW", "energy$", "total$")
	for _, row := range res.Rows {
		fmt.Printf("%d-%02d          %-10.1f %-10.1f %-10.2f %-10.2f\n",
			row.Year, row.Month, row.TotalKWH, row.PeakKW, row.EnergyCharge, row.TotalCharge)
	}
	fmt.Printf("Total: %.0f kWh, $%.2f\n", res.TotalKWH, res.TotalCharge)
}

func flatRateTariff() *model.Tariff {
	row := make([]int, 24)
	sched := make(model.Schedule, 12)
	for m := range sched {
		sched[m] = row
	}
	return &model.Tariff{
		Name:                  "demo flat rate",
		EnergyRateStructure:   [][]model.TierRate{{{Rate: 0.12}}},
		EnergyWeekdaySchedule: sched,
		EnergyWeekendSchedule: sched,
		FixedCharge:           10,
	}
}

func constantLoad(kw float64, n int, step time.Duration) []model.Interval {
	start := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
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
