package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ratescope/internal/analysis"
	"ratescope/internal/billing"
	"ratescope/internal/config"
	"ratescope/internal/data"
	"ratescope/internal/model"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "bill":
		cmdBill(os.Args[2:])
	case "compare":
		cmdCompare(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli bill --profile load.csv --tariff tariff.json --out results/bill.csv")
	fmt.Println("  cli bill --config examples/run.yaml")
	fmt.Println("  cli compare --profile load.csv --tariffs tariffs/")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - bill writes one CSV row per (year, month) with per-charge subtotals")
	fmt.Println("  - compare ranks tariffs by total cost for the same profile")
}

func cmdBill(args []string) {
	fs := flag.NewFlagSet("bill", flag.ExitOnError)
	profilePath := fs.String("profile", "", "Path to interval load profile CSV")
	tariffPath := fs.String("tariff", "", "Path to URDB tariff JSON")
	cfgPath := fs.String("config", "", "Path to YAML run config (overrides other flags)")
	outPath := fs.String("out", "results/bill.csv", "Output CSV path")
	intervalMin := fs.Int("interval-minutes", 0, "Interval length in minutes (0=infer from timestamps)")
	voltageKV := fs.Float64("voltage-kv", 0, "Declared service voltage in kV (advisory check only)")
	_ = fs.Parse(args)

	opts := billing.Options{
		IntervalMinutes:  *intervalMin,
		ServiceVoltageKV: *voltageKV,
		OutputCSV:        *outPath,
	}
	profile, tariffFile := *profilePath, *tariffPath

	var overrides config.TariffOverrides
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			fatal(err)
		}
		profile = cfg.ProfileFile
		tariffFile = cfg.TariffFile
		out := cfg.Output
		if out == "" {
			out = *outPath
		}
		opts = cfg.Engine.ToOptions(out)
		overrides = cfg.Tariff
	}
	if profile == "" || tariffFile == "" {
		fmt.Println("--profile and --tariff (or --config) are required")
		os.Exit(2)
	}

	tariff, err := data.LoadTariffJSON(tariffFile)
	if err != nil {
		fatal(err)
	}
	overrides.ApplyTo(tariff)

	intervals, err := data.LoadProfileCSV(profile, data.LoadOptions{IntervalMinutes: opts.IntervalMinutes})
	if err != nil {
		fatal(err)
	}

	res, err := billing.New(opts).Run(tariff, intervals)
	if err != nil {
		fatal(err)
	}

	if opts.OutputCSV != "" {
		if err := os.MkdirAll(filepath.Dir(opts.OutputCSV), 0o755); err != nil {
			fatal(err)
		}
		if err := billing.WriteBillCSV(opts.OutputCSV, res.Rows); err != nil {
			fatal(err)
		}
		fmt.Printf("Wrote %d rows to %s\n", len(res.Rows), opts.OutputCSV)
	}

	fmt.Printf("%-10s %-12s %-10s %-12s\n", "month", "kWh", "peak kW", "total $")
	for _, row := range billing.AppRows(res) {
		fmt.Printf("%-10.10s %-12.1f %-10.1f %-12.2f\n", row.Month, row.TotalKWH, row.PeakKW, row.TotalCharge)
	}
	fmt.Printf("Total: %.0f kWh, $%.2f\n", res.TotalKWH, res.TotalCharge)
}

func cmdCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	profilePath := fs.String("profile", "", "Path to interval load profile CSV")
	tariffPaths := fs.String("tariffs", "", "Comma-separated tariff JSON paths or a directory")
	intervalMin := fs.Int("interval-minutes", 0, "Interval length in minutes (0=infer)")
	_ = fs.Parse(args)

	if *profilePath == "" || *tariffPaths == "" {
		fmt.Println("--profile and --tariffs are required")
		os.Exit(2)
	}

	tariffs := map[string]*model.Tariff{}
	for _, p := range splitPaths(*tariffPaths) {
		info, err := os.Stat(p)
		if err != nil {
			fatal(err)
		}
		if info.IsDir() {
			entries, err := os.ReadDir(p)
			if err != nil {
				fatal(err)
			}
			for _, e := range entries {
				if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
					continue
				}
				addTariff(tariffs, filepath.Join(p, e.Name()))
			}
		} else {
			addTariff(tariffs, p)
		}
	}
	if len(tariffs) == 0 {
		fmt.Println("no usable tariffs found")
		os.Exit(1)
	}

	intervals, err := data.LoadProfileCSV(*profilePath, data.LoadOptions{IntervalMinutes: *intervalMin})
	if err != nil {
		fatal(err)
	}

	ranked := analysis.RankByTotalCost(tariffs, intervals, billing.Options{IntervalMinutes: *intervalMin})
	fmt.Printf("%-4s %-32s %-8s %-12s %-12s %-10s\n", "rank", "tariff", "months", "total$", "avg/month$", "$/kWh")
	for _, r := range ranked {
		fmt.Printf("%-4d %-32.32s %-8d %-12.2f %-12.2f %-10.4f\n",
			r.Rank,
			r.Name,
			r.Months,
			r.TotalCharge,
			r.AverageMonthly,
			r.EffectivePerKWH,
		)
	}
}

func addTariff(dst map[string]*model.Tariff, path string) {
	t, err := data.LoadTariffJSON(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
		return
	}
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	if t.Name != "" {
		name = t.Name
	}
	dst[name] = t
}

func splitPaths(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
