package data

import (
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"ratescope/internal/model"
)

// LoadOptions controls profile parsing.
type LoadOptions struct {
	// IntervalMinutes fixes the interval length. 0 infers it from the
	// median of consecutive timestamp deltas, falling back to 15 minutes
	// when the profile is too short to infer from.
	IntervalMinutes int
}

// DefaultIntervalMinutes is used when the interval length can neither be
// inferred nor was provided.
const DefaultIntervalMinutes = 15

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04",
}

// LoadProfileCSV reads an interval load profile. The file must have a
// timestamp column plus one of load_kW or kWh; extra columns are ignored.
// Rows are re-sorted by timestamp if the input is not already ordered, and
// calendar fields are derived for every interval.
func LoadProfileCSV(path string, opts LoadOptions) ([]model.Interval, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, model.WrapProfileInvalid("UNREADABLE_FILE", "cannot read load profile "+path, err)
	}
	defer f.Close()
	return ParseProfile(f, opts)
}

// ParseProfile parses CSV interval data from r.
func ParseProfile(r io.Reader, opts LoadOptions) ([]model.Interval, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, model.WrapProfileInvalid("MALFORMED_CSV", "cannot read CSV header", err)
	}

	tsCol, loadCol, kwhCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "timestamp":
			tsCol = i
		case "load_kw":
			loadCol = i
		case "kwh", "energy_kwh":
			kwhCol = i
		}
	}
	if tsCol < 0 {
		return nil, model.ProfileInvalid("MISSING_COLUMN", "load profile has no timestamp column")
	}
	if loadCol < 0 && kwhCol < 0 {
		return nil, model.ProfileInvalid("MISSING_COLUMN", "load profile needs a load_kW or kWh column")
	}

	var intervals []model.Interval
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, model.WrapProfileInvalid("MALFORMED_CSV", "cannot read CSV row", err)
		}
		line++

		ts, err := parseTimestamp(rec[tsCol])
		if err != nil {
			return nil, model.ProfileInvalid("BAD_TIMESTAMP", "line %d: unparseable timestamp %q", line, rec[tsCol])
		}
		iv := model.Interval{Timestamp: ts}
		if loadCol >= 0 && loadCol < len(rec) {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[loadCol]), 64)
			if err != nil {
				return nil, model.ProfileInvalid("BAD_VALUE", "line %d: unparseable load_kW %q", line, rec[loadCol])
			}
			iv.LoadKW = v
		}
		if kwhCol >= 0 && kwhCol < len(rec) {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[kwhCol]), 64)
			if err != nil {
				return nil, model.ProfileInvalid("BAD_VALUE", "line %d: unparseable kWh %q", line, rec[kwhCol])
			}
			iv.EnergyKWh = v
		}
		intervals = append(intervals, iv)
	}
	if len(intervals) == 0 {
		return nil, model.ProfileInvalid("EMPTY_PROFILE", "load profile has no data rows")
	}

	if !sort.SliceIsSorted(intervals, func(i, j int) bool {
		return intervals[i].Timestamp.Before(intervals[j].Timestamp)
	}) {
		sort.Slice(intervals, func(i, j int) bool {
			return intervals[i].Timestamp.Before(intervals[j].Timestamp)
		})
	}

	hours := intervalHours(intervals, opts)
	hasLoad := loadCol >= 0
	hasKWH := kwhCol >= 0
	for i := range intervals {
		iv := &intervals[i]
		if hasLoad && !hasKWH {
			iv.EnergyKWh = iv.LoadKW * hours
		} else if hasKWH && !hasLoad {
			iv.LoadKW = iv.EnergyKWh / hours
		}
		iv.DeriveCalendar()
	}
	return intervals, nil
}

// intervalHours resolves the interval length in hours, preferring the
// explicit option, then the median of consecutive deltas.
func intervalHours(intervals []model.Interval, opts LoadOptions) float64 {
	if opts.IntervalMinutes > 0 {
		return float64(opts.IntervalMinutes) / 60
	}
	if len(intervals) < 2 {
		return float64(DefaultIntervalMinutes) / 60
	}
	deltas := make([]time.Duration, 0, len(intervals)-1)
	for i := 1; i < len(intervals); i++ {
		if d := intervals[i].Timestamp.Sub(intervals[i-1].Timestamp); d > 0 {
			deltas = append(deltas, d)
		}
	}
	if len(deltas) == 0 {
		return float64(DefaultIntervalMinutes) / 60
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i] < deltas[j] })
	return deltas[len(deltas)/2].Hours()
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
