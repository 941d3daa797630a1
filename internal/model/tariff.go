package model

import "fmt"

// TierRate is one block of an increasing-block rate.
// Units: $/kWh for energy structures, $/kW for demand structures.
type TierRate struct {
	Rate       float64 `json:"rate"`
	Adjustment float64 `json:"adjustment"`
	// TierMax is the quantity this tier can absorb: a resolver walking the
	// tiers in order bills min(remaining, TierMax) here and carries the rest
	// forward. nil marks the terminal, unbounded tier.
	TierMax *float64 `json:"tier_max,omitempty"`
}

// Schedule is a 12x24 matrix of period indices: row = calendar month (0-11),
// column = hour of day (0-23). Values index into a rate structure.
type Schedule [][]int

// PeriodAt returns the period index for a month (1-12) and hour (0-23).
// Malformed schedules fail explicitly rather than feeding an undefined
// index into billing output.
func (s Schedule) PeriodAt(month, hour int) (int, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("month %d out of range", month)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("hour %d out of range", hour)
	}
	row := s[month-1]
	if hour >= len(row) {
		return 0, fmt.Errorf("schedule row for month %d has only %d hours", month, len(row))
	}
	return row[hour], nil
}

// Tariff is a URDB-format rate document. Immutable once loaded.
type Tariff struct {
	Name    string `json:"name,omitempty"`
	Utility string `json:"utility,omitempty"`

	EnergyRateStructure   [][]TierRate `json:"energy_rate_structure"`
	EnergyWeekdaySchedule Schedule     `json:"energy_weekday_schedule"`
	EnergyWeekendSchedule Schedule     `json:"energy_weekend_schedule"`

	// TOU demand. Optional as a whole: all three present or all absent.
	DemandRateStructure   [][]TierRate `json:"demand_rate_structure,omitempty"`
	DemandWeekdaySchedule Schedule     `json:"demand_weekday_schedule,omitempty"`
	DemandWeekendSchedule Schedule     `json:"demand_weekend_schedule,omitempty"`

	// Flat (seasonal) demand. Optional as a pair; FlatDemandMonths maps
	// month (0-11) to a period index into FlatDemandStructure.
	FlatDemandStructure [][]TierRate `json:"flat_demand_structure,omitempty"`
	FlatDemandMonths    []int        `json:"flat_demand_months,omitempty"`

	FixedCharge         float64 `json:"fixed_charge"`
	MinMonthlyCharge    float64 `json:"min_monthly_charge,omitempty"`
	ReactivePowerCharge float64 `json:"reactive_power_charge,omitempty"`
	PowerFactor         float64 `json:"power_factor,omitempty"`

	// Per-month (length 12) ratchet rules; absent means no ratchet.
	DemandRatchetPercentage []float64 `json:"demand_ratchet_percentage,omitempty"`
	MinDemandRatchet        []float64 `json:"min_demand_ratchet,omitempty"`

	// Declared service voltage band in kV, informational.
	VoltageMinimum float64 `json:"voltage_minimum,omitempty"`
	VoltageMaximum float64 `json:"voltage_maximum,omitempty"`

	// Free-text fields scanned for unstructured adjustments.
	Description    string `json:"description,omitempty"`
	EnergyComments string `json:"energy_comments,omitempty"`
	DemandComments string `json:"demand_comments,omitempty"`
}

// HasDemandTOU reports whether the tariff carries a time-of-use demand
// structure (rate structure plus both schedules).
func (t *Tariff) HasDemandTOU() bool {
	return len(t.DemandRateStructure) > 0 &&
		len(t.DemandWeekdaySchedule) > 0 &&
		len(t.DemandWeekendSchedule) > 0
}

// HasFlatDemand reports whether the tariff carries a seasonal flat demand
// structure.
func (t *Tariff) HasFlatDemand() bool {
	return len(t.FlatDemandStructure) > 0 && len(t.FlatDemandMonths) == 12
}

// EnergyPeriodAt resolves the energy period for a calendar slot.
func (t *Tariff) EnergyPeriodAt(month, hour int, weekend bool) (int, error) {
	sched := t.EnergyWeekdaySchedule
	if weekend {
		sched = t.EnergyWeekendSchedule
	}
	p, err := sched.PeriodAt(month, hour)
	if err != nil {
		return 0, err
	}
	if p < 0 || p >= len(t.EnergyRateStructure) {
		return 0, fmt.Errorf("energy period %d out of range (structure has %d periods)", p, len(t.EnergyRateStructure))
	}
	return p, nil
}

// DemandPeriodAt resolves the demand period for a calendar slot. Tariffs
// without a demand structure bill everything as period 0.
func (t *Tariff) DemandPeriodAt(month, hour int, weekend bool) (int, error) {
	if !t.HasDemandTOU() {
		return 0, nil
	}
	sched := t.DemandWeekdaySchedule
	if weekend {
		sched = t.DemandWeekendSchedule
	}
	p, err := sched.PeriodAt(month, hour)
	if err != nil {
		return 0, err
	}
	if p < 0 || p >= len(t.DemandRateStructure) {
		return 0, fmt.Errorf("demand period %d out of range (structure has %d periods)", p, len(t.DemandRateStructure))
	}
	return p, nil
}

// RatchetPercentage returns the ratchet percentage for month (1-12),
// 0 when the tariff has none.
func (t *Tariff) RatchetPercentage(month int) float64 {
	if len(t.DemandRatchetPercentage) != 12 || month < 1 || month > 12 {
		return 0
	}
	return t.DemandRatchetPercentage[month-1]
}

// MinRatchet returns the minimum billed demand for month (1-12),
// 0 when the tariff has none.
func (t *Tariff) MinRatchet(month int) float64 {
	if len(t.MinDemandRatchet) != 12 || month < 1 || month > 12 {
		return 0
	}
	return t.MinDemandRatchet[month-1]
}
