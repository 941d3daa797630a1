package model

import "fmt"

// Validate checks the tariff for structural completeness. It returns a
// tariff-invalid error on the first failure; calculation must not proceed
// on an invalid tariff.
func (t *Tariff) Validate() error {
	if len(t.EnergyRateStructure) == 0 {
		return TariffInvalid("MISSING_ENERGY_RATES", "energy_rate_structure is missing or empty")
	}
	if len(t.EnergyWeekdaySchedule) == 0 {
		return TariffInvalid("MISSING_ENERGY_SCHEDULE", "energy_weekday_schedule is missing")
	}
	if len(t.EnergyWeekendSchedule) == 0 {
		return TariffInvalid("MISSING_ENERGY_SCHEDULE", "energy_weekend_schedule is missing")
	}
	if len(t.EnergyWeekdaySchedule) != 12 {
		return TariffInvalid("BAD_SCHEDULE_SHAPE", "energy_weekday_schedule has %d month rows, want 12", len(t.EnergyWeekdaySchedule))
	}
	if len(t.EnergyWeekendSchedule) != 12 {
		return TariffInvalid("BAD_SCHEDULE_SHAPE", "energy_weekend_schedule has %d month rows, want 12", len(t.EnergyWeekendSchedule))
	}

	// TOU demand fields travel together.
	demandParts := 0
	if len(t.DemandRateStructure) > 0 {
		demandParts++
	}
	if len(t.DemandWeekdaySchedule) > 0 {
		demandParts++
	}
	if len(t.DemandWeekendSchedule) > 0 {
		demandParts++
	}
	if demandParts != 0 && demandParts != 3 {
		return TariffInvalid("PARTIAL_DEMAND_STRUCTURE", "demand rate structure and both demand schedules must all be present or all absent")
	}
	if demandParts == 3 {
		if len(t.DemandWeekdaySchedule) != 12 {
			return TariffInvalid("BAD_SCHEDULE_SHAPE", "demand_weekday_schedule has %d month rows, want 12", len(t.DemandWeekdaySchedule))
		}
		if len(t.DemandWeekendSchedule) != 12 {
			return TariffInvalid("BAD_SCHEDULE_SHAPE", "demand_weekend_schedule has %d month rows, want 12", len(t.DemandWeekendSchedule))
		}
	}

	if len(t.FlatDemandMonths) > 0 {
		if len(t.FlatDemandMonths) != 12 {
			return TariffInvalid("BAD_FLAT_DEMAND_MONTHS", "flat_demand_months has length %d, want 12", len(t.FlatDemandMonths))
		}
		if len(t.FlatDemandStructure) == 0 {
			return TariffInvalid("MISSING_FLAT_DEMAND_RATES", "flat_demand_months present without flat_demand_structure")
		}
		for m, p := range t.FlatDemandMonths {
			if p < 0 || p >= len(t.FlatDemandStructure) {
				return TariffInvalid("BAD_FLAT_DEMAND_MONTHS", "flat_demand_months[%d]=%d out of range (structure has %d periods)", m, p, len(t.FlatDemandStructure))
			}
		}
	}

	if n := len(t.DemandRatchetPercentage); n != 0 && n != 12 {
		return TariffInvalid("BAD_RATCHET_SHAPE", "demand_ratchet_percentage has length %d, want 12", n)
	}
	if n := len(t.MinDemandRatchet); n != 0 && n != 12 {
		return TariffInvalid("BAD_RATCHET_SHAPE", "min_demand_ratchet has length %d, want 12", n)
	}

	return nil
}

// CheckVoltage compares a declared service voltage (kV) against the
// tariff's voltage band. The returned advisory is informational only and
// must not abort calculation. ok is true when the voltage is in band or
// the tariff declares no band.
func (t *Tariff) CheckVoltage(serviceKV float64) (advisory string, ok bool) {
	if serviceKV <= 0 || (t.VoltageMinimum == 0 && t.VoltageMaximum == 0) {
		return "", true
	}
	if t.VoltageMinimum > 0 && serviceKV < t.VoltageMinimum {
		return fmt.Sprintf("service voltage %.2f kV below tariff minimum %.2f kV", serviceKV, t.VoltageMinimum), false
	}
	if t.VoltageMaximum > 0 && serviceKV > t.VoltageMaximum {
		return fmt.Sprintf("service voltage %.2f kV above tariff maximum %.2f kV", serviceKV, t.VoltageMaximum), false
	}
	return "", true
}
