package billing

import (
	"ratescope/internal/model"
)

// ClassifyIntervals assigns the energy and demand period index to every
// interval, selecting the weekend schedule for Saturday/Sunday samples.
// Classification is a pure function of each interval's calendar fields.
// An index that escapes the schedule bounds or the rate structure is a
// tariff defect and fails with a tariff-invalid error, never a clamp.
func ClassifyIntervals(t *model.Tariff, intervals []model.Interval) error {
	for i := range intervals {
		iv := &intervals[i]
		ep, err := t.EnergyPeriodAt(iv.Month, iv.Hour, iv.Weekend)
		if err != nil {
			return model.WrapTariffInvalid("BAD_SCHEDULE_INDEX", "energy schedule lookup failed", err)
		}
		dp, err := t.DemandPeriodAt(iv.Month, iv.Hour, iv.Weekend)
		if err != nil {
			return model.WrapTariffInvalid("BAD_SCHEDULE_INDEX", "demand schedule lookup failed", err)
		}
		iv.EnergyPeriod = ep
		iv.DemandPeriod = dp
	}
	return nil
}
