package model

import "time"

// Interval is one classified sample of an interval load profile.
// Calendar fields are derived from Timestamp by DeriveCalendar; period
// indices are filled in by the classifier.
type Interval struct {
	Timestamp time.Time

	LoadKW    float64
	EnergyKWh float64

	Year    int
	Month   int // 1-12
	Hour    int // 0-23
	Weekday time.Weekday
	Weekend bool

	EnergyPeriod int
	DemandPeriod int
}

// DeriveCalendar fills the calendar fields from Timestamp.
func (iv *Interval) DeriveCalendar() {
	iv.Year = iv.Timestamp.Year()
	iv.Month = int(iv.Timestamp.Month())
	iv.Hour = iv.Timestamp.Hour()
	iv.Weekday = iv.Timestamp.Weekday()
	iv.Weekend = iv.Weekday == time.Saturday || iv.Weekday == time.Sunday
}
