package models

import (
	"time"

	"ratescope/internal/billing"
)

// BillResponse is the result of one bill calculation.
type BillResponse struct {
	Status  string               `json:"status"`
	Summary BillSummary          `json:"summary"`
	Months  []billing.AppBillRow `json:"months"`
	Rows    []BillRow            `json:"rows,omitempty"`
}

// BillSummary aggregates the run.
type BillSummary struct {
	TotalKWH         float64              `json:"total_kwh"`
	TotalCharge      float64              `json:"total_charge"`
	MonthCount       int                  `json:"month_count"`
	Adjustments      []billing.Adjustment `json:"adjustments,omitempty"`
	AdjustmentsFound bool                 `json:"adjustments_found"`
}

// BillRow is the full per-month detail row.
type BillRow struct {
	Year  int `json:"year"`
	Month int `json:"month"`

	TotalKWH   float64 `json:"total_kwh"`
	PeakKW     float64 `json:"peak_kw"`
	AverageKW  float64 `json:"average_kw"`
	LoadFactor float64 `json:"load_factor"`

	EnergyCharge         float64 `json:"energy_charge"`
	EnergyAdjustment     float64 `json:"energy_adjustment"`
	TOUDemandCharge      float64 `json:"tou_demand_charge"`
	TOUDemandAdjustment  float64 `json:"tou_demand_adjustment"`
	FlatDemandCharge     float64 `json:"flat_demand_charge"`
	FlatDemandAdjustment float64 `json:"flat_demand_adjustment"`
	FixedCharge          float64 `json:"fixed_charge"`
	AdjustmentCharge     float64 `json:"adjustment_charge"`
	TotalCharge          float64 `json:"total_charge"`

	EnergyByPeriod map[string]float64 `json:"energy_by_period,omitempty"`
	PeakByPeriod   map[string]float64 `json:"peak_by_period,omitempty"`
}

// CompareResponse ranks tariffs by total cost, cheapest first.
type CompareResponse struct {
	Rankings []PlanRanking `json:"rankings"`
}

// PlanRanking is one compared tariff.
type PlanRanking struct {
	Rank             int       `json:"rank"`
	Name             string    `json:"name"`
	Utility          string    `json:"utility,omitempty"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	Months           int       `json:"months"`
	TotalKWH         float64   `json:"total_kwh"`
	PeakKW           float64   `json:"peak_kw"`
	TotalCharge      float64   `json:"total_charge"`
	AverageMonthly   float64   `json:"average_monthly"`
	EffectivePerKWH  float64   `json:"effective_per_kwh"`
	AdjustmentsFound bool      `json:"adjustments_found"`
}

// AdjusterInfo describes one registered free-text adjustment matcher.
type AdjusterInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
