package models

import "encoding/json"

// TariffSource names a tariff either inline (a URDB JSON document) or by
// OpenEI page id. Exactly one of Document or Page should be set.
type TariffSource struct {
	Name     string          `json:"name,omitempty"`
	Document json.RawMessage `json:"document,omitempty"`
	Page     string          `json:"page,omitempty"`
}

// BillOptions carries run options through the API.
type BillOptions struct {
	IntervalMinutes  int     `json:"interval_minutes,omitempty"`
	ServiceVoltageKV float64 `json:"service_voltage_kv,omitempty"`
}

// BillRequest asks for a monthly bill of one profile under one tariff.
type BillRequest struct {
	Tariff      TariffSource `json:"tariff"`
	ProfilePath string       `json:"profile_path"`
	Options     BillOptions  `json:"options"`
	// IncludeRows adds the full per-month rows (with per-period
	// breakdowns) to the response alongside the display table.
	IncludeRows bool `json:"include_rows"`
	// OpenEIAPIKey is required only when the tariff is given by page id.
	OpenEIAPIKey string `json:"openei_api_key,omitempty"`
}

// CompareRequest bills the same profile under several tariffs.
type CompareRequest struct {
	Tariffs      []TariffSource `json:"tariffs"`
	ProfilePath  string         `json:"profile_path"`
	Options      BillOptions    `json:"options"`
	OpenEIAPIKey string         `json:"openei_api_key,omitempty"`
}
