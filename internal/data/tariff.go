package data

import (
	"encoding/json"
	"os"

	"ratescope/internal/model"
)

// tariffDocument matches the optional OpenEI-style response wrapper.
// A document without an "items" key is the tariff itself.
type tariffDocument struct {
	Items []json.RawMessage `json:"items"`
}

// LoadTariffJSON reads a URDB tariff from a JSON file. The file may hold
// the tariff object directly or wrap it as {"items": [tariff, ...]}, in
// which case the first item is used.
func LoadTariffJSON(path string) (*model.Tariff, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapTariffInvalid("UNREADABLE_FILE", "cannot read tariff file "+path, err)
	}
	return ParseTariff(raw)
}

// ParseTariff decodes a tariff document from raw JSON.
func ParseTariff(raw []byte) (*model.Tariff, error) {
	var doc tariffDocument
	if err := json.Unmarshal(raw, &doc); err == nil && len(doc.Items) > 0 {
		raw = doc.Items[0]
	}
	var t model.Tariff
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, model.WrapTariffInvalid("MALFORMED_JSON", "cannot decode tariff JSON", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
