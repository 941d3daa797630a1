package billing

import (
	"regexp"
	"strconv"
	"strings"

	"ratescope/internal/model"
)

// AdjustmentUnit says what quantity an extracted adjustment scales with.
type AdjustmentUnit string

const (
	PerKWH AdjustmentUnit = "kWh"
	PerKW  AdjustmentUnit = "kW"
)

// Adjustment is a supplementary surcharge or discount recovered from the
// tariff's free-text fields rather than its structured rate arrays.
// Negative rates are discounts.
type Adjustment struct {
	Name   string         `json:"name"`
	Rate   float64        `json:"rate"` // $ per unit
	Unit   AdjustmentUnit `json:"unit"`
	Source string         `json:"source"` // matcher that produced it
}

// Matcher scans one free-text tariff field for adjustments. Matchers are
// best-effort pattern extraction over natural-language tariff prose, not a
// parser; a tariff with no hits means "nothing detected", which is distinct
// from "none exist".
type Matcher interface {
	Name() string
	Description() string
	Match(text string) []Adjustment
}

// Matchers returns the registered matcher set, applied in order.
func Matchers() []Matcher {
	return []Matcher{
		codedAdjustmentMatcher{},
		evDiscountMatcher{},
		deliveryChargeMatcher{},
	}
}

// demandCodeSuffixes classifies coded adjustments as per-kW. This is a
// naming-convention guess observed on a handful of tariffs, not a
// documented URDB rule; codes off this list bill per-kWh.
var demandCodeSuffixes = []string{"DC", "DCR", "KW", "KVA"}

func adjustUnitForCode(code string) AdjustmentUnit {
	for _, suffix := range demandCodeSuffixes {
		if strings.HasSuffix(code, suffix) {
			return PerKW
		}
	}
	return PerKWH
}

// codedAdjustmentMatcher picks up short adjustment codes written with an
// inline dollar value, e.g. "FCA($0.00123)" or "ECRDC ($0.35)".
type codedAdjustmentMatcher struct{}

var codedAdjustmentRe = regexp.MustCompile(`\b([A-Z][A-Z0-9]{1,9})\s*\(\$(-?\d+(?:\.\d+)?)\)`)

func (codedAdjustmentMatcher) Name() string { return "coded" }
func (codedAdjustmentMatcher) Description() string {
	return "Named adjustment codes written as CODE($value)"
}

func (codedAdjustmentMatcher) Match(text string) []Adjustment {
	var out []Adjustment
	for _, m := range codedAdjustmentRe.FindAllStringSubmatch(text, -1) {
		rate, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		out = append(out, Adjustment{
			Name:   m[1],
			Rate:   rate,
			Unit:   adjustUnitForCode(m[1]),
			Source: "coded",
		})
	}
	return out
}

// evDiscountMatcher picks up electric vehicle discounts expressed in prose
// as cents per kWh, e.g. "electric vehicle discount of 1.5 cents/kWh".
type evDiscountMatcher struct{}

var evDiscountRe = regexp.MustCompile(`(?i)electric vehicle discount[^.;]*?(-?\d+(?:\.\d+)?)\s*(?:cents?|¢)\s*(?:per\s+|/\s*)kWh`)

func (evDiscountMatcher) Name() string { return "ev-discount" }
func (evDiscountMatcher) Description() string {
	return "Electric vehicle discounts expressed as cents/kWh in prose"
}

func (evDiscountMatcher) Match(text string) []Adjustment {
	var out []Adjustment
	for _, m := range evDiscountRe.FindAllStringSubmatch(text, -1) {
		cents, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		// A discount always reduces the bill, whichever sign the prose used.
		if cents > 0 {
			cents = -cents
		}
		out = append(out, Adjustment{
			Name:   "electric vehicle discount",
			Rate:   cents / 100,
			Unit:   PerKWH,
			Source: "ev-discount",
		})
	}
	return out
}

// deliveryChargeMatcher picks up per-kWh delivery charges stated in prose,
// e.g. "delivery charges of $0.042 per kWh".
type deliveryChargeMatcher struct{}

var deliveryChargeRe = regexp.MustCompile(`(?i)delivery charges?[^.;]*?\$\s*(\d+(?:\.\d+)?)\s*(?:per\s+|/\s*)kWh`)

func (deliveryChargeMatcher) Name() string { return "delivery" }
func (deliveryChargeMatcher) Description() string {
	return "Delivery charges stated as $/kWh in prose"
}

func (deliveryChargeMatcher) Match(text string) []Adjustment {
	var out []Adjustment
	for _, m := range deliveryChargeRe.FindAllStringSubmatch(text, -1) {
		rate, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		out = append(out, Adjustment{
			Name:   "delivery charges",
			Rate:   rate,
			Unit:   PerKWH,
			Source: "delivery",
		})
	}
	return out
}

// ExtractAdjustments runs every registered matcher over the tariff's
// free-text fields and dedupes hits by name and unit. found is false when
// no matcher hit anything, which callers should surface as "no
// supplementary adjustments detected" rather than treating it as zero.
func ExtractAdjustments(t *model.Tariff) (adjustments []Adjustment, found bool) {
	texts := []string{t.Description, t.EnergyComments, t.DemandComments}
	seen := make(map[string]bool)
	for _, matcher := range Matchers() {
		for _, text := range texts {
			if text == "" {
				continue
			}
			for _, adj := range matcher.Match(text) {
				key := adj.Name + "|" + string(adj.Unit)
				if seen[key] {
					continue
				}
				seen[key] = true
				adjustments = append(adjustments, adj)
			}
		}
	}
	return adjustments, len(adjustments) > 0
}
