// Package sector normalizes free-text provider sector/industry strings onto
// a fixed taxonomy. Upstream sector fields are inconsistently populated, so
// a curated symbol override table corrects the most visible misses.
package sector

import (
	"strings"
)

// Fallback labels used when no keyword rule matches.
const (
	FallbackSector   = "Technology"
	FallbackIndustry = "Software"
)

// rule maps a keyword set onto a canonical label. First matching rule wins.
type rule struct {
	keywords []string
	label    string
}

var sectorRules = []rule{
	{[]string{"technology", "software", "internet", "semiconductor", "information"}, "Technology"},
	{[]string{"health", "pharma", "biotech", "medical", "drug"}, "Healthcare"},
	{[]string{"financ", "bank", "insurance", "capital market"}, "Financial Services"},
	{[]string{"consumer cyclical", "retail", "apparel", "restaurant", "e-commerce"}, "Consumer Cyclical"},
	{[]string{"consumer defensive", "beverage", "food", "household", "staples"}, "Consumer Defensive"},
	{[]string{"automobile", "automotive", "auto manufacturer", "vehicle"}, "Automotive"},
	{[]string{"energy", "oil", "gas", "petroleum"}, "Energy"},
	{[]string{"industrial", "aerospace", "defense", "machinery", "airline"}, "Industrials"},
	{[]string{"communication", "media", "telecom", "entertainment"}, "Communication Services"},
	{[]string{"utilit", "electric utility", "power"}, "Utilities"},
	{[]string{"real estate", "reit"}, "Real Estate"},
	{[]string{"material", "mining", "chemical", "metal"}, "Basic Materials"},
}

var industryRules = []rule{
	{[]string{"software", "saas", "application"}, "Software"},
	{[]string{"semiconductor", "chip"}, "Semiconductors"},
	{[]string{"internet", "e-commerce", "online"}, "Internet Services"},
	{[]string{"hardware", "computer", "electronics", "consumer electronics"}, "Consumer Electronics"},
	{[]string{"bank"}, "Banking"},
	{[]string{"insurance"}, "Insurance"},
	{[]string{"asset management", "investment", "capital market"}, "Asset Management"},
	{[]string{"pharma", "drug"}, "Pharmaceuticals"},
	{[]string{"biotech"}, "Biotechnology"},
	{[]string{"medical device", "medical equipment", "health care"}, "Medical Devices"},
	{[]string{"electric vehicle"}, "Electric Vehicles"},
	{[]string{"auto", "vehicle"}, "Auto Manufacturers"},
	{[]string{"oil", "gas", "petroleum", "energy"}, "Oil & Gas"},
	{[]string{"retail", "department store", "discount store"}, "Retail"},
	{[]string{"beverage", "food", "restaurant"}, "Food & Beverage"},
	{[]string{"media", "entertainment", "streaming"}, "Entertainment"},
	{[]string{"telecom", "wireless"}, "Telecommunications"},
	{[]string{"aerospace", "defense"}, "Aerospace & Defense"},
	{[]string{"airline"}, "Airlines"},
	{[]string{"reit", "real estate"}, "Real Estate"},
	{[]string{"mining", "metal", "gold"}, "Metals & Mining"},
	{[]string{"chemical"}, "Chemicals"},
	{[]string{"utilit", "power"}, "Utilities"},
}

// Override is a curated sector/industry pair for a symbol.
type Override struct {
	Sector   string
	Industry string
}

// DefaultOverrides covers large caps whose provider sector fields routinely
// come back empty or unusable.
var DefaultOverrides = map[string]Override{
	"AAPL":  {"Technology", "Consumer Electronics"},
	"MSFT":  {"Technology", "Software"},
	"GOOGL": {"Technology", "Internet Services"},
	"GOOG":  {"Technology", "Internet Services"},
	"AMZN":  {"Consumer Cyclical", "Internet Services"},
	"META":  {"Technology", "Internet Services"},
	"NVDA":  {"Technology", "Semiconductors"},
	"AMD":   {"Technology", "Semiconductors"},
	"INTC":  {"Technology", "Semiconductors"},
	"TSLA":  {"Automotive", "Electric Vehicles"},
	"F":     {"Automotive", "Auto Manufacturers"},
	"GM":    {"Automotive", "Auto Manufacturers"},
	"JPM":   {"Financial Services", "Banking"},
	"BAC":   {"Financial Services", "Banking"},
	"V":     {"Financial Services", "Asset Management"},
	"JNJ":   {"Healthcare", "Pharmaceuticals"},
	"PFE":   {"Healthcare", "Pharmaceuticals"},
	"UNH":   {"Healthcare", "Medical Devices"},
	"XOM":   {"Energy", "Oil & Gas"},
	"CVX":   {"Energy", "Oil & Gas"},
	"WMT":   {"Consumer Defensive", "Retail"},
	"KO":    {"Consumer Defensive", "Food & Beverage"},
	"DIS":   {"Communication Services", "Entertainment"},
	"NFLX":  {"Communication Services", "Entertainment"},
	"BA":    {"Industrials", "Aerospace & Defense"},
}

// Classifier normalizes raw sector/industry strings and applies the manual
// override table when normalization falls through to both fallbacks.
type Classifier struct {
	overrides map[string]Override
}

// ClassifierOption configures the classifier.
type ClassifierOption func(*Classifier)

// WithOverrides replaces the manual symbol override table.
func WithOverrides(overrides map[string]Override) ClassifierOption {
	return func(c *Classifier) {
		c.overrides = overrides
	}
}

// NewClassifier creates a classifier with the default override table.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{overrides: DefaultOverrides}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func matchRules(rules []rule, raw, fallback string) string {
	lowered := strings.ToLower(raw)
	if strings.TrimSpace(lowered) == "" {
		return fallback
	}
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lowered, kw) {
				return r.label
			}
		}
	}
	return fallback
}

// NormalizeSector maps a raw provider sector string onto the canonical
// taxonomy. Empty or unmatched input yields the fallback sector.
func (c *Classifier) NormalizeSector(raw string) string {
	return matchRules(sectorRules, raw, FallbackSector)
}

// NormalizeIndustry maps a raw provider industry string onto the canonical
// taxonomy. Empty or unmatched input yields the fallback industry.
func (c *Classifier) NormalizeIndustry(raw string) string {
	return matchRules(industryRules, raw, FallbackIndustry)
}

// ManualOverride returns the curated sector/industry pair for a symbol.
func (c *Classifier) ManualOverride(symbol string) (Override, bool) {
	o, ok := c.overrides[strings.ToUpper(symbol)]
	return o, ok
}

// Classify normalizes both fields and, when both land on the fallback labels
// simultaneously, prefers the manual override table. This two-stage fallback
// corrects the most common provider misses without a full taxonomy service.
func (c *Classifier) Classify(symbol, rawSector, rawIndustry string) (string, string) {
	s := c.NormalizeSector(rawSector)
	i := c.NormalizeIndustry(rawIndustry)

	if s == FallbackSector && i == FallbackIndustry {
		if o, ok := c.ManualOverride(symbol); ok {
			return o.Sector, o.Industry
		}
	}
	return s, i
}
