package restcountries

import (
	"fmt"
	"sort"
	"strings"
)

// Country mirrors the subset of the REST Countries v3.1 schema atlas uses.
// List endpoints only populate the card fields (see listFields); Lookup
// returns the full record.
type Country struct {
	CCA2       string              `json:"cca2,omitempty" yaml:"cca2,omitempty"`
	CCA3       string              `json:"cca3" yaml:"cca3"`
	Name       Name                `json:"name" yaml:"name"`
	Capital    []string            `json:"capital,omitempty" yaml:"capital,omitempty"`
	Region     string              `json:"region" yaml:"region"`
	Subregion  string              `json:"subregion,omitempty" yaml:"subregion,omitempty"`
	Population int64               `json:"population" yaml:"population"`
	Area       float64             `json:"area" yaml:"area"`
	Flag       string              `json:"flag,omitempty" yaml:"flag,omitempty"`
	Flags      Flags               `json:"flags" yaml:"flags"`
	Languages  map[string]string   `json:"languages,omitempty" yaml:"languages,omitempty"`
	Currencies map[string]Currency `json:"currencies,omitempty" yaml:"currencies,omitempty"`
	Timezones  []string            `json:"timezones,omitempty" yaml:"timezones,omitempty"`
	Borders    []string            `json:"borders,omitempty" yaml:"borders,omitempty"`
	TLD        []string            `json:"tld,omitempty" yaml:"tld,omitempty"`
	Maps       Maps                `json:"maps,omitempty" yaml:"maps,omitempty"`
}

// Name holds the common and official country names.
type Name struct {
	Common   string `json:"common" yaml:"common"`
	Official string `json:"official,omitempty" yaml:"official,omitempty"`
}

// Flags references the flag images served by the API.
type Flags struct {
	PNG string `json:"png,omitempty" yaml:"png,omitempty"`
	SVG string `json:"svg,omitempty" yaml:"svg,omitempty"`
	Alt string `json:"alt,omitempty" yaml:"alt,omitempty"`
}

// Currency describes one entry of the currencies map.
type Currency struct {
	Name   string `json:"name" yaml:"name"`
	Symbol string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
}

// Maps holds external map links.
type Maps struct {
	GoogleMaps     string `json:"googleMaps,omitempty" yaml:"googleMaps,omitempty"`
	OpenStreetMaps string `json:"openStreetMaps,omitempty" yaml:"openStreetMaps,omitempty"`
}

// PrimaryCapital returns the first capital, or "" when none is listed.
func (c Country) PrimaryCapital() string {
	for _, capital := range c.Capital {
		if s := strings.TrimSpace(capital); s != "" {
			return s
		}
	}
	return ""
}

// LanguageNames returns language names sorted alphabetically.
func (c Country) LanguageNames() []string {
	names := make([]string, 0, len(c.Languages))
	for _, name := range c.Languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CurrencyLabels returns "Name (symbol)" labels sorted by currency code.
func (c Country) CurrencyLabels() []string {
	codes := make([]string, 0, len(c.Currencies))
	for code := range c.Currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	labels := make([]string, 0, len(codes))
	for _, code := range codes {
		cur := c.Currencies[code]
		label := cur.Name
		if label == "" {
			label = code
		}
		if cur.Symbol != "" {
			label = fmt.Sprintf("%s (%s)", label, cur.Symbol)
		}
		labels = append(labels, label)
	}
	return labels
}
