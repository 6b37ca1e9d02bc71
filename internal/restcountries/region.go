package restcountries

import (
	"fmt"
	"strings"
)

// Region is one of the fixed region filters. The zero value means all regions.
type Region string

const (
	RegionAll      Region = ""
	RegionAfrica   Region = "Africa"
	RegionAmericas Region = "Americas"
	RegionAsia     Region = "Asia"
	RegionEurope   Region = "Europe"
	RegionOceania  Region = "Oceania"
)

// Regions lists the selectable regions in display order, excluding RegionAll.
var Regions = []Region{RegionAfrica, RegionAmericas, RegionAsia, RegionEurope, RegionOceania}

// ParseRegion matches value case-insensitively. Empty and "all" map to RegionAll.
func ParseRegion(value string) (Region, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.EqualFold(trimmed, "all") {
		return RegionAll, nil
	}
	for _, r := range Regions {
		if strings.EqualFold(trimmed, string(r)) {
			return r, nil
		}
	}
	return RegionAll, fmt.Errorf("unknown region %q", value)
}

// Valid reports whether r is RegionAll or one of Regions.
func (r Region) Valid() bool {
	if r == RegionAll {
		return true
	}
	for _, known := range Regions {
		if r == known {
			return true
		}
	}
	return false
}

// Label returns the display name, "All Regions" for RegionAll.
func (r Region) Label() string {
	if r == RegionAll {
		return "All Regions"
	}
	return string(r)
}

// Next cycles All → Africa → … → Oceania → All.
func (r Region) Next() Region {
	if r == RegionAll {
		return Regions[0]
	}
	for i, known := range Regions {
		if known == r && i+1 < len(Regions) {
			return Regions[i+1]
		}
	}
	return RegionAll
}

// Prev cycles in the opposite direction of Next.
func (r Region) Prev() Region {
	if r == RegionAll {
		return Regions[len(Regions)-1]
	}
	for i, known := range Regions {
		if known == r {
			if i == 0 {
				return RegionAll
			}
			return Regions[i-1]
		}
	}
	return RegionAll
}
