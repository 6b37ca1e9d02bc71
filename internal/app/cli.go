package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/five82/atlas/internal/restcountries"
)

// ListCountries returns every country, or those of one region.
func (s *Services) ListCountries(ctx context.Context, region restcountries.Region) ([]restcountries.Country, error) {
	if region == restcountries.RegionAll {
		return s.Client.FetchAll(ctx)
	}
	return s.Client.FilterByRegion(ctx, region)
}

// Search returns the countries whose name matches text. No match is an
// empty list, not an error.
func (s *Services) Search(ctx context.Context, text string) ([]restcountries.Country, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("search text is required")
	}
	return s.Client.SearchByName(ctx, text)
}

// Show loads one country plus its resolved border countries. A failed border
// lookup is logged and leaves borders nil.
func (s *Services) Show(ctx context.Context, code string) (restcountries.Country, []restcountries.Country, error) {
	country, err := s.Client.Lookup(ctx, code)
	if err != nil {
		return restcountries.Country{}, nil, err
	}
	if len(country.Borders) == 0 {
		return country, nil, nil
	}
	borders, err := s.Client.LookupCodes(ctx, country.Borders)
	if err != nil {
		s.Logger.Warn("border lookup failed", zap.String("code", country.CCA3), zap.Error(err))
		return country, nil, nil
	}
	return country, borders, nil
}

// ToggleFavorite flips code in the favorites set. Removing uses the stored
// record and needs no network; adding looks the country up first. It reports
// whether the country is a favorite afterwards.
func (s *Services) ToggleFavorite(ctx context.Context, code string) (restcountries.Country, bool, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range s.Favorites.List() {
		if strings.EqualFold(c.CCA3, code) || (c.CCA2 != "" && strings.EqualFold(c.CCA2, code)) {
			s.Favorites.Toggle(c)
			return c, false, nil
		}
	}
	country, err := s.Client.Lookup(ctx, code)
	if err != nil {
		return restcountries.Country{}, false, err
	}
	s.Favorites.Toggle(country)
	return country, s.Favorites.IsFavorite(country.CCA3), nil
}
