package engine

import (
	"strings"

	"covidtracker/internal/models"
)

// LoadCountries indexes records by ISO2 code without reordering them.
// Records the provider sends without a code (cruise ships and the like)
// stay in Records but cannot be looked up.
func LoadCountries(records []models.CountryRecord) *CountrySet {
	cs := &CountrySet{
		Records: records,
		byCode:  make(map[string]int, len(records)),
	}
	for i, rec := range records {
		code := strings.TrimSpace(rec.CountryInfo.Iso2)
		if code == "" {
			continue
		}
		if _, dup := cs.byCode[code]; !dup {
			cs.byCode[code] = i
		}
	}
	return cs
}
