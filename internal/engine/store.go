package engine

import "covidtracker/internal/models"

// CountrySet holds one /countries response in provider order, indexed by ISO2 code.
type CountrySet struct {
	Records []models.CountryRecord

	byCode map[string]int
}

func (cs *CountrySet) Len() int {
	if cs == nil {
		return 0
	}
	return len(cs.Records)
}

// Lookup returns the first record carrying code.
func (cs *CountrySet) Lookup(code string) (models.CountryRecord, bool) {
	if cs == nil || code == "" {
		return models.CountryRecord{}, false
	}
	i, ok := cs.byCode[code]
	if !ok {
		return models.CountryRecord{}, false
	}
	return cs.Records[i], true
}
