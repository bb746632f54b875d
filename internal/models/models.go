package models

import "time"

const WorldwideCode = "worldwide"

type Region struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CountryInfo struct {
	Iso2 string   `json:"iso2"`
	Iso3 string   `json:"iso3"`
	Lat  *float64 `json:"lat"`
	Long *float64 `json:"long"`
	Flag string   `json:"flag"`
}

// Coordinates returns nil unless the provider sent both lat and long.
func (ci CountryInfo) Coordinates() *LatLng {
	if ci.Lat == nil || ci.Long == nil {
		return nil
	}
	return &LatLng{Lat: *ci.Lat, Lng: *ci.Long}
}

// CountryRecord is one entry of the provider's /countries list. The same
// shape (minus the list) is returned by /countries/{code}, and /all returns
// it without country or countryInfo.
type CountryRecord struct {
	Country        string      `json:"country"`
	CountryInfo    CountryInfo `json:"countryInfo"`
	Updated        Count       `json:"updated"`
	Cases          Count       `json:"cases"`
	TodayCases     Count       `json:"todayCases"`
	Deaths         Count       `json:"deaths"`
	TodayDeaths    Count       `json:"todayDeaths"`
	Recovered      Count       `json:"recovered"`
	TodayRecovered Count       `json:"todayRecovered"`
	Active         Count       `json:"active"`
	Population     Count       `json:"population"`
}

type Summary struct {
	Region         Region    `json:"region"`
	CasesToday     Count     `json:"cases_today"`
	CasesTotal     Count     `json:"cases_total"`
	RecoveredToday Count     `json:"recovered_today"`
	RecoveredTotal Count     `json:"recovered_total"`
	DeathsToday    Count     `json:"deaths_today"`
	DeathsTotal    Count     `json:"deaths_total"`
	Coordinates    *LatLng   `json:"coordinates,omitempty"`
	Updated        time.Time `json:"updated,omitempty"`
}

// Figures returns the (today, total) pair the given metric highlights.
func (s Summary) Figures(m Metric) (Count, Count) {
	switch m {
	case MetricRecovered:
		return s.RecoveredToday, s.RecoveredTotal
	case MetricDeaths:
		return s.DeathsToday, s.DeathsTotal
	default:
		return s.CasesToday, s.CasesTotal
	}
}

type TableRow struct {
	Name       string `json:"name"`
	CasesTotal Count  `json:"cases_total"`
}

type Viewport struct {
	Center LatLng `json:"center"`
	Zoom   int    `json:"zoom"`
}

var (
	WorldCenter = LatLng{Lat: 34.80746, Lng: -40.4796}

	WorldView = Viewport{Center: WorldCenter, Zoom: 3}
)

const CountryZoom = 4

// Timeline is the provider's historical/all payload: metric -> date -> running total.
type Timeline struct {
	Cases     map[string]Count `json:"cases"`
	Deaths    map[string]Count `json:"deaths"`
	Recovered map[string]Count `json:"recovered"`
}

func (t Timeline) Series(m Metric) map[string]Count {
	switch m {
	case MetricRecovered:
		return t.Recovered
	case MetricDeaths:
		return t.Deaths
	default:
		return t.Cases
	}
}

type GraphPoint struct {
	Date  time.Time `json:"date"`
	Value int64     `json:"value"`
}

type MapCircle struct {
	Name   string  `json:"name"`
	Code   string  `json:"code"`
	Center LatLng  `json:"center"`
	Value  Count   `json:"value"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}

// Summary projects the record onto the tile figures. Records without a
// country name are the worldwide aggregate.
func (r CountryRecord) Summary() Summary {
	region := Region{Name: "Worldwide", Code: WorldwideCode}
	var coords *LatLng
	if r.Country != "" {
		region = Region{Name: r.Country, Code: r.CountryInfo.Iso2}
		coords = r.CountryInfo.Coordinates()
	}

	s := Summary{
		Region:         region,
		CasesToday:     r.TodayCases,
		CasesTotal:     r.Cases,
		RecoveredToday: r.TodayRecovered,
		RecoveredTotal: r.Recovered,
		DeathsToday:    r.TodayDeaths,
		DeathsTotal:    r.Deaths,
		Coordinates:    coords,
	}
	if r.Updated.Known {
		s.Updated = time.UnixMilli(r.Updated.Value).UTC()
	}
	return s
}
