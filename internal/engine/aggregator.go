package engine

import (
	"math"
	"sort"

	"covidtracker/internal/models"
)

// ToRegionList keeps provider order, one region per record.
func ToRegionList(records []models.CountryRecord) []models.Region {
	regions := make([]models.Region, 0, len(records))
	for _, rec := range records {
		regions = append(regions, models.Region{Name: rec.Country, Code: rec.CountryInfo.Iso2})
	}
	return regions
}

// ToTableRows sorts descending by total cases. Ties keep provider order and
// rows with unknown totals go last.
func ToTableRows(records []models.CountryRecord) []models.TableRow {
	rows := make([]models.TableRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, models.TableRow{Name: rec.Country, CasesTotal: rec.Cases})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].CasesTotal, rows[j].CasesTotal
		if a.Known != b.Known {
			return a.Known
		}
		return a.Value > b.Value
	})
	return rows
}

type circleStyle struct {
	color      string
	multiplier float64
}

var circleStyles = map[models.Metric]circleStyle{
	models.MetricCases:     {color: "#CC1034", multiplier: 800},
	models.MetricRecovered: {color: "#7dd71d", multiplier: 1200},
	models.MetricDeaths:    {color: "#fb4443", multiplier: 2000},
}

func MetricColor(m models.Metric) string {
	return circleStyles[m].color
}

func metricValue(rec models.CountryRecord, m models.Metric) models.Count {
	switch m {
	case models.MetricRecovered:
		return rec.Recovered
	case models.MetricDeaths:
		return rec.Deaths
	default:
		return rec.Cases
	}
}

// ToMapCircles sizes one circle per located record by the metric's value.
// Radius is in metres; records without coordinates are skipped.
func ToMapCircles(records []models.CountryRecord, m models.Metric) []models.MapCircle {
	style, ok := circleStyles[m]
	if !ok {
		style = circleStyles[models.MetricCases]
	}

	circles := make([]models.MapCircle, 0, len(records))
	for _, rec := range records {
		center := rec.CountryInfo.Coordinates()
		if center == nil {
			continue
		}
		v := metricValue(rec, m)
		radius := 0.0
		if v.Known && v.Value > 0 {
			radius = math.Sqrt(float64(v.Value)) * style.multiplier
		}
		circles = append(circles, models.MapCircle{
			Name:   rec.Country,
			Code:   rec.CountryInfo.Iso2,
			Center: *center,
			Value:  v,
			Radius: radius,
			Color:  style.color,
		})
	}
	return circles
}
