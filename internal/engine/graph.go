package engine

import (
	"sort"
	"time"

	"covidtracker/internal/models"
)

// providerDate is how historical/all keys its series, e.g. "3/9/23".
const providerDate = "1/2/06"

// BuildGraph turns a running-total series into daily new values in date
// order. The earliest day only seeds the baseline. Unparseable dates and
// unknown totals are skipped; a drop in the running total (provider
// corrections) yields a zero day rather than a negative one.
func BuildGraph(tl models.Timeline, m models.Metric) []models.GraphPoint {
	type day struct {
		date  time.Time
		total int64
	}

	series := tl.Series(m)
	days := make([]day, 0, len(series))
	for k, v := range series {
		if !v.Known {
			continue
		}
		d, err := time.Parse(providerDate, k)
		if err != nil {
			continue
		}
		days = append(days, day{date: d, total: v.Value})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })

	if len(days) < 2 {
		return []models.GraphPoint{}
	}

	points := make([]models.GraphPoint, 0, len(days)-1)
	last := days[0].total
	for _, d := range days[1:] {
		v := d.total - last
		if v < 0 {
			v = 0
		}
		points = append(points, models.GraphPoint{Date: d.date, Value: v})
		last = d.total
	}
	return points
}
