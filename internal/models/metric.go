package models

import "fmt"

type Metric string

const (
	MetricCases     Metric = "cases"
	MetricRecovered Metric = "recovered"
	MetricDeaths    Metric = "deaths"
)

var Metrics = []Metric{MetricCases, MetricRecovered, MetricDeaths}

func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

func (m Metric) Title() string {
	switch m {
	case MetricRecovered:
		return "Recovered"
	case MetricDeaths:
		return "Deaths"
	default:
		return "Coronavirus Cases"
	}
}
