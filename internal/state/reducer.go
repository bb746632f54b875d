package state

import (
	"covidtracker/internal/engine"
	"covidtracker/internal/models"
)

type Action interface {
	field() Field
}

type SummaryRequested struct {
	Seq  uint64
	Code string
}

type SummaryLoaded struct {
	Seq     uint64
	Code    string
	Summary models.Summary
}

type SummaryFailed struct {
	Seq  uint64
	Code string
	Err  error
}

type CountriesRequested struct{ Seq uint64 }

type CountriesLoaded struct {
	Seq     uint64
	Records []models.CountryRecord
}

type CountriesFailed struct {
	Seq uint64
	Err error
}

type HistoryRequested struct{ Seq uint64 }

type HistoryLoaded struct {
	Seq      uint64
	Timeline models.Timeline
}

type HistoryFailed struct {
	Seq uint64
	Err error
}

type MetricSelected struct{ Metric models.Metric }

func (SummaryRequested) field() Field   { return FieldSummary }
func (SummaryLoaded) field() Field      { return FieldSummary }
func (SummaryFailed) field() Field      { return FieldSummary }
func (CountriesRequested) field() Field { return FieldCountries }
func (CountriesLoaded) field() Field    { return FieldCountries }
func (CountriesFailed) field() Field    { return FieldCountries }
func (HistoryRequested) field() Field   { return FieldHistory }
func (HistoryLoaded) field() Field      { return FieldHistory }
func (HistoryFailed) field() Field      { return FieldHistory }
func (MetricSelected) field() Field     { return "" }

// Reduce applies a to s. The second result is false when the action was
// dropped: a response whose sequence number is not the latest issued for its
// field, or a request older than the one already recorded.
func Reduce(s State, a Action) (State, bool) {
	switch a := a.(type) {
	case SummaryRequested:
		if a.Seq <= s.SummaryOp.Seq {
			return s, false
		}
		s.SummaryOp = Op{Status: StatusLoading, Seq: a.Seq, Pending: a.Code}
		return s, true

	case SummaryLoaded:
		if a.Seq != s.SummaryOp.Seq {
			return s, false
		}
		s.Summary = a.Summary
		s.Selected = a.Code
		if a.Summary.Region.Code != "" {
			s.Selected = a.Summary.Region.Code
		}
		s.Viewport = viewportFor(s.Selected, a.Summary, s.Countries)
		s.SummaryOp = Op{Status: StatusLoaded, Seq: a.Seq}
		return s, true

	case SummaryFailed:
		if a.Seq != s.SummaryOp.Seq {
			return s, false
		}
		s.SummaryOp = Op{Status: StatusFailed, Seq: a.Seq, Err: errText(a.Err)}
		return s, true

	case CountriesRequested:
		if a.Seq <= s.CountriesOp.Seq {
			return s, false
		}
		s.CountriesOp = Op{Status: StatusLoading, Seq: a.Seq}
		return s, true

	case CountriesLoaded:
		if a.Seq != s.CountriesOp.Seq {
			return s, false
		}
		s.Countries = engine.LoadCountries(a.Records)
		s.Regions = engine.ToRegionList(a.Records)
		s.Table = engine.ToTableRows(a.Records)
		s.CountriesOp = Op{Status: StatusLoaded, Seq: a.Seq}
		return s, true

	case CountriesFailed:
		if a.Seq != s.CountriesOp.Seq {
			return s, false
		}
		s.CountriesOp = Op{Status: StatusFailed, Seq: a.Seq, Err: errText(a.Err)}
		return s, true

	case HistoryRequested:
		if a.Seq <= s.HistoryOp.Seq {
			return s, false
		}
		s.HistoryOp = Op{Status: StatusLoading, Seq: a.Seq}
		return s, true

	case HistoryLoaded:
		if a.Seq != s.HistoryOp.Seq {
			return s, false
		}
		s.Timeline = a.Timeline
		s.HistoryOp = Op{Status: StatusLoaded, Seq: a.Seq}
		return s, true

	case HistoryFailed:
		if a.Seq != s.HistoryOp.Seq {
			return s, false
		}
		s.HistoryOp = Op{Status: StatusFailed, Seq: a.Seq, Err: errText(a.Err)}
		return s, true

	case MetricSelected:
		if s.Metric == a.Metric {
			return s, false
		}
		s.Metric = a.Metric
		return s, true
	}
	return s, false
}

// viewportFor centres on the region's coordinates. A summary without them
// borrows the country list's entry; failing that, the world centre is used.
func viewportFor(code string, sum models.Summary, countries *engine.CountrySet) models.Viewport {
	if code == models.WorldwideCode {
		return models.WorldView
	}
	center := models.WorldCenter
	if sum.Coordinates != nil {
		center = *sum.Coordinates
	} else if rec, ok := countries.Lookup(code); ok {
		if ll := rec.CountryInfo.Coordinates(); ll != nil {
			center = *ll
		}
	}
	return models.Viewport{Center: center, Zoom: models.CountryZoom}
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
