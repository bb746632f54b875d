// Package state holds the dashboard's view state. All mutation goes through
// Reduce, a pure function of (State, Action); Store serialises dispatch and
// hands out per-field request sequence numbers so a late response to an
// older request can never overwrite the result of a newer one.
package state

import (
	"fmt"

	"covidtracker/internal/engine"
	"covidtracker/internal/models"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

var statusNames = [...]string{"idle", "loading", "loaded", "failed"}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Field names an independently fetched part of the state.
type Field string

const (
	FieldSummary   Field = "summary"
	FieldCountries Field = "countries"
	FieldHistory   Field = "history"
)

// Op tracks the latest issued request for one field.
type Op struct {
	Status Status `json:"status"`
	Seq    uint64 `json:"seq"`
	Err    string `json:"error,omitempty"`

	// Pending is the region code of an in-flight summary request.
	Pending string `json:"pending,omitempty"`
}

func (o Op) Loading() bool { return o.Status == StatusLoading }

// State is treated as immutable once published: Reduce replaces slices and
// pointers, it never writes through them.
type State struct {
	Selected  string             `json:"selected"`
	Regions   []models.Region    `json:"regions"`
	Summary   models.Summary     `json:"summary"`
	Table     []models.TableRow  `json:"table"`
	Viewport  models.Viewport    `json:"viewport"`
	Metric    models.Metric      `json:"metric"`
	Countries *engine.CountrySet `json:"-"`
	Timeline  models.Timeline    `json:"-"`

	SummaryOp   Op `json:"summary_op"`
	CountriesOp Op `json:"countries_op"`
	HistoryOp   Op `json:"history_op"`
}

func Initial() State {
	return State{
		Selected: models.WorldwideCode,
		Regions:  []models.Region{},
		Table:    []models.TableRow{},
		Viewport: models.WorldView,
		Metric:   models.MetricCases,
	}
}

// Ready reports whether the country list has loaded at least once.
func (s State) Ready() bool {
	return s.Countries != nil
}
