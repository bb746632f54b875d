package view

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covidtracker/internal/models"
	"covidtracker/internal/state"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatCount(models.KnownCount(1234567)))
	assert.Equal(t, "0", FormatCount(models.KnownCount(0)))
	assert.Equal(t, NotAvailable, FormatCount(models.Count{}))

	assert.Equal(t, "+1,234", FormatDelta(models.KnownCount(1234)))
	assert.Equal(t, "+0", FormatDelta(models.KnownCount(0)))
	assert.Equal(t, "-12", FormatDelta(models.KnownCount(-12)))
	assert.Equal(t, NotAvailable, FormatDelta(models.Count{}))
}

func loadedState(t *testing.T) state.State {
	t.Helper()
	lat, lng := 46.0, 2.0
	recs := []models.CountryRecord{
		{Country: "France", CountryInfo: models.CountryInfo{Iso2: "FR", Lat: &lat, Long: &lng}, Cases: models.KnownCount(100)},
		{Country: "Italy", CountryInfo: models.CountryInfo{Iso2: "IT"}, Cases: models.KnownCount(2000)},
		{Country: "MS Zaandam", Cases: models.KnownCount(9)},
	}

	s := state.Initial()
	for _, a := range []state.Action{
		state.CountriesRequested{Seq: 1},
		state.CountriesLoaded{Seq: 1, Records: recs},
		state.SummaryRequested{Seq: 1, Code: "FR"},
		state.SummaryLoaded{Seq: 1, Code: "FR", Summary: models.Summary{
			Region:      models.Region{Name: "France", Code: "FR"},
			CasesToday:  models.KnownCount(1500),
			CasesTotal:  models.KnownCount(100),
			Coordinates: &models.LatLng{Lat: lat, Lng: lng},
		}},
		state.HistoryRequested{Seq: 1},
		state.HistoryLoaded{Seq: 1, Timeline: models.Timeline{Cases: map[string]models.Count{
			"1/1/21": models.KnownCount(10), "1/2/21": models.KnownCount(15), "1/3/21": models.KnownCount(25),
		}}},
	} {
		var ok bool
		s, ok = state.Reduce(s, a)
		require.True(t, ok, "%T dropped", a)
	}
	return s
}

func TestBuild(t *testing.T) {
	p := Build(loadedState(t))

	assert.Equal(t, "France", p.RegionName)
	require.Len(t, p.Options, 4)
	assert.Equal(t, models.WorldwideCode, p.Options[0].Code)
	assert.False(t, p.Options[0].Selected)
	assert.True(t, p.Options[1].Selected)
	assert.True(t, p.Options[3].Disabled, "records without a code cannot be selected")

	require.Len(t, p.Tiles, 3)
	assert.True(t, p.Tiles[0].Active)
	assert.Equal(t, "+1,500", p.Tiles[0].Today)
	assert.Equal(t, "100", p.Tiles[0].Total)
	assert.Equal(t, NotAvailable, p.Tiles[1].Total)
	assert.False(t, p.Tiles[1].Red)

	require.Len(t, p.Rows, 3)
	assert.Equal(t, Row{Rank: 1, Name: "Italy", Cases: "2,000"}, p.Rows[0])

	require.Len(t, p.Map.Circles, 1, "only located records are drawn")
	assert.Equal(t, "France", p.Map.Circles[0].Name)
	assert.Equal(t, "#CC1034", p.Map.Circles[0].Color)

	assert.Equal(t, "Worldwide new cases", p.Graph.Title)
	assert.Equal(t, "0.0,80.0 600.0,0.0", p.Graph.Points)
	assert.False(t, p.Graph.Empty)
	assert.Empty(t, p.Errors)
	assert.False(t, p.Loading)
}

func TestBuildViewport(t *testing.T) {
	world := Build(state.Initial())
	assert.Equal(t, "0.0 0.0 720.0 360.0", world.Map.ViewBox)

	// France at zoom 4: half-size frame centred on (2E, 46N).
	fr := Build(loadedState(t))
	assert.Equal(t, "184.0 -2.0 360.0 180.0", fr.Map.ViewBox)
}

func TestBuildMetricSwitchesFigures(t *testing.T) {
	s, _ := state.Reduce(loadedState(t), state.MetricSelected{Metric: models.MetricDeaths})
	p := Build(s)

	assert.True(t, p.Tiles[2].Active)
	assert.False(t, p.Tiles[0].Active)
	assert.Equal(t, "Worldwide new deaths", p.Graph.Title)
	assert.True(t, p.Graph.Empty)
}

func TestBuildLoadingAndErrors(t *testing.T) {
	s := loadedState(t)
	s, _ = state.Reduce(s, state.SummaryRequested{Seq: 2, Code: "IT"})
	p := Build(s)
	assert.True(t, p.Loading)
	assert.Equal(t, "IT", p.LoadingRegion)
	assert.Equal(t, "France", p.RegionName, "previous region stays until the new one lands")

	s, _ = state.Reduce(s, state.SummaryFailed{Seq: 2, Code: "IT", Err: errors.New("status 502")})
	p = Build(s)
	assert.False(t, p.Loading)
	require.Len(t, p.Errors, 1)
	assert.Contains(t, p.Errors[0], "status 502")
}

func TestRenderer(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, DashboardTemplate, Build(loadedState(t)), nil))

	html := buf.String()
	assert.Contains(t, html, "COVID-19 TRACKER")
	assert.Contains(t, html, `<option value="FR" selected>France</option>`)
	assert.Contains(t, html, "2,000")
	assert.Contains(t, html, "1,500")
	assert.True(t, strings.Contains(html, "<polyline"), "graph rendered")
}
