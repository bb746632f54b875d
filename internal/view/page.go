// Package view turns a state snapshot into what the dashboard shows. Build
// is a pure function; nothing here fetches or mutates state.
package view

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"covidtracker/internal/engine"
	"covidtracker/internal/models"
	"covidtracker/internal/state"
)

// SVG frame for the equirectangular world map and the line graph.
const (
	MapWidth    = 720.0
	MapHeight   = 360.0
	GraphWidth  = 600.0
	GraphHeight = 160.0

	metresPerPixel = 40075016.0 / MapWidth
	maxCircleR     = 40.0
)

type Option struct {
	Name     string
	Code     string
	Selected bool
	Disabled bool
}

type Tile struct {
	Metric models.Metric
	Title  string
	Today  string
	Total  string
	Active bool
	Red    bool
}

type Row struct {
	Rank  int
	Name  string
	Cases string
}

type Circle struct {
	Name  string
	Value string
	X, Y  float64
	R     float64
	Color string
}

type MapView struct {
	ViewBox string
	Circles []Circle
}

type GraphView struct {
	Title   string
	Points  string
	Color   string
	Loading bool
	Empty   bool
}

type Page struct {
	RegionName string
	Options    []Option
	Tiles      []Tile
	Rows       []Row
	Map        MapView
	Graph      GraphView
	Updated    string

	Loading       bool
	LoadingRegion string
	Errors        []string
}

func Build(s state.State) Page {
	p := Page{
		RegionName:    regionName(s),
		Options:       options(s),
		Tiles:         tiles(s),
		Rows:          rows(s.Table),
		Map:           mapView(s),
		Graph:         graphView(s),
		Loading:       s.SummaryOp.Loading(),
		LoadingRegion: s.SummaryOp.Pending,
	}
	if !s.Summary.Updated.IsZero() {
		p.Updated = s.Summary.Updated.Format("2 Jan 2006 15:04 MST")
	}
	for _, f := range []struct {
		name string
		op   state.Op
	}{
		{"Summary", s.SummaryOp},
		{"Countries", s.CountriesOp},
		{"History", s.HistoryOp},
	} {
		if f.op.Status == state.StatusFailed {
			p.Errors = append(p.Errors, fmt.Sprintf("%s could not be refreshed: %s", f.name, f.op.Err))
		}
	}
	return p
}

func regionName(s state.State) string {
	if s.Selected == models.WorldwideCode {
		return "Worldwide"
	}
	if s.Summary.Region.Name != "" {
		return s.Summary.Region.Name
	}
	return s.Selected
}

func options(s state.State) []Option {
	opts := make([]Option, 0, len(s.Regions)+1)
	opts = append(opts, Option{Name: "Worldwide", Code: models.WorldwideCode, Selected: s.Selected == models.WorldwideCode})
	for _, r := range s.Regions {
		opts = append(opts, Option{
			Name:     r.Name,
			Code:     r.Code,
			Selected: r.Code != "" && r.Code == s.Selected,
			Disabled: r.Code == "",
		})
	}
	return opts
}

func tiles(s state.State) []Tile {
	out := make([]Tile, 0, len(models.Metrics))
	for _, m := range models.Metrics {
		today, total := s.Summary.Figures(m)
		out = append(out, Tile{
			Metric: m,
			Title:  m.Title(),
			Today:  FormatDelta(today),
			Total:  FormatCount(total),
			Active: s.Metric == m,
			Red:    m != models.MetricRecovered,
		})
	}
	return out
}

func rows(table []models.TableRow) []Row {
	out := make([]Row, 0, len(table))
	for i, r := range table {
		out = append(out, Row{Rank: i + 1, Name: r.Name, Cases: FormatCount(r.CasesTotal)})
	}
	return out
}

func project(ll models.LatLng) (float64, float64) {
	return (ll.Lng + 180) / 360 * MapWidth, (90 - ll.Lat) / 180 * MapHeight
}

func mapView(s state.State) MapView {
	// Zoom 3 frames the whole world; each level above halves the frame.
	scale := math.Pow(2, float64(s.Viewport.Zoom-models.WorldView.Zoom))
	if scale < 1 {
		scale = 1
	}
	w, h := MapWidth/scale, MapHeight/scale
	cx, cy := project(s.Viewport.Center)
	if scale == 1 {
		cx, cy = MapWidth/2, MapHeight/2
	}

	mv := MapView{ViewBox: fmt.Sprintf("%.1f %.1f %.1f %.1f", cx-w/2, cy-h/2, w, h)}
	if s.Countries == nil {
		return mv
	}
	for _, c := range engine.ToMapCircles(s.Countries.Records, s.Metric) {
		x, y := project(c.Center)
		mv.Circles = append(mv.Circles, Circle{
			Name:  c.Name,
			Value: FormatCount(c.Value),
			X:     x,
			Y:     y,
			R:     math.Min(c.Radius/metresPerPixel, maxCircleR),
			Color: c.Color,
		})
	}
	return mv
}

func graphView(s state.State) GraphView {
	g := GraphView{
		Title:   "Worldwide new " + string(s.Metric),
		Color:   engine.MetricColor(s.Metric),
		Loading: s.HistoryOp.Loading(),
	}
	points := engine.BuildGraph(s.Timeline, s.Metric)
	if len(points) == 0 {
		g.Empty = true
		return g
	}

	var peak int64
	for _, p := range points {
		if p.Value > peak {
			peak = p.Value
		}
	}
	step := 0.0
	if len(points) > 1 {
		step = GraphWidth / float64(len(points)-1)
	}

	var b strings.Builder
	for i, p := range points {
		y := GraphHeight
		if peak > 0 {
			y = GraphHeight - float64(p.Value)/float64(peak)*GraphHeight
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(float64(i)*step, 'f', 1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(y, 'f', 1, 64))
	}
	g.Points = b.String()
	return g
}
