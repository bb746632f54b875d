package engine

import (
	"math/rand"
	"strconv"
	"testing"

	"covidtracker/internal/models"
)

func rec(name, code string, cases int64) models.CountryRecord {
	return models.CountryRecord{
		Country:     name,
		CountryInfo: models.CountryInfo{Iso2: code},
		Cases:       models.KnownCount(cases),
	}
}

func TestToTableRows(t *testing.T) {
	// 1. Setup: France before Italy in provider order
	records := []models.CountryRecord{
		rec("France", "FR", 100),
		rec("Italy", "IT", 200),
	}

	// 2. Run
	rows := ToTableRows(records)

	// 3. Assertions: Italy first (highest total)
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "Italy" || rows[0].CasesTotal.Value != 200 {
		t.Errorf("Row 0: expected Italy/200, got %s/%d", rows[0].Name, rows[0].CasesTotal.Value)
	}
	if rows[1].Name != "France" || rows[1].CasesTotal.Value != 100 {
		t.Errorf("Row 1: expected France/100, got %s/%d", rows[1].Name, rows[1].CasesTotal.Value)
	}

	// Input must not be reordered
	if records[0].Country != "France" {
		t.Error("ToTableRows mutated its input")
	}
}

func TestToTableRowsTiesAndUnknowns(t *testing.T) {
	records := []models.CountryRecord{
		{Country: "Nowhere"},
		rec("A", "AA", 50),
		rec("B", "BB", 70),
		rec("C", "CC", 50),
		rec("D", "DD", 0),
	}

	rows := ToTableRows(records)

	want := []string{"B", "A", "C", "D", "Nowhere"}
	for i, name := range want {
		if rows[i].Name != name {
			t.Errorf("Row %d: expected %s, got %s", i, name, rows[i].Name)
		}
	}
}

func TestToTableRowsSortedProperty(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for iter := 0; iter < 200; iter++ {
		n := r.Intn(50)
		records := make([]models.CountryRecord, n)
		for i := range records {
			records[i] = rec(strconv.Itoa(i), "cc", r.Int63n(20))
			if r.Intn(5) == 0 {
				records[i].Cases = models.Count{}
			}
		}

		rows := ToTableRows(records)
		if len(rows) != n {
			t.Fatalf("Expected %d rows, got %d", n, len(rows))
		}
		for i := 0; i+1 < len(rows); i++ {
			a, b := rows[i].CasesTotal, rows[i+1].CasesTotal
			if !a.Known && b.Known {
				t.Fatalf("iter %d: unknown rows[%d] before known rows[%d]", iter, i, i+1)
			}
			if a.Known && b.Known && a.Value < b.Value {
				t.Fatalf("iter %d: rows[%d]=%d < rows[%d]=%d", iter, i, a.Value, i+1, b.Value)
			}
			// Equal keys keep provider order; names are the provider index.
			if a.Known == b.Known && (!a.Known || a.Value == b.Value) {
				ai, _ := strconv.Atoi(rows[i].Name)
				bi, _ := strconv.Atoi(rows[i+1].Name)
				if ai > bi {
					t.Fatalf("iter %d: tie at rows[%d] reordered %d after %d", iter, i, ai, bi)
				}
			}
		}
	}
}

func TestToRegionList(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	names := []string{"France", "Italy", "United Kingdom", "Côte d'Ivoire", "MS Zaandam"}
	codes := []string{"FR", "IT", "GB", "CI", ""}

	for iter := 0; iter < 100; iter++ {
		n := r.Intn(20)
		records := make([]models.CountryRecord, n)
		for i := range records {
			k := r.Intn(len(names))
			records[i] = rec(names[k], codes[k], r.Int63n(100))
		}

		regions := ToRegionList(records)
		if len(regions) != n {
			t.Fatalf("Expected %d regions, got %d", n, len(regions))
		}
		for i := range regions {
			if regions[i].Name != records[i].Country || regions[i].Code != records[i].CountryInfo.Iso2 {
				t.Fatalf("Region %d: got %+v for record %s/%s", i, regions[i], records[i].Country, records[i].CountryInfo.Iso2)
			}
		}
	}
}

func TestToMapCircles(t *testing.T) {
	lat, lng := 46.0, 2.0
	records := []models.CountryRecord{
		{
			Country:     "France",
			CountryInfo: models.CountryInfo{Iso2: "FR", Lat: &lat, Long: &lng},
			Cases:       models.KnownCount(100),
			Deaths:      models.KnownCount(4),
		},
		rec("Unlocated", "UN", 500),
	}

	circles := ToMapCircles(records, models.MetricDeaths)
	if len(circles) != 1 {
		t.Fatalf("Expected 1 circle, got %d", len(circles))
	}
	c := circles[0]
	if c.Radius != 2*2000 {
		t.Errorf("Radius: expected 4000, got %f", c.Radius)
	}
	if c.Color != "#fb4443" {
		t.Errorf("Color: expected deaths red, got %s", c.Color)
	}
	if c.Center.Lat != 46 || c.Center.Lng != 2 {
		t.Errorf("Center: got %+v", c.Center)
	}

	cases := ToMapCircles(records, models.MetricCases)
	if cases[0].Radius != 10*800 {
		t.Errorf("Cases radius: expected 8000, got %f", cases[0].Radius)
	}

	recovered := ToMapCircles(records, models.MetricRecovered)
	if recovered[0].Radius != 0 || recovered[0].Value.Known {
		t.Errorf("Unknown recovered should give a zero radius, got %+v", recovered[0])
	}
}
