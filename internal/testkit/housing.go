// Package testkit builds deterministic synthetic housing datasets for tests.
package testkit

import (
	"encoding/csv"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// Header is the column order written by WriteCSV. EXTRA is not part of the
// schema and must be ignored by readers.
var Header = []string{
	"AGE", "BLDG_DESC", "BLDG_FEET", "GARAGE", "FIREPLACE",
	"BASEMENT", "BSMTDEVL", "LATITUDE", "LONGITUDE", "ASSESSMENT", "EXTRA",
}

// Options controls generation.
type Options struct {
	Rows       int
	Seed       int64
	Categories []string
	Noise      float64
	// MissingEvery blanks AGE and BLDG_DESC on every n-th row when > 0.
	MissingEvery int
}

func DefaultOptions(rows int, seed int64) Options {
	return Options{
		Rows:       rows,
		Seed:       seed,
		Categories: []string{"1 STORY", "2 STORY", "SPLIT LEVEL"},
		Noise:      5000,
	}
}

// Generate returns CSV rows (without header) with an assessment that is a
// linear function of the features plus gaussian noise.
func Generate(opts Options) [][]string {
	rng := rand.New(rand.NewSource(opts.Seed))
	catEffect := map[string]float64{}
	for i, c := range opts.Categories {
		catEffect[c] = float64(i) * 15000
	}

	yn := func(p float64) (string, float64) {
		if rng.Float64() < p {
			return "Y", 1
		}
		return "N", 0
	}

	rows := make([][]string, opts.Rows)
	for i := range rows {
		age := float64(rng.Intn(100))
		feet := 600 + rng.Float64()*2400
		lat := 53.4 + rng.Float64()*0.3
		lon := -113.7 + rng.Float64()*0.4
		cat := opts.Categories[rng.Intn(len(opts.Categories))]
		garage, g := yn(0.6)
		fireplace, f := yn(0.4)
		basement, b := yn(0.8)
		bsmtdevl, d := yn(0.5)

		value := 50000 + 120*feet - 800*age + catEffect[cat] +
			20000*g + 8000*f + 12000*b + 9000*d +
			40000*(lat-53.4) + rng.NormFloat64()*opts.Noise

		ageField := strconv.FormatFloat(age, 'f', -1, 64)
		catField := cat
		if opts.MissingEvery > 0 && i%opts.MissingEvery == 0 {
			ageField = ""
			catField = ""
		}

		rows[i] = []string{
			ageField,
			catField,
			strconv.FormatFloat(feet, 'f', 2, 64),
			garage,
			fireplace,
			basement,
			bsmtdevl,
			strconv.FormatFloat(lat, 'f', 6, 64),
			strconv.FormatFloat(lon, 'f', 6, 64),
			strconv.FormatFloat(value, 'f', 0, 64),
			"ignored",
		}
	}
	return rows
}

// WriteCSV writes header and rows to dir/name and returns the path.
func WriteCSV(t testing.TB, dir, name string, header []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	return path
}

// WriteHousing generates a dataset and writes it with the standard header.
func WriteHousing(t testing.TB, dir, name string, opts Options) string {
	t.Helper()
	return WriteCSV(t, dir, name, Header, Generate(opts))
}
