// Package report shapes run results into the output tables, writes them as
// CSV and prints the console summary.
package report

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"housingassess/internal/evaluation"

	"github.com/shopspring/decimal"
)

// Table is a header plus string rows, ready for CSV.
type Table struct {
	Header []string
	Rows   [][]string
}

// ModelScores is the averaged cross-validation record of one model.
type ModelScores struct {
	Name   string
	Scores evaluation.ScoreRecord
}

// Coefficient is one expanded feature and its fitted weight.
type Coefficient struct {
	Feature string
	Weight  float64
}

const indexColumn = "index"

// CVScoresTable lays out one row per metric and one column per model, values
// rounded to four decimals.
func CVScoresTable(scores []ModelScores) Table {
	header := make([]string, 0, len(scores)+1)
	header = append(header, indexColumn)
	for _, s := range scores {
		header = append(header, s.Name)
	}

	metrics := []struct {
		name string
		get  func(evaluation.ScoreRecord) float64
	}{
		{"fit_time", func(r evaluation.ScoreRecord) float64 { return r.FitTime }},
		{"score_time", func(r evaluation.ScoreRecord) float64 { return r.ScoreTime }},
		{"test_score", func(r evaluation.ScoreRecord) float64 { return r.TestScore }},
		{"train_score", func(r evaluation.ScoreRecord) float64 { return r.TrainScore }},
	}

	rows := make([][]string, len(metrics))
	for i, m := range metrics {
		row := make([]string, 0, len(scores)+1)
		row = append(row, m.name)
		for _, s := range scores {
			row = append(row, roundString(m.get(s.Scores), 4))
		}
		rows[i] = row
	}

	return Table{Header: header, Rows: rows}
}

// HeldOutScoreTable holds the single held-out R² of the reported model.
func HeldOutScoreTable(column string, r2 float64) Table {
	return Table{
		Header: []string{indexColumn, column},
		Rows:   [][]string{{"test_score", strconv.FormatFloat(r2, 'f', -1, 64)}},
	}
}

// RankCoefficients pairs names with weights and sorts them ascending by
// weight. Equal weights keep their design-matrix order.
func RankCoefficients(names []string, weights []float64) ([]Coefficient, error) {
	if len(names) != len(weights) {
		return nil, fmt.Errorf("%d feature names for %d coefficients", len(names), len(weights))
	}

	coefs := make([]Coefficient, len(names))
	for i := range names {
		coefs[i] = Coefficient{Feature: names[i], Weight: weights[i]}
	}
	sort.SliceStable(coefs, func(a, b int) bool {
		return coefs[a].Weight < coefs[b].Weight
	})
	return coefs, nil
}

// CoefficientTable renders ranked coefficients rounded to two decimals.
func CoefficientTable(coefs []Coefficient) Table {
	rows := make([][]string, len(coefs))
	for i, c := range coefs {
		rows[i] = []string{c.Feature, roundString(c.Weight, 2)}
	}
	return Table{Header: []string{"feature", "coefficient"}, Rows: rows}
}

// roundString leaves NaN cells empty.
func roundString(v float64, places int32) string {
	if math.IsNaN(v) {
		return ""
	}
	return decimal.NewFromFloat(v).Round(places).String()
}
