package report

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	apperr "housingassess/internal/errors"
	"housingassess/internal/evaluation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCVScoresTable(t *testing.T) {
	table := CVScoresTable([]ModelScores{
		{Name: "dummy_score", Scores: evaluation.ScoreRecord{FitTime: 0.000123, ScoreTime: 0.5, TestScore: -0.01234, TrainScore: 0}},
		{Name: "ridgecv_score", Scores: evaluation.ScoreRecord{FitTime: 1.23456, ScoreTime: 0.00005, TestScore: 0.87654321, TrainScore: 0.9}},
	})

	assert.Equal(t, []string{"index", "dummy_score", "ridgecv_score"}, table.Header)
	assert.Equal(t, [][]string{
		{"fit_time", "0.0001", "1.2346"},
		{"score_time", "0.5", "0.0001"},
		{"test_score", "-0.0123", "0.8765"},
		{"train_score", "0", "0.9"},
	}, table.Rows)
}

func TestCVScoresTableLeavesNaNEmpty(t *testing.T) {
	table := CVScoresTable([]ModelScores{
		{Name: "random_forest", Scores: evaluation.ScoreRecord{FitTime: 0.25, TestScore: math.NaN(), TrainScore: math.NaN()}},
	})
	assert.Equal(t, []string{"fit_time", "0.25"}, table.Rows[0])
	assert.Equal(t, []string{"test_score", ""}, table.Rows[2])
	assert.Equal(t, []string{"train_score", ""}, table.Rows[3])
}

func TestHeldOutScoreTable(t *testing.T) {
	table := HeldOutScoreTable("RidgeCV", 0.8125)
	assert.Equal(t, []string{"index", "RidgeCV"}, table.Header)
	assert.Equal(t, [][]string{{"test_score", "0.8125"}}, table.Rows)
}

func TestRankCoefficients(t *testing.T) {
	coefs, err := RankCoefficients(
		[]string{"a", "b", "c", "d"},
		[]float64{2.5, -1, 2.5, 0.004},
	)
	require.NoError(t, err)

	var names []string
	for _, c := range coefs {
		names = append(names, c.Feature)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, names)

	table := CoefficientTable(coefs)
	assert.Equal(t, []string{"feature", "coefficient"}, table.Header)
	assert.Equal(t, []string{"b", "-1"}, table.Rows[0])
	assert.Equal(t, []string{"d", "0"}, table.Rows[1])
	assert.Equal(t, []string{"a", "2.5"}, table.Rows[2])

	_, err = RankCoefficients([]string{"a"}, nil)
	assert.Error(t, err)
}

func TestWriteCSVCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "out.csv")
	table := HeldOutScoreTable("RidgeCV", 0.5)

	require.NoError(t, WriteCSV(path, table))
	assert.Equal(t, [][]string{{"index", "RidgeCV"}, {"test_score", "0.5"}}, readCSV(t, path))

	// Overwrites an existing file.
	require.NoError(t, WriteCSV(path, HeldOutScoreTable("RidgeCV", 0.25)))
	assert.Equal(t, "0.25", readCSV(t, path)[1][1])
}

func TestWriteCSVOtherErrors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteCSV(filepath.Join(blocker, "out.csv"), HeldOutScoreTable("RidgeCV", 0.5))
	require.Error(t, err)
	assert.Equal(t, apperr.CodeWriteError, apperr.GetCode(err))
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, Summary{
		RunID:     "run-1",
		Scores:    []ModelScores{{Name: "ridgecv_score", Scores: evaluation.ScoreRecord{TestScore: 0.75}}},
		Reported:  "ridgecv_score",
		Alpha:     10,
		TestScore: 0.8,
		Top:       []Coefficient{{Feature: "AGE", Weight: -12.5}},
		Outputs:   []string{"out/cv.csv"},
	})

	out := buf.String()
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "ridgecv_score")
	assert.Contains(t, out, "0.7500")
	assert.Contains(t, out, "0.8000")
	assert.Contains(t, out, "AGE")
	assert.Contains(t, out, "out/cv.csv")
}
