package experiment

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"housingassess/internal/config"
	apperr "housingassess/internal/errors"
	"housingassess/internal/testkit"

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

func setup(t *testing.T, trainOpts, testOpts testkit.Options) config.Config {
	t.Helper()
	dir := t.TempDir()
	out := filepath.Join(dir, "results", "run")
	return config.Config{
		TrainPath:     testkit.WriteHousing(t, dir, "train.csv", trainOpts),
		TestPath:      testkit.WriteHousing(t, dir, "test.csv", testOpts),
		CVScoresPath:  filepath.Join(out, "cv_scores.csv"),
		TestScorePath: filepath.Join(out, "test_score.csv"),
		CoefsPath:     filepath.Join(out, "coefficients.csv"),
	}
}

func run(t *testing.T, cfg config.Config, opts Options) *Result {
	t.Helper()
	runner, err := NewRunner(cfg, opts)
	require.NoError(t, err)
	res, err := runner.Run(context.Background())
	require.NoError(t, err)
	return res
}

func TestRunWritesReports(t *testing.T) {
	cfg := setup(t, testkit.DefaultOptions(200, 1), testkit.DefaultOptions(50, 2))

	var stdout, logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	res := run(t, cfg, Options{Logger: logger, Stdout: &stdout})

	cv := readCSV(t, cfg.CVScoresPath)
	require.Len(t, cv, 5)
	assert.Equal(t, []string{"index", "dummy_score", "ridgecv_score", "random_forest", "XGB_Regression"}, cv[0])
	var metrics []string
	for _, row := range cv[1:] {
		metrics = append(metrics, row[0])
		require.Len(t, row, 5)
	}
	assert.Equal(t, []string{"fit_time", "score_time", "test_score", "train_score"}, metrics)

	testScore := readCSV(t, cfg.TestScorePath)
	require.Len(t, testScore, 2)
	assert.Equal(t, []string{"index", "RidgeCV"}, testScore[0])
	assert.Equal(t, "test_score", testScore[1][0])
	r2, err := strconv.ParseFloat(testScore[1][1], 64)
	require.NoError(t, err)
	assert.Greater(t, r2, 0.8)
	assert.Equal(t, res.TestScore, r2)

	coefs := readCSV(t, cfg.CoefsPath)
	assert.Equal(t, []string{"feature", "coefficient"}, coefs[0])
	// Three categories, four binary indicators, four numerical columns.
	assert.Len(t, coefs[1:], 11)

	assert.Contains(t, stdout.String(), res.RunID)
	assert.Contains(t, logs.String(), "run.id="+res.RunID)
	assert.Contains(t, logs.String(), "column stats")
}

func TestRunScores(t *testing.T) {
	cfg := setup(t, testkit.DefaultOptions(200, 3), testkit.DefaultOptions(60, 4))
	res := run(t, cfg, Options{Logger: testkit.NewTestLogger(t)})

	require.Len(t, res.Scores, 4)
	dummy := res.Scores[0]
	assert.Equal(t, "dummy_score", dummy.Name)
	assert.InDelta(t, 0, dummy.Scores.TrainScore, 1e-9)
	assert.InDelta(t, 0, dummy.Scores.TestScore, 0.2)

	for _, s := range res.Scores[1:] {
		assert.Greater(t, s.Scores.TestScore, dummy.Scores.TestScore, s.Name)
	}

	assert.Equal(t, "ridgecv_score", res.Reported)
	assert.Contains(t, []float64{1e-5, 1e-4, 1e-3, 1e-2, 1e-1, 1, 1e1, 1e2, 1e3, 1e4}, res.Alpha)

	for i := 1; i < len(res.Coefficients); i++ {
		assert.LessOrEqual(t, res.Coefficients[i-1].Weight, res.Coefficients[i].Weight)
	}
}

func TestRunDeterministic(t *testing.T) {
	cfg := setup(t, testkit.DefaultOptions(150, 5), testkit.DefaultOptions(40, 6))

	first := run(t, cfg, Options{})
	second := run(t, cfg, Options{})

	require.Len(t, second.Scores, len(first.Scores))
	for i := range first.Scores {
		assert.Equal(t, first.Scores[i].Scores.TestScore, second.Scores[i].Scores.TestScore, first.Scores[i].Name)
		assert.Equal(t, first.Scores[i].Scores.TrainScore, second.Scores[i].Scores.TrainScore, first.Scores[i].Name)
	}
	assert.Equal(t, first.TestScore, second.TestScore)
	assert.Equal(t, first.Coefficients, second.Coefficients)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRunToleratesUnseenCategory(t *testing.T) {
	testOpts := testkit.DefaultOptions(40, 8)
	testOpts.Categories = []string{"1 STORY", "BI-LEVEL"}
	cfg := setup(t, testkit.DefaultOptions(150, 7), testOpts)

	res := run(t, cfg, Options{})
	assert.False(t, math.IsNaN(res.TestScore))
	assert.Len(t, res.Coefficients, 11)
}

func TestRunWithMissingValues(t *testing.T) {
	trainOpts := testkit.DefaultOptions(150, 9)
	trainOpts.MissingEvery = 7
	cfg := setup(t, trainOpts, testkit.DefaultOptions(40, 10))

	res := run(t, cfg, Options{})
	// The placeholder category adds one indicator.
	assert.Len(t, res.Coefficients, 12)

	var found bool
	for _, c := range res.Coefficients {
		if c.Feature == "BLDG_DESC_missing_value" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestRunScoresFoldWithUnseenBinaryValueAsNaN(t *testing.T) {
	dir := t.TempDir()
	rows := testkit.Generate(testkit.DefaultOptions(100, 15))
	// GARAGE only takes this value in the last fold of every model.
	rows[99][3] = "U"
	cfg := setup(t, testkit.DefaultOptions(10, 1), testkit.DefaultOptions(30, 16))
	cfg.TrainPath = testkit.WriteCSV(t, dir, "train.csv", testkit.Header, rows)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	res := run(t, cfg, Options{Logger: logger})

	require.Len(t, res.Scores, 4)
	dummy := res.Scores[0]
	assert.False(t, math.IsNaN(dummy.Scores.TestScore))
	assert.InDelta(t, 0, dummy.Scores.TrainScore, 1e-9)
	for _, s := range res.Scores[1:] {
		assert.True(t, math.IsNaN(s.Scores.TestScore), s.Name)
		assert.True(t, math.IsNaN(s.Scores.TrainScore), s.Name)
		assert.False(t, math.IsNaN(s.Scores.FitTime), s.Name)
	}
	assert.Contains(t, logs.String(), "fold failed")
	assert.Contains(t, logs.String(), `unknown category \"U\"`)

	cv := readCSV(t, cfg.CVScoresPath)
	require.Len(t, cv, 5)
	assert.Equal(t, "test_score", cv[3][0])
	assert.NotEmpty(t, cv[3][1])
	assert.Equal(t, []string{"", "", ""}, cv[3][2:])

	// The refit sees all three GARAGE values, so the column is no longer binary.
	assert.Len(t, res.Coefficients, 13)
	assert.False(t, math.IsNaN(res.TestScore))
}

func TestRunErrors(t *testing.T) {
	cfg := setup(t, testkit.DefaultOptions(50, 11), testkit.DefaultOptions(20, 12))

	missing := cfg
	missing.TrainPath = filepath.Join(t.TempDir(), "nope.csv")
	runner, err := NewRunner(missing, Options{})
	require.NoError(t, err)
	_, err = runner.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeDataError, apperr.GetCode(err))

	noFlags := cfg
	noFlags.CoefsPath = ""
	_, err = NewRunner(noFlags, Options{})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUsageError, apperr.GetCode(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner, err = NewRunner(cfg, Options{})
	require.NoError(t, err)
	_, err = runner.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtremes(t *testing.T) {
	cfg := setup(t, testkit.DefaultOptions(120, 13), testkit.DefaultOptions(30, 14))
	res := run(t, cfg, Options{})

	top := extremes(res.Coefficients, 3)
	require.Len(t, top, 6)
	assert.Equal(t, res.Coefficients[0], top[0])
	assert.Equal(t, res.Coefficients[len(res.Coefficients)-1], top[5])
}
