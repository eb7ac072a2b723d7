// Package experiment runs the full assessment: cross validation of every
// model in the bank, refit and test scoring of the reported model, and the
// three report files.
package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"housingassess/internal/config"
	"housingassess/internal/data"
	apperr "housingassess/internal/errors"
	"housingassess/internal/evaluation"
	"housingassess/internal/features"
	"housingassess/internal/models"
	"housingassess/internal/pipeline"
	"housingassess/internal/report"

	"github.com/google/uuid"
)

// Log attribute keys.
const (
	AttrRunID    = "run.id"
	AttrModel    = "model.name"
	AttrSamples  = "data.samples"
	AttrFeatures = "data.features"
	AttrFolds    = "cv.folds"
)

// summaryCoefficients is how many coefficients from each end of the ranking
// the console summary shows.
const summaryCoefficients = 3

type Options struct {
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
	// Stdout receives the console summary; nil prints nothing.
	Stdout io.Writer
	// Bank overrides the embedded model bank.
	Bank *config.ModelBank
	// Groups overrides the default feature layout.
	Groups *features.Groups
}

// Result is everything a run produced.
type Result struct {
	RunID        string
	Scores       []report.ModelScores
	Reported     string
	Alpha        float64
	TestScore    float64
	Coefficients []report.Coefficient
}

type Runner struct {
	cfg    config.Config
	bank   *config.ModelBank
	groups features.Groups
	logger *slog.Logger
	stdout io.Writer
}

func NewRunner(cfg config.Config, opts Options) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	bank := opts.Bank
	if bank == nil {
		var err error
		if bank, err = config.LoadModelBank(); err != nil {
			return nil, err
		}
	} else if err := bank.Validate(); err != nil {
		return nil, err
	}

	groups := features.DefaultGroups()
	if opts.Groups != nil {
		groups = *opts.Groups
	}

	return &Runner{
		cfg:    cfg,
		bank:   bank,
		groups: groups,
		logger: logger,
		stdout: opts.Stdout,
	}, nil
}

func (r *Runner) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	logger := r.logger.With(AttrRunID, runID)

	train, test, err := data.LoadPair(r.cfg.TrainPath, r.cfg.TestPath)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded datasets",
		"train", r.cfg.TrainPath, "test", r.cfg.TestPath,
		AttrSamples, train.Len(), "test_samples", test.Len())
	r.logColumnStats(logger, train)

	trainFrame, yTrain, err := features.Select(train, r.groups)
	if err != nil {
		return nil, apperr.Wrapf(err, "select features from %s", r.cfg.TrainPath)
	}
	testFrame, yTest, err := features.Select(test, r.groups)
	if err != nil {
		return nil, apperr.Wrapf(err, "select features from %s", r.cfg.TestPath)
	}

	result := &Result{RunID: runID}
	prep := r.bank.PreprocessingOptions()

	for _, entry := range r.bank.Models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		factory := pipeline.NewFactory(r.groups, prep, entry.ModelConfig())
		cv := evaluation.NewCrossValidator(entry.Folds, entry.Parallel)
		cv.KeepFailedFolds = true

		logger.Info("cross-validating", AttrModel, entry.Name, AttrFolds, entry.Folds, "parallel", entry.Parallel)
		res, err := cv.CrossValidate(ctx, factory.Estimators(), trainFrame, yTrain)
		if err != nil {
			return nil, apperr.WithCode(apperr.CodeModelError, err, fmt.Sprintf("cross-validate %s", entry.Name))
		}
		for _, f := range res.Failed {
			logger.Warn("fold failed, scored as NaN", AttrModel, entry.Name, "fold", f.Fold, "error", f.Err)
		}
		logger.Debug("cross-validation done",
			AttrModel, entry.Name,
			"test_score", res.Mean.TestScore,
			"train_score", res.Mean.TrainScore,
			"fit_time", res.Mean.FitTime)

		result.Scores = append(result.Scores, report.ModelScores{Name: entry.Name, Scores: res.Mean})
	}

	reported := r.bank.Reported()
	final, err := pipeline.NewFactory(r.groups, prep, reported.ModelConfig())()
	if err != nil {
		return nil, err
	}
	if err := final.Fit(trainFrame, yTrain); err != nil {
		return nil, apperr.WithCode(apperr.CodeModelError, err, fmt.Sprintf("refit %s", reported.Name))
	}

	result.Reported = reported.Name
	result.TestScore, err = final.Score(testFrame, yTest)
	if err != nil {
		return nil, apperr.Wrapf(err, "score %s on %s", reported.Name, r.cfg.TestPath)
	}

	linear, ok := final.Estimator.(models.LinearModel)
	if !ok {
		return nil, apperr.Newf(apperr.CodeInternalError, "reported model %s has no coefficients", reported.Name)
	}
	if ridge, ok := linear.(*models.RidgeCV); ok {
		result.Alpha = ridge.Alpha
	}

	names := final.FeatureNames()
	result.Coefficients, err = report.RankCoefficients(names, linear.Coef())
	if err != nil {
		return nil, apperr.WithCode(apperr.CodeInternalError, err, "rank coefficients")
	}
	logger.Info("refit reported model",
		AttrModel, reported.Name,
		AttrFeatures, len(names),
		"alpha", result.Alpha,
		"test_score", result.TestScore)

	if err := r.writeReports(logger, result); err != nil {
		return nil, err
	}

	if r.stdout != nil {
		report.PrintSummary(r.stdout, report.Summary{
			RunID:     runID,
			Scores:    result.Scores,
			Reported:  result.Reported,
			Alpha:     result.Alpha,
			TestScore: result.TestScore,
			Top:       extremes(result.Coefficients, summaryCoefficients),
			Outputs:   []string{r.cfg.CVScoresPath, r.cfg.TestScorePath, r.cfg.CoefsPath},
		})
	}

	return result, nil
}

func (r *Runner) writeReports(logger *slog.Logger, result *Result) error {
	outputs := []struct {
		path  string
		table report.Table
	}{
		{r.cfg.CVScoresPath, report.CVScoresTable(result.Scores)},
		{r.cfg.TestScorePath, report.HeldOutScoreTable("RidgeCV", result.TestScore)},
		{r.cfg.CoefsPath, report.CoefficientTable(result.Coefficients)},
	}

	for _, o := range outputs {
		if err := report.WriteCSV(o.path, o.table); err != nil {
			return err
		}
		logger.Info("wrote report", "path", o.path, "rows", len(o.table.Rows))
	}
	return nil
}

func (r *Runner) logColumnStats(logger *slog.Logger, t *data.Table) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	stats, err := data.NewDataValidator().GetTableStats(t)
	if err != nil {
		logger.Debug("column stats unavailable", "error", err)
		return
	}
	for _, s := range stats {
		logger.Debug("column stats",
			"column", s.Name,
			"count", s.Count,
			"missing", s.Missing,
			"min", s.Min,
			"max", s.Max,
			"mean", s.Mean)
	}
}

// extremes returns the n most negative and n most positive coefficients of
// an ascending ranking.
func extremes(coefs []report.Coefficient, n int) []report.Coefficient {
	if len(coefs) <= 2*n {
		return coefs
	}
	out := make([]report.Coefficient, 0, 2*n)
	out = append(out, coefs[:n]...)
	return append(out, coefs[len(coefs)-n:]...)
}
