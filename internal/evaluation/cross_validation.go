// Package evaluation scores estimators with k-fold cross validation.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"housingassess/internal/features"

	"golang.org/x/sync/errgroup"
)

// Estimator is anything that can be fitted on a frame and scored on another.
type Estimator interface {
	Fit(frame *features.Frame, y []float64) error
	Score(frame *features.Frame, y []float64) (float64, error)
}

// EstimatorFactory returns a fresh, unfitted estimator on every call.
type EstimatorFactory func() (Estimator, error)

// ScoreRecord holds the metrics of one fold, or their mean across folds.
// Times are in seconds.
type ScoreRecord struct {
	FitTime    float64
	ScoreTime  float64
	TestScore  float64
	TrainScore float64
}

// FoldFailure is a fold whose fit or scoring returned an error.
type FoldFailure struct {
	Fold int
	Err  error
}

type CVResult struct {
	Folds  []ScoreRecord
	Mean   ScoreRecord
	Failed []FoldFailure
}

type CrossValidator struct {
	NFolds     int
	Parallel   bool
	MaxWorkers int

	// KeepFailedFolds records a failing fold with NaN scores and a zero score
	// time instead of aborting. The run still fails when every fold does.
	KeepFailedFolds bool
}

func NewCrossValidator(nFolds int, parallel bool) *CrossValidator {
	return &CrossValidator{
		NFolds:     nFolds,
		Parallel:   parallel,
		MaxWorkers: runtime.NumCPU(),
	}
}

// CrossValidate fits a fresh estimator per fold and records fit time, score
// time and the R² on both the held-out and the training rows.
func (cv *CrossValidator) CrossValidate(ctx context.Context, factory EstimatorFactory, frame *features.Frame, y []float64) (*CVResult, error) {
	if frame.Len() != len(y) {
		return nil, fmt.Errorf("frame has %d rows but target has %d", frame.Len(), len(y))
	}

	folds, err := KFold(frame.Len(), cv.NFolds)
	if err != nil {
		return nil, err
	}

	records := make([]ScoreRecord, len(folds))
	failures := make([]error, len(folds))

	if !cv.Parallel {
		for i, fold := range folds {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := cv.runFold(factory, frame, y, fold, &records[i]); err != nil {
				if !cv.KeepFailedFolds {
					return nil, fmt.Errorf("fold %d failed: %w", i, err)
				}
				failures[i] = err
			}
		}
		return cv.finish(records, failures)
	}

	g, gctx := errgroup.WithContext(ctx)
	workers := cv.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g.SetLimit(workers)

	for i, fold := range folds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := cv.runFold(factory, frame, y, fold, &records[i]); err != nil {
				if !cv.KeepFailedFolds {
					return fmt.Errorf("fold %d failed: %w", i, err)
				}
				failures[i] = err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cv.finish(records, failures)
}

// runFold evaluates one fold into rec. On error rec keeps the fit time, if
// the fit got that far, and carries NaN scores.
func (cv *CrossValidator) runFold(factory EstimatorFactory, frame *features.Frame, y []float64, fold Fold, rec *ScoreRecord) error {
	var err error
	*rec, err = evaluateFold(factory, frame, y, fold)
	if err != nil {
		rec.ScoreTime = 0
		rec.TestScore = math.NaN()
		rec.TrainScore = math.NaN()
	}
	return err
}

func (cv *CrossValidator) finish(records []ScoreRecord, failures []error) (*CVResult, error) {
	var failed []FoldFailure
	for i, err := range failures {
		if err != nil {
			failed = append(failed, FoldFailure{Fold: i, Err: err})
		}
	}
	if len(failed) == len(records) {
		errs := make([]error, len(failed))
		for i, f := range failed {
			errs[i] = fmt.Errorf("fold %d failed: %w", f.Fold, f.Err)
		}
		return nil, fmt.Errorf("all %d folds failed: %w", len(records), errors.Join(errs...))
	}

	res := summarize(records)
	res.Failed = failed
	return res, nil
}

func evaluateFold(factory EstimatorFactory, frame *features.Frame, y []float64, fold Fold) (ScoreRecord, error) {
	trainFrame, yTrain := take(frame, y, fold.Train)
	testFrame, yTest := take(frame, y, fold.Test)

	est, err := factory()
	if err != nil {
		return ScoreRecord{}, err
	}

	start := time.Now()
	if err := est.Fit(trainFrame, yTrain); err != nil {
		return ScoreRecord{}, err
	}
	rec := ScoreRecord{FitTime: time.Since(start).Seconds()}

	start = time.Now()
	if rec.TestScore, err = est.Score(testFrame, yTest); err != nil {
		return rec, err
	}
	rec.ScoreTime = time.Since(start).Seconds()

	if rec.TrainScore, err = est.Score(trainFrame, yTrain); err != nil {
		return rec, err
	}
	return rec, nil
}

func take(frame *features.Frame, y []float64, indices []int) (*features.Frame, []float64) {
	sub := frame.Subset(indices)
	ys := make([]float64, len(indices))
	for i, idx := range indices {
		ys[i] = y[idx]
	}
	return sub, ys
}

func summarize(records []ScoreRecord) *CVResult {
	var mean ScoreRecord
	for _, r := range records {
		mean.FitTime += r.FitTime
		mean.ScoreTime += r.ScoreTime
		mean.TestScore += r.TestScore
		mean.TrainScore += r.TrainScore
	}
	n := float64(len(records))
	mean.FitTime /= n
	mean.ScoreTime /= n
	mean.TestScore /= n
	mean.TrainScore /= n

	return &CVResult{Folds: records, Mean: mean}
}
