// Package pipeline composes the column transformer with an estimator so that
// preprocessing is refit wherever the estimator is.
package pipeline

import (
	"fmt"

	"housingassess/internal/evaluation"
	"housingassess/internal/features"
	"housingassess/internal/models"
	"housingassess/internal/preprocessing"
)

// Pipeline is preprocessing followed by one regressor. A nil Preprocessor
// hands the regressor one empty row per record, which is all a dummy baseline
// reads.
type Pipeline struct {
	Preprocessor *preprocessing.ColumnTransformer
	Estimator    models.Regressor
}

// Factory builds an unfitted pipeline.
type Factory func() (*Pipeline, error)

// NewFactory returns a factory that pairs a fresh column transformer with a
// fresh model built from config on every call.
func NewFactory(groups features.Groups, opts preprocessing.Options, config models.ModelConfig) Factory {
	return func() (*Pipeline, error) {
		est, err := models.CreateModel(config)
		if err != nil {
			return nil, err
		}
		p := &Pipeline{Estimator: est}
		if config.Algorithm != models.AlgorithmDummy {
			p.Preprocessor = preprocessing.NewColumnTransformer(groups, opts)
		}
		return p, nil
	}
}

func (p *Pipeline) Fit(frame *features.Frame, y []float64) error {
	if p.Preprocessor == nil {
		return p.Estimator.Fit(emptyRows(frame.Len()), y)
	}
	X, err := p.Preprocessor.FitTransform(frame)
	if err != nil {
		return fmt.Errorf("preprocess: %w", err)
	}
	if err := p.Estimator.Fit(X, y); err != nil {
		return fmt.Errorf("fit %s: %w", p.Estimator.GetName(), err)
	}
	return nil
}

func (p *Pipeline) Predict(frame *features.Frame) ([]float64, error) {
	if p.Preprocessor == nil {
		return p.Estimator.Predict(emptyRows(frame.Len()))
	}
	X, err := p.Preprocessor.Transform(frame)
	if err != nil {
		return nil, fmt.Errorf("preprocess: %w", err)
	}
	return p.Estimator.Predict(X)
}

// Score returns the R² of the pipeline's predictions on frame.
func (p *Pipeline) Score(frame *features.Frame, y []float64) (float64, error) {
	pred, err := p.Predict(frame)
	if err != nil {
		return 0, err
	}
	return evaluation.R2Score(y, pred)
}

// FeatureNames returns the expanded design-matrix column names.
func (p *Pipeline) FeatureNames() []string {
	if p.Preprocessor == nil {
		return nil
	}
	return p.Preprocessor.FeatureNames()
}

func emptyRows(n int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = []float64{}
	}
	return rows
}

// Estimators adapts f to the factory type the cross validator expects.
func (f Factory) Estimators() evaluation.EstimatorFactory {
	return func() (evaluation.Estimator, error) {
		p, err := f()
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}
