package models

import (
	apperr "housingassess/internal/errors"

	"github.com/YuminosukeSato/scigo/sklearn/lightgbm"
	"gonum.org/v1/gonum/mat"
)

// GradientBoosting is gradient-boosted regression trees on squared error,
// trained by the LightGBM regressor in scigo with depth-limited trees, an L2
// leaf penalty and deterministic mode on.
type GradientBoosting struct {
	BaseModel
	NRounds        int
	MaxDepth       int
	LearningRate   float64
	Lambda         float64
	MinChildWeight float64
	Seed           int64

	reg *lightgbm.LGBMRegressor
}

func NewGradientBoosting(nRounds, maxDepth int, learningRate float64, seed int64) *GradientBoosting {
	return &GradientBoosting{
		NRounds:        nRounds,
		MaxDepth:       maxDepth,
		LearningRate:   learningRate,
		Lambda:         1,
		MinChildWeight: 1,
		Seed:           seed,
		BaseModel: BaseModel{
			Name: "XGBRegressor",
			Params: map[string]any{
				"n_estimators":  nRounds,
				"max_depth":     maxDepth,
				"learning_rate": learningRate,
				"random_state":  seed,
			},
		},
	}
}

// regressor builds an unfitted LightGBM regressor from the current settings.
func (gb *GradientBoosting) regressor() *lightgbm.LGBMRegressor {
	reg := lightgbm.NewLGBMRegressor().
		WithNumIterations(gb.NRounds).
		WithMaxDepth(gb.MaxDepth).
		WithLearningRate(gb.LearningRate).
		WithRandomState(int(gb.Seed)).
		WithDeterministic(true)
	reg.RegLambda = gb.Lambda
	reg.MinChildWeight = gb.MinChildWeight
	reg.NumThreads = 1
	return reg
}

func (gb *GradientBoosting) Fit(X [][]float64, y []float64) error {
	if err := checkTrainingData(X, y); err != nil {
		return err
	}
	if gb.NRounds <= 0 {
		return apperr.Newf(apperr.CodeModelError, "boosting needs at least one round, got %d", gb.NRounds)
	}

	reg := gb.regressor()
	target := mat.NewDense(len(y), 1, append([]float64(nil), y...))
	if err := reg.Fit(toDense(X), target); err != nil {
		gb.reg = nil
		return apperr.WithCode(apperr.CodeModelError, err, "gradient boosting fit")
	}
	gb.reg = reg
	return nil
}

func (gb *GradientBoosting) Predict(X [][]float64) ([]float64, error) {
	if gb.reg == nil {
		return nil, notFitted(gb.Name)
	}
	if len(X) == 0 {
		return []float64{}, nil
	}

	out, err := gb.reg.Predict(toDense(X))
	if err != nil {
		return nil, apperr.WithCode(apperr.CodeModelError, err, "gradient boosting predict")
	}
	rows, _ := out.Dims()
	predictions := make([]float64, rows)
	for i := range predictions {
		predictions[i] = out.At(i, 0)
	}
	return predictions, nil
}

func (gb *GradientBoosting) Reset() {
	gb.reg = nil
}

// toDense copies a row-major design matrix into a gonum matrix.
func toDense(X [][]float64) *mat.Dense {
	n, p := len(X), len(X[0])
	data := make([]float64, 0, n*p)
	for _, row := range X {
		data = append(data, row...)
	}
	return mat.NewDense(n, p, data)
}
