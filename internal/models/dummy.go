package models

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

const (
	StrategyMean   = "mean"
	StrategyMedian = "median"
)

// DummyRegressor predicts a constant learned from the training target.
type DummyRegressor struct {
	BaseModel
	Strategy string
	Constant float64
	fitted   bool
}

func NewDummyRegressor(strategy string) (*DummyRegressor, error) {
	if strategy != StrategyMean && strategy != StrategyMedian {
		return nil, fmt.Errorf("unknown dummy strategy: %s", strategy)
	}
	return &DummyRegressor{
		Strategy: strategy,
		BaseModel: BaseModel{
			Name:   "DummyRegressor",
			Params: map[string]any{"strategy": strategy},
		},
	}, nil
}

func (d *DummyRegressor) Fit(X [][]float64, y []float64) error {
	if err := checkTrainingData(X, y); err != nil {
		return err
	}

	var (
		v   float64
		err error
	)
	if d.Strategy == StrategyMedian {
		v, err = stats.Median(y)
	} else {
		v, err = stats.Mean(y)
	}
	if err != nil {
		return fmt.Errorf("dummy %s: %w", d.Strategy, err)
	}

	d.Constant = v
	d.fitted = true
	return nil
}

func (d *DummyRegressor) Predict(X [][]float64) ([]float64, error) {
	if !d.fitted {
		return nil, notFitted(d.Name)
	}
	out := make([]float64, len(X))
	for i := range out {
		out[i] = d.Constant
	}
	return out, nil
}

func (d *DummyRegressor) Reset() {
	d.Constant = 0
	d.fitted = false
}
