// Package models holds the regression estimators of the model bank.
package models

import (
	"fmt"

	apperr "housingassess/internal/errors"
)

// Regressor is a model fitted on a dense design matrix.
type Regressor interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) ([]float64, error)
	GetName() string
	GetParams() map[string]any
	Reset()
}

// LinearModel is implemented by regressors that expose per-feature weights.
type LinearModel interface {
	Regressor
	Coef() []float64
	InterceptValue() float64
}

type BaseModel struct {
	Name   string
	Params map[string]any
}

func (bm *BaseModel) GetName() string {
	return bm.Name
}

func (bm *BaseModel) GetParams() map[string]any {
	return bm.Params
}

// checkTrainingData validates the shape of a Fit call.
func checkTrainingData(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return apperr.ModelError("cannot fit on an empty design matrix")
	}
	if len(X) != len(y) {
		return apperr.Newf(apperr.CodeModelError, "design matrix has %d rows but target has %d", len(X), len(y))
	}
	width := len(X[0])
	for i, row := range X {
		if len(row) != width {
			return apperr.Newf(apperr.CodeModelError, "row %d has %d columns, expected %d", i, len(row), width)
		}
	}
	return nil
}

func notFitted(name string) error {
	return apperr.ModelError(fmt.Sprintf("%s must be fitted before predict", name))
}
