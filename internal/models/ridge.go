package models

import (
	"fmt"
	"math"

	apperr "housingassess/internal/errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DefaultAlphas returns the ten decades 1e-5 through 1e4.
func DefaultAlphas() []float64 {
	return []float64{1e-5, 1e-4, 1e-3, 1e-2, 1e-1, 1, 1e1, 1e2, 1e3, 1e4}
}

// RidgeCV is ridge regression with an unpenalised intercept whose penalty is
// picked from Alphas by efficient leave-one-out error.
//
// The design matrix is centred and factorised once (thin SVD); for every
// alpha the hat-matrix diagonal and fitted values follow in closed form, so
// the leave-one-out residual of row i is e_i / (1 - h_ii). The alpha with the
// lowest mean squared leave-one-out residual wins, the first one on ties.
type RidgeCV struct {
	BaseModel
	Alphas []float64

	Alpha     float64
	Weights   []float64
	Intercept float64
	// LOOErrors[k] is the mean squared leave-one-out error for Alphas[k].
	LOOErrors []float64

	fitted bool
}

func NewRidgeCV(alphas []float64) (*RidgeCV, error) {
	if len(alphas) == 0 {
		return nil, fmt.Errorf("ridgecv needs at least one alpha")
	}
	for _, a := range alphas {
		if !(a > 0) {
			return nil, fmt.Errorf("ridgecv alphas must be positive, got %v", a)
		}
	}

	return &RidgeCV{
		Alphas: append([]float64(nil), alphas...),
		BaseModel: BaseModel{
			Name:   "RidgeCV",
			Params: map[string]any{"alphas": alphas},
		},
	}, nil
}

func (r *RidgeCV) Fit(X [][]float64, y []float64) error {
	if err := checkTrainingData(X, y); err != nil {
		return err
	}

	n, p := len(X), len(X[0])

	xMean := make([]float64, p)
	col := make([]float64, n)
	for j := 0; j < p; j++ {
		for i := 0; i < n; i++ {
			col[i] = X[i][j]
		}
		xMean[j] = stat.Mean(col, nil)
	}
	yMean := stat.Mean(y, nil)

	xc := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			xc.Set(i, j, X[i][j]-xMean[j])
		}
	}
	yc := make([]float64, n)
	for i := range y {
		yc[i] = y[i] - yMean
	}

	var svd mat.SVD
	if ok := svd.Factorize(xc, mat.SVDThin); !ok {
		return apperr.ModelError("ridgecv: SVD of the design matrix did not converge")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)
	k := len(s)

	// uty = Uᵀ y_c
	uty := make([]float64, k)
	for j := 0; j < k; j++ {
		uty[j] = floats.Dot(mat.Col(nil, j, &u), yc)
	}

	uSq := make([][]float64, n)
	for i := 0; i < n; i++ {
		uSq[i] = make([]float64, k)
		for j := 0; j < k; j++ {
			x := u.At(i, j)
			uSq[i][j] = x * x
		}
	}

	r.LOOErrors = make([]float64, len(r.Alphas))
	best := -1
	shrink := make([]float64, k)
	for a, alpha := range r.Alphas {
		for j := 0; j < k; j++ {
			s2 := s[j] * s[j]
			shrink[j] = s2 / (s2 + alpha)
		}

		sse := 0.0
		for i := 0; i < n; i++ {
			fitted := 0.0
			h := 1 / float64(n)
			for j := 0; j < k; j++ {
				fitted += u.At(i, j) * shrink[j] * uty[j]
				h += uSq[i][j] * shrink[j]
			}
			denom := 1 - h
			if math.Abs(denom) < 1e-12 {
				denom = 1e-12
			}
			loo := (yc[i] - fitted) / denom
			sse += loo * loo
		}
		r.LOOErrors[a] = sse / float64(n)

		if best < 0 || r.LOOErrors[a] < r.LOOErrors[best] {
			best = a
		}
	}
	r.Alpha = r.Alphas[best]

	// w = V diag(s / (s² + α)) Uᵀ y_c
	r.Weights = make([]float64, p)
	for j := 0; j < k; j++ {
		if s[j] == 0 {
			continue
		}
		scale := s[j] / (s[j]*s[j] + r.Alpha) * uty[j]
		for f := 0; f < p; f++ {
			r.Weights[f] += v.At(f, j) * scale
		}
	}
	r.Intercept = yMean - floats.Dot(xMean, r.Weights)

	r.Params["alpha"] = r.Alpha
	r.fitted = true
	return nil
}

func (r *RidgeCV) Predict(X [][]float64) ([]float64, error) {
	if !r.fitted {
		return nil, notFitted(r.Name)
	}
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(r.Weights) {
			return nil, apperr.Newf(apperr.CodeModelError, "row %d has %d columns, model expects %d", i, len(row), len(r.Weights))
		}
		out[i] = r.Intercept + floats.Dot(row, r.Weights)
	}
	return out, nil
}

// Coef returns the fitted weights in design-matrix column order.
func (r *RidgeCV) Coef() []float64 {
	return r.Weights
}

func (r *RidgeCV) InterceptValue() float64 {
	return r.Intercept
}

func (r *RidgeCV) Reset() {
	r.Alpha = 0
	r.Weights = nil
	r.Intercept = 0
	r.LOOErrors = nil
	r.fitted = false
	delete(r.Params, "alpha")
}
