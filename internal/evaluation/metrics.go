package evaluation

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// R2Score is the coefficient of determination of pred against yTrue. When the
// true values are constant it is 1 for a perfect prediction and 0 otherwise.
func R2Score(yTrue, pred []float64) (float64, error) {
	if len(yTrue) != len(pred) {
		return 0, fmt.Errorf("r2: %d true values but %d predictions", len(yTrue), len(pred))
	}
	if len(yTrue) == 0 {
		return 0, fmt.Errorf("r2: no samples")
	}

	mean := stat.Mean(yTrue, nil)
	total := 0.0
	residual := 0.0
	for i, v := range yTrue {
		d := v - mean
		total += d * d
		r := v - pred[i]
		residual += r * r
	}

	if total == 0 {
		if residual == 0 {
			return 1, nil
		}
		return 0, nil
	}

	return stat.RSquaredFrom(pred, yTrue, nil), nil
}
