package preprocessing

import (
	"fmt"
	"math"
)

// Numerical scaling modes.
const (
	ScaleNone     = "none"
	ScaleStandard = "standard"
	ScaleMinMax   = "minmax"
)

// KnownScaling reports whether mode is a scaling the column transformer accepts.
func KnownScaling(mode string) bool {
	switch mode {
	case "", ScaleNone, ScaleStandard, ScaleMinMax:
		return true
	}
	return false
}

type Scaler struct {
	ScaleType   string
	IsFitted    bool
	FeatureMin  []float64
	FeatureMax  []float64
	FeatureMean []float64
	FeatureStd  []float64
}

func NewScaler(scaleType string) *Scaler {
	return &Scaler{
		ScaleType: scaleType,
		IsFitted:  false,
	}
}

func (s *Scaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return fmt.Errorf("empty dataset")
	}

	nFeatures := len(X[0])
	s.FeatureMin = make([]float64, nFeatures)
	s.FeatureMax = make([]float64, nFeatures)
	s.FeatureMean = make([]float64, nFeatures)
	s.FeatureStd = make([]float64, nFeatures)

	switch s.ScaleType {
	case ScaleMinMax:
		s.fitMinMax(X)
	case ScaleStandard:
		s.fitStandard(X)
	case ScaleNone:
	default:
		return fmt.Errorf("unknown scale type: %s", s.ScaleType)
	}

	s.IsFitted = true
	return nil
}

func (s *Scaler) Transform(X [][]float64) ([][]float64, error) {
	if !s.IsFitted {
		return nil, fmt.Errorf("scaler must be fitted before transform")
	}

	result := make([][]float64, len(X))
	for i := range X {
		result[i] = make([]float64, len(X[i]))
		for j, v := range X[i] {
			switch s.ScaleType {
			case ScaleMinMax:
				result[i][j] = s.transformMinMax(v, j)
			case ScaleStandard:
				result[i][j] = (v - s.FeatureMean[j]) / s.FeatureStd[j]
			default:
				result[i][j] = v
			}
		}
	}

	return result, nil
}

func (s *Scaler) fitMinMax(X [][]float64) {
	for j := range s.FeatureMin {
		s.FeatureMin[j] = X[0][j]
		s.FeatureMax[j] = X[0][j]

		for i := 1; i < len(X); i++ {
			s.FeatureMin[j] = math.Min(s.FeatureMin[j], X[i][j])
			s.FeatureMax[j] = math.Max(s.FeatureMax[j], X[i][j])
		}
	}
}

// fitStandard uses the population standard deviation; constant columns get a
// unit scale.
func (s *Scaler) fitStandard(X [][]float64) {
	n := float64(len(X))

	for j := range s.FeatureMean {
		sum := 0.0
		for i := range X {
			sum += X[i][j]
		}
		s.FeatureMean[j] = sum / n

		variance := 0.0
		for i := range X {
			diff := X[i][j] - s.FeatureMean[j]
			variance += diff * diff
		}
		s.FeatureStd[j] = math.Sqrt(variance / n)

		if s.FeatureStd[j] == 0 {
			s.FeatureStd[j] = 1
		}
	}
}

func (s *Scaler) transformMinMax(value float64, featureIndex int) float64 {
	span := s.FeatureMax[featureIndex] - s.FeatureMin[featureIndex]
	if span == 0 {
		return 0
	}
	return (value - s.FeatureMin[featureIndex]) / span
}
