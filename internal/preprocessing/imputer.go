package preprocessing

import "math"

// DefaultTextFill is the placeholder category for missing text values.
const DefaultTextFill = "missing_value"

// SimpleImputer fills missing values with a constant. Text columns treat ""
// as missing, numeric columns treat NaN as missing.
type SimpleImputer struct {
	Strategy   string
	FillText   string
	FillNumber float64
}

func NewConstantImputer(fillText string, fillNumber float64) *SimpleImputer {
	if fillText == "" {
		fillText = DefaultTextFill
	}
	return &SimpleImputer{
		Strategy:   "constant",
		FillText:   fillText,
		FillNumber: fillNumber,
	}
}

func (si *SimpleImputer) ImputeText(col []string) []string {
	out := make([]string, len(col))
	for i, v := range col {
		if v == "" {
			out[i] = si.FillText
		} else {
			out[i] = v
		}
	}
	return out
}

func (si *SimpleImputer) ImputeNumber(col []float64) []float64 {
	out := make([]float64, len(col))
	for i, v := range col {
		if math.IsNaN(v) {
			out[i] = si.FillNumber
		} else {
			out[i] = v
		}
	}
	return out
}
