package preprocessing

import (
	"fmt"

	apperr "housingassess/internal/errors"
)

const (
	HandleUnknownError  = "error"
	HandleUnknownIgnore = "ignore"

	DropNone     = ""
	DropIfBinary = "if_binary"
)

// OneHotEncoder expands text columns into 0/1 indicator columns, one per
// category seen during Fit.
type OneHotEncoder struct {
	HandleUnknown string
	Drop          string

	Columns  []string
	Encoders []*LabelEncoder
	// dropped[j] is the category index removed from column j, or -1.
	dropped  []int
	IsFitted bool
}

func NewOneHotEncoder(handleUnknown, drop string) *OneHotEncoder {
	if handleUnknown == "" {
		handleUnknown = HandleUnknownError
	}
	return &OneHotEncoder{
		HandleUnknown: handleUnknown,
		Drop:          drop,
	}
}

// Fit learns the categories of each column. cols[j] holds the values of
// column names[j].
func (e *OneHotEncoder) Fit(names []string, cols [][]string) error {
	if len(names) != len(cols) {
		return fmt.Errorf("one-hot fit: %d names for %d columns", len(names), len(cols))
	}

	e.Columns = append([]string(nil), names...)
	e.Encoders = make([]*LabelEncoder, len(cols))
	e.dropped = make([]int, len(cols))

	for j, col := range cols {
		le := NewLabelEncoder()
		le.Fit(col)
		e.Encoders[j] = le

		e.dropped[j] = -1
		if e.Drop == DropIfBinary && len(le.Classes) == 2 {
			e.dropped[j] = 0
		}
	}

	e.IsFitted = true
	return nil
}

// Width returns the number of output columns.
func (e *OneHotEncoder) Width() int {
	w := 0
	for j, le := range e.Encoders {
		w += len(le.Classes)
		if e.dropped[j] >= 0 {
			w--
		}
	}
	return w
}

// Transform writes the indicator block of every row into dst starting at
// column offset.
func (e *OneHotEncoder) Transform(cols [][]string, dst [][]float64, offset int) error {
	if !e.IsFitted {
		return fmt.Errorf("OneHotEncoder must be fitted before transform")
	}
	if len(cols) != len(e.Encoders) {
		return fmt.Errorf("one-hot transform: expected %d columns, got %d", len(e.Encoders), len(cols))
	}

	base := offset
	for j, col := range cols {
		le := e.Encoders[j]
		drop := e.dropped[j]

		for i, v := range col {
			idx := le.Lookup(v)
			if idx < 0 {
				if e.HandleUnknown == HandleUnknownIgnore {
					continue
				}
				return apperr.UnknownCategory(e.Columns[j], v)
			}
			if idx == drop {
				continue
			}
			if drop >= 0 && idx > drop {
				idx--
			}
			dst[i][base+idx] = 1
		}

		base += len(le.Classes)
		if drop >= 0 {
			base--
		}
	}

	return nil
}

// FeatureNames returns "<column>_<category>" for every output column.
func (e *OneHotEncoder) FeatureNames() []string {
	var names []string
	for j, le := range e.Encoders {
		for k, c := range le.Classes {
			if k == e.dropped[j] {
				continue
			}
			names = append(names, e.Columns[j]+"_"+c)
		}
	}
	return names
}
