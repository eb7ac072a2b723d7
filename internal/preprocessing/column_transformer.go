// Package preprocessing turns a feature frame into a dense design matrix.
package preprocessing

import (
	"fmt"

	"housingassess/internal/features"
)

// Options configures the column transformer.
type Options struct {
	CategoricalFill string
	NumericalFill   float64
	// Scaling is applied to the numerical group: ScaleNone, ScaleStandard or
	// ScaleMinMax. Off by default so the reported coefficients stay on the raw
	// feature scale.
	Scaling string
}

func DefaultOptions() Options {
	return Options{CategoricalFill: DefaultTextFill, Scaling: ScaleNone}
}

// ColumnTransformer applies one transformation chain per feature group and
// concatenates the results: categorical indicators, binary indicators, then
// numerical columns.
type ColumnTransformer struct {
	Options Options
	Groups  features.Groups

	categoricalImputer *SimpleImputer
	categoricalEncoder *OneHotEncoder
	binaryEncoder      *OneHotEncoder
	numericalImputer   *SimpleImputer
	numericalScaler    *Scaler

	IsFitted bool
}

func NewColumnTransformer(groups features.Groups, opts Options) *ColumnTransformer {
	return &ColumnTransformer{
		Options:            opts,
		Groups:             groups,
		categoricalImputer: NewConstantImputer(opts.CategoricalFill, 0),
		categoricalEncoder: NewOneHotEncoder(HandleUnknownIgnore, DropNone),
		binaryEncoder:      NewOneHotEncoder(HandleUnknownError, DropIfBinary),
		numericalImputer:   NewConstantImputer("", opts.NumericalFill),
	}
}

func (ct *ColumnTransformer) Fit(frame *features.Frame) error {
	if frame.Len() == 0 {
		return fmt.Errorf("cannot fit preprocessing on an empty frame")
	}

	if err := ct.categoricalEncoder.Fit(ct.Groups.Categorical, ct.categoricalColumns(frame)); err != nil {
		return err
	}
	if err := ct.binaryEncoder.Fit(ct.Groups.Binary, ct.binaryColumns(frame)); err != nil {
		return err
	}

	if ct.Options.Scaling != "" && ct.Options.Scaling != ScaleNone {
		ct.numericalScaler = NewScaler(ct.Options.Scaling)
		if err := ct.numericalScaler.Fit(ct.numericalRows(frame)); err != nil {
			return fmt.Errorf("fit numerical scaler: %w", err)
		}
	}

	ct.IsFitted = true
	return nil
}

func (ct *ColumnTransformer) Transform(frame *features.Frame) ([][]float64, error) {
	if !ct.IsFitted {
		return nil, fmt.Errorf("ColumnTransformer must be fitted before transform")
	}

	catWidth := ct.categoricalEncoder.Width()
	binWidth := ct.binaryEncoder.Width()
	width := catWidth + binWidth + len(ct.Groups.Numerical)

	X := make([][]float64, frame.Len())
	for i := range X {
		X[i] = make([]float64, width)
	}

	if err := ct.categoricalEncoder.Transform(ct.categoricalColumns(frame), X, 0); err != nil {
		return nil, err
	}
	if err := ct.binaryEncoder.Transform(ct.binaryColumns(frame), X, catWidth); err != nil {
		return nil, err
	}

	numeric := ct.numericalRows(frame)
	if ct.numericalScaler != nil {
		var err error
		if numeric, err = ct.numericalScaler.Transform(numeric); err != nil {
			return nil, err
		}
	}
	offset := catWidth + binWidth
	for i, row := range numeric {
		copy(X[i][offset:], row)
	}

	return X, nil
}

func (ct *ColumnTransformer) FitTransform(frame *features.Frame) ([][]float64, error) {
	if err := ct.Fit(frame); err != nil {
		return nil, err
	}
	return ct.Transform(frame)
}

// FeatureNames returns the expanded column names in output order.
func (ct *ColumnTransformer) FeatureNames() []string {
	names := ct.categoricalEncoder.FeatureNames()
	names = append(names, ct.binaryEncoder.FeatureNames()...)
	names = append(names, ct.Groups.Numerical...)
	return names
}

func (ct *ColumnTransformer) categoricalColumns(frame *features.Frame) [][]string {
	cols := make([][]string, len(ct.Groups.Categorical))
	for j, name := range ct.Groups.Categorical {
		cols[j] = ct.categoricalImputer.ImputeText(frame.TextColumn(name))
	}
	return cols
}

func (ct *ColumnTransformer) binaryColumns(frame *features.Frame) [][]string {
	cols := make([][]string, len(ct.Groups.Binary))
	for j, name := range ct.Groups.Binary {
		cols[j] = frame.TextColumn(name)
	}
	return cols
}

func (ct *ColumnTransformer) numericalRows(frame *features.Frame) [][]float64 {
	rows := make([][]float64, frame.Len())
	for i := range rows {
		rows[i] = make([]float64, len(ct.Groups.Numerical))
	}
	for j, name := range ct.Groups.Numerical {
		for i, v := range ct.numericalImputer.ImputeNumber(frame.NumberColumn(name)) {
			rows[i][j] = v
		}
	}
	return rows
}
