// Package features slices a housing table into the feature groups consumed by
// the preprocessing pipeline and the target vector.
package features

import (
	"fmt"

	"housingassess/internal/data"
	apperr "housingassess/internal/errors"
)

// Groups names the columns of each feature family and the target.
type Groups struct {
	Categorical []string
	Binary      []string
	Numerical   []string
	Target      string
}

// DefaultGroups returns the fixed housing feature layout.
func DefaultGroups() Groups {
	return Groups{
		Categorical: []string{data.ColBldgDesc},
		Binary:      []string{data.ColGarage, data.ColFireplace, data.ColBasement, data.ColBsmtDevl},
		Numerical:   []string{data.ColAge, data.ColBldgFeet, data.ColLatitude, data.ColLongitude},
		Target:      data.ColAssessment,
	}
}

// All returns every feature column in selection order.
func (g Groups) All() []string {
	out := make([]string, 0, len(g.Categorical)+len(g.Binary)+len(g.Numerical))
	out = append(out, g.Categorical...)
	out = append(out, g.Binary...)
	out = append(out, g.Numerical...)
	return out
}

// Validate checks that groups are disjoint, do not contain the target and
// that every column has the kind its group expects.
func (g Groups) Validate() error {
	seen := make(map[string]string)
	check := func(group string, kind data.Kind, names []string) error {
		for _, name := range names {
			if prev, dup := seen[name]; dup {
				return apperr.Newf(apperr.CodeSchemaError, "column %s listed in both %s and %s groups", name, prev, group)
			}
			seen[name] = group

			col, ok := data.LookupColumn(name)
			if !ok {
				return apperr.Newf(apperr.CodeSchemaError, "column %s is not part of the housing schema", name)
			}
			if col.Kind != kind {
				return apperr.Newf(apperr.CodeSchemaError, "column %s is %s but the %s group needs %s", name, col.Kind, group, kind)
			}
		}
		return nil
	}

	if err := check("categorical", data.KindText, g.Categorical); err != nil {
		return err
	}
	if err := check("binary", data.KindText, g.Binary); err != nil {
		return err
	}
	if err := check("numerical", data.KindNumber, g.Numerical); err != nil {
		return err
	}

	if _, clash := seen[g.Target]; clash {
		return apperr.Newf(apperr.CodeSchemaError, "target %s is also a feature", g.Target)
	}
	col, ok := data.LookupColumn(g.Target)
	if !ok || col.Kind != data.KindNumber {
		return apperr.Newf(apperr.CodeSchemaError, "target %s must be a numeric schema column", g.Target)
	}

	return nil
}

// Frame is the feature view of a table.
type Frame struct {
	Groups  Groups
	Records []data.Record
}

func (f *Frame) Len() int {
	return len(f.Records)
}

// TextColumn returns the raw values of a text column, "" marking missing.
func (f *Frame) TextColumn(name string) []string {
	out := make([]string, len(f.Records))
	for i := range f.Records {
		out[i], _ = f.Records[i].Text(name)
	}
	return out
}

// NumberColumn returns the values of a numeric column, NaN marking missing.
func (f *Frame) NumberColumn(name string) []float64 {
	out := make([]float64, len(f.Records))
	for i := range f.Records {
		out[i], _ = f.Records[i].Number(name)
	}
	return out
}

// Subset returns a frame over the records at indices, sharing groups.
func (f *Frame) Subset(indices []int) *Frame {
	records := make([]data.Record, len(indices))
	for i, idx := range indices {
		records[i] = f.Records[idx]
	}
	return &Frame{Groups: f.Groups, Records: records}
}

// Select builds the feature frame and target vector of table.
func Select(table *data.Table, groups Groups) (*Frame, []float64, error) {
	if err := groups.Validate(); err != nil {
		return nil, nil, err
	}

	for _, name := range append(groups.All(), groups.Target) {
		if !table.HasColumn(name) {
			return nil, nil, apperr.Newf(apperr.CodeSchemaError, "column %s not found in %s", name, describe(table))
		}
	}

	records := make([]data.Record, len(table.Records))
	copy(records, table.Records)

	frame := &Frame{Groups: groups, Records: records}
	target := frame.NumberColumn(groups.Target)

	return frame, target, nil
}

func describe(table *data.Table) string {
	if table.Path != "" {
		return table.Path
	}
	return fmt.Sprintf("table with %d columns", len(table.Columns))
}
