package data

import (
	"fmt"
	"math"

	apperr "housingassess/internal/errors"

	"github.com/montanaflynn/stats"
)

type DataValidator struct{}

func NewDataValidator() *DataValidator {
	return &DataValidator{}
}

// ValidateTable checks a loaded table is usable for training or scoring.
func (dv *DataValidator) ValidateTable(t *Table) error {
	if t == nil || len(t.Records) == 0 {
		return apperr.DataError("dataset is empty", nil)
	}

	for _, col := range Schema {
		if !t.HasColumn(col.Name) {
			return apperr.Newf(apperr.CodeSchemaError, "column %s is missing", col.Name)
		}
	}

	for i, rec := range t.Records {
		if math.IsNaN(rec.Assessment) || math.IsInf(rec.Assessment, 0) {
			return apperr.Newf(apperr.CodeSchemaError, "record %d: target %s is not finite", i, ColAssessment)
		}
	}

	return nil
}

// ValidatePair checks the train and test tables share the required schema.
func (dv *DataValidator) ValidatePair(train, test *Table) error {
	if err := dv.ValidateTable(train); err != nil {
		return apperr.Wrap(err, "training set validation failed")
	}

	if err := dv.ValidateTable(test); err != nil {
		return apperr.Wrap(err, "test set validation failed")
	}

	return nil
}

// LoadPair loads and validates the train and test files.
func LoadPair(trainPath, testPath string) (*Table, *Table, error) {
	train, err := LoadTable(trainPath)
	if err != nil {
		return nil, nil, err
	}

	test, err := LoadTable(testPath)
	if err != nil {
		return nil, nil, err
	}

	if err := NewDataValidator().ValidatePair(train, test); err != nil {
		return nil, nil, err
	}

	return train, test, nil
}

// ColumnStats summarises one numeric column, skipping missing values.
type ColumnStats struct {
	Name    string
	Count   int
	Missing int
	Min     float64
	Max     float64
	Mean    float64
}

func (dv *DataValidator) GetTableStats(t *Table) ([]ColumnStats, error) {
	var out []ColumnStats

	for _, col := range Schema {
		if col.Kind != KindNumber {
			continue
		}

		cs := ColumnStats{Name: col.Name}
		values := make([]float64, 0, len(t.Records))
		for i := range t.Records {
			v, _ := t.Records[i].Number(col.Name)
			if math.IsNaN(v) {
				cs.Missing++
				continue
			}
			values = append(values, v)
		}
		cs.Count = len(values)

		if len(values) > 0 {
			var err error
			if cs.Min, err = stats.Min(values); err != nil {
				return nil, fmt.Errorf("min of %s: %w", col.Name, err)
			}
			if cs.Max, err = stats.Max(values); err != nil {
				return nil, fmt.Errorf("max of %s: %w", col.Name, err)
			}
			if cs.Mean, err = stats.Mean(values); err != nil {
				return nil, fmt.Errorf("mean of %s: %w", col.Name, err)
			}
		}

		out = append(out, cs)
	}

	return out, nil
}
