package features

import (
	"testing"

	"housingassess/internal/data"
	apperr "housingassess/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *data.Table {
	cols := make([]string, 0, len(data.Schema))
	for _, c := range data.Schema {
		cols = append(cols, c.Name)
	}
	return &data.Table{
		Columns: cols,
		Records: []data.Record{
			{Age: 10, BldgDesc: "A", BldgFeet: 1000, Garage: "Y", Fireplace: "N", Basement: "Y", BsmtDevl: "N", Latitude: 53.5, Longitude: -113.5, Assessment: 200000},
			{Age: 20, BldgDesc: "B", BldgFeet: 1500, Garage: "N", Fireplace: "Y", Basement: "N", BsmtDevl: "Y", Latitude: 53.6, Longitude: -113.6, Assessment: 300000},
			{Age: 30, BldgDesc: "A", BldgFeet: 2000, Garage: "Y", Fireplace: "Y", Basement: "Y", BsmtDevl: "Y", Latitude: 53.7, Longitude: -113.7, Assessment: 400000},
		},
	}
}

func TestSelect(t *testing.T) {
	frame, y, err := Select(sampleTable(), DefaultGroups())
	require.NoError(t, err)

	assert.Equal(t, 3, frame.Len())
	assert.Equal(t, []float64{200000, 300000, 400000}, y)
	assert.Equal(t, []string{"A", "B", "A"}, frame.TextColumn(data.ColBldgDesc))
	assert.Equal(t, []float64{1000, 1500, 2000}, frame.NumberColumn(data.ColBldgFeet))
	assert.Len(t, DefaultGroups().All(), 9)
}

func TestSelectMissingColumn(t *testing.T) {
	table := sampleTable()
	table.Columns = table.Columns[1:]

	_, _, err := Select(table, DefaultGroups())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeSchemaError, apperr.GetCode(err))
	assert.Contains(t, err.Error(), "column AGE not found")
}

func TestSubset(t *testing.T) {
	frame, _, err := Select(sampleTable(), DefaultGroups())
	require.NoError(t, err)

	sub := frame.Subset([]int{2, 0})
	assert.Equal(t, []float64{30, 10}, sub.NumberColumn(data.ColAge))
	assert.Equal(t, frame.Groups, sub.Groups)
}

func TestGroupsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(g *Groups)
		wantMsg string
	}{
		{
			name:    "overlap",
			mutate:  func(g *Groups) { g.Binary = append(g.Binary, data.ColBldgDesc) },
			wantMsg: "listed in both",
		},
		{
			name:    "unknown column",
			mutate:  func(g *Groups) { g.Numerical = append(g.Numerical, "ROOF") },
			wantMsg: "not part of the housing schema",
		},
		{
			name: "wrong kind",
			mutate: func(g *Groups) {
				g.Binary = g.Binary[1:]
				g.Numerical = append(g.Numerical, data.ColGarage)
			},
			wantMsg: "numerical group needs number",
		},
		{
			name:    "target used as feature",
			mutate:  func(g *Groups) { g.Target = data.ColAge },
			wantMsg: "also a feature",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := DefaultGroups()
			tt.mutate(&g)
			err := g.Validate()
			require.Error(t, err)
			assert.Equal(t, apperr.CodeSchemaError, apperr.GetCode(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	assert.NoError(t, DefaultGroups().Validate())
}
