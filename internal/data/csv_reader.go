package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	apperr "housingassess/internal/errors"
)

// Table is a loaded housing dataset.
type Table struct {
	Path    string
	Columns []string
	Records []Record
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.Records)
}

// HasColumn reports whether the source header carried name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

type CSVReader struct {
	filename string
}

func NewCSVReader(filename string) *CSVReader {
	return &CSVReader{filename: filename}
}

// LoadTable reads filename into a typed Table.
func LoadTable(filename string) (*Table, error) {
	return NewCSVReader(filename).Load()
}

func (cr *CSVReader) Load() (*Table, error) {
	file, err := os.Open(cr.filename)
	if err != nil {
		return nil, apperr.DataError(fmt.Sprintf("failed to open %s", cr.filename), err)
	}
	defer file.Close()

	table, err := ReadTable(file)
	if err != nil {
		return nil, apperr.Wrapf(err, "failed to load %s", cr.filename)
	}
	table.Path = cr.filename
	return table, nil
}

// ReadTable parses CSV content with a header row. Columns outside the schema
// are ignored.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, apperr.DataError("file is empty", nil)
	}
	if err != nil {
		return nil, apperr.DataError("failed to read header", err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(headers[i], "\ufeff"))
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	var missing []string
	for _, col := range Schema {
		if _, ok := index[col.Name]; !ok {
			missing = append(missing, col.Name)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.Newf(apperr.CodeSchemaError, "missing required columns: %s", strings.Join(missing, ", "))
	}

	table := &Table{Columns: headers}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, apperr.DataError("failed to parse CSV", err)
		}

		rec, err := parseRecord(record, index, line)
		if err != nil {
			return nil, err
		}
		table.Records = append(table.Records, rec)
	}

	if len(table.Records) == 0 {
		return nil, apperr.DataError("insufficient data in file", nil)
	}

	return table, nil
}

func parseRecord(fields []string, index map[string]int, line int) (Record, error) {
	var rec Record

	for _, col := range Schema {
		raw := fields[index[col.Name]]

		switch col.Kind {
		case KindText:
			if IsMissing(raw) {
				rec.setText(col.Name, "")
			} else {
				rec.setText(col.Name, strings.TrimSpace(raw))
			}
		case KindNumber:
			if IsMissing(raw) {
				if col.Name == ColAssessment {
					return rec, apperr.Newf(apperr.CodeSchemaError, "line %d: target column %s is missing", line, col.Name)
				}
				rec.setNumber(col.Name, math.NaN())
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return rec, apperr.Newf(apperr.CodeSchemaError, "line %d: column %s expects a number, got %q", line, col.Name, raw)
			}
			rec.setNumber(col.Name, v)
		}
	}

	return rec, nil
}
