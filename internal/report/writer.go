package report

import (
	"encoding/csv"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	apperr "housingassess/internal/errors"
)

// WriteCSV writes t to path. When the parent directory does not exist it is
// created with all ancestors and the write is retried once.
func WriteCSV(path string, t Table) error {
	err := writeTable(path, t)
	if errors.Is(err, fs.ErrNotExist) {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return apperr.WriteError(path, mkErr)
		}
		err = writeTable(path, t)
	}
	if err != nil {
		return apperr.WriteError(path, err)
	}
	return nil
}

func writeTable(path string, t Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(t.Header); err != nil {
		file.Close()
		return err
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
