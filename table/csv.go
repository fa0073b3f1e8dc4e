package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// WriteCSV writes rows to path, creating parent directories. The header row
// comes from the csv struct tags, so column order is stable per schema.
func WriteCSV[T any](path string, rows []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteMatrixCSV writes a labeled square matrix: an unnamed first column
// holds the row labels and NaN cells render empty, matching Float's null
// convention. gocsv maps struct tags to a fixed column set, so the dynamic
// columns here go through encoding/csv directly.
func WriteMatrixCSV(path string, labels []string, cells [][]float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{""}, labels...)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for i, label := range labels {
		rec := make([]string, 0, len(labels)+1)
		rec = append(rec, label)
		for _, v := range cells[i] {
			cell, _ := Float(v).MarshalCSV()
			rec = append(rec, cell)
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadCSV loads rows from path. Intermediate tables stay regenerable and
// reloadable, so any stage can be rerun from the previous stage's output.
func ReadCSV[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var rows []T
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}
