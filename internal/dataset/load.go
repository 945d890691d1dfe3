package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"k8s.io/klog/v2"
)

// Source selects where the dataset is loaded from. When DSN is set the
// dataset is read from Table through Driver; otherwise Path is read as CSV.
type Source struct {
	Path   string
	Driver string
	DSN    string
	Table  string
}

// Describe returns a log-safe label for the source. DSNs are never included.
func (s Source) Describe() string {
	if s.DSN != "" {
		return s.Driver + ":" + s.Table
	}
	return "csv:" + s.Path
}

// Open loads the dataset from src. Callers decide how to handle failure; the
// server falls back to Empty.
func Open(ctx context.Context, src Source) (*Dataset, error) {
	log := klog.FromContext(ctx)
	start := time.Now()

	var (
		ds  *Dataset
		err error
	)
	if src.DSN != "" {
		ds, err = LoadSQL(ctx, src.Driver, src.DSN, src.Table)
	} else {
		ds, err = Load(src.Path)
	}
	if err != nil {
		return nil, err
	}

	log.Info("dataset loaded", "source", src.Describe(), "rows", ds.Len(), "columns", len(ds.columns), "elapsed", time.Since(start))
	return ds, nil
}

// Load reads a CSV file with a header row.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return ds, nil
}

// Parse reads CSV from r. The first record is the header; blank cells become
// null. Ragged rows are tolerated.
func Parse(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows [][]Value
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}

		row := make([]Value, len(record))
		for i, cell := range record {
			if cell != "" {
				row[i] = String(cell)
			}
		}
		rows = append(rows, row)
	}

	return New(headers, rows), nil
}
