package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var headerGarbage = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// NormalizeHeader turns an export's header cell into a snake_case field
// name: "Date(UTC)" -> "date_utc", "AvgTrading Price" -> "avgtrading_price".
func NormalizeHeader(cell string) string {
	token := headerGarbage.ReplaceAllString(cell, "_")
	return strings.TrimRight(strings.ToLower(token), "_")
}

// ReadTable reads a CSV file into field-name -> raw-value maps, in file
// order. Values are not coerced; everything stays a string.
func ReadTable(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make([]string, len(header))
	for i, cell := range header {
		cols[i] = NormalizeHeader(cell)
	}

	rows := make([]map[string]string, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}

		row := make(map[string]string, len(cols))
		for i, col := range cols {
			row[col] = record[i]
		}
		rows = append(rows, row)
	}
}

// WriteTable writes the rows to path in the given column order. The data
// goes to a temp file first and is renamed over the destination, so an
// interrupted run never leaves a half-written table behind.
func WriteTable(path string, header []string, rows []map[string]string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("create temp table: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			record[i] = row[col]
		}
		if err := writer.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush table: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp table: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace table: %w", err)
	}

	return nil
}
