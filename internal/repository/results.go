package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"binrec/internal/entity"
)

// Results persists the accumulated output set and seeds a resumed run
// from a previous one's file.
type Results struct {
	path   string
	resume bool
}

func NewResults(path string, resume bool) *Results {
	return &Results{
		path:   path,
		resume: resume,
	}
}

// OutputPath derives the processed-file path from the primary export path:
// "bina-orders.csv" -> "bina-orders-processed.csv".
func OutputPath(primary string) string {
	ext := filepath.Ext(primary)
	return strings.TrimSuffix(primary, ext) + "-processed" + ext
}

func (r *Results) Path() string {
	return r.path
}

// LastResults loads the output file left by a previous run. A missing file
// or disabled resume yields an empty set.
func (r *Results) LastResults(ctx context.Context) ([]entity.OutputRecord, error) {
	if !r.resume {
		return nil, nil
	}

	rows, err := ReadTable(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("load previous results: %w", err)
	}

	records := make([]entity.OutputRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, entity.OutputFromRow(row))
	}
	return records, nil
}

// Store overwrites the output file with the full result set.
func (r *Results) Store(ctx context.Context, records []entity.OutputRecord) error {
	rows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.Row())
	}

	if err := WriteTable(r.path, entity.OutputHeader, rows); err != nil {
		return fmt.Errorf("store results: %w", err)
	}
	return nil
}
