// Package ingestion loads recorded sales data into the sales store.
package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"categoryforecast/internal/domain"
)

// CSV column layout: date, category, amount. A first row whose date
// cell does not parse is treated as a header and skipped.
const csvColumns = 3

// ParseResult holds the outcome of reading one CSV source.
type ParseResult struct {
	Points  []*domain.SalesPoint
	Skipped int      // malformed rows dropped
	Errors  []string // one message per skipped row, capped
}

// maxReportedErrors caps the per-row messages kept in ParseResult so a
// thoroughly broken file cannot balloon memory.
const maxReportedErrors = 20

// ParseCSV reads (date, category, amount) rows. Malformed rows are
// skipped and reported, not fatal: one bad export line should not block
// a backfill.
func ParseCSV(r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // validated per row for better messages
	reader.TrimLeadingSpace = true

	result := &ParseResult{}
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line+1, err)
		}
		line++

		point, err := parseRow(record)
		if err != nil {
			if line == 1 {
				// Header row.
				continue
			}
			result.Skipped++
			if len(result.Errors) < maxReportedErrors {
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			}
			continue
		}
		result.Points = append(result.Points, point)
	}

	return result, nil
}

// ParseCSVFile reads a CSV file from disk.
func ParseCSVFile(path string) (*ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	result, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return result, nil
}

// parseRow converts one CSV record into a sales point.
func parseRow(record []string) (*domain.SalesPoint, error) {
	if len(record) != csvColumns {
		return nil, fmt.Errorf("expected %d columns, got %d", csvColumns, len(record))
	}

	date, err := domain.ParseDay(strings.TrimSpace(record[0]))
	if err != nil {
		return nil, fmt.Errorf("bad date %q: %w", record[0], err)
	}

	category := strings.TrimSpace(record[1])
	if category == "" {
		return nil, fmt.Errorf("empty category")
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return nil, fmt.Errorf("bad amount %q: %w", record[2], err)
	}
	if amount < 0 {
		return nil, fmt.Errorf("negative amount %v", amount)
	}

	return &domain.SalesPoint{Date: date, Category: category, Amount: amount}, nil
}
