package ingestion

import (
	"strings"
	"testing"

	"categoryforecast/internal/domain"
)

func TestParseCSV_WithHeader(t *testing.T) {
	input := "date,category,amount\n" +
		"2025-01-01,Electronics,100.50\n" +
		"2025-01-01,Books,20\n"

	result, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}

	if len(result.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(result.Points))
	}
	if result.Skipped != 0 {
		t.Errorf("expected no skipped rows, got %d", result.Skipped)
	}

	p := result.Points[0]
	if domain.FormatDay(p.Date) != "2025-01-01" || p.Category != "Electronics" || p.Amount != 100.50 {
		t.Errorf("unexpected first point: %+v", p)
	}
}

func TestParseCSV_WithoutHeader(t *testing.T) {
	input := "2025-01-01,Electronics,100\n2025-01-02,Electronics,200\n"

	result, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(result.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(result.Points))
	}
}

func TestParseCSV_SkipsMalformedRows(t *testing.T) {
	input := "date,category,amount\n" +
		"2025-01-01,Electronics,100\n" +
		"not-a-date,Electronics,50\n" +
		"2025-01-02,,50\n" +
		"2025-01-03,Books,abc\n" +
		"2025-01-04,Books,-5\n" +
		"2025-01-05,Books,42\n"

	result, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}

	if len(result.Points) != 2 {
		t.Errorf("expected 2 valid points, got %d", len(result.Points))
	}
	if result.Skipped != 4 {
		t.Errorf("expected 4 skipped rows, got %d", result.Skipped)
	}
	if len(result.Errors) != 4 {
		t.Errorf("expected 4 error messages, got %d", len(result.Errors))
	}
}

func TestParseCSV_WrongColumnCount(t *testing.T) {
	input := "2025-01-01,Electronics\n2025-01-02,Books,10,extra\n"

	result, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(result.Points) != 0 {
		t.Errorf("expected no points, got %d", len(result.Points))
	}
	// First malformed row counts as a header; the second is skipped.
	if result.Skipped != 1 {
		t.Errorf("expected 1 skipped row, got %d", result.Skipped)
	}
}

func TestParseCSV_Empty(t *testing.T) {
	result, err := ParseCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(result.Points) != 0 || result.Skipped != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}
