// Package importer implements the bulk import pipeline: spreadsheet rows in,
// enriched items out. Files carry three positional columns (título, estado,
// nota) and one category chosen by the user for the whole file.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one spreadsheet line after parsing, before any item exists.
type Row struct {
	Line      int    `json:"line"`
	Title     string `json:"title"`
	RawStatus string `json:"raw_status"`
	Rating    *int   `json:"rating,omitempty"` // already on the 0-5 scale
}

// ParseFile dispatches on the file extension. Returns the usable rows, one
// message per skipped line, and a fatal error when the file itself is
// unreadable.
func ParseFile(filename string, r io.Reader) ([]Row, []string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx":
		return ParseXLSX(r)
	default:
		return nil, nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
}

// ParseCSV reads the three-column layout. The first line is assumed to be the
// header and discarded.
func ParseCSV(r io.Reader) ([]Row, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	var rows []Row
	var skipped []string
	line := 1

	for {
		line++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		row, reason := buildRow(line, record)
		if reason != "" {
			skipped = append(skipped, reason)
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

// ParseXLSX reads the first sheet of a workbook with the same layout.
func ParseXLSX(r io.Reader) ([]Row, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	var rows []Row
	var skipped []string
	for i, record := range records {
		if i == 0 {
			continue // header
		}
		row, reason := buildRow(i+1, record)
		if reason != "" {
			skipped = append(skipped, reason)
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

func buildRow(line int, record []string) (Row, string) {
	row := Row{Line: line, Title: strings.TrimSpace(cell(record, 0))}
	if row.Title == "" {
		return Row{}, fmt.Sprintf("line %d: skipped, no title", line)
	}
	row.RawStatus = strings.TrimSpace(cell(record, 1))
	row.Rating = parseRating(cell(record, 2))
	return row, ""
}

func cell(record []string, idx int) string {
	if idx < len(record) {
		return record[idx]
	}
	return ""
}

// parseRating reads the nota column. Values above 5 are treated as the
// Spanish school 0-10 scale and halved; anything unparseable is dropped.
func parseRating(raw string) *int {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return nil
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil || score <= 0 {
		return nil
	}
	if score > 5 {
		score = score / 2
	}
	r := int(score + 0.5)
	if r > 5 {
		r = 5
	}
	return &r
}
