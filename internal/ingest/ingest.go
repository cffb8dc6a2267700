// Package ingest parses channel analytics exports (CSV and XLSX) into
// dashboard rows. Header matching is lenient: exports from different studio
// versions label the same columns differently.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"contentos/internal/models"
)

// ErrNoRows is returned for files with headers but no data.
var ErrNoRows = errors.New("no data rows found")

// ErrNoTitleColumn is returned when no column looks like a video title.
var ErrNoTitleColumn = errors.New("no video title column found")

// ParseCSV reads an analytics CSV export.
func ParseCSV(r io.Reader) ([]models.DashboardData, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // exports often have ragged trailing columns

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return parseRows(records)
}

// ParseXLSX reads the first sheet of an analytics XLSX export.
func ParseXLSX(data []byte) ([]models.DashboardData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoRows
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read XLSX rows: %w", err)
	}
	return parseRows(rows)
}

// Process wraps parsed rows into a DataSource ready to attach to a project.
func Process(rows []models.DashboardData, sourceType models.DataSourceType) models.DataSource {
	return models.DataSource{
		Type:        sourceType,
		RawData:     rows,
		ProcessedAt: time.Now().UTC(),
	}
}

type columnMap struct {
	title       int
	views       int
	ctr         int
	duration    int
	impressions int
	watchTime   int
	avgView     int
}

func parseRows(records [][]string) ([]models.DashboardData, error) {
	if len(records) == 0 {
		return nil, ErrNoRows
	}

	cols := mapColumns(records[0])
	if cols.title < 0 {
		return nil, ErrNoTitleColumn
	}
	if len(records) < 2 {
		return nil, ErrNoRows
	}

	var rows []models.DashboardData
	for _, record := range records[1:] {
		title := cell(record, cols.title)
		if title == "" || strings.EqualFold(title, "total") {
			continue // skip blank rows and the aggregate footer
		}
		rows = append(rows, models.DashboardData{
			VideoTitle:      title,
			Views:           parseInt(cell(record, cols.views)),
			CTR:             parseFloat(cell(record, cols.ctr)),
			Duration:        cell(record, cols.duration),
			Impressions:     parseInt(cell(record, cols.impressions)),
			WatchTime:       parseFloat(cell(record, cols.watchTime)),
			AvgViewDuration: cell(record, cols.avgView),
		})
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}

func mapColumns(header []string) columnMap {
	cols := columnMap{title: -1, views: -1, ctr: -1, duration: -1, impressions: -1, watchTime: -1, avgView: -1}
	for i, raw := range header {
		switch key := normalizeHeader(raw); {
		case cols.title < 0 && (strings.Contains(key, "videotitle") || key == "title" || key == "video" || key == "content"):
			cols.title = i
		case cols.ctr < 0 && strings.Contains(key, "clickthrough"):
			cols.ctr = i
		case cols.ctr < 0 && strings.Contains(key, "ctr"):
			cols.ctr = i
		case cols.avgView < 0 && strings.Contains(key, "average") && strings.Contains(key, "duration"):
			cols.avgView = i
		case cols.avgView < 0 && strings.Contains(key, "avgview"):
			cols.avgView = i
		case cols.watchTime < 0 && strings.Contains(key, "watchtime"):
			cols.watchTime = i
		case cols.impressions < 0 && strings.Contains(key, "impression"):
			cols.impressions = i
		case cols.views < 0 && strings.Contains(key, "view"):
			cols.views = i
		case cols.duration < 0 && strings.Contains(key, "duration"):
			cols.duration = i
		}
	}
	return cols
}

// normalizeHeader lowercases and strips everything but letters and digits,
// so "Impressions click-through rate (%)" matches "clickthrough".
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseInt(s string) int {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	// Some exports format counts as floats ("1234.0").
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func parseFloat(s string) float64 {
	s = strings.TrimSuffix(strings.ReplaceAll(s, ",", ""), "%")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
