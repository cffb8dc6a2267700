package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"contentos/internal/models"
)

const studioExport = `Video title,Views,Impressions,Impressions click-through rate (%),Duration,Watch time (hours),Average view duration
My First Video,"12,345","98,000",5.2%,10:23,420.5,4:12
Second Video,800,15000,3.1,2:05,12.0,1:03
Total,13145,113000,4.9,,432.5,
`

func TestParseCSVStudioExport(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader(studioExport))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (footer skipped), got %d", len(rows))
	}

	first := rows[0]
	if first.VideoTitle != "My First Video" {
		t.Errorf("title = %q", first.VideoTitle)
	}
	if first.Views != 12345 {
		t.Errorf("views = %d, thousands separator not handled", first.Views)
	}
	if first.Impressions != 98000 {
		t.Errorf("impressions = %d", first.Impressions)
	}
	if first.CTR != 5.2 {
		t.Errorf("ctr = %v, percent suffix not handled", first.CTR)
	}
	if first.Duration != "10:23" {
		t.Errorf("duration = %q", first.Duration)
	}
	if first.WatchTime != 420.5 {
		t.Errorf("watch time = %v", first.WatchTime)
	}
	if first.AvgViewDuration != "4:12" {
		t.Errorf("avg view duration = %q", first.AvgViewDuration)
	}
}

func TestParseCSVMinimalHeaders(t *testing.T) {
	csv := "Title,Views,CTR\nShort Clip,42,1.5\n"
	rows, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if rows[0].VideoTitle != "Short Clip" || rows[0].Views != 42 || rows[0].CTR != 1.5 {
		t.Errorf("got %+v", rows[0])
	}
}

func TestParseCSVNoTitleColumn(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("Views,CTR\n10,1.0\n")); err != ErrNoTitleColumn {
		t.Errorf("expected ErrNoTitleColumn, got %v", err)
	}
}

func TestParseCSVHeaderOnly(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("Video title,Views\n")); err != ErrNoRows {
		t.Errorf("expected ErrNoRows, got %v", err)
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Video title", "Views", "Impressions click-through rate (%)"},
		{"Sheet Video", 512, 4.4},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to build sheet: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("failed to write workbook: %v", err)
	}

	parsed, err := ParseXLSX(buf.Bytes())
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(parsed) != 1 {
		t.Fatalf("expected 1 row, got %d", len(parsed))
	}
	if parsed[0].VideoTitle != "Sheet Video" || parsed[0].Views != 512 {
		t.Errorf("got %+v", parsed[0])
	}
	if parsed[0].CTR != 4.4 {
		t.Errorf("ctr = %v", parsed[0].CTR)
	}
}

func TestProcessStampsTime(t *testing.T) {
	rows := []models.DashboardData{{VideoTitle: "x"}}
	ds := Process(rows, models.DataSourceCSV)
	if ds.Type != models.DataSourceCSV {
		t.Errorf("type = %s", ds.Type)
	}
	if ds.ProcessedAt.IsZero() {
		t.Error("processedAt must be stamped")
	}
	if len(ds.RawData) != 1 {
		t.Errorf("rows = %d", len(ds.RawData))
	}
}
