package stats

import (
	"math"
	"testing"

	"github.com/verte-zerg/hitdash/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Artist", "Songs", "Avg"}
	rows := [][]string{
		{"Drake", "12", "85.5"},
		{"Beyoncé", "3", "90.1"},
	}
	lines := FormatTable(headers, rows, map[int]bool{1: true, 2: true})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Artist  Songs  Avg" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Drake      12 85.5" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Beyoncé     3 90.1" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := FormatTable([]string{"a", "b"}, [][]string{{"日本", "x"}}, nil)
	if lines[0] != "a    b" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "日本 x" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}

func TestDescribeRowsFormatsNaN(t *testing.T) {
	rows := DescribeRows([]model.FeatureSummary{{
		Feature: model.FeatureBPM,
		Count:   1,
		Mean:    120,
		Std:     model.Float(math.NaN()),
		Min:     120, Q25: 120, Median: 120, Q75: 120, Max: 120,
	}})
	if rows[0][2] != "120.00" {
		t.Fatalf("unexpected mean cell %q", rows[0][2])
	}
	if rows[0][3] != "NaN" {
		t.Fatalf("expected NaN std, got %q", rows[0][3])
	}
}
