package stats

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/verte-zerg/hitdash/internal/model"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, Series{
		Name:    "BPM",
		Values:  []float64{110, 115, 121, 118, 130},
		XLabels: []string{"2015", "2016", "2017", "2018", "2019"},
	}, PlotOptions{Title: "Average BPM Trend", Width: 20, Height: 4, Fill: true})
	if err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1+4+1 {
		t.Fatalf("expected title, 4 rows and an axis line, got %d lines", len(lines))
	}
	if lines[0] != "Average BPM Trend" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if !strings.Contains(lines[1], "130.0") {
		t.Fatalf("expected max label on first row: %q", lines[1])
	}
	if !strings.Contains(lines[4], "110.0") {
		t.Fatalf("expected min label on last row: %q", lines[4])
	}
	axis := lines[5]
	if !strings.Contains(axis, "2015") || !strings.HasSuffix(axis, "2019") {
		t.Fatalf("unexpected x axis %q", axis)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected no color codes for a buffer")
	}
}

func TestPlotSeriesEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, Series{}, PlotOptions{Width: 20}); err != nil {
		t.Fatalf("PlotSeries failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestRenderTrends(t *testing.T) {
	yearly := []model.YearlyMean{
		{Year: 2015, Songs: 3, BPM: 120, Energy: 70, Danceability: 60, Popularity: 80},
		{Year: 2016, Songs: 3, BPM: 125, Energy: 72, Danceability: 61, Popularity: 85},
	}
	var buf bytes.Buffer
	if err := RenderTrends(&buf, yearly, 60, 3, false); err != nil {
		t.Fatalf("RenderTrends failed: %v", err)
	}
	out := buf.String()
	for _, f := range model.Features() {
		if !strings.Contains(out, "Average "+f.Label()+" Trend") {
			t.Fatalf("missing %s chart", f)
		}
	}
}

func TestRenderTrendsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTrends(&buf, nil, 60, 3, false); err != nil {
		t.Fatalf("RenderTrends failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No songs") {
		t.Fatalf("expected empty note, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	axisWidth := axisLabelWidth + utf8.RuneCountInString(axisSeparator)
	if got := PlotWidthFor(80); got != 80-axisWidth {
		t.Fatalf("expected width %d, got %d", 80-axisWidth, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(12); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestResampleSeries(t *testing.T) {
	got := resampleSeries([]float64{0, 10}, 3)
	want := []float64{0, 5, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	got = resampleSeries([]float64{1, 3, 5, 7}, 2)
	if got[0] != 2 || got[1] != 6 {
		t.Fatalf("unexpected downsample %v", got)
	}
}
