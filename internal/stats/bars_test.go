package stats

import (
	"strings"
	"testing"

	"github.com/verte-zerg/hitdash/internal/model"
)

func TestBarChartScalesToPeak(t *testing.T) {
	lines := BarChart([]Bar{
		{Label: "Pop", Value: 10, Note: "10"},
		{Label: "Rock", Value: 5, Note: "5"},
		{Label: "Jazz", Value: 0},
	}, 10)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Pop  │██████████ 10" {
		t.Fatalf("unexpected first bar %q", lines[0])
	}
	if lines[1] != "Rock │█████      5" {
		t.Fatalf("unexpected second bar %q", lines[1])
	}
	if lines[2] != "Jazz │" {
		t.Fatalf("unexpected empty bar %q", lines[2])
	}
}

func TestBarChartTruncatesLongLabels(t *testing.T) {
	long := strings.Repeat("x", 40)
	lines := BarChart([]Bar{{Label: long, Value: 1}}, 4)
	if !strings.Contains(lines[0], "…") {
		t.Fatalf("expected truncated label, got %q", lines[0])
	}
}

func TestGenreAndArtistBars(t *testing.T) {
	genres := GenreBars([]model.GenreCount{{Genre: "Pop", Songs: 3, Percent: 37.5}})
	if genres[0].Note != "3 (37.5%)" {
		t.Fatalf("unexpected genre note %q", genres[0].Note)
	}
	artists := ArtistBars([]model.ArtistStat{{Artist: "Drake", Songs: 4, AvgPopularity: 85.25}})
	if artists[0].Value != 4 || !strings.HasPrefix(artists[0].Note, "4 songs") {
		t.Fatalf("unexpected artist bar %+v", artists[0])
	}
	hist := HistogramBars([]model.HistogramBin{{Start: 80, End: 85, Count: 7}})
	if hist[0].Label != "80.0-85.0" || hist[0].Value != 7 {
		t.Fatalf("unexpected histogram bar %+v", hist[0])
	}
}
