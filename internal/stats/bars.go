package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/hitdash/internal/model"
)

// Bar is one labeled row of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Note  string
}

const (
	barFull      = "█"
	minBarWidth  = 4
	maxLabelCols = 18
)

var barEighths = []string{"", "▏", "▎", "▍", "▌", "▋", "▊", "▉"}

// BarChart scales bars to the largest value so that the longest fills width columns.
func BarChart(bars []Bar, width int) []string {
	if len(bars) == 0 {
		return nil
	}
	labelWidth := 0
	peak := 0.0
	for _, b := range bars {
		labelWidth = max(labelWidth, runewidth.StringWidth(b.Label))
		peak = math.Max(peak, b.Value)
	}
	labelWidth = min(labelWidth, maxLabelCols)
	if width < minBarWidth {
		width = minBarWidth
	}

	lines := make([]string, 0, len(bars))
	for _, b := range bars {
		label := runewidth.FillRight(runewidth.Truncate(b.Label, labelWidth, "…"), labelWidth)
		bar := barString(b.Value, peak, width)
		line := fmt.Sprintf("%s │%s", label, runewidth.FillRight(bar, width))
		if b.Note != "" {
			line += " " + b.Note
		}
		lines = append(lines, strings.TrimRight(line, " "))
	}
	return lines
}

func barString(value, peak float64, width int) string {
	if peak <= 0 || value <= 0 {
		return ""
	}
	eighths := int(math.Round(value / peak * float64(width*8)))
	return strings.Repeat(barFull, eighths/8) + barEighths[eighths%8]
}

// HistogramBars labels each bin by its range and notes the bin count.
func HistogramBars(bins []model.HistogramBin) []Bar {
	bars := make([]Bar, len(bins))
	for i, b := range bins {
		bars[i] = Bar{
			Label: fmt.Sprintf("%.1f-%.1f", b.Start, b.End),
			Value: float64(b.Count),
			Note:  fmt.Sprintf("%d", b.Count),
		}
	}
	return bars
}

// GenreBars shows each genre's share of the view.
func GenreBars(genres []model.GenreCount) []Bar {
	bars := make([]Bar, len(genres))
	for i, g := range genres {
		bars[i] = Bar{
			Label: g.Genre,
			Value: float64(g.Songs),
			Note:  fmt.Sprintf("%d (%.1f%%)", g.Songs, g.Percent),
		}
	}
	return bars
}

// ArtistBars shows song counts of the leaderboard.
func ArtistBars(artists []model.ArtistStat) []Bar {
	bars := make([]Bar, len(artists))
	for i, a := range artists {
		bars[i] = Bar{
			Label: a.Artist,
			Value: float64(a.Songs),
			Note:  fmt.Sprintf("%d songs, pop %.1f", a.Songs, a.AvgPopularity),
		}
	}
	return bars
}
