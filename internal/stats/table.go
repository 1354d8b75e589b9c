package stats

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/hitdash/internal/model"
)

// FormatTable lays out rows as space-separated columns sized to the widest cell.
// Columns listed in rightAlign are padded on the left.
func FormatTable(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	cols := len(headers)
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, joinCells(headers, widths, rightAlign))
	}
	for _, row := range rows {
		lines = append(lines, joinCells(row, widths, rightAlign))
	}
	return lines
}

func joinCells(row []string, widths []int, rightAlign map[int]bool) string {
	cells := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cells[i] = padCell(cell, width, rightAlign[i])
	}
	return strings.TrimRight(strings.Join(cells, " "), " ")
}

func padCell(value string, width int, right bool) string {
	if right {
		return runewidth.FillLeft(value, width)
	}
	return runewidth.FillRight(value, width)
}

// SongRows renders songs as table cells in schema column order.
func SongRows(songs []model.Song) [][]string {
	rows := make([][]string, len(songs))
	for i, s := range songs {
		rows[i] = []string{
			s.ID,
			s.Title,
			s.Artist,
			strconv.Itoa(s.Year),
			strconv.Itoa(s.BPM),
			strconv.Itoa(s.Energy),
			strconv.Itoa(s.Danceability),
			strconv.Itoa(s.Popularity),
			s.Genre,
			strconv.Itoa(s.DurationMs),
		}
	}
	return rows
}

// DescribeRows renders describe() output with one row per feature, two decimals, "NaN" when undefined.
func DescribeRows(summary []model.FeatureSummary) [][]string {
	rows := make([][]string, len(summary))
	for i, s := range summary {
		rows[i] = []string{
			string(s.Feature),
			strconv.Itoa(s.Count),
			FormatFloat(s.Mean),
			FormatFloat(s.Std),
			FormatFloat(s.Min),
			FormatFloat(s.Q25),
			FormatFloat(s.Median),
			FormatFloat(s.Q75),
			FormatFloat(s.Max),
		}
	}
	return rows
}

// DescribeHeaders are the column titles of DescribeRows.
var DescribeHeaders = []string{"feature", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// FormatFloat rounds to two decimals for display.
func FormatFloat(v model.Float) string {
	if !v.Defined() {
		return "NaN"
	}
	return strconv.FormatFloat(float64(v), 'f', 2, 64)
}
