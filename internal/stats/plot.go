package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/verte-zerg/hitdash/internal/model"
)

// Series is a named run of values plotted against XLabels.
type Series struct {
	Name    string
	Values  []float64
	XLabels []string
}

// PlotOptions controls a braille line chart.
type PlotOptions struct {
	Title      string
	Width      int
	Height     int
	Fill       bool
	ForceColor bool
	Color      int
}

type ansiColor struct {
	name string
	code string
}

const (
	defaultPlotHeight   = 8
	minPlotWidth        = 10
	axisLabelWidth      = 7
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

// One color per trend chart, in feature order.
var colorPalette = []ansiColor{
	{name: "blue", code: "\x1b[34m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "green", code: "\x1b[32m"},
	{name: "red", code: "\x1b[31m"},
	{name: "cyan", code: "\x1b[36m"},
}

// PlotSeries renders one series as a braille line chart with a value axis and first/last x labels.
func PlotSeries(w io.Writer, s Series, opts PlotOptions) error {
	if len(s.Values) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := opts.Width
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	values := resampleSeries(s.Values, width)
	lo, hi := seriesMinMax(s.Values)
	if math.Abs(hi-lo) < 1e-9 {
		lo--
		hi++
	}

	c := newCanvas(width, height)
	dotRows := height * 4
	prevX, prevY := -1, -1
	for x, v := range values {
		px, py := x*2, valueToRow(v, lo, hi, dotRows)
		if prevX >= 0 {
			drawLine(prevX, prevY, px, py, c.set)
		} else {
			c.set(px, py)
		}
		if opts.Fill {
			// Sparse area shading under the line.
			for y := py + 2; y < dotRows; y += 2 {
				c.set(px, y)
			}
		}
		prevX, prevY = px, py
	}

	useColor := shouldUseColor(w, opts.ForceColor)
	color := colorPalette[((opts.Color%len(colorPalette))+len(colorPalette))%len(colorPalette)].code

	if opts.Title != "" {
		if _, err := fmt.Fprintln(w, opts.Title); err != nil {
			return err
		}
	}
	labels := axisLabels(lo, hi, height)
	for y := 0; y < height; y++ {
		var row strings.Builder
		fmt.Fprintf(&row, "%*s%s", axisLabelWidth, labels[y], axisSeparator)
		line := c.row(y)
		if useColor {
			row.WriteString(color)
			row.WriteString(line)
			row.WriteString(colorReset)
		} else {
			row.WriteString(line)
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, xAxisLine(s.XLabels, width)); err != nil {
		return err
	}
	return nil
}

// RenderTrends draws one chart per feature from the yearly-mean table.
func RenderTrends(w io.Writer, yearly []model.YearlyMean, totalWidth, height int, useColor bool) error {
	if len(yearly) == 0 {
		_, err := fmt.Fprintln(w, "No songs match the current filters.")
		return err
	}
	labels := make([]string, len(yearly))
	for i, y := range yearly {
		labels[i] = fmt.Sprintf("%d", y.Year)
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	for i, f := range model.Features() {
		values := YearlyFeature(yearly, f)
		series := Series{Name: f.Label(), Values: values, XLabels: labels}
		title := fmt.Sprintf("Average %s Trend", f.Label())
		if err := PlotSeries(w, series, PlotOptions{
			Title:      title,
			Width:      width,
			Height:     height,
			Fill:       true,
			ForceColor: useColor,
			Color:      i,
		}); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	return nil
}

func autoPlotWidth() int {
	return PlotWidthFor(terminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisLabelWidth - utf8.RuneCountInString(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func axisLabels(lo, hi float64, height int) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = fmt.Sprintf("%.1f", hi)
	if height > 2 {
		labels[height/2] = fmt.Sprintf("%.1f", (lo+hi)/2)
	}
	if height > 1 {
		labels[height-1] = fmt.Sprintf("%.1f", lo)
	}
	return labels
}

func xAxisLine(labels []string, width int) string {
	pad := strings.Repeat(" ", axisLabelWidth+utf8.RuneCountInString(axisSeparator))
	if len(labels) == 0 {
		return pad
	}
	first := labels[0]
	last := labels[len(labels)-1]
	if len(labels) == 1 {
		return pad + first
	}
	gap := width - utf8.RuneCountInString(first) - utf8.RuneCountInString(last)
	if gap < 1 {
		gap = 1
	}
	return pad + first + strings.Repeat(" ", gap) + last
}

// canvas is a grid of braille cells, each holding a 2x4 dot mask.
type canvas struct {
	cells [][]uint8
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return &canvas{cells: cells}
}

func (c *canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cy, cx := y/4, x/2
	if cy >= len(c.cells) || cx >= len(c.cells[cy]) {
		return
	}
	c.cells[cy][cx] |= brailleDotMask(x%2, y%4)
}

func (c *canvas) row(y int) string {
	var b strings.Builder
	for _, mask := range c.cells[y] {
		b.WriteRune(rune(0x2800 + int(mask)))
	}
	return b.String()
}

// resampleSeries stretches or shrinks values to width points; stretching interpolates linearly.
func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case len(values) == width:
		copy(out, values)
	case len(values) > width:
		for i := range out {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(len(values)-1) / float64(width-1)
			idx := int(math.Floor(pos))
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func seriesMinMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func valueToRow(v, lo, hi float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	if row < 0 {
		return 0
	}
	if row >= rows {
		return rows - 1
	}
	return row
}

// drawLine walks Bresenham's line from (x0,y0) to (x1,y1).
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func brailleDotMask(x, y int) uint8 {
	left := [4]uint8{0x01, 0x02, 0x04, 0x40}
	right := [4]uint8{0x08, 0x10, 0x20, 0x80}
	if y < 0 || y > 3 {
		return 0
	}
	if x == 0 {
		return left[y]
	}
	if x == 1 {
		return right[y]
	}
	return 0
}
