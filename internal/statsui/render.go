package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/hitdash/internal/model"
	"github.com/verte-zerg/hitdash/internal/stats"
)

const emptyView = "No songs match the current filters. Press / to edit or r to reset."

func renderOverview(r stats.Report, width int) string {
	cards := []string{
		metricCard("Total Songs", humanize.Comma(int64(r.Overview.TotalSongs))),
		metricCard("Year Range", r.Overview.YearRange()),
		metricCard("Number of Artists", fmt.Sprintf("%d", r.Overview.Artists)),
		metricCard("Number of Genres", fmt.Sprintf("%d", r.Overview.Genres)),
	}
	sections := []string{cardRow(cards, width)}
	if r.Overview.TotalSongs == 0 {
		sections = append(sections, emptyView)
		return strings.Join(sections, "\n\n")
	}

	preview := stats.FormatTable(model.SongColumns, stats.SongRows(r.Preview), map[int]bool{3: true, 4: true, 5: true, 6: true, 7: true, 9: true})
	describe := stats.FormatTable(stats.DescribeHeaders, stats.DescribeRows(r.Describe), numericColumns(len(stats.DescribeHeaders)))
	info := []string{
		fmt.Sprintf("Total records: %s", humanize.Comma(int64(r.Overview.TotalSongs))),
		fmt.Sprintf("Date range: %d - %d", r.Overview.YearMin, r.Overview.YearMax),
		fmt.Sprintf("Features available: %s", strings.Join(r.Columns, ", ")),
	}
	sections = append(sections,
		section("Data Preview", strings.Join(preview, "\n")),
		section("Data Statistics", strings.Join(describe, "\n")),
		section("Dataset Information", strings.Join(info, "\n")),
	)
	return strings.Join(sections, "\n\n")
}

func renderTrends(r stats.Report, width int) string {
	if len(r.Yearly) == 0 {
		return emptyView
	}
	var buf bytes.Buffer
	if err := stats.RenderTrends(&buf, r.Yearly, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render trends: %v", err)
	}
	plots := strings.TrimRight(buf.String(), "\n")

	var insights string
	if r.Trend == nil {
		insights = stats.TrendSummary(nil)
	} else {
		insights = cardRow([]string{
			metricCard("BPM Change", fmt.Sprintf("%+.1f", r.Trend.BPM)),
			metricCard("Energy Change", fmt.Sprintf("%+.1f", r.Trend.Energy)),
			metricCard("Period", fmt.Sprintf("%d-%d", r.Trend.FirstYear, r.Trend.LastYear)),
		}, width)
	}
	return section("Music Feature Trends by Year", plots) + "\n\n" + section("Trend Insights", insights)
}

func renderFeatures(r stats.Report, width int) string {
	if r.Overview.TotalSongs == 0 {
		return emptyView
	}
	fs := r.FeatureStats
	cards := cardRow([]string{
		metricCard("Mean", stats.FormatOne(fs.Mean)),
		metricCard("Median", stats.FormatOne(fs.Median)),
		metricCard("Std Dev", stats.FormatOne(fs.Std)),
	}, width)
	hist := stats.BarChart(stats.HistogramBars(r.Histogram), barWidth(width))
	distribution := fmt.Sprintf("%s Statistics:\n%s\n\n%s",
		r.Feature.Label(), cards, strings.Join(hist, "\n"))

	genreLines := stats.BarChart(stats.GenreBars(r.Genres), barWidth(width))
	stat := make([]string, 0, len(r.Genres))
	for _, g := range r.Genres {
		stat = append(stat, fmt.Sprintf("- %s: %d songs (%.1f%%)", g.Genre, g.Songs, g.Percent))
	}
	genres := strings.Join(genreLines, "\n") + "\n\nGenre Statistics:\n" + strings.Join(stat, "\n")

	return section(fmt.Sprintf("Distribution of %s (f/F to change)", r.Feature.Label()), distribution) +
		"\n\n" + section("Genre Distribution", genres)
}

// renderLeaderboard draws what follows the artist table: the bar chart and insights.
func renderLeaderboard(r stats.Report, selected *model.ArtistStat, width int) string {
	if len(r.TopArtists) == 0 {
		return emptyView
	}
	bars := stats.BarChart(stats.ArtistBars(r.TopArtists), barWidth(width))
	sections := []string{section("Top Artists by Song Count", strings.Join(bars, "\n"))}
	if r.TopArtist != nil {
		sections = append(sections, section("Artist Insights", cardRow([]string{
			metricCard("Most Prolific Artist", r.TopArtist.Artist),
			metricCard("Their Song Count", fmt.Sprintf("%d", r.TopArtist.Songs)),
			metricCard("Avg Popularity", fmt.Sprintf("%.1f", r.TopArtist.AvgPopularity)),
		}, width)))
	}
	if selected != nil {
		sections = append(sections, headerStyle.Render(fmt.Sprintf(
			"Selected: %s  songs=%d  popularity=%.1f  bpm=%.1f  energy=%.1f  danceability=%.1f",
			selected.Artist, selected.Songs, selected.AvgPopularity, selected.AvgBPM,
			selected.AvgEnergy, selected.AvgDanceability)))
	}
	return strings.Join(sections, "\n\n")
}

func section(title, body string) string {
	return sectionStyle.Render(title) + "\n" + body
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

// cardRow lays cards side by side, stacking them on narrow terminals.
func cardRow(cards []string, width int) string {
	if len(cards) == 0 {
		return ""
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if lipgloss.Width(row) <= width {
		return row
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func barWidth(width int) int {
	return max(10, min(50, width-40))
}

func numericColumns(n int) map[int]bool {
	cols := make(map[int]bool, n)
	for i := 1; i < n; i++ {
		cols[i] = true
	}
	return cols
}
