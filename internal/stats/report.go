package stats

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/verte-zerg/hitdash/internal/dataset"
	"github.com/verte-zerg/hitdash/internal/filter"
	"github.com/verte-zerg/hitdash/internal/model"
)

// Report gathers every dashboard section for one filtered view.
type Report struct {
	Filter       model.Filter           `json:"filter" yaml:"filter"`
	Overview     model.Overview         `json:"overview" yaml:"overview"`
	Columns      []string               `json:"columns" yaml:"columns"`
	Preview      []model.Song           `json:"preview" yaml:"preview"`
	Describe     []model.FeatureSummary `json:"describe" yaml:"describe"`
	Yearly       []model.YearlyMean     `json:"yearly" yaml:"yearly"`
	Trend        *model.TrendDelta      `json:"trend,omitempty" yaml:"trend,omitempty"`
	Feature      model.Feature          `json:"feature" yaml:"feature"`
	FeatureStats model.FeatureStats     `json:"feature_stats" yaml:"feature_stats"`
	Histogram    []model.HistogramBin   `json:"histogram" yaml:"histogram"`
	Genres       []model.GenreCount     `json:"genres" yaml:"genres"`
	TopArtists   []model.ArtistStat     `json:"top_artists" yaml:"top_artists"`
	TopArtist    *model.ArtistStat      `json:"top_artist,omitempty" yaml:"top_artist,omitempty"`
}

// BuildReport filters ds and computes every section. The filter must name known categories.
// bins <= 0 uses DefaultBins.
func BuildReport(ds *dataset.Dataset, f model.Filter, feature model.Feature, bins int) (Report, error) {
	if err := filter.Check(f, ds.Genres(), ds.Artists()); err != nil {
		return Report{}, fmt.Errorf("failed to apply filter: %w", err)
	}
	view := filter.Apply(ds.View(), f)
	yearly := YearlyMeans(view)
	artists := TopArtists(ArtistStats(view), LeaderboardSize)
	featureStats, _ := FeatureStats(view, feature)

	r := Report{
		Filter:       f,
		Overview:     Summarize(view),
		Columns:      ds.Columns(),
		Preview:      Preview(view, PreviewRows),
		Describe:     Describe(view),
		Yearly:       yearly,
		Feature:      feature,
		FeatureStats: featureStats,
		Histogram:    Histogram(FeatureValues(view, feature), bins),
		Genres:       GenreCounts(view),
		TopArtists:   artists,
	}
	if delta, ok := TrendDeltas(yearly); ok {
		r.Trend = &delta
	}
	if len(artists) > 0 {
		top := artists[0]
		r.TopArtist = &top
	}
	return r, nil
}

// RenderReport writes the non-interactive text form of a report.
func RenderReport(w io.Writer, r Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Filter: years %d-%d, genre %s, artist %s\n\n",
		r.Filter.YearMin, r.Filter.YearMax, r.Filter.Genre, r.Filter.Artist)

	b.WriteString("Dataset Overview\n")
	if err := renderTable(&b, []string{"Total Songs", "Year Range", "Artists", "Genres"}, [][]string{{
		humanize.Comma(int64(r.Overview.TotalSongs)),
		r.Overview.YearRange(),
		strconv.Itoa(r.Overview.Artists),
		strconv.Itoa(r.Overview.Genres),
	}}); err != nil {
		return err
	}
	if r.Overview.TotalSongs == 0 {
		b.WriteString("\nNo songs match the current filters.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}
	fmt.Fprintf(&b, "Features available: %s\n", strings.Join(r.Columns, ", "))

	b.WriteString("\nData Preview\n")
	if err := renderTable(&b, model.SongColumns, SongRows(r.Preview)); err != nil {
		return err
	}

	b.WriteString("\nData Statistics\n")
	if err := renderTable(&b, DescribeHeaders, DescribeRows(r.Describe)); err != nil {
		return err
	}

	b.WriteString("\nYearly Means\n")
	if err := renderTable(&b, YearlyHeaders, YearlyRows(r.Yearly)); err != nil {
		return err
	}
	b.WriteString("\nTrend Insights\n")
	b.WriteString(TrendSummary(r.Trend))
	b.WriteString("\n")

	fmt.Fprintf(&b, "\n%s Distribution\n", r.Feature.Label())
	fmt.Fprintf(&b, "Mean %s  Median %s  Std Dev %s\n",
		FormatOne(r.FeatureStats.Mean), FormatOne(r.FeatureStats.Median), FormatOne(r.FeatureStats.Std))
	for _, line := range BarChart(HistogramBars(r.Histogram), 30) {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\nGenre Distribution\n")
	for _, line := range BarChart(GenreBars(r.Genres), 30) {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\nPopular Artists Leaderboard\n")
	if err := renderTable(&b, ArtistHeaders, ArtistRows(r.TopArtists)); err != nil {
		return err
	}
	if r.TopArtist != nil {
		fmt.Fprintf(&b, "\nMost prolific artist: %s (%d songs, avg popularity %.1f)\n",
			r.TopArtist.Artist, r.TopArtist.Songs, r.TopArtist.AvgPopularity)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(headers)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

// YearlyHeaders are the column titles of YearlyRows.
var YearlyHeaders = []string{"year", "songs", "bpm", "energy", "danceability", "popularity"}

// YearlyRows renders the yearly-mean table with two decimals.
func YearlyRows(yearly []model.YearlyMean) [][]string {
	rows := make([][]string, len(yearly))
	for i, y := range yearly {
		rows[i] = []string{
			strconv.Itoa(y.Year),
			strconv.Itoa(y.Songs),
			FormatFloat(model.Float(y.BPM)),
			FormatFloat(model.Float(y.Energy)),
			FormatFloat(model.Float(y.Danceability)),
			FormatFloat(model.Float(y.Popularity)),
		}
	}
	return rows
}

// ArtistHeaders are the column titles of ArtistRows.
var ArtistHeaders = []string{"Artist", "Number of Songs", "Avg Popularity", "Avg BPM", "Avg Energy", "Avg Danceability"}

// ArtistRows renders leaderboard rows with one decimal.
func ArtistRows(artists []model.ArtistStat) [][]string {
	rows := make([][]string, len(artists))
	for i, a := range artists {
		rows[i] = []string{
			a.Artist,
			strconv.Itoa(a.Songs),
			FormatOne(model.Float(a.AvgPopularity)),
			FormatOne(model.Float(a.AvgBPM)),
			FormatOne(model.Float(a.AvgEnergy)),
			FormatOne(model.Float(a.AvgDanceability)),
		}
	}
	return rows
}

// TrendSummary describes the bpm and energy deltas, or why they are missing.
func TrendSummary(delta *model.TrendDelta) string {
	if delta == nil {
		return "Need at least two years of data to compute trends."
	}
	return fmt.Sprintf("BPM Change %+.1f  Energy Change %+.1f  (%d to %d)",
		delta.BPM, delta.Energy, delta.FirstYear, delta.LastYear)
}

// FormatOne rounds to one decimal for display.
func FormatOne(v model.Float) string {
	if !v.Defined() {
		return "NaN"
	}
	return strconv.FormatFloat(float64(v), 'f', 1, 64)
}
