// Package stats contains the aggregations, summaries and text rendering of a filtered view.
package stats

import (
	"sort"

	"github.com/verte-zerg/hitdash/internal/model"
)

// PreviewRows is the number of rows shown in the data preview.
const PreviewRows = 10

// LeaderboardSize is the number of artists shown in the leaderboard.
const LeaderboardSize = 10

type featureSums struct {
	count        int
	bpm          float64
	energy       float64
	danceability float64
	popularity   float64
}

func (f *featureSums) add(s model.Song) {
	f.count++
	f.bpm += float64(s.BPM)
	f.energy += float64(s.Energy)
	f.danceability += float64(s.Danceability)
	f.popularity += float64(s.Popularity)
}

func (f *featureSums) mean(sum float64) float64 {
	if f.count == 0 {
		return 0
	}
	return sum / float64(f.count)
}

// YearlyMeans groups songs by year and averages each numeric feature, ascending by year.
func YearlyMeans(songs []model.Song) []model.YearlyMean {
	groups := map[int]*featureSums{}
	for _, s := range songs {
		g, ok := groups[s.Year]
		if !ok {
			g = &featureSums{}
			groups[s.Year] = g
		}
		g.add(s)
	}
	years := make([]int, 0, len(groups))
	for y := range groups {
		years = append(years, y)
	}
	sort.Ints(years)
	out := make([]model.YearlyMean, 0, len(years))
	for _, y := range years {
		g := groups[y]
		out = append(out, model.YearlyMean{
			Year:         y,
			Songs:        g.count,
			BPM:          g.mean(g.bpm),
			Energy:       g.mean(g.energy),
			Danceability: g.mean(g.danceability),
			Popularity:   g.mean(g.popularity),
		})
	}
	return out
}

// ArtistStats groups songs by artist, sorted by song count descending.
// Ties keep the order in which artists first appear in songs.
func ArtistStats(songs []model.Song) []model.ArtistStat {
	index := map[string]int{}
	var names []string
	var groups []*featureSums
	for _, s := range songs {
		i, ok := index[s.Artist]
		if !ok {
			i = len(names)
			index[s.Artist] = i
			names = append(names, s.Artist)
			groups = append(groups, &featureSums{})
		}
		groups[i].add(s)
	}
	out := make([]model.ArtistStat, len(names))
	for i, name := range names {
		g := groups[i]
		out[i] = model.ArtistStat{
			Artist:          name,
			Songs:           g.count,
			AvgPopularity:   g.mean(g.popularity),
			AvgBPM:          g.mean(g.bpm),
			AvgEnergy:       g.mean(g.energy),
			AvgDanceability: g.mean(g.danceability),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Songs > out[j].Songs
	})
	return out
}

// TopArtists returns the first n leaderboard rows.
func TopArtists(stats []model.ArtistStat, n int) []model.ArtistStat {
	if n <= 0 || n > len(stats) {
		n = len(stats)
	}
	return append([]model.ArtistStat{}, stats[:n]...)
}

// GenreCounts counts songs per genre, sorted by count descending with first-seen tie order.
func GenreCounts(songs []model.Song) []model.GenreCount {
	index := map[string]int{}
	var out []model.GenreCount
	for _, s := range songs {
		i, ok := index[s.Genre]
		if !ok {
			i = len(out)
			index[s.Genre] = i
			out = append(out, model.GenreCount{Genre: s.Genre})
		}
		out[i].Songs++
	}
	for i := range out {
		out[i].Percent = float64(out[i].Songs) / float64(len(songs)) * 100
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Songs > out[j].Songs
	})
	if out == nil {
		return []model.GenreCount{}
	}
	return out
}

// Summarize computes the row and distinct counts of a view.
func Summarize(songs []model.Song) model.Overview {
	o := model.Overview{TotalSongs: len(songs)}
	artists := map[string]struct{}{}
	genres := map[string]struct{}{}
	for i, s := range songs {
		if i == 0 || s.Year < o.YearMin {
			o.YearMin = s.Year
		}
		if i == 0 || s.Year > o.YearMax {
			o.YearMax = s.Year
		}
		artists[s.Artist] = struct{}{}
		genres[s.Genre] = struct{}{}
	}
	o.HasYears = len(songs) > 0
	o.Artists = len(artists)
	o.Genres = len(genres)
	return o
}

// Preview returns the first n rows in view order.
func Preview(songs []model.Song, n int) []model.Song {
	if n < 0 || n > len(songs) {
		n = len(songs)
	}
	return append([]model.Song{}, songs[:n]...)
}

// TrendDeltas compares the last and first yearly means. It reports false with fewer than two years.
func TrendDeltas(yearly []model.YearlyMean) (model.TrendDelta, bool) {
	if len(yearly) < 2 {
		return model.TrendDelta{}, false
	}
	first := yearly[0]
	last := yearly[len(yearly)-1]
	return model.TrendDelta{
		FirstYear: first.Year,
		LastYear:  last.Year,
		BPM:       last.BPM - first.BPM,
		Energy:    last.Energy - first.Energy,
	}, true
}

// YearlyFeature extracts one feature column of the yearly-mean table.
func YearlyFeature(yearly []model.YearlyMean, f model.Feature) []float64 {
	out := make([]float64, len(yearly))
	for i, y := range yearly {
		switch f {
		case model.FeatureBPM:
			out[i] = y.BPM
		case model.FeatureEnergy:
			out[i] = y.Energy
		case model.FeatureDanceability:
			out[i] = y.Danceability
		case model.FeaturePopularity:
			out[i] = y.Popularity
		}
	}
	return out
}
