// Package dataset assembles generated songs into an immutable table and memoizes it.
package dataset

import (
	"sort"

	"github.com/verte-zerg/hitdash/internal/generator"
	"github.com/verte-zerg/hitdash/internal/model"
)

// Dataset is the generated song table. It is read-only once built.
type Dataset struct {
	params generator.Params
	songs  []model.Song
}

// Build generates a dataset for params.
func Build(params generator.Params) (*Dataset, error) {
	gen, err := generator.New(params)
	if err != nil {
		return nil, err
	}
	return &Dataset{params: gen.Params(), songs: gen.Generate()}, nil
}

// FromSongs wraps an existing song slice. The slice is copied.
func FromSongs(params generator.Params, songs []model.Song) *Dataset {
	return &Dataset{params: params, songs: append([]model.Song(nil), songs...)}
}

// Params returns the generation params.
func (d *Dataset) Params() generator.Params {
	return d.params
}

// Len returns the row count.
func (d *Dataset) Len() int {
	return len(d.songs)
}

// Songs returns a copy of the rows in generation order.
func (d *Dataset) Songs() []model.Song {
	return append([]model.Song(nil), d.songs...)
}

// View returns the rows without copying. Callers must not modify the result.
func (d *Dataset) View() []model.Song {
	return d.songs[:len(d.songs):len(d.songs)]
}

// YearSpan returns the smallest and largest year present.
func (d *Dataset) YearSpan() (minYear, maxYear int, ok bool) {
	if len(d.songs) == 0 {
		return 0, 0, false
	}
	minYear, maxYear = d.songs[0].Year, d.songs[0].Year
	for _, s := range d.songs[1:] {
		if s.Year < minYear {
			minYear = s.Year
		}
		if s.Year > maxYear {
			maxYear = s.Year
		}
	}
	return minYear, maxYear, true
}

// Genres returns the distinct genres, sorted.
func (d *Dataset) Genres() []string {
	return distinct(d.songs, func(s model.Song) string { return s.Genre })
}

// Artists returns the distinct artists, sorted.
func (d *Dataset) Artists() []string {
	return distinct(d.songs, func(s model.Song) string { return s.Artist })
}

// Columns returns the schema column names.
func (d *Dataset) Columns() []string {
	return append([]string(nil), model.SongColumns...)
}

// DefaultFilter is the 2015-onward window clamped to the dataset span, with wildcard selectors.
func (d *Dataset) DefaultFilter() model.Filter {
	minYear, maxYear, ok := d.YearSpan()
	if !ok {
		return model.Filter{Genre: model.Wildcard, Artist: model.Wildcard}
	}
	f := model.Filter{
		YearMin: defaultYearMin,
		YearMax: maxYear,
		Genre:   model.Wildcard,
		Artist:  model.Wildcard,
	}
	if f.YearMin < minYear || f.YearMin > maxYear {
		f.YearMin = minYear
	}
	return f
}

const defaultYearMin = 2015

func distinct(songs []model.Song, key func(model.Song) string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, s := range songs {
		k := key(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
