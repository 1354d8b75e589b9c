// Package model defines shared data structures.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Song is one generated row of the dataset. Songs are never mutated after generation.
type Song struct {
	ID           string `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	Artist       string `json:"artist" yaml:"artist"`
	Year         int    `json:"year" yaml:"year"`
	BPM          int    `json:"bpm" yaml:"bpm"`
	Energy       int    `json:"energy" yaml:"energy"`
	Danceability int    `json:"danceability" yaml:"danceability"`
	Popularity   int    `json:"popularity" yaml:"popularity"`
	Genre        string `json:"genre" yaml:"genre"`
	DurationMs   int    `json:"duration_ms" yaml:"duration_ms"`
}

// SongColumns lists the dataset schema in column order.
var SongColumns = []string{
	"id", "title", "artist", "year", "bpm", "energy",
	"danceability", "popularity", "genre", "duration_ms",
}

// Wildcard is the selector value meaning "do not filter on this dimension".
const Wildcard = "All"

// Selector is a filter value: either the wildcard or an equality literal.
type Selector string

// IsWildcard reports whether the selector matches everything.
func (s Selector) IsWildcard() bool {
	v := strings.TrimSpace(string(s))
	return v == "" || strings.EqualFold(v, Wildcard)
}

// Matches reports whether value passes the selector.
func (s Selector) Matches(value string) bool {
	if s.IsWildcard() {
		return true
	}
	return strings.TrimSpace(string(s)) == value
}

// String returns the display form, "All" for the wildcard.
func (s Selector) String() string {
	if s.IsWildcard() {
		return Wildcard
	}
	return strings.TrimSpace(string(s))
}

// Filter is the active predicate conjunction over the dataset.
type Filter struct {
	YearMin int      `json:"year_min" yaml:"year_min"`
	YearMax int      `json:"year_max" yaml:"year_max"`
	Genre   Selector `json:"genre" yaml:"genre"`
	Artist  Selector `json:"artist" yaml:"artist"`
}

// Validate checks that the year range is well-formed.
func (f Filter) Validate() error {
	if f.YearMin > f.YearMax {
		return fmt.Errorf("year range is inverted: %d > %d", f.YearMin, f.YearMax)
	}
	return nil
}

// YearlyMean holds the feature means of one year in a filtered view.
type YearlyMean struct {
	Year         int     `json:"year" yaml:"year"`
	Songs        int     `json:"songs" yaml:"songs"`
	BPM          float64 `json:"bpm" yaml:"bpm"`
	Energy       float64 `json:"energy" yaml:"energy"`
	Danceability float64 `json:"danceability" yaml:"danceability"`
	Popularity   float64 `json:"popularity" yaml:"popularity"`
}

// ArtistStat is one leaderboard row.
type ArtistStat struct {
	Artist          string  `json:"artist" yaml:"artist"`
	Songs           int     `json:"songs" yaml:"songs"`
	AvgPopularity   float64 `json:"avg_popularity" yaml:"avg_popularity"`
	AvgBPM          float64 `json:"avg_bpm" yaml:"avg_bpm"`
	AvgEnergy       float64 `json:"avg_energy" yaml:"avg_energy"`
	AvgDanceability float64 `json:"avg_danceability" yaml:"avg_danceability"`
}

// GenreCount is the frequency of one genre in a filtered view.
type GenreCount struct {
	Genre   string  `json:"genre" yaml:"genre"`
	Songs   int     `json:"songs" yaml:"songs"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Float is a statistic that may be undefined. NaN encodes as JSON null.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// Defined reports whether the value is a real number.
func (f Float) Defined() bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// FeatureSummary is a describe() row for one numeric feature.
type FeatureSummary struct {
	Feature Feature `json:"feature" yaml:"feature"`
	Count   int     `json:"count" yaml:"count"`
	Mean    Float   `json:"mean" yaml:"mean"`
	Std     Float   `json:"std" yaml:"std"`
	Min     Float   `json:"min" yaml:"min"`
	Q25     Float   `json:"q25" yaml:"q25"`
	Median  Float   `json:"median" yaml:"median"`
	Q75     Float   `json:"q75" yaml:"q75"`
	Max     Float   `json:"max" yaml:"max"`
}

// FeatureStats is the short summary shown next to a histogram.
type FeatureStats struct {
	Feature Feature `json:"feature" yaml:"feature"`
	Mean    Float   `json:"mean" yaml:"mean"`
	Median  Float   `json:"median" yaml:"median"`
	Std     Float   `json:"std" yaml:"std"`
}

// HistogramBin is one bucket of a feature distribution. End is exclusive except for the last bin.
type HistogramBin struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
	Count int     `json:"count" yaml:"count"`
}

// Overview is the row-count and distinct-count summary of a filtered view.
type Overview struct {
	TotalSongs int  `json:"total_songs" yaml:"total_songs"`
	HasYears   bool `json:"has_years" yaml:"has_years"`
	YearMin    int  `json:"year_min,omitempty" yaml:"year_min,omitempty"`
	YearMax    int  `json:"year_max,omitempty" yaml:"year_max,omitempty"`
	Artists    int  `json:"artists" yaml:"artists"`
	Genres     int  `json:"genres" yaml:"genres"`
}

// YearRange renders the span, or "-" for an empty view.
func (o Overview) YearRange() string {
	if !o.HasYears {
		return "-"
	}
	return fmt.Sprintf("%d-%d", o.YearMin, o.YearMax)
}

// TrendDelta is the change of mean bpm and energy between the first and last year of a view.
type TrendDelta struct {
	FirstYear int     `json:"first_year" yaml:"first_year"`
	LastYear  int     `json:"last_year" yaml:"last_year"`
	BPM       float64 `json:"bpm" yaml:"bpm"`
	Energy    float64 `json:"energy" yaml:"energy"`
}
