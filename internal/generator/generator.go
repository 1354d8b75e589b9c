// Package generator builds the synthetic song dataset.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/verte-zerg/hitdash/internal/model"
)

// ErrWeightSum is returned when artist weights do not sum to 1.
var ErrWeightSum = errors.New("artist weights must sum to 1")

const weightTolerance = 1e-6

const (
	bpmMin, bpmMax                  = 80, 180
	energyMin, energyMax            = 50, 100
	danceMin, danceMax              = 40, 95
	popularityMin, popularityMax    = 70, 100
	jitterMin, jitterMax            = -10, 10
	durationMin, durationMax        = 180000, 240000
	bpmClampLo, bpmClampHi          = 60, 200
	energyClampLo, energyClampHi    = 30, 100
	danceClampLo, danceClampHi      = 20, 99
	trendYear                       = 2015
	trendBPMBoost, trendEnergyBoost = 10, 5
)

// WeightedArtist is an artist with its sampling probability mass.
type WeightedArtist struct {
	Name   string  `toml:"name"`
	Weight float64 `toml:"weight"`
}

// CountPolicy decides how many songs each year gets.
// Fixed wins when positive; otherwise a count is drawn from [Min, Max) once per year.
type CountPolicy struct {
	Fixed int
	Min   int
	Max   int
}

func (c CountPolicy) String() string {
	if c.Fixed > 0 {
		return fmt.Sprintf("fixed:%d", c.Fixed)
	}
	return fmt.Sprintf("range:%d-%d", c.Min, c.Max)
}

// Params are every input of a generation run.
type Params struct {
	Seed           int64
	Years          []int
	Count          CountPolicy
	Artists        []WeightedArtist
	UniformArtists bool
	Genres         []string
}

// DefaultArtists returns the weighted artist catalog.
func DefaultArtists() []WeightedArtist {
	return []WeightedArtist{
		{Name: "Ed Sheeran", Weight: 0.15},
		{Name: "Taylor Swift", Weight: 0.14},
		{Name: "Drake", Weight: 0.13},
		{Name: "Ariana Grande", Weight: 0.12},
		{Name: "The Weeknd", Weight: 0.11},
		{Name: "Billie Eilish", Weight: 0.08},
		{Name: "Post Malone", Weight: 0.09},
		{Name: "Dua Lipa", Weight: 0.07},
		{Name: "Bruno Mars", Weight: 0.06},
		{Name: "Rihanna", Weight: 0.05},
	}
}

// DefaultGenres returns the genre categories.
func DefaultGenres() []string {
	return []string{"Pop", "Hip-Hop", "R&B", "Electronic", "Rock", "Country"}
}

// YearRange returns the inclusive list of years from start to end.
func YearRange(start, end int) []int {
	if end < start {
		return nil
	}
	years := make([]int, 0, end-start+1)
	for y := start; y <= end; y++ {
		years = append(years, y)
	}
	return years
}

// DefaultParams reproduces the 2010s dataset: seed 42, 55-64 songs per year, weighted artists.
func DefaultParams() Params {
	return Params{
		Seed:    42,
		Years:   YearRange(2010, 2019),
		Count:   CountPolicy{Min: 55, Max: 65},
		Artists: DefaultArtists(),
		Genres:  DefaultGenres(),
	}
}

// Key is a canonical string of the params, used to memoize datasets.
func (p Params) Key() string {
	var b strings.Builder
	b.WriteString("seed=")
	b.WriteString(strconv.FormatInt(p.Seed, 10))
	b.WriteString(";years=")
	for i, y := range p.Years {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(y))
	}
	b.WriteString(";count=")
	b.WriteString(p.Count.String())
	b.WriteString(";artists=")
	for i, a := range p.Artists {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(a.Name))
		if !p.UniformArtists {
			b.WriteByte(':')
			b.WriteString(strconv.FormatFloat(a.Weight, 'g', -1, 64))
		}
	}
	if p.UniformArtists {
		b.WriteString(";uniform")
	}
	b.WriteString(";genres=")
	for i, g := range p.Genres {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(g))
	}
	return b.String()
}

// Generator produces the synthetic dataset for one parameter set.
type Generator struct {
	params  Params
	years   []int
	artists *Sampler
}

// New validates params and returns a Generator.
func New(params Params) (*Generator, error) {
	if len(params.Years) == 0 {
		return nil, fmt.Errorf("at least one year is required")
	}
	years := append([]int(nil), params.Years...)
	sort.Ints(years)
	for i := 1; i < len(years); i++ {
		if years[i] == years[i-1] {
			return nil, fmt.Errorf("duplicate year %d", years[i])
		}
	}
	if err := validateCount(params.Count); err != nil {
		return nil, err
	}
	if len(params.Genres) == 0 {
		return nil, fmt.Errorf("at least one genre is required")
	}
	if len(params.Artists) == 0 {
		return nil, fmt.Errorf("at least one artist is required")
	}
	names := make([]string, len(params.Artists))
	weights := make([]float64, len(params.Artists))
	for i, a := range params.Artists {
		if strings.TrimSpace(a.Name) == "" {
			return nil, fmt.Errorf("artist %d has an empty name", i)
		}
		names[i] = a.Name
		weights[i] = a.Weight
	}
	var sampler *Sampler
	if params.UniformArtists {
		sampler = NewUniformSampler(len(names))
	} else {
		s, err := NewSampler(weights)
		if err != nil {
			return nil, err
		}
		sampler = s
	}
	params.Years = years
	return &Generator{params: params, years: years, artists: sampler}, nil
}

func validateCount(c CountPolicy) error {
	if c.Fixed > 0 {
		return nil
	}
	if c.Fixed < 0 {
		return fmt.Errorf("songs per year must be >= 0")
	}
	if c.Min < 0 {
		return fmt.Errorf("minimum songs per year must be >= 0")
	}
	if c.Max <= c.Min {
		return fmt.Errorf("songs per year range is empty: [%d, %d)", c.Min, c.Max)
	}
	return nil
}

// Params returns the validated params (years sorted).
func (g *Generator) Params() Params {
	return g.params
}

// Generate draws the full dataset. Every call starts from the seed, so repeated calls are identical.
func (g *Generator) Generate() []model.Song {
	rnd := rand.New(rand.NewSource(g.params.Seed))
	var songs []model.Song
	for _, year := range g.years {
		count := g.params.Count.Fixed
		if count <= 0 {
			count = randInt(rnd, g.params.Count.Min, g.params.Count.Max)
		}
		for i := 0; i < count; i++ {
			songs = append(songs, g.drawSong(rnd, year, i+1))
		}
	}
	return songs
}

func (g *Generator) drawSong(rnd *rand.Rand, year, index int) model.Song {
	bpm := randInt(rnd, bpmMin, bpmMax)
	energy := randInt(rnd, energyMin, energyMax)
	dance := randInt(rnd, danceMin, danceMax)
	popularity := randInt(rnd, popularityMin, popularityMax)

	if year >= trendYear {
		bpm += trendBPMBoost
		energy += trendEnergyBoost
	}

	artist := g.params.Artists[g.artists.Draw(rnd)].Name

	// Clamp only after jitter.
	bpm = clamp(bpm+randInt(rnd, jitterMin, jitterMax), bpmClampLo, bpmClampHi)
	energy = clamp(energy+randInt(rnd, jitterMin, jitterMax), energyClampLo, energyClampHi)
	dance = clamp(dance+randInt(rnd, jitterMin, jitterMax), danceClampLo, danceClampHi)

	genre := g.params.Genres[rnd.Intn(len(g.params.Genres))]
	duration := randInt(rnd, durationMin, durationMax)

	id := fmt.Sprintf("%d_%d", year, index)
	return model.Song{
		ID:           id,
		Title:        "Song_" + id,
		Artist:       artist,
		Year:         year,
		BPM:          bpm,
		Energy:       energy,
		Danceability: dance,
		Popularity:   popularity,
		Genre:        genre,
		DurationMs:   duration,
	}
}

// randInt draws uniformly from [lo, hi).
func randInt(rnd *rand.Rand, lo, hi int) int {
	return lo + rnd.Intn(hi-lo)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
