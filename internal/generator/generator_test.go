package generator

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func fixedParams() Params {
	p := DefaultParams()
	p.Count = CountPolicy{Fixed: 60}
	return p
}

func TestGenerateDeterministic(t *testing.T) {
	g1, err := New(DefaultParams())
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	g2, err := New(DefaultParams())
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	a := g1.Generate()
	b := g2.Generate()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical datasets for the same seed")
	}
	if !reflect.DeepEqual(a, g1.Generate()) {
		t.Fatalf("expected repeated Generate calls to be identical")
	}

	other := DefaultParams()
	other.Seed = 7
	g3, err := New(other)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	if reflect.DeepEqual(a, g3.Generate()) {
		t.Fatalf("expected a different dataset for a different seed")
	}
}

func TestGenerateRespectsRanges(t *testing.T) {
	g, err := New(DefaultParams())
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	songs := g.Generate()
	if len(songs) == 0 {
		t.Fatalf("expected songs")
	}
	genres := map[string]bool{}
	for _, name := range DefaultGenres() {
		genres[name] = true
	}
	artists := map[string]bool{}
	for _, a := range DefaultArtists() {
		artists[a.Name] = true
	}
	ids := map[string]bool{}
	for _, s := range songs {
		if s.BPM < 60 || s.BPM > 200 {
			t.Fatalf("bpm out of range: %+v", s)
		}
		if s.Energy < 30 || s.Energy > 100 {
			t.Fatalf("energy out of range: %+v", s)
		}
		if s.Danceability < 20 || s.Danceability > 99 {
			t.Fatalf("danceability out of range: %+v", s)
		}
		if s.Popularity < 70 || s.Popularity >= 100 {
			t.Fatalf("popularity out of range: %+v", s)
		}
		if s.DurationMs < 180000 || s.DurationMs >= 240000 {
			t.Fatalf("duration out of range: %+v", s)
		}
		if s.Year < 2010 || s.Year > 2019 {
			t.Fatalf("year out of range: %+v", s)
		}
		if !genres[s.Genre] || !artists[s.Artist] {
			t.Fatalf("unexpected category: %+v", s)
		}
		if ids[s.ID] {
			t.Fatalf("duplicate id %s", s.ID)
		}
		ids[s.ID] = true
		if s.Title != "Song_"+s.ID {
			t.Fatalf("unexpected title %q for id %q", s.Title, s.ID)
		}
	}
}

func TestGenerateOrderAndCounts(t *testing.T) {
	g, err := New(DefaultParams())
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	perYear := map[int]int{}
	prevYear := 0
	for _, s := range g.Generate() {
		if s.Year < prevYear {
			t.Fatalf("songs out of year order at %s", s.ID)
		}
		prevYear = s.Year
		perYear[s.Year]++
		if !strings.HasSuffix(s.ID, "_"+strconv.Itoa(perYear[s.Year])) {
			t.Fatalf("unexpected id %s for index %d", s.ID, perYear[s.Year])
		}
	}
	for year, n := range perYear {
		if n < 55 || n >= 65 {
			t.Fatalf("year %d has %d songs, expected [55,65)", year, n)
		}
	}
}

func TestGenerateFixedCountScenario(t *testing.T) {
	g, err := New(fixedParams())
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	songs := g.Generate()
	if len(songs) != 600 {
		t.Fatalf("expected 600 songs, got %d", len(songs))
	}
	if songs[0].ID != "2010_1" || songs[len(songs)-1].ID != "2019_60" {
		t.Fatalf("unexpected first/last ids: %s %s", songs[0].ID, songs[len(songs)-1].ID)
	}
}

func TestNewRejectsBadWeights(t *testing.T) {
	p := DefaultParams()
	p.Artists = []WeightedArtist{{Name: "A", Weight: 0.5}, {Name: "B", Weight: 0.4}}
	_, err := New(p)
	if err == nil {
		t.Fatalf("expected weight sum error")
	}
	if !errors.Is(err, ErrWeightSum) {
		t.Fatalf("expected ErrWeightSum, got %v", err)
	}

	p.UniformArtists = true
	if _, err := New(p); err != nil {
		t.Fatalf("uniform artists should ignore weights: %v", err)
	}
}

func TestNewRejectsBadParams(t *testing.T) {
	cases := map[string]func(*Params){
		"no years":        func(p *Params) { p.Years = nil },
		"duplicate years": func(p *Params) { p.Years = []int{2010, 2010} },
		"empty range":     func(p *Params) { p.Count = CountPolicy{Min: 5, Max: 5} },
		"negative fixed":  func(p *Params) { p.Count = CountPolicy{Fixed: -1} },
		"no genres":       func(p *Params) { p.Genres = nil },
		"no artists":      func(p *Params) { p.Artists = nil },
		"negative weight": func(p *Params) {
			p.Artists = []WeightedArtist{{Name: "A", Weight: 1.5}, {Name: "B", Weight: -0.5}}
		},
	}
	for name, mutate := range cases {
		p := DefaultParams()
		mutate(&p)
		if _, err := New(p); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestNewSortsYears(t *testing.T) {
	p := DefaultParams()
	p.Years = []int{2012, 2010, 2011}
	g, err := New(p)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	songs := g.Generate()
	if songs[0].Year != 2010 || songs[len(songs)-1].Year != 2012 {
		t.Fatalf("expected ascending years, got %d..%d", songs[0].Year, songs[len(songs)-1].Year)
	}
}

func TestSamplerProportions(t *testing.T) {
	artists := DefaultArtists()
	weights := make([]float64, len(artists))
	for i, a := range artists {
		weights[i] = a.Weight
	}
	s, err := NewSampler(weights)
	if err != nil {
		t.Fatalf("new sampler: %v", err)
	}
	rnd := rand.New(rand.NewSource(42))
	const draws = 10000
	counts := make([]int, len(weights))
	for i := 0; i < draws; i++ {
		counts[s.Draw(rnd)]++
	}
	for i, w := range weights {
		got := float64(counts[i]) / draws
		if math.Abs(got-w) > 0.02 {
			t.Fatalf("artist %s: expected %.2f, got %.4f", artists[i].Name, w, got)
		}
	}
}

func TestSamplerSkipsZeroWeights(t *testing.T) {
	s, err := NewSampler([]float64{0, 0.5, 0, 0.5, 0})
	if err != nil {
		t.Fatalf("new sampler: %v", err)
	}
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		idx := s.Draw(rnd)
		if idx != 1 && idx != 3 {
			t.Fatalf("drew zero-weight index %d", idx)
		}
	}
}

func TestParamsKeyDistinguishesPolicies(t *testing.T) {
	a := DefaultParams()
	b := fixedParams()
	if a.Key() == b.Key() {
		t.Fatalf("expected different keys for different count policies")
	}
	if a.Key() != DefaultParams().Key() {
		t.Fatalf("expected stable key")
	}
}

func TestParamsKeyQuotesNames(t *testing.T) {
	a := DefaultParams()
	a.UniformArtists = true
	a.Artists = []WeightedArtist{{Name: "A,B"}}
	b := a
	b.Artists = []WeightedArtist{{Name: "A"}, {Name: "B"}}
	if a.Key() == b.Key() {
		t.Fatalf("expected different keys for artist lists %v and %v", a.Artists, b.Artists)
	}

	c := DefaultParams()
	c.Genres = []string{"Pop,Rock"}
	d := DefaultParams()
	d.Genres = []string{"Pop", "Rock"}
	if c.Key() == d.Key() {
		t.Fatalf("expected different keys for genre lists %v and %v", c.Genres, d.Genres)
	}
}

