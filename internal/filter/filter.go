// Package filter narrows a song table by year range, genre and artist.
package filter

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/hitdash/internal/model"
)

// Apply returns the songs that satisfy every predicate of f, in input order.
// The input slice is never modified; an empty result is valid.
func Apply(songs []model.Song, f model.Filter) []model.Song {
	out := make([]model.Song, 0, len(songs))
	for _, s := range songs {
		if Match(s, f) {
			out = append(out, s)
		}
	}
	return out
}

// Match reports whether one song passes f.
func Match(s model.Song, f model.Filter) bool {
	if s.Year < f.YearMin || s.Year > f.YearMax {
		return false
	}
	return f.Genre.Matches(s.Genre) && f.Artist.Matches(s.Artist)
}

// Clamp bounds the year range of f to [minYear, maxYear], keeping min <= max.
func Clamp(f model.Filter, minYear, maxYear int) model.Filter {
	f.YearMin = clampInt(f.YearMin, minYear, maxYear)
	f.YearMax = clampInt(f.YearMax, minYear, maxYear)
	if f.YearMin > f.YearMax {
		f.YearMin, f.YearMax = f.YearMax, f.YearMin
	}
	return f
}

// Check validates that literal selectors name a known genre and artist.
func Check(f model.Filter, genres, artists []string) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if !f.Genre.IsWildcard() && !contains(genres, f.Genre.String()) {
		return fmt.Errorf("unknown genre %q (available: %s)", f.Genre.String(), strings.Join(genres, ", "))
	}
	if !f.Artist.IsWildcard() && !contains(artists, f.Artist.String()) {
		return fmt.Errorf("unknown artist %q", f.Artist.String())
	}
	return nil
}

// Resolve maps a case-insensitive selector onto the canonical category name.
func Resolve(sel model.Selector, options []string) model.Selector {
	if sel.IsWildcard() {
		return model.Wildcard
	}
	value := sel.String()
	for _, opt := range options {
		if strings.EqualFold(opt, value) {
			return model.Selector(opt)
		}
	}
	return model.Selector(value)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
