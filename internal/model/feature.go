package model

import (
	"fmt"
	"strings"
)

// Feature names one numeric song attribute.
type Feature string

const (
	FeatureBPM          Feature = "bpm"
	FeatureEnergy       Feature = "energy"
	FeatureDanceability Feature = "danceability"
	FeaturePopularity   Feature = "popularity"
)

// Features returns the numeric features in display order.
func Features() []Feature {
	return []Feature{FeatureBPM, FeatureEnergy, FeatureDanceability, FeaturePopularity}
}

// ParseFeature resolves a feature name case-insensitively.
func ParseFeature(name string) (Feature, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, f := range Features() {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown feature %q (use bpm, energy, danceability or popularity)", name)
}

// Value extracts the feature from a song.
func (f Feature) Value(s Song) float64 {
	switch f {
	case FeatureBPM:
		return float64(s.BPM)
	case FeatureEnergy:
		return float64(s.Energy)
	case FeatureDanceability:
		return float64(s.Danceability)
	case FeaturePopularity:
		return float64(s.Popularity)
	default:
		return 0
	}
}

// Label is the human title of the feature.
func (f Feature) Label() string {
	switch f {
	case FeatureBPM:
		return "BPM"
	case FeatureEnergy:
		return "Energy"
	case FeatureDanceability:
		return "Danceability"
	case FeaturePopularity:
		return "Popularity"
	default:
		return string(f)
	}
}

// Next cycles to the following feature, wrapping around.
func (f Feature) Next(delta int) Feature {
	all := Features()
	idx := 0
	for i, candidate := range all {
		if candidate == f {
			idx = i
			break
		}
	}
	idx = (idx + delta) % len(all)
	if idx < 0 {
		idx += len(all)
	}
	return all[idx]
}
