package stats

import (
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"

	"github.com/verte-zerg/hitdash/internal/model"
)

// DefaultBins is the histogram bucket count.
const DefaultBins = 20

// MaxBins bounds user-supplied histogram bucket counts.
const MaxBins = 200

// FeatureValues extracts one feature from every song.
func FeatureValues(songs []model.Song, f model.Feature) []float64 {
	out := make([]float64, len(songs))
	for i, s := range songs {
		out[i] = f.Value(s)
	}
	return out
}

// Describe summarizes every numeric feature: count, mean, sample std, min, quartiles, max.
// An empty view yields zero counts and NaN statistics.
func Describe(songs []model.Song) []model.FeatureSummary {
	out := make([]model.FeatureSummary, 0, len(model.Features()))
	for _, f := range model.Features() {
		out = append(out, describeValues(f, FeatureValues(songs, f)))
	}
	return out
}

func describeValues(f model.Feature, values []float64) model.FeatureSummary {
	sum := model.FeatureSummary{Feature: f, Count: len(values)}
	if len(values) == 0 {
		nan := model.Float(math.NaN())
		sum.Mean, sum.Std, sum.Min, sum.Max = nan, nan, nan, nan
		sum.Q25, sum.Median, sum.Q75 = nan, nan, nan
		return sum
	}
	data := mstats.Float64Data(values)
	mean, _ := mstats.Mean(data)
	minVal, _ := mstats.Min(data)
	maxVal, _ := mstats.Max(data)
	sum.Mean = model.Float(mean)
	sum.Min = model.Float(minVal)
	sum.Max = model.Float(maxVal)
	sum.Std = sampleStd(data)

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	sum.Q25 = model.Float(quantile(sorted, 0.25))
	sum.Median = model.Float(quantile(sorted, 0.5))
	sum.Q75 = model.Float(quantile(sorted, 0.75))
	return sum
}

// FeatureStats returns mean, median and sample std of one feature; false for an empty view.
func FeatureStats(songs []model.Song, f model.Feature) (model.FeatureStats, bool) {
	if len(songs) == 0 {
		nan := model.Float(math.NaN())
		return model.FeatureStats{Feature: f, Mean: nan, Median: nan, Std: nan}, false
	}
	data := mstats.Float64Data(FeatureValues(songs, f))
	mean, _ := mstats.Mean(data)
	median, _ := mstats.Median(data)
	return model.FeatureStats{
		Feature: f,
		Mean:    model.Float(mean),
		Median:  model.Float(median),
		Std:     sampleStd(data),
	}, true
}

// sampleStd is undefined below two values.
func sampleStd(data mstats.Float64Data) model.Float {
	if len(data) < 2 {
		return model.Float(math.NaN())
	}
	std, err := mstats.StandardDeviationSample(data)
	if err != nil {
		return model.Float(math.NaN())
	}
	return model.Float(std)
}

// quantile uses linear interpolation between closest ranks. sorted must be ascending and non-empty.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Histogram buckets values into equal-width bins spanning [min, max]; the last bin is closed.
// A constant input spans [v-0.5, v+0.5]. Empty input yields no bins.
// bins <= 0 uses DefaultBins; bins above MaxBins is capped.
func Histogram(values []float64, bins int) []model.HistogramBin {
	if len(values) == 0 {
		return []model.HistogramBin{}
	}
	if bins <= 0 {
		bins = DefaultBins
	}
	bins = min(bins, MaxBins)
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(bins)
	out := make([]model.HistogramBin, bins)
	for i := range out {
		out[i].Start = lo + float64(i)*width
		out[i].End = lo + float64(i+1)*width
	}
	out[bins-1].End = hi
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[idx].Count++
	}
	return out
}
