package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// AveragePrecision computes average precision for one class from continuous
// clip scores against binary targets (any target > 0.5 is a positive).
// Returns NaN when the class has no positive clips.
func AveragePrecision(scores, targets []float32) float64 {
	type sample struct {
		score    float32
		positive bool
	}

	samples := make([]sample, len(scores))
	positives := 0
	for i, s := range scores {
		positive := targets[i] > 0.5
		if positive {
			positives++
		}
		samples[i] = sample{score: s, positive: positive}
	}
	if positives == 0 {
		return math.NaN()
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].score > samples[j].score
	})

	// Step-interpolated AP: sum precision at each positive rank.
	var ap float64
	tp := 0
	for k, s := range samples {
		if !s.positive {
			continue
		}
		tp++
		ap += float64(tp) / float64(k+1)
	}
	return ap / float64(positives)
}

// ClasswiseAveragePrecision computes AveragePrecision for every class of a
// clips-by-classes score matrix.
func ClasswiseAveragePrecision(clipwise, targets [][]float32, classes int) []float64 {
	aps := make([]float64, classes)
	scores := make([]float32, len(clipwise))
	truth := make([]float32, len(clipwise))

	for k := 0; k < classes; k++ {
		for n := range clipwise {
			scores[n] = clipwise[n][k]
			truth[n] = targets[n][k]
		}
		aps[k] = AveragePrecision(scores, truth)
	}
	return aps
}

// MeanAveragePrecision is the mean over classes, skipping classes whose AP
// is undefined (no positive clips). Returns NaN if every class is undefined.
func MeanAveragePrecision(aps []float64) float64 {
	var defined []float64
	for _, ap := range aps {
		if !math.IsNaN(ap) {
			defined = append(defined, ap)
		}
	}
	if len(defined) == 0 {
		return math.NaN()
	}
	return stat.Mean(defined, nil)
}
