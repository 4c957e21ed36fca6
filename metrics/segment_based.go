package metrics

import (
	"math"

	"github.com/jamesainslie/go-sed/event"
)

// DefaultSegmentResolution is the standard bin width in seconds.
const DefaultSegmentResolution = 0.2

// SegmentAccumulator scores detection by agreement over fixed-width time
// bins: a clip's timeline is quantized at the configured resolution and each
// bin is compared per class between reference and prediction.
type SegmentAccumulator struct {
	labels     []string
	resolution float64
	byClass    map[string]counts
}

// NewSegmentAccumulator creates an accumulator with the given bin width in
// seconds. Non-positive resolutions fall back to the default.
func NewSegmentAccumulator(labels []string, resolution float64) *SegmentAccumulator {
	if resolution <= 0 {
		resolution = DefaultSegmentResolution
	}
	return &SegmentAccumulator{
		labels:     labels,
		resolution: resolution,
		byClass:    make(map[string]counts, len(labels)),
	}
}

// Add accumulates one clip. The clip's timeline extends to the latest
// offset present in either list.
func (a *SegmentAccumulator) Add(ref, pred []event.Event) {
	bins := int(math.Ceil(event.MaxOffset(ref, pred) / a.resolution))
	if bins == 0 {
		return
	}

	refByClass := event.ByLabel(ref)
	predByClass := event.ByLabel(pred)

	for _, label := range a.labels {
		refActive := a.quantize(refByClass[label], bins)
		predActive := a.quantize(predByClass[label], bins)

		c := a.byClass[label]
		for i := 0; i < bins; i++ {
			switch {
			case refActive[i] && predActive[i]:
				c.tp++
			case predActive[i]:
				c.fp++
			case refActive[i]:
				c.fn++
			}
			if refActive[i] {
				c.ref++
			}
		}
		a.byClass[label] = c
	}
}

// quantize marks the bins each event covers. A bin counts as active if the
// event overlaps any part of it.
func (a *SegmentAccumulator) quantize(events []event.Event, bins int) []bool {
	active := make([]bool, bins)
	for _, e := range events {
		start := int(math.Floor(e.Onset / a.resolution))
		end := int(math.Ceil(e.Offset / a.resolution))
		if start < 0 {
			start = 0
		}
		if end > bins {
			end = bins
		}
		for i := start; i < end; i++ {
			active[i] = true
		}
	}
	return active
}

// ClassMetrics returns the finalized per-class scores.
func (a *SegmentAccumulator) ClassMetrics() map[string]ClassMetrics {
	return classMetrics(a.labels, a.byClass)
}

// ClassWiseAverage finalizes the accumulated counts into class-averaged
// F-measure and error rates.
func (a *SegmentAccumulator) ClassWiseAverage() ClassWiseAverage {
	return classWiseAverage(a.labels, a.byClass)
}
