// Package detector converts a framewise probability curve into discrete
// activity intervals using dual-threshold hysteresis.
package detector

import (
	"errors"
	"fmt"
)

// Interval is a half-open frame range [Start, End).
type Interval struct {
	Start int
	End   int
}

// Len returns the interval length in frames.
func (iv Interval) Len() int {
	return iv.End - iv.Start
}

// ErrInvalidParams indicates detection parameters violate their contract.
var ErrInvalidParams = errors.New("detector: invalid parameters")

// Params controls hysteresis detection.
//
// An activity region starts from a frame at or above HighThreshold and
// extends outward while frames stay at or above LowThreshold. Silent gaps
// strictly shorter than SmoothWindow frames are bridged, then regions
// shorter than SaltWindow frames are discarded.
type Params struct {
	HighThreshold float32
	LowThreshold  float32
	SmoothWindow  int
	SaltWindow    int
}

// Validate checks parameter invariants.
func (p Params) Validate() error {
	if p.LowThreshold < 0 || p.HighThreshold > 1 {
		return fmt.Errorf("%w: thresholds must lie in [0, 1], got low=%v high=%v",
			ErrInvalidParams, p.LowThreshold, p.HighThreshold)
	}
	if p.HighThreshold < p.LowThreshold {
		return fmt.Errorf("%w: high threshold %v below low threshold %v",
			ErrInvalidParams, p.HighThreshold, p.LowThreshold)
	}
	if p.SmoothWindow < 0 || p.SaltWindow < 0 {
		return fmt.Errorf("%w: windows must be non-negative, got smooth=%d salt=%d",
			ErrInvalidParams, p.SmoothWindow, p.SaltWindow)
	}
	return nil
}

// Detect returns the activity intervals of scores under p, sorted by start
// and non-overlapping. It is a pure function of its inputs.
func Detect(scores []float32, p Params) ([]Interval, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, nil
	}

	segments := hysteresis(scores, p.HighThreshold, p.LowThreshold)
	segments = smoothGaps(segments, p.SmoothWindow)
	segments = removeSalt(segments, p.SaltWindow)

	return segments, nil
}

// hysteresis returns the maximal runs of the low-threshold mask that contain
// at least one frame crossing the high threshold.
func hysteresis(scores []float32, high, low float32) []Interval {
	var segments []Interval
	start := -1
	crossed := false

	for t, s := range scores {
		if s >= low {
			if start < 0 {
				start = t
			}
			if s >= high {
				crossed = true
			}
			continue
		}
		if start >= 0 {
			if crossed {
				segments = append(segments, Interval{Start: start, End: t})
			}
			start = -1
			crossed = false
		}
	}
	if start >= 0 && crossed {
		segments = append(segments, Interval{Start: start, End: len(scores)})
	}

	return segments
}

// smoothGaps merges adjacent segments whose silent gap is strictly shorter
// than window frames.
func smoothGaps(segments []Interval, window int) []Interval {
	if window <= 0 || len(segments) < 2 {
		return segments
	}

	merged := segments[:1]
	for _, seg := range segments[1:] {
		last := &merged[len(merged)-1]
		if seg.Start-last.End < window {
			last.End = seg.End
			continue
		}
		merged = append(merged, seg)
	}
	return merged
}

// removeSalt drops segments shorter than window frames.
func removeSalt(segments []Interval, window int) []Interval {
	if window <= 0 {
		return segments
	}

	kept := segments[:0]
	for _, seg := range segments {
		if seg.Len() >= window {
			kept = append(kept, seg)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
