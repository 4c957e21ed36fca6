package metrics

import (
	"math"

	"github.com/jamesainslie/go-sed/event"
)

// EventConfig controls event-based matching tolerance.
type EventConfig struct {
	// Collar is the absolute onset/offset tolerance in seconds.
	Collar float64
	// PercentageOfLength loosens the offset tolerance for long events:
	// the effective offset collar is max(Collar, PercentageOfLength *
	// reference event duration).
	PercentageOfLength float64
}

// DefaultEventConfig returns the standard DCASE tolerances.
func DefaultEventConfig() EventConfig {
	return EventConfig{Collar: 0.2, PercentageOfLength: 0.2}
}

// EventAccumulator counts true/false positives and false negatives of
// onset/offset-matched events, per class, across a corpus.
type EventAccumulator struct {
	labels  []string
	cfg     EventConfig
	byClass map[string]counts
}

// NewEventAccumulator creates an accumulator over the given label
// vocabulary. Events with labels outside the vocabulary are ignored.
func NewEventAccumulator(labels []string, cfg EventConfig) *EventAccumulator {
	return &EventAccumulator{
		labels:  labels,
		cfg:     cfg,
		byClass: make(map[string]counts, len(labels)),
	}
}

// Add accumulates one clip's reference and predicted event lists. Either
// list may be empty; a clip absent from a corpus contributes empty lists.
func (a *EventAccumulator) Add(ref, pred []event.Event) {
	refByClass := event.ByLabel(ref)
	predByClass := event.ByLabel(pred)

	for _, label := range a.labels {
		refEvents := refByClass[label]
		predEvents := predByClass[label]

		tp := a.match(refEvents, predEvents)

		c := a.byClass[label]
		c.tp += tp
		c.fp += len(predEvents) - tp
		c.fn += len(refEvents) - tp
		c.ref += len(refEvents)
		a.byClass[label] = c
	}
}

// match greedily pairs predicted events with unmatched reference events of
// the same class, requiring both onset and offset within tolerance.
func (a *EventAccumulator) match(ref, pred []event.Event) int {
	matched := make([]bool, len(ref))
	tp := 0

	for _, p := range pred {
		for i, r := range ref {
			if matched[i] {
				continue
			}
			if !a.matches(r, p) {
				continue
			}
			matched[i] = true
			tp++
			break
		}
	}
	return tp
}

func (a *EventAccumulator) matches(ref, pred event.Event) bool {
	if math.Abs(pred.Onset-ref.Onset) > a.cfg.Collar {
		return false
	}
	offsetCollar := math.Max(a.cfg.Collar, a.cfg.PercentageOfLength*ref.Duration())
	return math.Abs(pred.Offset-ref.Offset) <= offsetCollar
}

// ClassMetrics returns the finalized per-class scores.
func (a *EventAccumulator) ClassMetrics() map[string]ClassMetrics {
	return classMetrics(a.labels, a.byClass)
}

// ClassWiseAverage finalizes the accumulated counts into class-averaged
// F-measure and error rates.
func (a *EventAccumulator) ClassWiseAverage() ClassWiseAverage {
	return classWiseAverage(a.labels, a.byClass)
}
