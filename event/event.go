// Package event defines the labeled time-interval type shared by the
// assembler, the metric accumulators and annotation I/O. Reference and
// predicted events use the same shape so they compare directly.
package event

import "sort"

// Event is one labeled sound event with onset and offset in seconds.
type Event struct {
	Label  string
	Onset  float64
	Offset float64
}

// Duration returns the event length in seconds.
func (e Event) Duration() float64 {
	return e.Offset - e.Onset
}

// Sort orders events by onset, then offset, then label. Used to make
// serialized event lists deterministic.
func Sort(events []Event) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].Onset != events[j].Onset {
			return events[i].Onset < events[j].Onset
		}
		if events[i].Offset != events[j].Offset {
			return events[i].Offset < events[j].Offset
		}
		return events[i].Label < events[j].Label
	})
}

// ByLabel groups events by their label.
func ByLabel(events []Event) map[string][]Event {
	grouped := make(map[string][]Event)
	for _, e := range events {
		grouped[e.Label] = append(grouped[e.Label], e)
	}
	return grouped
}

// MaxOffset returns the latest offset across all lists, or 0 if all are
// empty. The segment-based accumulator uses it to size a clip's timeline.
func MaxOffset(lists ...[]Event) float64 {
	var max float64
	for _, list := range lists {
		for _, e := range list {
			if e.Offset > max {
				max = e.Offset
			}
		}
	}
	return max
}
