package sed

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/jamesainslie/go-sed/detector"
	"github.com/jamesainslie/go-sed/event"
	"github.com/jamesainslie/go-sed/inference"
)

// AssembleEvents converts framewise scores into per-clip event lists.
//
// For each clip and class, the clip-level score gates detection: classes
// the clipwise head scores below the tagging threshold emit no events.
// Surviving classes run through hysteresis detection and the resulting
// frame intervals become events in seconds. Events of one class never
// overlap; events of different classes may.
func (e *Evaluator) AssembleEvents(out *inference.Output) (map[string][]event.Event, error) {
	if !out.HasFramewise() {
		return nil, fmt.Errorf("sed: output has no framewise scores")
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	if out.Classes() != len(e.cfg.Labels) {
		return nil, fmt.Errorf("%w: %d classes for %d labels", ErrClassCountMismatch, out.Classes(), len(e.cfg.Labels))
	}

	fps := float64(e.cfg.FramesPerSecond)
	byClip := make(map[string][]event.Event, len(out.AudioNames))

	for n, name := range out.AudioNames {
		framewise := out.Framewise[n]
		var events []event.Event

		for k, label := range e.cfg.Labels {
			if out.Clipwise[n][k] < e.taggingThreshold {
				continue
			}

			intervals, err := detector.Detect(classColumn(framewise, k), e.detectorParams)
			if err != nil {
				return nil, fmt.Errorf("clip %s class %s: %w", name, label, err)
			}

			events = append(events, lo.Map(intervals, func(iv detector.Interval, _ int) event.Event {
				return event.Event{
					Label:  label,
					Onset:  float64(iv.Start) / fps,
					Offset: float64(iv.End) / fps,
				}
			})...)
		}

		event.Sort(events)
		byClip[name] = events
	}

	return byClip, nil
}

// classColumn extracts one class's score curve from a frames x classes
// matrix.
func classColumn(framewise [][]float32, class int) []float32 {
	scores := make([]float32, len(framewise))
	for t, frame := range framewise {
		scores[t] = frame[class]
	}
	return scores
}
