package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/go-sed/event"
)

var testLabels = []string{"speech", "doorslam", "laughter"}

func TestEventAccumulator_PerfectCorpus(t *testing.T) {
	acc := NewEventAccumulator(testLabels, DefaultEventConfig())

	clips := [][]event.Event{
		{
			{Label: "speech", Onset: 0.5, Offset: 2.0},
			{Label: "doorslam", Onset: 3.0, Offset: 3.4},
		},
		{
			{Label: "laughter", Onset: 1.0, Offset: 4.0},
		},
		nil,
	}
	for _, events := range clips {
		acc.Add(events, events)
	}

	avg := acc.ClassWiseAverage()
	assert.InDelta(t, 1.0, avg.FMeasure, 1e-9)
	assert.InDelta(t, 0.0, avg.ErrorRate, 1e-9)
	assert.InDelta(t, 0.0, avg.DeletionRate, 1e-9)
	assert.InDelta(t, 0.0, avg.InsertionRate, 1e-9)
}

func TestEventAccumulator_CollarTolerance(t *testing.T) {
	acc := NewEventAccumulator(testLabels, EventConfig{Collar: 0.2, PercentageOfLength: 0.2})

	ref := []event.Event{{Label: "speech", Onset: 1.0, Offset: 2.0}}

	t.Run("onset within collar matches", func(t *testing.T) {
		a := NewEventAccumulator(testLabels, acc.cfg)
		a.Add(ref, []event.Event{{Label: "speech", Onset: 1.15, Offset: 2.1}})
		m := a.ClassMetrics()["speech"]
		assert.Equal(t, 1, m.TruePositives)
		assert.Equal(t, 0, m.FalsePositives)
	})

	t.Run("onset beyond collar misses", func(t *testing.T) {
		a := NewEventAccumulator(testLabels, acc.cfg)
		a.Add(ref, []event.Event{{Label: "speech", Onset: 1.25, Offset: 2.0}})
		m := a.ClassMetrics()["speech"]
		assert.Equal(t, 0, m.TruePositives)
		assert.Equal(t, 1, m.FalsePositives)
		assert.Equal(t, 1, m.FalseNegatives)
	})

	t.Run("offset collar scales with event length", func(t *testing.T) {
		long := []event.Event{{Label: "speech", Onset: 0.0, Offset: 10.0}}
		// Offset off by 1.5s: outside the 0.2s collar but inside 20%
		// of the 10s reference length.
		a := NewEventAccumulator(testLabels, acc.cfg)
		a.Add(long, []event.Event{{Label: "speech", Onset: 0.1, Offset: 8.5}})
		m := a.ClassMetrics()["speech"]
		assert.Equal(t, 1, m.TruePositives)
	})

	t.Run("label mismatch never matches", func(t *testing.T) {
		a := NewEventAccumulator(testLabels, acc.cfg)
		a.Add(ref, []event.Event{{Label: "doorslam", Onset: 1.0, Offset: 2.0}})
		assert.Equal(t, 0, a.ClassMetrics()["speech"].TruePositives)
		assert.Equal(t, 1, a.ClassMetrics()["speech"].FalseNegatives)
		assert.Equal(t, 1, a.ClassMetrics()["doorslam"].FalsePositives)
	})
}

func TestEventAccumulator_GreedyMatchingOncePerReference(t *testing.T) {
	acc := NewEventAccumulator(testLabels, DefaultEventConfig())

	ref := []event.Event{{Label: "speech", Onset: 1.0, Offset: 2.0}}
	pred := []event.Event{
		{Label: "speech", Onset: 1.0, Offset: 2.0},
		{Label: "speech", Onset: 1.1, Offset: 2.1},
	}
	acc.Add(ref, pred)

	m := acc.ClassMetrics()["speech"]
	assert.Equal(t, 1, m.TruePositives)
	assert.Equal(t, 1, m.FalsePositives)
	assert.Equal(t, 0, m.FalseNegatives)
}

func TestEventAccumulator_ErrorRateDecomposition(t *testing.T) {
	acc := NewEventAccumulator([]string{"speech"}, DefaultEventConfig())

	// Two reference events: one missed, plus one spurious prediction.
	ref := []event.Event{
		{Label: "speech", Onset: 1.0, Offset: 2.0},
		{Label: "speech", Onset: 5.0, Offset: 6.0},
	}
	pred := []event.Event{
		{Label: "speech", Onset: 1.0, Offset: 2.0},
		{Label: "speech", Onset: 8.0, Offset: 9.0},
	}
	acc.Add(ref, pred)

	avg := acc.ClassWiseAverage()
	require.InDelta(t, 0.5, avg.DeletionRate, 1e-9)
	require.InDelta(t, 0.5, avg.InsertionRate, 1e-9)
	require.InDelta(t, 1.0, avg.ErrorRate, 1e-9)
}

func TestEventAccumulator_MissingClipIsEmptyList(t *testing.T) {
	acc := NewEventAccumulator([]string{"speech"}, DefaultEventConfig())

	// Clip present only in prediction: reference resolves to empty.
	acc.Add(nil, []event.Event{{Label: "speech", Onset: 0.0, Offset: 1.0}})

	m := acc.ClassMetrics()["speech"]
	assert.Equal(t, 0, m.TruePositives)
	assert.Equal(t, 1, m.FalsePositives)
	assert.Equal(t, 0, m.FalseNegatives)
}

func TestEventAccumulator_OrderIndependent(t *testing.T) {
	pairs := []struct{ ref, pred []event.Event }{
		{
			ref:  []event.Event{{Label: "speech", Onset: 1, Offset: 2}},
			pred: []event.Event{{Label: "speech", Onset: 1.1, Offset: 2.1}},
		},
		{
			ref:  []event.Event{{Label: "doorslam", Onset: 0, Offset: 0.5}},
			pred: nil,
		},
		{
			ref:  nil,
			pred: []event.Event{{Label: "laughter", Onset: 3, Offset: 4}},
		},
	}

	forward := NewEventAccumulator(testLabels, DefaultEventConfig())
	for _, p := range pairs {
		forward.Add(p.ref, p.pred)
	}
	backward := NewEventAccumulator(testLabels, DefaultEventConfig())
	for i := len(pairs) - 1; i >= 0; i-- {
		backward.Add(pairs[i].ref, pairs[i].pred)
	}

	assert.Equal(t, forward.ClassWiseAverage(), backward.ClassWiseAverage())
}
