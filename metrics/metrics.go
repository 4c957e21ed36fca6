// Package metrics implements sound event detection scoring: an event-based
// accumulator (onset/offset matching within a collar), a segment-based
// accumulator (fixed-resolution time bins) and clipwise average precision.
//
// Both accumulators are explicit values folded over a corpus: Add is called
// once per clip with that clip's reference and predicted event lists, and
// ClassWiseAverage finalizes the counts. Aggregation order does not affect
// the result.
package metrics

import "gonum.org/v1/gonum/stat"

// counts holds intermediate per-class totals across a corpus.
type counts struct {
	tp  int
	fp  int
	fn  int
	ref int // reference events (or active segments) seen for this class
}

// ClassMetrics holds finalized scores for a single class.
type ClassMetrics struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	Precision      float64
	Recall         float64
	FMeasure       float64
	ErrorRate      float64
	DeletionRate   float64
	InsertionRate  float64
}

// ClassWiseAverage is the unweighted mean of per-class scores, so rare
// classes count equally with common ones.
type ClassWiseAverage struct {
	FMeasure      float64
	ErrorRate     float64
	DeletionRate  float64
	InsertionRate float64
}

func finalize(c counts) ClassMetrics {
	m := ClassMetrics{
		TruePositives:  c.tp,
		FalsePositives: c.fp,
		FalseNegatives: c.fn,
	}
	if c.tp+c.fp > 0 {
		m.Precision = float64(c.tp) / float64(c.tp+c.fp)
	}
	if c.tp+c.fn > 0 {
		m.Recall = float64(c.tp) / float64(c.tp+c.fn)
	}
	if m.Precision+m.Recall > 0 {
		m.FMeasure = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	if c.ref > 0 {
		m.DeletionRate = float64(c.fn) / float64(c.ref)
		m.InsertionRate = float64(c.fp) / float64(c.ref)
		m.ErrorRate = m.DeletionRate + m.InsertionRate
	}
	return m
}

// classWiseAverage reduces per-class metrics to their unweighted mean.
// Classes with no reference and no predicted activity are excluded, and the
// error rates additionally require at least one reference event, since the
// rate is undefined otherwise.
func classWiseAverage(labels []string, byClass map[string]counts) ClassWiseAverage {
	var fs, ers, dels, inss []float64
	for _, label := range labels {
		c := byClass[label]
		if c.ref == 0 && c.tp+c.fp == 0 {
			continue
		}
		m := finalize(c)
		fs = append(fs, m.FMeasure)
		if c.ref > 0 {
			ers = append(ers, m.ErrorRate)
			dels = append(dels, m.DeletionRate)
			inss = append(inss, m.InsertionRate)
		}
	}

	avg := ClassWiseAverage{}
	if len(fs) > 0 {
		avg.FMeasure = stat.Mean(fs, nil)
	}
	if len(ers) > 0 {
		avg.ErrorRate = stat.Mean(ers, nil)
		avg.DeletionRate = stat.Mean(dels, nil)
		avg.InsertionRate = stat.Mean(inss, nil)
	}
	return avg
}

func classMetrics(labels []string, byClass map[string]counts) map[string]ClassMetrics {
	out := make(map[string]ClassMetrics, len(labels))
	for _, label := range labels {
		out[label] = finalize(byClass[label])
	}
	return out
}
