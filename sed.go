package sed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jamesainslie/go-sed/annotation"
	"github.com/jamesainslie/go-sed/config"
	"github.com/jamesainslie/go-sed/detector"
	"github.com/jamesainslie/go-sed/inference"
	"github.com/jamesainslie/go-sed/metrics"
)

// Statistics is the record one evaluation run produces. AveragePrecision is
// per class in vocabulary order; EventMetrics and SegmentMetrics are nil
// when the split carries no frame-level targets.
type Statistics struct {
	Iteration            int
	AveragePrecision     []float64
	MeanAveragePrecision float64
	EventMetrics         *metrics.ClassWiseAverage
	SegmentMetrics       *metrics.ClassWiseAverage
}

// Evaluator runs the evaluation pipeline: model forward pass, audio tagging
// average precision, event assembly and detection metric aggregation.
type Evaluator struct {
	cfg               config.Config
	detectorParams    detector.Params
	taggingThreshold  float32
	eventConfig       metrics.EventConfig
	segmentResolution float64
	forward           inference.Forwarder
	pool              *inference.Pool
	logger            *slog.Logger
}

// New creates an Evaluator over an ONNX sound event classifier.
func New(modelPath string, opts ...Option) (*Evaluator, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	// Check model file exists
	if _, err := os.Stat(modelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelPath)
		}
		return nil, fmt.Errorf("checking model file: %w", err)
	}

	pool, err := inference.NewPool(modelPath, s.poolSize, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	ev, err := newEvaluator(s, inference.NewRunner(pool))
	if err != nil {
		_ = pool.Close()
		return nil, err
	}
	ev.pool = pool
	return ev, nil
}

// NewWithForwarder creates an Evaluator over a custom forward-pass
// implementation, for models not served through the built-in ONNX runner.
func NewWithForwarder(forward inference.Forwarder, opts ...Option) (*Evaluator, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return newEvaluator(s, forward)
}

func newEvaluator(s settings, forward inference.Forwarder) (*Evaluator, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	if !s.detectorSet {
		s.detectorParams = defaultDetectorParams(s.cfg)
	}
	if err := s.detectorParams.Validate(); err != nil {
		return nil, err
	}

	return &Evaluator{
		cfg:               s.cfg,
		detectorParams:    s.detectorParams,
		taggingThreshold:  s.taggingThreshold,
		eventConfig:       s.eventConfig,
		segmentResolution: s.segmentResolution,
		forward:           forward,
		logger:            s.logger,
	}, nil
}

// Evaluate runs the pipeline over one data split. The forward pass failure
// propagates unmodified; evaluation is idempotent and safely rerunnable
// from the caller's control loop.
//
// When the split has frame-level targets, predicted events are written to
// submissionPath in the annotation row format and scored against the
// reference annotations at referencePath.
func (e *Evaluator) Evaluate(ctx context.Context, batches []inference.Batch, referencePath, submissionPath string) (*Statistics, error) {
	out, err := e.forward.Forward(ctx, batches)
	if err != nil {
		return nil, err
	}
	if out == nil || len(out.Clipwise) == 0 {
		return nil, ErrNoClipwiseOutput
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	if out.Classes() != len(e.cfg.Labels) {
		return nil, fmt.Errorf("%w: %d classes for %d labels", ErrClassCountMismatch, out.Classes(), len(e.cfg.Labels))
	}

	stats := &Statistics{}

	if out.HasWeakTarget() {
		stats.AveragePrecision = metrics.ClasswiseAveragePrecision(out.Clipwise, out.WeakTarget, out.Classes())
		stats.MeanAveragePrecision = metrics.MeanAveragePrecision(stats.AveragePrecision)
		e.logger.Info("audio tagging statistics",
			"clips", len(out.AudioNames),
			"mAP", stats.MeanAveragePrecision)
	}

	if !out.HasStrongTarget() || !out.HasFramewise() {
		return stats, nil
	}

	predicted, err := e.AssembleEvents(out)
	if err != nil {
		return nil, err
	}
	if err := annotation.WriteSubmission(submissionPath, out.AudioNames, predicted); err != nil {
		return nil, fmt.Errorf("writing submission: %w", err)
	}

	reference, err := annotation.ReadEvents(referencePath)
	if err != nil {
		return nil, fmt.Errorf("reading reference: %w", err)
	}
	// Round trip through the submission file, so the scored prediction is
	// exactly what the artifact contains.
	submitted, err := annotation.ReadEvents(submissionPath)
	if err != nil {
		return nil, fmt.Errorf("reading submission back: %w", err)
	}

	eventAcc := metrics.NewEventAccumulator(e.cfg.Labels, e.eventConfig)
	segmentAcc := metrics.NewSegmentAccumulator(e.cfg.Labels, e.segmentResolution)

	// A clip missing from either side contributes an empty list, not an
	// error.
	for _, name := range out.AudioNames {
		eventAcc.Add(reference[name], submitted[name])
		segmentAcc.Add(reference[name], submitted[name])
	}

	eventAvg := eventAcc.ClassWiseAverage()
	segmentAvg := segmentAcc.ClassWiseAverage()
	stats.EventMetrics = &eventAvg
	stats.SegmentMetrics = &segmentAvg

	e.logger.Info("event-based classwise statistics",
		"f_measure", eventAvg.FMeasure,
		"error_rate", eventAvg.ErrorRate,
		"deletion_rate", eventAvg.DeletionRate,
		"insertion_rate", eventAvg.InsertionRate)
	e.logger.Info("segment-based classwise statistics",
		"f_measure", segmentAvg.FMeasure,
		"error_rate", segmentAvg.ErrorRate,
		"deletion_rate", segmentAvg.DeletionRate,
		"insertion_rate", segmentAvg.InsertionRate)

	return stats, nil
}

// Close releases the internal session pool, if any.
func (e *Evaluator) Close() error {
	if e.pool != nil {
		return e.pool.Close()
	}
	return nil
}
