package sed

import (
	"log/slog"
	"runtime"

	"github.com/jamesainslie/go-sed/config"
	"github.com/jamesainslie/go-sed/detector"
	"github.com/jamesainslie/go-sed/metrics"
)

// Option configures an Evaluator.
type Option func(*settings)

type settings struct {
	cfg               config.Config
	detectorParams    detector.Params
	detectorSet       bool
	taggingThreshold  float32
	eventConfig       metrics.EventConfig
	segmentResolution float64
	poolSize          int
	logger            *slog.Logger
}

func defaultSettings() settings {
	return settings{
		cfg:               config.Default(),
		taggingThreshold:  0.5,
		eventConfig:       metrics.DefaultEventConfig(),
		segmentResolution: metrics.DefaultSegmentResolution,
		poolSize:          runtime.NumCPU(),
		logger:            slog.Default(),
	}
}

// defaultDetectorParams derives the hysteresis parameters used when none
// are supplied: smoothing and salt windows of a quarter second.
func defaultDetectorParams(cfg config.Config) detector.Params {
	return detector.Params{
		HighThreshold: 0.9,
		LowThreshold:  0.5,
		SmoothWindow:  cfg.FramesPerSecond / 4,
		SaltWindow:    cfg.FramesPerSecond / 4,
	}
}

// WithConfig sets the corpus configuration (default: config.Default()).
func WithConfig(cfg config.Config) Option {
	return func(s *settings) {
		s.cfg = cfg
	}
}

// WithDetectorParams sets the hysteresis detection parameters (default:
// high 0.9, low 0.5, quarter-second smoothing and salt windows).
func WithDetectorParams(p detector.Params) Option {
	return func(s *settings) {
		s.detectorParams = p
		s.detectorSet = true
	}
}

// WithTaggingThreshold sets the clip-level gate: classes whose clipwise
// score falls below it emit no events (default: 0.5).
func WithTaggingThreshold(t float32) Option {
	return func(s *settings) {
		s.taggingThreshold = t
	}
}

// WithEventConfig sets the event-based matching tolerances (default:
// 0.2s collar, 20% of reference length).
func WithEventConfig(cfg metrics.EventConfig) Option {
	return func(s *settings) {
		s.eventConfig = cfg
	}
}

// WithSegmentResolution sets the segment-based bin width in seconds
// (default: 0.2).
func WithSegmentResolution(resolution float64) Option {
	return func(s *settings) {
		if resolution > 0 {
			s.segmentResolution = resolution
		}
	}
}

// WithPoolSize sets the ONNX session pool size (default: runtime.NumCPU()).
func WithPoolSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.poolSize = n
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
