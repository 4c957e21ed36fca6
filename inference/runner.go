package inference

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Batch is one lazily-produced group of clips from a data split.
// WeakTarget and StrongTarget are optional; when present they must match
// Features in the clip dimension.
type Batch struct {
	AudioNames   []string
	Features     [][][]float32 // clip x frames x mels
	WeakTarget   [][]float32   // clip x classes, optional
	StrongTarget [][][]float32 // clip x frames x classes, optional
}

func (b Batch) validate() error {
	if len(b.Features) != len(b.AudioNames) {
		return fmt.Errorf("inference: %d feature matrices for %d clip names", len(b.Features), len(b.AudioNames))
	}
	if b.WeakTarget != nil && len(b.WeakTarget) != len(b.AudioNames) {
		return fmt.Errorf("inference: %d weak targets for %d clips", len(b.WeakTarget), len(b.AudioNames))
	}
	if b.StrongTarget != nil && len(b.StrongTarget) != len(b.AudioNames) {
		return fmt.Errorf("inference: %d strong targets for %d clips", len(b.StrongTarget), len(b.AudioNames))
	}
	return nil
}

// Output bundles everything a forward pass over a split produced. Clipwise
// scores are always present; the remaining fields are nil when the model or
// the split does not provide them.
type Output struct {
	AudioNames   []string
	Clipwise     [][]float32   // clip x classes
	Framewise    [][][]float32 // clip x frames x classes
	WeakTarget   [][]float32
	StrongTarget [][][]float32
}

// Validate checks the bundle's cross-field shape: every optional per-clip
// field that is present must carry one row per clipwise row. Consumers index
// these fields side by side, so a short field is an input-contract violation,
// not a partial result.
func (o *Output) Validate() error {
	clips := len(o.Clipwise)
	if len(o.AudioNames) != clips {
		return fmt.Errorf("inference: %d clip names for %d clipwise rows", len(o.AudioNames), clips)
	}
	if o.HasWeakTarget() && len(o.WeakTarget) != clips {
		return fmt.Errorf("inference: %d weak target rows for %d clips", len(o.WeakTarget), clips)
	}
	if o.HasStrongTarget() && len(o.StrongTarget) != clips {
		return fmt.Errorf("inference: %d strong target matrices for %d clips", len(o.StrongTarget), clips)
	}
	if o.HasFramewise() && len(o.Framewise) != clips {
		return fmt.Errorf("inference: %d framewise matrices for %d clips", len(o.Framewise), clips)
	}
	return nil
}

// HasWeakTarget reports whether clip-level ground truth is present.
func (o *Output) HasWeakTarget() bool { return len(o.WeakTarget) > 0 }

// HasStrongTarget reports whether frame-level ground truth is present.
func (o *Output) HasStrongTarget() bool { return len(o.StrongTarget) > 0 }

// HasFramewise reports whether the model produced framewise scores.
func (o *Output) HasFramewise() bool { return len(o.Framewise) > 0 }

// Classes returns the number of classes in the clipwise output.
func (o *Output) Classes() int {
	if len(o.Clipwise) == 0 {
		return 0
	}
	return len(o.Clipwise[0])
}

// Forwarder runs a model over a data split. Implemented by Runner; the
// evaluation pipeline accepts the interface so it can be driven without an
// ONNX model in tests.
type Forwarder interface {
	Forward(ctx context.Context, batches []Batch) (*Output, error)
}

// Runner executes forward passes against a session pool. Clips are
// dispatched concurrently up to the pool size; output order always matches
// input order.
type Runner struct {
	pool *Pool
}

// NewRunner creates a Runner over an existing pool.
func NewRunner(pool *Pool) *Runner {
	return &Runner{pool: pool}
}

// Forward runs every clip of every batch through the model and concatenates
// the results. A failed inference aborts the whole pass; the error
// propagates unmodified to the caller.
func (r *Runner) Forward(ctx context.Context, batches []Batch) (*Output, error) {
	out := &Output{}
	for i, b := range batches {
		if err := b.validate(); err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}
		// Target presence must agree across the split, or the
		// concatenated targets would cover only some clips.
		if i > 0 {
			if (b.WeakTarget != nil) != (batches[0].WeakTarget != nil) {
				return nil, fmt.Errorf("batch %d: weak target presence differs from batch 0", i)
			}
			if (b.StrongTarget != nil) != (batches[0].StrongTarget != nil) {
				return nil, fmt.Errorf("batch %d: strong target presence differs from batch 0", i)
			}
		}
		out.AudioNames = append(out.AudioNames, b.AudioNames...)
		out.WeakTarget = append(out.WeakTarget, b.WeakTarget...)
		out.StrongTarget = append(out.StrongTarget, b.StrongTarget...)
	}

	features := make([][][]float32, 0, len(out.AudioNames))
	for _, b := range batches {
		features = append(features, b.Features...)
	}

	clipwise := make([][]float32, len(features))
	framewise := make([][][]float32, len(features))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.pool.Size())

	for i, feats := range features {
		g.Go(func() error {
			session, err := r.pool.Acquire(ctx)
			if err != nil {
				return err
			}
			defer r.pool.Release(session)

			clip, frames, err := session.Infer(ctx, feats)
			if err != nil {
				return fmt.Errorf("clip %s: %w", out.AudioNames[i], err)
			}
			clipwise[i] = clip
			framewise[i] = frames
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.Clipwise = clipwise
	for _, f := range framewise {
		if f != nil {
			out.Framewise = framewise
			break
		}
	}
	return out, nil
}
