// Package sed turns the framewise probability curves of a sound event
// classifier into discrete labeled events and aggregates them into
// standardized detection metrics.
//
// # Quick Start
//
//	ev, err := sed.New("model.onnx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ev.Close()
//
//	stats, err := ev.Evaluate(ctx, batches, "reference.txt", "submission.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("mAP: %.3f\n", stats.MeanAveragePrecision)
//
// # Pipeline
//
// Evaluate runs the model forward pass over the supplied batches, computes
// clipwise average precision against weak targets, and, when frame-level
// targets are present, converts framewise scores to events (hysteresis
// detection with a clip-level gate), writes a submission file, and scores it
// against the reference annotations with event-based and segment-based
// accumulators.
//
// The pipeline itself is synchronous; only the forward pass fans out over
// the internal ONNX session pool, configurable via WithPoolSize.
package sed
