//go:build ignore

// Generate a synthetic annotation corpus for exercising the scorer: a
// reference file and an estimated file where each predicted event carries
// onset/offset jitter and a fraction of events is dropped or inserted.
// Usage: go run ./scripts/gen-corpus.go -out testdata/synthetic
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/jamesainslie/go-sed/annotation"
	"github.com/jamesainslie/go-sed/config"
	"github.com/jamesainslie/go-sed/event"
)

func main() {
	var (
		outDir   = flag.String("out", "testdata/synthetic", "Output directory")
		clips    = flag.Int("clips", 50, "Number of clips")
		perClip  = flag.Int("events", 6, "Mean events per clip")
		jitter   = flag.Float64("jitter", 0.1, "Onset/offset jitter stddev in seconds")
		dropRate = flag.Float64("drop", 0.1, "Fraction of reference events missing from the estimate")
		seed     = flag.Int64("seed", 1, "Random seed")
	)
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	cfg := config.Default()

	reference := make(map[string][]event.Event)
	estimated := make(map[string][]event.Event)
	names := make([]string, 0, *clips)

	for c := 0; c < *clips; c++ {
		name := fmt.Sprintf("clip_%03d", c)
		names = append(names, name)

		n := 1 + rng.Intn(*perClip*2-1)
		for i := 0; i < n; i++ {
			label := cfg.Labels[rng.Intn(len(cfg.Labels))]
			onset := rng.Float64() * (cfg.AudioDuration - 2)
			offset := onset + 0.3 + rng.Float64()*1.5

			reference[name] = append(reference[name], event.Event{
				Label: label, Onset: onset, Offset: offset,
			})

			if rng.Float64() < *dropRate {
				continue // deletion
			}
			estOnset := clamp(onset+rng.NormFloat64()**jitter, 0, cfg.AudioDuration)
			estOffset := clamp(offset+rng.NormFloat64()**jitter, 0, cfg.AudioDuration)
			if estOffset < estOnset {
				estOnset, estOffset = estOffset, estOnset
			}
			estimated[name] = append(estimated[name], event.Event{
				Label: label, Onset: estOnset, Offset: estOffset,
			})
		}

		// Occasional spurious event.
		if rng.Float64() < *dropRate {
			onset := rng.Float64() * (cfg.AudioDuration - 1)
			estimated[name] = append(estimated[name], event.Event{
				Label:  cfg.Labels[rng.Intn(len(cfg.Labels))],
				Onset:  onset,
				Offset: onset + 0.5,
			})
		}
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	refPath := filepath.Join(*outDir, "reference.txt")
	estPath := filepath.Join(*outDir, "estimated.txt")
	if err := annotation.WriteSubmission(refPath, names, reference); err != nil {
		fmt.Fprintf(os.Stderr, "error writing reference: %v\n", err)
		os.Exit(1)
	}
	if err := annotation.WriteSubmission(estPath, names, estimated); err != nil {
		fmt.Fprintf(os.Stderr, "error writing estimate: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d clips to %s and %s\n", len(names), refPath, estPath)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
