package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/samber/lo"

	sed "github.com/jamesainslie/go-sed"
	"github.com/jamesainslie/go-sed/metrics"
	"github.com/jamesainslie/go-sed/statlog"
)

func main() {
	statsPath := flag.String("stats", "", "Path to statistics log file (required)")
	flag.Parse()

	if *statsPath == "" {
		fmt.Fprintln(os.Stderr, "error: -stats required")
		flag.Usage()
		os.Exit(1)
	}

	records, err := statlog.Load(*statsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading statistics: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d evaluation runs in %s\n", len(records), *statsPath)
	fmt.Println(strings.Repeat("-", 72))
	fmt.Printf("%-10s %-8s %-12s %-12s %-12s %-12s\n",
		"Iter", "mAP", "Event F", "Event ER", "Segment F", "Segment ER")

	for _, r := range records {
		fmt.Printf("%-10d %-8s %-12s %-12s %-12s %-12s\n",
			r.Iteration,
			formatScore(r.MeanAveragePrecision),
			formatMetric(r.EventMetrics, func(m metrics.ClassWiseAverage) float64 { return m.FMeasure }),
			formatMetric(r.EventMetrics, func(m metrics.ClassWiseAverage) float64 { return m.ErrorRate }),
			formatMetric(r.SegmentMetrics, func(m metrics.ClassWiseAverage) float64 { return m.FMeasure }),
			formatMetric(r.SegmentMetrics, func(m metrics.ClassWiseAverage) float64 { return m.ErrorRate }),
		)
	}

	if len(records) > 0 {
		best := lo.MaxBy(records, func(a, b sed.Statistics) bool {
			return score(a) > score(b)
		})
		fmt.Println(strings.Repeat("-", 72))
		fmt.Printf("Best run: iteration %d (mAP %s)\n", best.Iteration, formatScore(best.MeanAveragePrecision))
	}
}

func score(s sed.Statistics) float64 {
	if math.IsNaN(s.MeanAveragePrecision) {
		return -1
	}
	return s.MeanAveragePrecision
}

func formatScore(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}

func formatMetric(m *metrics.ClassWiseAverage, pick func(metrics.ClassWiseAverage) float64) string {
	if m == nil {
		return "-"
	}
	return fmt.Sprintf("%.3f", pick(*m))
}
