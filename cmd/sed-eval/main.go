package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"

	sed "github.com/jamesainslie/go-sed"
	"github.com/jamesainslie/go-sed/annotation"
	"github.com/jamesainslie/go-sed/config"
	"github.com/jamesainslie/go-sed/event"
	"github.com/jamesainslie/go-sed/metrics"
	"github.com/jamesainslie/go-sed/statlog"
)

func main() {
	var (
		referencePath = flag.String("reference", "", "Path to reference annotation file (required)")
		estimatedPath = flag.String("estimated", "", "Path to estimated annotation file (required)")
		configPath    = flag.String("config", "", "Path to YAML corpus config (labels taken from the files when omitted)")
		collar        = flag.Float64("collar", 0.2, "Event onset/offset tolerance in seconds")
		lengthPct     = flag.Float64("length-pct", 0.2, "Offset tolerance as fraction of reference event length")
		resolution    = flag.Float64("resolution", 0.2, "Segment-based bin width in seconds")
		statsPath     = flag.String("stats", "", "Statistics log to append the result to")
		iteration     = flag.Int("iteration", 0, "Iteration to record in the statistics log")
	)
	flag.Parse()

	if *referencePath == "" || *estimatedPath == "" {
		fmt.Fprintln(os.Stderr, "error: -reference and -estimated required")
		flag.Usage()
		os.Exit(1)
	}

	reference, err := annotation.ReadEvents(*referencePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading reference: %v\n", err)
		os.Exit(1)
	}
	estimated, err := annotation.ReadEvents(*estimatedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading estimated: %v\n", err)
		os.Exit(1)
	}

	labels, err := resolveLabels(*configPath, reference, estimated)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	eventAcc := metrics.NewEventAccumulator(labels, metrics.EventConfig{
		Collar:             *collar,
		PercentageOfLength: *lengthPct,
	})
	segmentAcc := metrics.NewSegmentAccumulator(labels, *resolution)

	names := lo.Uniq(append(annotation.ClipNames(reference), annotation.ClipNames(estimated)...))
	sort.Strings(names)

	for _, name := range names {
		eventAcc.Add(reference[name], estimated[name])
		segmentAcc.Add(reference[name], estimated[name])
	}

	printClassTable("Event-based metrics", labels, eventAcc.ClassMetrics(), eventAcc.ClassWiseAverage())
	fmt.Println()
	printClassTable("Segment-based metrics", labels, segmentAcc.ClassMetrics(), segmentAcc.ClassWiseAverage())

	if *statsPath != "" {
		eventAvg := eventAcc.ClassWiseAverage()
		segmentAvg := segmentAcc.ClassWiseAverage()

		log, err := statlog.New(*statsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error opening statistics log: %v\n", err)
			os.Exit(1)
		}
		err = log.AppendAndDump(*iteration, sed.Statistics{
			EventMetrics:   &eventAvg,
			SegmentMetrics: &segmentAvg,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "error appending statistics: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nAppended iteration %d to %s\n", *iteration, *statsPath)
	}
}

// resolveLabels takes the vocabulary from the config file when given,
// otherwise from the labels present in the annotation files.
func resolveLabels(configPath string, corpora ...map[string][]event.Event) ([]string, error) {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		return cfg.Labels, nil
	}

	seen := make(map[string]bool)
	for _, corpus := range corpora {
		for _, events := range corpus {
			for _, e := range events {
				seen[e.Label] = true
			}
		}
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	if len(labels) == 0 {
		return nil, fmt.Errorf("no labels found in annotation files")
	}
	return labels, nil
}

func printClassTable(title string, labels []string, byClass map[string]metrics.ClassMetrics, avg metrics.ClassWiseAverage) {
	fmt.Println(title)
	fmt.Println(strings.Repeat("-", 64))
	fmt.Printf("%-16s %-8s %-8s %-8s %-8s %-8s\n", "Class", "Prec", "Rec", "F", "ER", "Ins/Del")

	for _, label := range labels {
		m := byClass[label]
		fmt.Printf("%-16s %-8.3f %-8.3f %-8.3f %-8.3f %.2f/%.2f\n",
			label, m.Precision, m.Recall, m.FMeasure, m.ErrorRate,
			m.InsertionRate, m.DeletionRate)
	}

	fmt.Println(strings.Repeat("-", 64))
	fmt.Printf("%-16s %-8s %-8s %-8.3f %-8.3f %.2f/%.2f\n",
		"classwise avg", "", "", avg.FMeasure, avg.ErrorRate,
		avg.InsertionRate, avg.DeletionRate)
}
