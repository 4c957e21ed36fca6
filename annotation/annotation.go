// Package annotation reads and writes event annotation files. The format is
// one event per row, tab-separated: clip name, onset seconds, offset
// seconds, label. Reference files and submission files share the schema so
// they can be compared directly.
package annotation

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/jamesainslie/go-sed/event"
)

// ReadEvents parses an annotation file into a per-clip event map. Rows with
// the wrong field count or unparsable times are input-contract violations
// and fail the whole read.
func ReadEvents(path string) (map[string][]event.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = 4

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	byClip := make(map[string][]event.Event)
	for i, row := range rows {
		onset, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad onset %q: %w", path, i+1, row[1], err)
		}
		offset, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad offset %q: %w", path, i+1, row[2], err)
		}
		if offset < onset {
			return nil, fmt.Errorf("%s row %d: offset %v before onset %v", path, i+1, offset, onset)
		}
		byClip[row[0]] = append(byClip[row[0]], event.Event{
			Label:  row[3],
			Onset:  onset,
			Offset: offset,
		})
	}

	for _, events := range byClip {
		event.Sort(events)
	}
	return byClip, nil
}

// WriteSubmission serializes per-clip events in the annotation row format.
// Clips are written in the order of names; a clip with no events produces no
// rows but is still a valid (empty) prediction.
func WriteSubmission(path string, names []string, byClip map[string][]event.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	w.Comma = '\t'

	for _, name := range names {
		events := append([]event.Event(nil), byClip[name]...)
		event.Sort(events)
		for _, e := range events {
			row := []string{
				name,
				strconv.FormatFloat(e.Onset, 'f', 3, 64),
				strconv.FormatFloat(e.Offset, 'f', 3, 64),
				e.Label,
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Sync()
}

// ClipNames returns the sorted clip identifiers present in an event map.
func ClipNames(byClip map[string][]event.Event) []string {
	names := make([]string, 0, len(byClip))
	for name := range byClip {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
