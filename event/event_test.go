package event

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSort(t *testing.T) {
	events := []Event{
		{Label: "speech", Onset: 2.0, Offset: 3.0},
		{Label: "doorslam", Onset: 0.5, Offset: 0.7},
		{Label: "speech", Onset: 0.5, Offset: 0.6},
		{Label: "cough", Onset: 0.5, Offset: 0.6},
	}
	Sort(events)

	want := []Event{
		{Label: "cough", Onset: 0.5, Offset: 0.6},
		{Label: "speech", Onset: 0.5, Offset: 0.6},
		{Label: "doorslam", Onset: 0.5, Offset: 0.7},
		{Label: "speech", Onset: 2.0, Offset: 3.0},
	}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("Sort() mismatch (-want +got):\n%s", diff)
	}
}

func TestByLabel(t *testing.T) {
	events := []Event{
		{Label: "speech", Onset: 0, Offset: 1},
		{Label: "cough", Onset: 2, Offset: 3},
		{Label: "speech", Onset: 4, Offset: 5},
	}
	grouped := ByLabel(events)

	if len(grouped["speech"]) != 2 || len(grouped["cough"]) != 1 {
		t.Errorf("ByLabel() = %v", grouped)
	}
}

func TestMaxOffset(t *testing.T) {
	ref := []Event{{Label: "a", Onset: 0, Offset: 2.5}}
	pred := []Event{{Label: "a", Onset: 1, Offset: 4.0}}

	if got := MaxOffset(ref, pred); got != 4.0 {
		t.Errorf("MaxOffset() = %v, want 4.0", got)
	}
	if got := MaxOffset(nil, nil); got != 0 {
		t.Errorf("MaxOffset(empty) = %v, want 0", got)
	}
}
