package annotation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/go-sed/event"
)

func TestReadEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.txt")
	content := "clip_001\t0.500\t2.000\tspeech\n" +
		"clip_001\t3.000\t3.400\tdoorslam\n" +
		"clip_002\t1.000\t4.000\tlaughter\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := ReadEvents(path)
	require.NoError(t, err)

	want := map[string][]event.Event{
		"clip_001": {
			{Label: "speech", Onset: 0.5, Offset: 2.0},
			{Label: "doorslam", Onset: 3.0, Offset: 3.4},
		},
		"clip_002": {
			{Label: "laughter", Onset: 1.0, Offset: 4.0},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadEvents() mismatch (-want +got):\n%s", diff)
	}
}

func TestReadEvents_MalformedRows(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad onset", "clip\tnot-a-number\t2.0\tspeech\n"},
		{"bad offset", "clip\t1.0\tnope\tspeech\n"},
		{"offset before onset", "clip\t3.0\t1.0\tspeech\n"},
		{"missing field", "clip\t1.0\tspeech\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.txt")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := ReadEvents(path)
			assert.Error(t, err)
		})
	}
}

func TestWriteSubmission_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submission.txt")

	byClip := map[string][]event.Event{
		"clip_b": {
			{Label: "speech", Onset: 1.5, Offset: 2.25},
		},
		"clip_a": {
			{Label: "doorslam", Onset: 0.75, Offset: 1.0},
			{Label: "speech", Onset: 0.0, Offset: 3.0},
		},
	}

	require.NoError(t, WriteSubmission(path, []string{"clip_a", "clip_b", "clip_empty"}, byClip))

	got, err := ReadEvents(path)
	require.NoError(t, err)

	want := map[string][]event.Event{
		"clip_a": {
			{Label: "speech", Onset: 0.0, Offset: 3.0},
			{Label: "doorslam", Onset: 0.75, Offset: 1.0},
		},
		"clip_b": {
			{Label: "speech", Onset: 1.5, Offset: 2.25},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestClipNames(t *testing.T) {
	byClip := map[string][]event.Event{
		"zebra": nil,
		"alpha": nil,
		"mid":   nil,
	}
	assert.Equal(t, []string{"alpha", "mid", "zebra"}, ClipNames(byClip))
}
