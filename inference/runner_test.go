package inference

import (
	"context"
	"testing"
)

func TestBatch_Validate(t *testing.T) {
	tests := []struct {
		name    string
		batch   Batch
		wantErr bool
	}{
		{
			name: "consistent",
			batch: Batch{
				AudioNames: []string{"a", "b"},
				Features:   [][][]float32{{{0}}, {{0}}},
				WeakTarget: [][]float32{{1}, {0}},
			},
			wantErr: false,
		},
		{
			name: "targets optional",
			batch: Batch{
				AudioNames: []string{"a"},
				Features:   [][][]float32{{{0}}},
			},
			wantErr: false,
		},
		{
			name: "feature count mismatch",
			batch: Batch{
				AudioNames: []string{"a", "b"},
				Features:   [][][]float32{{{0}}},
			},
			wantErr: true,
		},
		{
			name: "weak target count mismatch",
			batch: Batch{
				AudioNames: []string{"a"},
				Features:   [][][]float32{{{0}}},
				WeakTarget: [][]float32{{1}, {0}},
			},
			wantErr: true,
		},
		{
			name: "strong target count mismatch",
			batch: Batch{
				AudioNames:   []string{"a"},
				Features:     [][][]float32{{{0}}},
				StrongTarget: [][][]float32{{{1}}, {{0}}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.batch.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOutput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		out     Output
		wantErr bool
	}{
		{
			name: "consistent",
			out: Output{
				AudioNames: []string{"a", "b"},
				Clipwise:   [][]float32{{0.1}, {0.9}},
				WeakTarget: [][]float32{{1}, {0}},
			},
			wantErr: false,
		},
		{
			name: "optional fields absent",
			out: Output{
				AudioNames: []string{"a"},
				Clipwise:   [][]float32{{0.1}},
			},
			wantErr: false,
		},
		{
			name: "name count mismatch",
			out: Output{
				AudioNames: []string{"a", "b"},
				Clipwise:   [][]float32{{0.1}},
			},
			wantErr: true,
		},
		{
			name: "short weak target",
			out: Output{
				AudioNames: []string{"a", "b"},
				Clipwise:   [][]float32{{0.1}, {0.9}},
				WeakTarget: [][]float32{{1}},
			},
			wantErr: true,
		},
		{
			name: "short strong target",
			out: Output{
				AudioNames:   []string{"a", "b"},
				Clipwise:     [][]float32{{0.1}, {0.9}},
				StrongTarget: [][][]float32{{{1}}},
			},
			wantErr: true,
		},
		{
			name: "short framewise",
			out: Output{
				AudioNames: []string{"a", "b"},
				Clipwise:   [][]float32{{0.1}, {0.9}},
				Framewise:  [][][]float32{{{0.1}}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.out.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunner_Forward_MixedTargetPresence(t *testing.T) {
	// Only some batches carry targets: concatenating them would produce
	// targets covering a fraction of the clips, so Forward must refuse.
	// Validation fails before any session is acquired.
	batches := []Batch{
		{
			AudioNames: []string{"a"},
			Features:   [][][]float32{{{0}}},
			WeakTarget: [][]float32{{1}},
		},
		{
			AudioNames: []string{"b"},
			Features:   [][][]float32{{{0}}},
		},
	}

	if _, err := NewRunner(nil).Forward(context.Background(), batches); err == nil {
		t.Error("expected error for mixed weak target presence")
	}

	batches[1].WeakTarget = [][]float32{{0}}
	batches[0].StrongTarget = [][][]float32{{{1}}}
	if _, err := NewRunner(nil).Forward(context.Background(), batches); err == nil {
		t.Error("expected error for mixed strong target presence")
	}
}

func TestOutput_Presence(t *testing.T) {
	out := &Output{
		AudioNames: []string{"a"},
		Clipwise:   [][]float32{{0.1, 0.9}},
	}

	if out.HasWeakTarget() || out.HasStrongTarget() || out.HasFramewise() {
		t.Error("empty optional fields reported as present")
	}
	if out.Classes() != 2 {
		t.Errorf("Classes() = %d, want 2", out.Classes())
	}

	out.WeakTarget = [][]float32{{0, 1}}
	out.Framewise = [][][]float32{{{0.1, 0.9}}}
	if !out.HasWeakTarget() || !out.HasFramewise() {
		t.Error("populated optional fields reported as absent")
	}
}

func TestRunner_Forward(t *testing.T) {
	skipIfNoModel(t)

	pool, err := NewPool(testModelPath, 2, true)
	if err != nil {
		t.Fatalf("NewPool failed: %v", err)
	}
	defer func() { _ = pool.Close() }()

	features := func() [][]float32 {
		m := make([][]float32, 100)
		for i := range m {
			m[i] = make([]float32, 64)
		}
		return m
	}

	batches := []Batch{
		{AudioNames: []string{"a", "b"}, Features: [][][]float32{features(), features()}},
		{AudioNames: []string{"c"}, Features: [][][]float32{features()}},
	}

	out, err := NewRunner(pool).Forward(context.Background(), batches)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	if got, want := len(out.AudioNames), 3; got != want {
		t.Fatalf("got %d clips, want %d", got, want)
	}
	if out.AudioNames[0] != "a" || out.AudioNames[2] != "c" {
		t.Errorf("clip order not preserved: %v", out.AudioNames)
	}
	if len(out.Clipwise) != 3 {
		t.Errorf("got %d clipwise rows, want 3", len(out.Clipwise))
	}
}
