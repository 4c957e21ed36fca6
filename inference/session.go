// Package inference provides ONNX Runtime integration for sound event
// classifier models and a forward-pass runner that collects model outputs
// for a data split.
package inference

import (
	"context"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortEnvOnce sync.Once
	ortEnvErr  error
)

// initORT initializes ONNX Runtime environment once.
func initORT() error {
	ortEnvOnce.Do(func() {
		ortEnvErr = ort.InitializeEnvironment()
	})
	return ortEnvErr
}

// Session wraps an ONNX Runtime session for a sound event classifier. The
// model takes a log-mel feature tensor [batch, frames, mels] and produces
// clipwise_output [batch, classes] and, for strongly-supervised models,
// framewise_output [batch, frames, classes].
type Session struct {
	session   *ort.DynamicAdvancedSession
	framewise bool
	mu        sync.Mutex
	closed    bool
}

// NewSession creates a new ONNX session from a model file. When framewise
// is false only the clipwise head is requested, for models trained on weak
// labels only.
func NewSession(modelPath string, framewise bool) (*Session, error) {
	// Check file exists
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	if err := initORT(); err != nil {
		return nil, fmt.Errorf("initializing ONNX runtime: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("creating session options: %w", err)
	}
	defer func() { _ = options.Destroy() }() // Cleanup error doesn't affect success

	inputNames := []string{"input"}
	outputNames := []string{"clipwise_output"}
	if framewise {
		outputNames = append(outputNames, "framewise_output")
	}

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		inputNames,
		outputNames,
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &Session{session: session, framewise: framewise}, nil
}

// Infer runs the model on one clip's feature matrix [frames][mels] and
// returns the clipwise scores and, when the session was opened with the
// framewise head, the framewise score matrix [frames][classes].
func (s *Session) Infer(ctx context.Context, features [][]float32) (clipwise []float32, framewise [][]float32, err error) {
	// Check context before expensive operation
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, nil, fmt.Errorf("session is closed")
	}
	if len(features) == 0 {
		return nil, nil, fmt.Errorf("empty feature matrix")
	}

	frames := int64(len(features))
	mels := int64(len(features[0]))

	flat := make([]float32, 0, frames*mels)
	for _, row := range features {
		if int64(len(row)) != mels {
			return nil, nil, fmt.Errorf("ragged feature matrix: row of %d mels, expected %d", len(row), mels)
		}
		flat = append(flat, row...)
	}

	inputTensor, err := ort.NewTensor(ort.NewShape(1, frames, mels), flat)
	if err != nil {
		return nil, nil, fmt.Errorf("creating input tensor: %w", err)
	}
	defer func() { _ = inputTensor.Destroy() }()

	inputs := []ort.Value{inputTensor}

	// Prepare output slice - nil entries will be allocated by Run
	outputs := []ort.Value{nil}
	if s.framewise {
		outputs = append(outputs, nil)
	}

	if err := s.session.Run(inputs, outputs); err != nil {
		return nil, nil, fmt.Errorf("running inference: %w", err)
	}
	defer func() {
		for _, out := range outputs {
			if out != nil {
				_ = out.Destroy()
			}
		}
	}()

	clipwise, err = tensorRow(outputs[0])
	if err != nil {
		return nil, nil, fmt.Errorf("clipwise output: %w", err)
	}

	if s.framewise {
		framewise, err = tensorMatrix(outputs[1], int(frames))
		if err != nil {
			return nil, nil, fmt.Errorf("framewise output: %w", err)
		}
	}

	return clipwise, framewise, nil
}

// tensorRow copies a [1, n] tensor into a slice.
func tensorRow(v ort.Value) ([]float32, error) {
	t, ok := v.(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type")
	}
	data := t.GetData()
	row := make([]float32, len(data))
	copy(row, data)
	return row, nil
}

// tensorMatrix reshapes a [1, rows, n] tensor into a rows x n matrix.
func tensorMatrix(v ort.Value, rows int) ([][]float32, error) {
	t, ok := v.(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type")
	}
	data := t.GetData()
	if rows <= 0 || len(data)%rows != 0 {
		return nil, fmt.Errorf("tensor of %d values does not divide into %d rows", len(data), rows)
	}
	width := len(data) / rows

	matrix := make([][]float32, rows)
	for i := range matrix {
		row := make([]float32, width)
		copy(row, data[i*width:(i+1)*width])
		matrix[i] = row
	}
	return matrix, nil
}

// Close releases ONNX resources.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	if s.session != nil {
		return s.session.Destroy()
	}
	return nil
}
