// Package config holds the corpus-wide constants the evaluation pipeline
// needs: frame rate, label vocabulary and audio geometry. A Config is built
// once and passed explicitly to the components that need it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes one evaluation corpus.
type Config struct {
	SampleRate      int      `yaml:"sample_rate"`
	FramesPerSecond int      `yaml:"frames_per_second"`
	MelBins         int      `yaml:"mel_bins"`
	AudioDuration   float64  `yaml:"audio_duration"`
	Labels          []string `yaml:"labels"`
}

// Default returns the DCASE 2019 Task 3 style configuration the pipeline
// was developed against.
func Default() Config {
	return Config{
		SampleRate:      32000,
		FramesPerSecond: 100,
		MelBins:         64,
		AudioDuration:   60,
		Labels: []string{
			"knock", "drawer", "clearthroat", "phone", "keysDrop",
			"speech", "keyboard", "pageturn", "cough", "doorslam",
			"laughter",
		},
	}
}

// Load reads a YAML config file. Fields absent from the file keep their
// defaults.
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate checks the constants a detection run depends on.
func (c Config) Validate() error {
	if c.FramesPerSecond <= 0 {
		return fmt.Errorf("config: frames_per_second must be positive, got %d", c.FramesPerSecond)
	}
	if len(c.Labels) == 0 {
		return fmt.Errorf("config: label vocabulary is empty")
	}
	seen := make(map[string]bool, len(c.Labels))
	for _, l := range c.Labels {
		if seen[l] {
			return fmt.Errorf("config: duplicate label %q", l)
		}
		seen[l] = true
	}
	return nil
}
