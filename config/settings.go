// Package config provides configuration structures for the numeral engine.
// It defines the tunable thresholds of the correlation pipeline and the
// server settings, loadable from a YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// EngineSettings contains the tunable parameters of the correlation pipeline.
// The original system carried several near-duplicate copies of the same
// extraction logic that differed only in these numbers; here every variant is
// a field of this one type.
type EngineSettings struct {
	// MinConfidence is the minimum OCR confidence for a detection to be
	// considered at all (e.g., 0.6).
	MinConfidence float64 `json:"min_confidence" mapstructure:"min_confidence"`
	// OverlapThreshold is the bounding-box IoU above which two detections are
	// treated as duplicate readings of the same glyph cluster (e.g., 0.5).
	OverlapThreshold float64 `json:"overlap_threshold" mapstructure:"overlap_threshold"`
	// MinDigitRatio is the minimum fraction of digit characters for a
	// corrected token to still count as numeric (e.g., 0.7).
	MinDigitRatio float64 `json:"min_digit_ratio" mapstructure:"min_digit_ratio"`
	// MaxNumeralDigits caps the length of a reference numeral. Patent drawings
	// use short numerals; 5+ digit runs are never reference numerals.
	MaxNumeralDigits int `json:"max_numeral_digits" mapstructure:"max_numeral_digits"`
	// ExtraStopWords extends the built-in stop-word vocabulary of the
	// normalizer without forking it.
	ExtraStopWords []string `json:"extra_stop_words" mapstructure:"extra_stop_words"`
}

// Config holds the full configuration of the numeral engine service.
type Config struct {
	Port    string         `json:"port" mapstructure:"port"`
	DataDir string         `json:"data_dir" mapstructure:"data_dir"`
	Engine  EngineSettings `json:"engine" mapstructure:"engine"`
}

const (
	defaultPort             = "8080"
	defaultDataDir          = "./numeral_data"
	defaultMinConfidence    = 0.6
	defaultOverlapThreshold = 0.5
	defaultMinDigitRatio    = 0.7
	defaultMaxNumeralDigits = 4
)

// ApplyDefaults fills in zero-valued settings with the pipeline defaults.
func (s *EngineSettings) ApplyDefaults() {
	if s.MinConfidence == 0 {
		s.MinConfidence = defaultMinConfidence
	}
	if s.OverlapThreshold == 0 {
		s.OverlapThreshold = defaultOverlapThreshold
	}
	if s.MinDigitRatio == 0 {
		s.MinDigitRatio = defaultMinDigitRatio
	}
	if s.MaxNumeralDigits == 0 {
		s.MaxNumeralDigits = defaultMaxNumeralDigits
	}
	if s.ExtraStopWords == nil {
		s.ExtraStopWords = []string{}
	}
}

// Validate returns human-readable problems with the settings, empty if none.
func (s *EngineSettings) Validate() []string {
	var problems []string
	if s.MinConfidence < 0 || s.MinConfidence > 1 {
		problems = append(problems, fmt.Sprintf("min_confidence %v must be in [0, 1]", s.MinConfidence))
	}
	if s.OverlapThreshold < 0 || s.OverlapThreshold > 1 {
		problems = append(problems, fmt.Sprintf("overlap_threshold %v must be in [0, 1]", s.OverlapThreshold))
	}
	if s.MinDigitRatio < 0 || s.MinDigitRatio > 1 {
		problems = append(problems, fmt.Sprintf("min_digit_ratio %v must be in [0, 1]", s.MinDigitRatio))
	}
	if s.MaxNumeralDigits < 1 {
		problems = append(problems, fmt.Sprintf("max_numeral_digits %d must be at least 1", s.MaxNumeralDigits))
	}
	for _, word := range s.ExtraStopWords {
		if word == "" {
			problems = append(problems, "extra_stop_words must not contain empty strings")
			break
		}
	}
	return problems
}

// ApplyDefaults fills in zero-valued server and engine settings.
func (c *Config) ApplyDefaults() {
	if c.Port == "" {
		c.Port = defaultPort
	}
	if c.DataDir == "" {
		c.DataDir = defaultDataDir
	}
	c.Engine.ApplyDefaults()
}

// Load reads configuration from the named YAML file. A missing file is not an
// error: defaults are returned so the engine can run unconfigured.
func Load(path string) (Config, error) {
	var cfg Config

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if notFound || os.IsNotExist(err) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	if problems := cfg.Engine.Validate(); len(problems) > 0 {
		return cfg, fmt.Errorf("invalid engine settings: %v", problems)
	}
	return cfg, nil
}
