// Package config loads the benchmark settings from YAML.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/i5heu/GoBoundedQueue/internal/logger"
	"github.com/i5heu/GoBoundedQueue/internal/testbench"
)

// Concurrency is an alias for testbench.Config. This allows other programs to import
// the queue configuration without pulling in the entire testbench package.
type Concurrency = testbench.Config

// Config controls a benchmark session.
type Config struct {
	Capacity    uint64        `yaml:"capacity" validate:"gte=1"`
	Duration    time.Duration `yaml:"duration" validate:"gt=0"`
	Iterations  int           `yaml:"iterations" validate:"gte=1"`
	Concurrency []Concurrency `yaml:"concurrency" validate:"min=1,dive"`
	Logger      logger.Config `yaml:"logger"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Capacity:   1024,
		Duration:   5 * time.Second,
		Iterations: 5,
		Concurrency: []Concurrency{
			{NumProducers: 2, NumConsumers: 2},
			{NumProducers: 10, NumConsumers: 10},
			{NumProducers: 50, NumConsumers: 50},
		},
		Logger: logger.Config{Level: "info"},
	}
}

// HighConcurrency lists the extra configurations enabled by --high-concurrency.
func HighConcurrency() []Concurrency {
	return []Concurrency{
		{NumProducers: 100, NumConsumers: 100},
		{NumProducers: 250, NumConsumers: 250},
		{NumProducers: 500, NumConsumers: 500},
	}
}

// Load reads path on top of Default and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
