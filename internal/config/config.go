package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Binding names how bench readers get their handles.
const (
	BindingPooled   = "pooled"   // Buffer.Read
	BindingExplicit = "explicit" // Buffer.NewReader per goroutine
)

// BenchCfg describes one run of the read/write benchmark.
type BenchCfg struct {
	Readers      int    `yaml:"readers"`      // concurrent reader goroutines
	ReadIters    int    `yaml:"readIters"`    // reads per reader
	Writes       int    `yaml:"writes"`       // writes by the single writer
	WriteDelayMs int    `yaml:"writeDelayMs"` // sleep after every write (ms)
	HoldSpins    int    `yaml:"holdSpins"`    // max random yields inside a read
	MaxReaders   int    `yaml:"maxReaders"`   // registry limit, <= 0 is unlimited
	Binding      string `yaml:"binding"`      // pooled | explicit
	Seed         uint64 `yaml:"seed"`         // seed for hold jitter
}

// WriteDelay returns WriteDelayMs as a duration.
func (b BenchCfg) WriteDelay() time.Duration {
	return time.Duration(b.WriteDelayMs) * time.Millisecond
}

// Config is the whole harness configuration.
type Config struct {
	Runs []BenchCfg `yaml:"runs"`
}

// DefaultBench mirrors the classic 8 reader, 2 write benchmark.
func DefaultBench() BenchCfg {
	return BenchCfg{
		Readers:   8,
		ReadIters: 1 << 21,
		Writes:    2,
		Binding:   BindingPooled,
	}
}

// Default returns a Config with a single default run.
func Default() *Config {
	return &Config{Runs: []BenchCfg{DefaultBench()}}
}

// Load reads a YAML config from path, expanding environment variables. Runs
// that leave fields unset inherit them from DefaultBench.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	expanded := os.ExpandEnv(string(b))

	var raw struct {
		Runs []yaml.Node `yaml:"runs"`
	}
	if err := decodeStrict([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	c := &Config{Runs: make([]BenchCfg, 0, len(raw.Runs))}
	for i := range raw.Runs {
		// yaml.Node.Decode ignores unknown keys, so round trip the run through a
		// strict decoder on top of the defaults.
		data, err := yaml.Marshal(&raw.Runs[i])
		if err != nil {
			return nil, fmt.Errorf("parse %s: run %d: %w", path, i, err)
		}
		run := DefaultBench()
		if err := decodeStrict(data, &run); err != nil {
			return nil, fmt.Errorf("parse %s: run %d: %w", path, i, err)
		}
		c.Runs = append(c.Runs, run)
	}
	if len(c.Runs) == 0 {
		c.Runs = append(c.Runs, DefaultBench())
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// decodeStrict decodes a single YAML document into out, rejecting keys that do
// not map to a field. An empty document leaves out unchanged.
func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate reports the first invalid run.
func (c *Config) Validate() error {
	for i, run := range c.Runs {
		if err := run.Validate(); err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks that a run can be executed.
func (b BenchCfg) Validate() error {
	switch {
	case b.Readers < 0, b.ReadIters < 0, b.Writes < 0:
		return errors.New("counts must not be negative")
	case b.WriteDelayMs < 0, b.HoldSpins < 0:
		return errors.New("delays must not be negative")
	case b.Binding != BindingPooled && b.Binding != BindingExplicit:
		return fmt.Errorf("unknown binding %q", b.Binding)
	}
	return nil
}
