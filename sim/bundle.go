package sim

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/schedsim/schedsim/sim/trace"
)

// RunConfig holds the run/compare configuration, loadable from a YAML file.
// Nil pointer fields mean "not set in YAML" -- they do not override CLI flags.
type RunConfig struct {
	Algorithms    []string `yaml:"algorithms"`
	TimeQuantum   *int64   `yaml:"time_quantum"`
	ContextSwitch *int64   `yaml:"context_switch"`
	TraceLevel    string   `yaml:"trace_level"`
}

// LoadRunConfig reads and parses a YAML run configuration file.
// Unknown fields are rejected so that typos surface as errors.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var cfg RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that all discipline names and parameter ranges are valid.
// An invalid time quantum is not an error: EffectiveQuantum falls back to the default.
func (c *RunConfig) Validate() error {
	seen := make(map[Discipline]bool, len(c.Algorithms))
	for _, name := range c.Algorithms {
		d, ok := ValidDisciplines[name]
		if !ok {
			return fmt.Errorf("unknown discipline %q", name)
		}
		if seen[d] {
			return fmt.Errorf("discipline %q listed more than once", name)
		}
		seen[d] = true
	}
	if c.ContextSwitch != nil && *c.ContextSwitch < 0 {
		return fmt.Errorf("context_switch must be non-negative, got %d", *c.ContextSwitch)
	}
	if !trace.IsValidTraceLevel(c.TraceLevel) {
		return fmt.Errorf("unknown trace level %q", c.TraceLevel)
	}
	return nil
}

// EffectiveQuantum returns the configured time quantum, or DefaultTimeQuantum
// when it is unset or not positive.
func (c *RunConfig) EffectiveQuantum() int64 {
	if c.TimeQuantum == nil {
		return DefaultTimeQuantum
	}
	if *c.TimeQuantum <= 0 {
		logrus.Warnf("invalid time quantum %d, using default %d", *c.TimeQuantum, DefaultTimeQuantum)
		return DefaultTimeQuantum
	}
	return *c.TimeQuantum
}

// EffectiveContextSwitch returns the configured overhead, 0 when unset.
func (c *RunConfig) EffectiveContextSwitch() int64 {
	if c.ContextSwitch == nil {
		return 0
	}
	return *c.ContextSwitch
}

// EffectiveDisciplines returns the selected disciplines in canonical order,
// or all of them when none are selected. Assumes Validate has passed.
func (c *RunConfig) EffectiveDisciplines() []Discipline {
	if len(c.Algorithms) == 0 {
		return AllDisciplines()
	}
	selected := make(map[Discipline]bool, len(c.Algorithms))
	for _, name := range c.Algorithms {
		selected[ValidDisciplines[name]] = true
	}
	out := make([]Discipline, 0, len(selected))
	for _, d := range AllDisciplines() {
		if selected[d] {
			out = append(out, d)
		}
	}
	return out
}

// TraceConfig returns the trace configuration for runs under this config.
func (c *RunConfig) TraceConfig() trace.TraceConfig {
	level := trace.TraceLevel(c.TraceLevel)
	if level == "" {
		level = trace.TraceLevelNone
	}
	return trace.TraceConfig{Level: level}
}
