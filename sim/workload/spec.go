package workload

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/schedsim/schedsim/sim"
)

// ProcessSpec is the raw, caller-facing description of one process.
// It becomes a sim.Process only after Validate has accepted it.
type ProcessSpec struct {
	PID      int   `yaml:"pid" json:"pid"`
	Arrival  int64 `yaml:"arrival_time" json:"arrival_time"`
	Burst    int64 `yaml:"burst_time" json:"burst_time"`
	Priority *int  `yaml:"priority,omitempty" json:"priority,omitempty"` // nil = sim.DefaultPriority
}

// EffectivePriority returns the priority, or sim.DefaultPriority when unset.
func (p ProcessSpec) EffectivePriority() int {
	if p.Priority == nil {
		return sim.DefaultPriority
	}
	return *p.Priority
}

// WorkloadSpec is the top-level workload configuration.
// Loaded from YAML via LoadWorkloadSpec(path). Explicit processes and a
// generator may be combined; generated PIDs continue after the largest explicit one.
type WorkloadSpec struct {
	Version   string         `yaml:"version"`
	Seed      int64          `yaml:"seed"`
	Processes []ProcessSpec  `yaml:"processes"`
	Generate  *GeneratorSpec `yaml:"generate,omitempty"`
}

// LoadWorkloadSpec reads and parses a YAML workload specification file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadWorkloadSpec(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	var spec WorkloadSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload spec: %w", err)
	}
	if spec.Version == "" {
		spec.Version = "1"
	}
	return &spec, nil
}

// Validate checks the explicit processes and the generator configuration.
func (s *WorkloadSpec) Validate() error {
	if s.Version != "" && s.Version != "1" {
		return &ValidationError{Index: -1, Field: "version", Reason: fmt.Sprintf("unsupported version %q", s.Version)}
	}
	if len(s.Processes) == 0 && s.Generate == nil {
		return &ValidationError{Index: -1, Field: "processes", Reason: "at least one process or a generate section is required"}
	}
	if err := ValidateProcesses(s.Processes); err != nil {
		return err
	}
	if s.Generate != nil {
		if err := s.Generate.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Resolve validates the spec and returns the full process list: explicit
// processes first, then generated ones.
func (s *WorkloadSpec) Resolve() ([]ProcessSpec, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	out := append([]ProcessSpec(nil), s.Processes...)
	if s.Generate == nil {
		return out, nil
	}
	firstPID := 1
	for _, p := range s.Processes {
		firstPID = max(firstPID, p.PID+1)
	}
	generated, err := GenerateProcesses(s.Generate, s.Seed, firstPID)
	if err != nil {
		return nil, fmt.Errorf("generating processes: %w", err)
	}
	logrus.Infof("Generated %d processes (seed=%d)", len(generated), s.Seed)
	return append(out, generated...), nil
}

// ValidateProcesses rejects entries the engine cannot simulate, including sets
// whose latest arrival plus total service would overflow the clock.
// Returns a *ValidationError for the first offending entry.
func ValidateProcesses(specs []ProcessSpec) error {
	seen := make(map[int]int, len(specs))
	var latest, work int64
	for i, p := range specs {
		if p.Burst <= 0 {
			return &ValidationError{Index: i, Field: "burst_time", Reason: fmt.Sprintf("must be positive, got %d", p.Burst)}
		}
		if p.Arrival < 0 {
			return &ValidationError{Index: i, Field: "arrival_time", Reason: fmt.Sprintf("must be non-negative, got %d", p.Arrival)}
		}
		if j, dup := seen[p.PID]; dup {
			return &ValidationError{Index: i, Field: "pid", Reason: fmt.Sprintf("duplicate pid %d (also at index %d)", p.PID, j)}
		}
		seen[p.PID] = i

		if p.Burst > math.MaxInt64-work {
			return &ValidationError{Index: i, Field: "burst_time", Reason: "total service time overflows the clock"}
		}
		work += p.Burst
		latest = max(latest, p.Arrival)
		if latest > math.MaxInt64-work {
			return &ValidationError{Index: i, Field: "arrival_time",
				Reason: fmt.Sprintf("arrival %d plus total service %d overflows the clock", latest, work)}
		}
	}
	return nil
}

// BuildProcesses validates specs and converts them into engine processes,
// preserving input order.
func BuildProcesses(specs []ProcessSpec) ([]*sim.Process, error) {
	if err := ValidateProcesses(specs); err != nil {
		return nil, err
	}
	procs := make([]*sim.Process, len(specs))
	for i, p := range specs {
		procs[i] = sim.NewProcess(p.PID, p.Arrival, p.Burst, p.EffectivePriority())
	}
	return procs, nil
}

// SampleProcesses returns the classic four-process teaching set.
func SampleProcesses() []ProcessSpec {
	return []ProcessSpec{
		{PID: 1, Arrival: 0, Burst: 5, Priority: intPtr(2)},
		{PID: 2, Arrival: 1, Burst: 3, Priority: intPtr(1)},
		{PID: 3, Arrival: 2, Burst: 8, Priority: intPtr(3)},
		{PID: 4, Arrival: 3, Burst: 6, Priority: intPtr(2)},
	}
}

func intPtr(v int) *int { return &v }

// ExportWorkloadSpec writes an explicit process list as a workload YAML file.
func ExportWorkloadSpec(specs []ProcessSpec, seed int64, path string) error {
	data, err := yaml.Marshal(&WorkloadSpec{Version: "1", Seed: seed, Processes: specs})
	if err != nil {
		return fmt.Errorf("marshaling workload spec: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing workload spec: %w", err)
	}
	return nil
}
