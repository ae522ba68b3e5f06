package workload

import (
	"fmt"
	"math"
)

// GeneratorSpec configures synthetic process set generation.
type GeneratorSpec struct {
	Count    int         `yaml:"count"`
	Arrival  ArrivalSpec `yaml:"arrival"`
	Burst    DistSpec    `yaml:"burst"`
	Priority *DistSpec   `yaml:"priority,omitempty"` // nil = default priority for all
}

// ArrivalSpec configures the inter-arrival process.
type ArrivalSpec struct {
	Process string  `yaml:"process"` // "poisson" (default), "uniform", "simultaneous"
	Rate    float64 `yaml:"rate,omitempty"`
	MinGap  int64   `yaml:"min_gap,omitempty"`
	MaxGap  int64   `yaml:"max_gap,omitempty"`
}

// DistSpec parameterizes an integer distribution.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// MaxGeneratedCount caps GeneratorSpec.Count.
const MaxGeneratedCount = 100_000

// Valid value registries.
var (
	validArrivalProcesses = map[string]bool{"": true, "poisson": true, "uniform": true, "simultaneous": true}
	validDistTypes        = map[string]bool{"constant": true, "uniform": true, "gaussian": true, "exponential": true}
)

// Validate checks the generator configuration.
func (g *GeneratorSpec) Validate() error {
	if g.Count <= 0 || g.Count > MaxGeneratedCount {
		return &ValidationError{Index: -1, Field: "generate.count", Reason: fmt.Sprintf("must be in [1, %d], got %d", MaxGeneratedCount, g.Count)}
	}
	if !validArrivalProcesses[g.Arrival.Process] {
		return &ValidationError{Index: -1, Field: "generate.arrival.process",
			Reason: fmt.Sprintf("unknown arrival process %q; valid: poisson, uniform, simultaneous", g.Arrival.Process)}
	}
	switch g.Arrival.Process {
	case "", "poisson":
		if math.IsNaN(g.Arrival.Rate) || math.IsInf(g.Arrival.Rate, 0) || g.Arrival.Rate <= 0 {
			return &ValidationError{Index: -1, Field: "generate.arrival.rate", Reason: fmt.Sprintf("must be a positive finite number, got %f", g.Arrival.Rate)}
		}
	case "uniform":
		if g.Arrival.MinGap < 0 || g.Arrival.MaxGap < g.Arrival.MinGap {
			return &ValidationError{Index: -1, Field: "generate.arrival",
				Reason: fmt.Sprintf("gap range [%d, %d] invalid", g.Arrival.MinGap, g.Arrival.MaxGap)}
		}
	}
	if err := validateDistSpec("generate.burst", &g.Burst); err != nil {
		return err
	}
	if g.Priority != nil {
		if err := validateDistSpec("generate.priority", g.Priority); err != nil {
			return err
		}
	}
	return nil
}

func validateDistSpec(field string, d *DistSpec) error {
	if !validDistTypes[d.Type] {
		return &ValidationError{Index: -1, Field: field + ".type",
			Reason: fmt.Sprintf("unknown distribution type %q; valid: constant, uniform, gaussian, exponential", d.Type)}
	}
	for name, val := range d.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return &ValidationError{Index: -1, Field: field + ".params." + name, Reason: fmt.Sprintf("must be a finite number, got %f", val)}
		}
	}
	return nil
}

// GenerateProcesses creates spec.Count processes with PIDs starting at firstPID.
// Deterministic given the same spec and seed. The first process arrives at
// tick zero; later arrivals follow the sampled gaps.
func GenerateProcesses(spec *GeneratorSpec, seed int64, firstPID int) ([]ProcessSpec, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	rng := NewPartitionedRNG(seed)

	arrivals := NewArrivalSampler(spec.Arrival)
	bursts, err := NewLengthSampler(spec.Burst, 1)
	if err != nil {
		return nil, fmt.Errorf("burst distribution: %w", err)
	}
	var priorities LengthSampler
	if spec.Priority != nil {
		priorities, err = NewLengthSampler(*spec.Priority, 0)
		if err != nil {
			return nil, fmt.Errorf("priority distribution: %w", err)
		}
	}

	out := make([]ProcessSpec, 0, spec.Count)
	var clock int64
	for i := 0; i < spec.Count; i++ {
		if i > 0 {
			clock += arrivals.SampleGap(rng.ForSubsystem(SubsystemArrival))
		}
		p := ProcessSpec{
			PID:     firstPID + i,
			Arrival: clock,
			Burst:   bursts.Sample(rng.ForSubsystem(SubsystemBurst)),
		}
		if priorities != nil {
			p.Priority = intPtr(int(priorities.Sample(rng.ForSubsystem(SubsystemPriority))))
		}
		out = append(out, p)
	}
	return out, nil
}
