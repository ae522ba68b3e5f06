package workload

import (
	"math/rand"
)

// ArrivalSampler generates inter-arrival gaps between consecutive processes.
type ArrivalSampler interface {
	// SampleGap returns the next inter-arrival gap in ticks (>= 0).
	SampleGap(rng *rand.Rand) int64
}

// PoissonSampler generates exponentially-distributed gaps (CV=1), rounded down to ticks.
type PoissonSampler struct {
	rate float64 // arrivals per tick
}

func (s *PoissonSampler) SampleGap(rng *rand.Rand) int64 {
	return int64(rng.ExpFloat64() / s.rate)
}

// UniformGapSampler draws gaps uniformly from [min, max].
type UniformGapSampler struct {
	min, max int64
}

func (s *UniformGapSampler) SampleGap(rng *rand.Rand) int64 {
	if s.max <= s.min {
		return s.min
	}
	return s.min + rng.Int63n(s.max-s.min+1)
}

// SimultaneousSampler makes every process arrive at tick zero.
type SimultaneousSampler struct{}

func (SimultaneousSampler) SampleGap(_ *rand.Rand) int64 { return 0 }

// NewArrivalSampler creates an ArrivalSampler from a validated spec.
func NewArrivalSampler(spec ArrivalSpec) ArrivalSampler {
	switch spec.Process {
	case "uniform":
		return &UniformGapSampler{min: spec.MinGap, max: spec.MaxGap}
	case "simultaneous":
		return SimultaneousSampler{}
	default: // "poisson", "" (validated)
		rate := spec.Rate
		// Defensive floor: avoid division by zero
		if rate < 1e-9 {
			rate = 1e-9
		}
		return &PoissonSampler{rate: rate}
	}
}
