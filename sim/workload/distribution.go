package workload

import (
	"fmt"
	"math"
	"math/rand"
)

// LengthSampler generates integer samples for burst times and priorities.
type LengthSampler interface {
	Sample(rng *rand.Rand) int64
}

// ConstantSampler always returns the same value.
type ConstantSampler struct {
	value int64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) int64 { return s.value }

// UniformSampler draws uniformly from [min, max].
type UniformSampler struct {
	min, max int64
}

func (s *UniformSampler) Sample(rng *rand.Rand) int64 {
	if s.max <= s.min {
		return s.min
	}
	return s.min + rng.Int63n(s.max-s.min+1)
}

// GaussianSampler produces clamped Gaussian samples.
type GaussianSampler struct {
	mean, stdDev float64
	min, max     int64
}

func (s *GaussianSampler) Sample(rng *rand.Rand) int64 {
	if s.min == s.max {
		return s.min
	}
	val := rng.NormFloat64()*s.stdDev + s.mean
	clamped := math.Min(float64(s.max), math.Max(float64(s.min), val))
	return int64(math.Round(clamped))
}

// ExponentialSampler produces exponentially-distributed samples, floored at min.
type ExponentialSampler struct {
	mean float64
	min  int64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) int64 {
	val := int64(math.Round(rng.ExpFloat64() * s.mean))
	if val < s.min {
		return s.min
	}
	return val
}

// NewLengthSampler creates a LengthSampler from a DistSpec.
// floor is the smallest value the caller can accept (1 for burst times).
func NewLengthSampler(spec DistSpec, floor int64) (LengthSampler, error) {
	param := func(name string, def float64) float64 {
		if v, ok := spec.Params[name]; ok {
			return v
		}
		return def
	}
	switch spec.Type {
	case "constant":
		v := int64(param("value", float64(floor)))
		if v < floor {
			return nil, fmt.Errorf("constant value %d below minimum %d", v, floor)
		}
		return &ConstantSampler{value: v}, nil
	case "uniform":
		lo, hi := int64(param("min", float64(floor))), int64(param("max", float64(floor)))
		if lo < floor || hi < lo {
			return nil, fmt.Errorf("uniform range [%d, %d] invalid (minimum %d)", lo, hi, floor)
		}
		return &UniformSampler{min: lo, max: hi}, nil
	case "gaussian":
		lo, hi := int64(param("min", float64(floor))), int64(param("max", math.MaxInt32))
		if lo < floor || hi < lo {
			return nil, fmt.Errorf("gaussian clamp [%d, %d] invalid (minimum %d)", lo, hi, floor)
		}
		return &GaussianSampler{mean: param("mean", float64(lo)), stdDev: param("std_dev", 0), min: lo, max: hi}, nil
	case "exponential":
		mean := param("mean", 0)
		if mean <= 0 {
			return nil, fmt.Errorf("exponential mean must be positive, got %f", mean)
		}
		return &ExponentialSampler{mean: mean, min: floor}, nil
	default:
		return nil, fmt.Errorf("unknown distribution type %q", spec.Type)
	}
}
