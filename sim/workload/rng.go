package workload

import (
	"hash/fnv"
	"math/rand"
)

// === Subsystem Constants ===

const (
	// SubsystemArrival is the RNG subsystem for inter-arrival gaps.
	// Uses the master seed directly.
	SubsystemArrival = "arrival"
	// SubsystemBurst is the RNG subsystem for burst times.
	SubsystemBurst = "burst"
	// SubsystemPriority is the RNG subsystem for priorities.
	SubsystemPriority = "priority"
)

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem,
// so that changing the burst distribution never perturbs generated arrivals.
//
// Derivation formula:
//   - For SubsystemArrival: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	seed       int64
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a master seed.
func NewPartitionedRNG(seed int64) *PartitionedRNG {
	return &PartitionedRNG{
		seed:       seed,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := p.seed
	if name != SubsystemArrival {
		derivedSeed = p.seed ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Seed returns the master seed used to create this PartitionedRNG.
func (p *PartitionedRNG) Seed() int64 {
	return p.seed
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
