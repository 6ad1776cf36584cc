package neat

import (
	"math"
	"math/rand"
)

// Random is the source of randomness threaded through every operation that
// needs it. Implementations must be deterministic for a fixed seed and call
// sequence. A Random is owned by one caller at a time.
type Random interface {
	// UniformReal returns a value in [low, high).
	UniformReal(low, high float64) float64
	// UniformInt returns a value in [0, n). n must be positive.
	UniformInt(n int) int
	// Bernoulli returns true with probability p.
	Bernoulli(p float64) bool
}

// Rand is the default Random backed by a seeded math/rand source.
type Rand struct {
	r *rand.Rand
}

// NewRandom returns a deterministic Random seeded with seed.
func NewRandom(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

func (r *Rand) UniformReal(low, high float64) float64 {
	return low + r.r.Float64()*(high-low)
}

func (r *Rand) UniformInt(n int) int {
	return r.r.Intn(n)
}

func (r *Rand) Bernoulli(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.r.Float64() < p
}

// gaussian draws a standard normal value from two uniform draws (Box-Muller),
// so any Random implementation can drive weight perturbation.
func gaussian(rng Random) float64 {
	u1 := rng.UniformReal(0, 1)
	for u1 == 0 {
		u1 = rng.UniformReal(0, 1)
	}
	u2 := rng.UniformReal(0, 1)
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}
