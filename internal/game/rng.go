package game

// Rand is the randomness the simulation draws from.
// Float64 returns a value in [0, 1).
type Rand interface {
	Float64() float64
}

// SimpleRNG is a deterministic 64-bit LCG. It also satisfies io.Reader so
// it can feed uuid generation without touching crypto/rand.
type SimpleRNG struct {
	state uint64
}

// NewSimpleRNG creates a generator. A zero seed is remapped to 1.
func NewSimpleRNG(seed int64) *SimpleRNG {
	s := uint64(seed) //#nosec G115 -- intentional conversion for RNG seeding
	if s == 0 {
		s = 1
	}
	return &SimpleRNG{state: s}
}

// Next advances the generator.
func (r *SimpleRNG) Next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// Float64 returns a value in [0, 1) built from the top 53 bits.
func (r *SimpleRNG) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// Read fills p with pseudo-random bytes. It never fails.
func (r *SimpleRNG) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.Next() >> 56)
	}
	return len(p), nil
}
