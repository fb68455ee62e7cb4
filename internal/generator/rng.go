package generator

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/google/uuid"
)

// pcgStream selects the PCG sequence; changing it changes every generated dataset.
const pcgStream = 0x9e3779b97f4a7c15

// RNG is the single random stream of a run. Every draw goes through it, in a
// fixed order, so the seed alone determines the output. It is not safe for
// concurrent use.
type RNG struct {
	r *rand.Rand
}

// NewRNG seeds a PCG generator from seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), pcgStream))}
}

// IntN returns a uniform int in [0, n). It panics if n <= 0.
func (g *RNG) IntN(n int) int {
	return g.r.IntN(n)
}

// Float64 returns a uniform float in [0, 1).
func (g *RNG) Float64() float64 {
	return g.r.Float64()
}

// NormFloat64 returns a standard normal draw.
func (g *RNG) NormFloat64() float64 {
	return g.r.NormFloat64()
}

// Read fills p from the stream, eight bytes per draw.
func (g *RNG) Read(p []byte) (int, error) {
	var buf [8]byte
	for i := 0; i < len(p); i += 8 {
		binary.LittleEndian.PutUint64(buf[:], g.r.Uint64())
		copy(p[i:], buf[:])
	}
	return len(p), nil
}

// UUID returns a version 4 UUID whose random bits come from the stream.
func (g *RNG) UUID() uuid.UUID {
	return uuid.Must(uuid.NewRandomFromReader(g))
}
