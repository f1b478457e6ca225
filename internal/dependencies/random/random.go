package random

import (
	cryptorand "crypto/rand"
	"math/rand/v2"
	"sync"
)

// Random is the source of randomness for grid draws, hint targets and game ids
type Random interface {
	// Intn returns a random int in [0, n), or 0 when n <= 0
	Intn(n int) int

	// String generates a random string of the given length from the given alphabet
	String(length int, alphabet string) string
}

// Source implements Random on a math/rand/v2 generator. It is safe for
// concurrent use.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ Random = (*Source)(nil)

// New creates a Source seeded from crypto/rand
func New() *Source {
	var seed [32]byte
	_, _ = cryptorand.Read(seed[:])
	return &Source{rng: rand.New(rand.NewChaCha8(seed))}
}

// NewSeeded creates a deterministic Source. Two sources with the same seed
// draw the same grids against the same corpus.
func NewSeeded(seed uint64) *Source {
	return &Source{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

func (s *Source) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[s.rng.IntN(len(alphabet))]
	}
	return string(out)
}

// Sample draws k distinct values with a partial Fisher-Yates shuffle. The
// input slice is left untouched. k is clamped to len(values).
func Sample(r Random, values []string, k int) []string {
	if k > len(values) {
		k = len(values)
	}
	pool := append([]string(nil), values...)
	for i := 0; i < k; i++ {
		j := i + r.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
