package question

import (
	"math/rand/v2"
	"sync"
)

// Rand is the random source used to pick and generate questions.
// Implementations must be safe for concurrent use.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRand returns a concurrency-safe source; equal seeds give equal sequences.
func NewRand(seed uint64) Rand {
	return &lockedRand{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandomRand returns a source seeded from the runtime's entropy.
func NewRandomRand() Rand {
	return NewRand(rand.Uint64())
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rnd.IntN(n)
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rnd.Shuffle(n, swap)
}

func sample[T any](r Rand, items []T) T {
	return items[r.IntN(len(items))]
}
