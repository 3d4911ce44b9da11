// Package game holds the round mechanics: picking a track, cutting a lyric
// fragment, scoring a guess and keeping per-chat session state.
package game

import (
	"math/rand/v2"
	"sync"
)

// Rand is the randomness source used for track, offset and template choice.
// IntN must return a value in [0, n) for n > 0.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand returns a goroutine-safe source backed by the runtime generator.
func DefaultRand() Rand {
	return globalRand{}
}

type lockedRand struct {
	r  *rand.Rand
	mu sync.Mutex
}

// NewSeededRand returns a goroutine-safe reproducible source.
func NewSeededRand(seed uint64) Rand {
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func intn(r Rand, n int) int {
	if n <= 1 {
		return 0
	}
	return r.IntN(n)
}
