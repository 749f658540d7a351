package responder

import (
	"math/rand/v2"
	"sync"
)

// Picker chooses an index uniformly from [0, n).
type Picker interface {
	Pick(n int) int
}

type globalPicker struct{}

// NewRandomPicker returns a Picker backed by the process-wide generator.
// It is safe for concurrent use.
func NewRandomPicker() Picker {
	return globalPicker{}
}

func (globalPicker) Pick(n int) int {
	return rand.IntN(n)
}

type seededPicker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSeededPicker returns a reproducible Picker.
func NewSeededPicker(seed uint64) Picker {
	return &seededPicker{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (p *seededPicker) Pick(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.rnd.IntN(n)
}
