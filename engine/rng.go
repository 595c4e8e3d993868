package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

var _ dice.Roller = (*RNG)(nil)

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position increments with every die drawn.
type RNG struct {
	seed uint64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed uint64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(int64(seed))),
	}
}

// NewSeed returns a high-entropy seed for sessions started without one.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// D20 returns a random integer in [1, 20]. It draws exactly as Roll(20)
// does, for callers that hold the RNG directly rather than a dice.Roller.
func (r *RNG) D20() int {
	return r.die(20)
}

// RollDice returns the sum of count independent draws in [1, sides]. The
// draws are the ones RollN(count, sides) would return.
func (r *RNG) RollDice(count, sides int) int {
	total := 0
	for i := 0; i < count; i++ {
		total += r.die(sides)
	}
	return total
}

// Roll returns a random integer in [1, size].
func (r *RNG) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("invalid die size %d", size)
	}
	return r.die(size), nil
}

// RollN returns count draws in [1, size], in draw order.
func (r *RNG) RollN(count, size int) ([]int, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid die size %d", size)
	}
	if count < 0 {
		return nil, fmt.Errorf("invalid die count %d", count)
	}
	out := make([]int, count)
	for i := range out {
		out[i] = r.die(size)
	}
	return out, nil
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() uint64 {
	return r.seed
}

// Position returns the number of dice drawn since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

func (r *RNG) die(sides int) int {
	r.pos++
	return r.src.Intn(sides) + 1
}
