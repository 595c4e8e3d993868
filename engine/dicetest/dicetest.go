// Package dicetest provides scripted dice for tests that need exact rolls.
package dicetest

import (
	"fmt"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

var _ dice.Roller = (*Scripted)(nil)

// Scripted returns its values in order, one per die. It fails once the
// script runs out or a value does not fit the die being rolled.
type Scripted struct {
	values []int
	next   int
}

// New creates a scripted roller.
func New(values ...int) *Scripted {
	return &Scripted{values: values}
}

// Roll returns the next scripted value.
func (s *Scripted) Roll(size int) (int, error) {
	if s.next >= len(s.values) {
		return 0, fmt.Errorf("dicetest: script exhausted after %d rolls", s.next)
	}
	v := s.values[s.next]
	if v < 1 || v > size {
		return 0, fmt.Errorf("dicetest: scripted %d does not fit d%d", v, size)
	}
	s.next++
	return v, nil
}

// RollN returns the next count scripted values.
func (s *Scripted) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := s.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Used returns how many values have been consumed.
func (s *Scripted) Used() int {
	return s.next
}
