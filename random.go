package hfsm

import "math/rand/v2"

// Random is the external random-number collaborator: the engine only ever
// consumes Next() -> [0,1), the draw RandomUtilStrategy weights its pick by.
type Random interface {
	Next() float64
}

// DefaultRandom is the Machine's default Random, backed by math/rand/v2's
// top-level (auto-seeded) generator.
type DefaultRandom struct{}

var _ Random = DefaultRandom{}

// Next returns a pseudo-random float64 in [0, 1).
func (DefaultRandom) Next() float64 { return rand.Float64() }
