package games

import "math/rand/v2"

// Source supplies uniformly distributed integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

type runtimeSource struct{}

func (runtimeSource) IntN(n int) int {
	return rand.IntN(n)
}

// DefaultSource draws from the runtime generator. It is safe for concurrent use.
func DefaultSource() Source {
	return runtimeSource{}
}
