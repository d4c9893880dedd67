// Package random provides the single seeded stream every generator step draws from.
package random

import (
	"crypto/sha256"
	"math/rand/v2"
)

// Stream is a deterministic source of random values derived from a seed
// string. A Stream is not safe for concurrent use.
type Stream struct {
	rng *rand.Rand
}

// New creates a stream seeded from the given string.
func New(seed string) *Stream {
	return &Stream{rng: rand.New(rand.NewChaCha8(sha256.Sum256([]byte(seed))))}
}

// Int returns a uniform integer in [min, max].
func (s *Stream) Int(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.rng.IntN(max-min+1)
}

// Pick returns a uniformly chosen element of a non-empty slice.
func Pick[T any](s *Stream, items []T) T {
	return items[s.Int(0, len(items)-1)]
}

// Shuffle permutes items in place (Fisher-Yates, from the back).
func Shuffle[T any](s *Stream, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := s.Int(0, i)
		items[i], items[j] = items[j], items[i]
	}
}
