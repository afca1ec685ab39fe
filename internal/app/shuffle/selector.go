// Package shuffle draws the random sample that fills the target playlist.
package shuffle

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"

	"github.com/osa030/trueshuffle/internal/domain/track"
)

// Selector draws uniform samples without replacement.
// Each Selector seeds its own PRNG, so repeated runs are independent;
// no seed is persisted between invocations.
type Selector struct {
	rng *rand.Rand
}

// NewSelector creates a Selector seeded from crypto/rand, falling back to
// the wall clock if the system entropy source fails.
func NewSelector() *Selector {
	var seed int64
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err == nil {
		seed = int64(binary.LittleEndian.Uint64(buf[:]))
	} else {
		seed = time.Now().UnixNano()
	}
	return &Selector{rng: rand.New(rand.NewSource(seed))}
}

// Select returns min(k, len(tracks)) distinct tracks drawn uniformly
// without replacement. The input slice is not modified.
func (s *Selector) Select(tracks []track.Track, k int) []track.Track {
	if k <= 0 || len(tracks) == 0 {
		return []track.Track{}
	}
	if k > len(tracks) {
		k = len(tracks)
	}

	// The first k positions of a uniform permutation are a uniform
	// k-sample without replacement.
	indices := s.rng.Perm(len(tracks))
	selected := make([]track.Track, k)
	for i := 0; i < k; i++ {
		selected[i] = tracks[indices[i]]
	}
	return selected
}
