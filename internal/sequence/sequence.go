// Package sequence derives reproducible "random" orderings from stable seeds.
// Host console, spectator display and every player device compute the same
// permutation independently, so no coordinator has to push ordering over the
// wire. The generator is written out by hand instead of wrapping math/rand:
// rand's stream is not pinned across Go releases, and the contract here is
// bit-for-bit equality across processes and runtimes.
package sequence

import "strconv"

// Hash is djb2 over the key bytes, reduced to 32 bits unsigned. Stable and
// cheap; it only has to be collision-resistant in practice, not secure.
func Hash(key string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(key); i++ {
		h = h*33 + uint32(key[i])
	}
	return h
}

// QuestionKey is the stable per-question seed key shared by every client.
func QuestionKey(sessionCode string, questionIndex int) string {
	return sessionCode + ":" + strconv.Itoa(questionIndex)
}

// RNG is a mulberry32 generator. Same seed, same stream, everywhere.
type RNG struct {
	state uint32
}

// NewRNG seeds a generator.
func NewRNG(seed uint32) *RNG {
	return &RNG{state: seed}
}

// Next returns the next 32-bit value.
func (r *RNG) Next() uint32 {
	r.state += 0x6D2B79F5
	z := r.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	return z ^ (z >> 14)
}

// Intn returns a value in [0,n). n must be positive.
func (r *RNG) Intn(n int) int {
	return int(r.Next() % uint32(n))
}

// Permute returns a Fisher–Yates shuffle of items driven by seed. The input
// is not modified. Identical (seed, items) always yields identical output.
func Permute[T any](seed uint32, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	rng := NewRNG(seed)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// OptionOrder is the shared visual left-to-right ordering of a question's
// option indexes, so every viewer shows the same option in the same slot.
func OptionOrder(sessionCode string, questionIndex, optionCount int) []int {
	indexes := make([]int, optionCount)
	for i := range indexes {
		indexes[i] = i
	}
	return Permute(Hash(QuestionKey(sessionCode, questionIndex)), indexes)
}

// WrongOptionOrder is the sequence in which incorrect options are cut during
// the reveal: ascending by how many players chose them, ties broken by
// original index. Fully deterministic, no seed required, so any component
// computing it independently converges. counts holds per-option respondent
// counts; correct is excluded. A negative correct (poll mode) excludes
// nothing.
func WrongOptionOrder(correct int, counts []int) []int {
	order := make([]int, 0, len(counts))
	for i := range counts {
		if i != correct {
			order = append(order, i)
		}
	}
	// insertion sort keeps the tie-break on original index explicit
	for i := 1; i < len(order); i++ {
		for j := i; j > 0; j-- {
			a, b := order[j-1], order[j]
			if counts[a] > counts[b] || (counts[a] == counts[b] && a > b) {
				order[j-1], order[j] = b, a
			} else {
				break
			}
		}
	}
	return order
}
