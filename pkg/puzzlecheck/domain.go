// Package puzzlecheck implements the validation core for grid-style logic
// puzzles: a format-agnostic constraint representation, incremental
// propagation of candidate domains as the user edits, and a bounded
// feasibility search that decides whether a partially filled puzzle can
// still be completed.
//
// This file defines Domain, a finite set of candidate values for one
// puzzle slot. Domains are the fundamental building block of the engine:
// propagation shrinks them, contradiction is an emptied one, and a fully
// committed puzzle is one where every domain is a singleton.
package puzzlecheck

import (
	"fmt"
	"math/bits"
	"strings"
)

// Domain is an immutable finite set of values in the range [1, MaxValue].
// Every operation returns a new Domain; the backing bit array of an
// existing Domain is never modified. Immutability is what makes the cheap
// copy-on-branch snapshots used by the feasibility search safe: branching
// a domain table copies slice headers only, and the shared words are
// guaranteed not to change underneath a branch.
//
// The zero value is an empty domain with MaxValue 0.
type Domain struct {
	maxValue int
	words    []uint64
}

// NewDomain returns a domain containing every value from 1 to maxValue.
// A non-positive maxValue yields an empty domain.
func NewDomain(maxValue int) Domain {
	if maxValue <= 0 {
		return Domain{}
	}
	words := make([]uint64, (maxValue+63)/64)
	for v := 0; v < maxValue; v++ {
		words[v/64] |= 1 << uint(v%64)
	}
	return Domain{maxValue: maxValue, words: words}
}

// NewDomainFromValues returns a domain containing only the given values.
// Values outside [1, maxValue] are ignored.
func NewDomainFromValues(maxValue int, values []int) Domain {
	if maxValue <= 0 {
		return Domain{}
	}
	words := make([]uint64, (maxValue+63)/64)
	for _, v := range values {
		if v >= 1 && v <= maxValue {
			words[(v-1)/64] |= 1 << uint((v-1)%64)
		}
	}
	return Domain{maxValue: maxValue, words: words}
}

// NewSingletonDomain returns a domain holding exactly one value.
func NewSingletonDomain(maxValue, value int) Domain {
	return NewDomainFromValues(maxValue, []int{value})
}

// Count returns the number of values in the domain.
func (d Domain) Count() int {
	n := 0
	for _, w := range d.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// IsEmpty reports whether the domain contains no values.
// An empty domain marks an inconsistent assignment state.
func (d Domain) IsEmpty() bool {
	for _, w := range d.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Has reports whether the domain contains value.
func (d Domain) Has(value int) bool {
	if value < 1 || value > d.maxValue {
		return false
	}
	return (d.words[(value-1)/64]>>uint((value-1)%64))&1 == 1
}

// Remove returns a new domain without value. Removing an absent value
// returns an equal domain.
func (d Domain) Remove(value int) Domain {
	if !d.Has(value) {
		return d
	}
	words := make([]uint64, len(d.words))
	copy(words, d.words)
	words[(value-1)/64] &^= 1 << uint((value-1)%64)
	return Domain{maxValue: d.maxValue, words: words}
}

// IsSingleton reports whether the domain contains exactly one value.
// A singleton domain represents a committed variable.
func (d Domain) IsSingleton() bool {
	return d.Count() == 1
}

// SingletonValue returns the sole value of a singleton domain.
// It returns 0 if the domain is empty or holds more than one value.
func (d Domain) SingletonValue() int {
	if !d.IsSingleton() {
		return 0
	}
	return d.Min()
}

// IterateValues calls f for each value in the domain in ascending order.
func (d Domain) IterateValues(f func(value int)) {
	for i, w := range d.words {
		for w != 0 {
			low := w & -w
			f(i*64 + bits.TrailingZeros64(w) + 1)
			w &^= low
		}
	}
}

// Values returns all values in ascending order.
func (d Domain) Values() []int {
	out := make([]int, 0, d.Count())
	d.IterateValues(func(v int) { out = append(out, v) })
	return out
}

// Intersect returns the set of values present in both domains.
// The two domains must share the same MaxValue; otherwise the result
// is empty.
func (d Domain) Intersect(other Domain) Domain {
	if d.maxValue != other.maxValue {
		return Domain{maxValue: d.maxValue, words: make([]uint64, len(d.words))}
	}
	words := make([]uint64, len(d.words))
	for i := range d.words {
		words[i] = d.words[i] & other.words[i]
	}
	return Domain{maxValue: d.maxValue, words: words}
}

// Min returns the smallest value in the domain, or 0 if it is empty.
func (d Domain) Min() int {
	for i, w := range d.words {
		if w != 0 {
			return i*64 + bits.TrailingZeros64(w) + 1
		}
	}
	return 0
}

// Max returns the largest value in the domain, or 0 if it is empty.
func (d Domain) Max() int {
	for i := len(d.words) - 1; i >= 0; i-- {
		if w := d.words[i]; w != 0 {
			return i*64 + 63 - bits.LeadingZeros64(w) + 1
		}
	}
	return 0
}

// RemoveAbove returns a new domain with every value > threshold removed.
func (d Domain) RemoveAbove(threshold int) Domain {
	if threshold >= d.maxValue {
		return d
	}
	if threshold <= 0 {
		return Domain{maxValue: d.maxValue, words: make([]uint64, len(d.words))}
	}
	words := make([]uint64, len(d.words))
	copy(words, d.words)
	// Bit threshold is the first to clear (bit i holds value i+1).
	wordIdx := threshold / 64
	if wordIdx < len(words) {
		words[wordIdx] &= (uint64(1) << uint(threshold%64)) - 1
	}
	for i := wordIdx + 1; i < len(words); i++ {
		words[i] = 0
	}
	return Domain{maxValue: d.maxValue, words: words}
}

// RemoveBelow returns a new domain with every value < threshold removed.
func (d Domain) RemoveBelow(threshold int) Domain {
	if threshold <= 1 {
		return d
	}
	if threshold > d.maxValue {
		return Domain{maxValue: d.maxValue, words: make([]uint64, len(d.words))}
	}
	words := make([]uint64, len(d.words))
	copy(words, d.words)
	// Bits 0..threshold-2 (values 1..threshold-1) are cleared.
	last := threshold - 2
	wordIdx := last / 64
	for i := 0; i < wordIdx; i++ {
		words[i] = 0
	}
	words[wordIdx] &^= (uint64(1) << uint(last%64+1)) - 1
	return Domain{maxValue: d.maxValue, words: words}
}

// Equal reports whether both domains contain exactly the same values.
func (d Domain) Equal(other Domain) bool {
	if d.maxValue != other.maxValue {
		return false
	}
	for i := range d.words {
		if d.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// MaxValue returns the upper bound of the domain's value range.
func (d Domain) MaxValue() int {
	return d.maxValue
}

// String renders the domain as "{1,3,5}", or "{1..9}" for consecutive
// runs of three or more values. Two-value domains stay enumerated;
// "{2,3}" reads better than "{2..3}" in pencil-mark output.
func (d Domain) String() string {
	values := d.Values()
	switch {
	case len(values) == 0:
		return "{}"
	case len(values) == 1:
		return fmt.Sprintf("{%d}", values[0])
	}
	consecutive := len(values) >= 3
	for i := 1; consecutive && i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			consecutive = false
		}
	}
	if consecutive {
		return fmt.Sprintf("{%d..%d}", values[0], values[len(values)-1])
	}
	var b strings.Builder
	b.WriteString("{")
	for i, v := range values {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteString("}")
	return b.String()
}
