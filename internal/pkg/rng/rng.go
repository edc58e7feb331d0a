// Package rng provides the seeded random source for scenario generation.
// Every draw advances a single splitmix64 stream, so a scenario is fully
// determined by its 32-bit seed. Do not use math/rand here: its sequence
// is not guaranteed to be stable across Go releases, and the generator
// promises byte-identical output for identical (template, catalogs, seed).
package rng

// RandomValue is an inclusive [Min, Max] range to draw from.
type RandomValue struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// IsSet reports whether the range can produce a non-zero value.
func (v RandomValue) IsSet() bool {
	return v.Max > 0
}

// Normalize swaps the bounds when they are reversed.
func (v RandomValue) Normalize() RandomValue {
	if v.Min > v.Max {
		return RandomValue{Min: v.Max, Max: v.Min}
	}
	return v
}

// Div splits the range evenly between count consumers.
func (v RandomValue) Div(count int) RandomValue {
	if count <= 1 {
		return v
	}
	return RandomValue{Min: v.Min / count, Max: v.Max / count}
}

// Rand is a deterministic random source.
type Rand struct {
	state uint64
}

// New creates a random source from a 32-bit map seed.
func New(seed uint32) *Rand {
	return &Rand{state: uint64(seed)}
}

// next is splitmix64
func (r *Rand) next() uint64 {
	r.state += 0x9e3779b97f4a7c15
	z := r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Int returns a uniform integer in [min, max]. Reversed bounds are swapped.
func (r *Rand) Int(minValue, maxValue int) int {
	if minValue > maxValue {
		minValue, maxValue = maxValue, minValue
	}

	span := uint64(maxValue-minValue) + 1
	return minValue + int(r.next()%span)
}

// Chance rolls a percentage check. Values at or above 100 always succeed,
// zero and below never do.
func (r *Rand) Chance(percent int) bool {
	if percent >= 100 {
		return true
	}
	if percent <= 0 {
		return false
	}
	return r.Int(0, 99) < percent
}

// PickValue draws a uniform integer from the range.
func (r *Rand) PickValue(v RandomValue) int {
	v = v.Normalize()
	return r.Int(v.Min, v.Max)
}

// Shuffle permutes items in place (Fisher-Yates).
func Shuffle[T any](items []T, r *Rand) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.Int(0, i)
		items[i], items[j] = items[j], items[i]
	}
}

// PickElement returns a pointer to a random element of items,
// or nil when items is empty.
func PickElement[T any](items []T, r *Rand) *T {
	if len(items) == 0 {
		return nil
	}
	return &items[r.Int(0, len(items)-1)]
}

// ConstrainedSum partitions total into parts positive integers that sum to
// total. Values are produced by sequential uniform draws with a remainder
// clamp (each draw leaves at least 1 for every remaining part), then
// shuffled so the order carries no bias from the draw sequence.
// When total < parts the part count shrinks so every value stays positive.
func ConstrainedSum(parts, total int, r *Rand) []int {
	if parts <= 0 || total <= 0 {
		return nil
	}
	if total < parts {
		parts = total
	}

	values := make([]int, 0, parts)
	remaining := total
	for i := 0; i < parts-1; i++ {
		rest := parts - 1 - i
		value := r.Int(1, remaining-rest)
		values = append(values, value)
		remaining -= value
	}
	values = append(values, remaining)

	Shuffle(values, r)
	return values
}
