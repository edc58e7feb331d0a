package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRand_Determinism(t *testing.T) {
	a := New(7)
	b := New(7)

	for i := 0; i < 1000; i++ {
		assert.Equal(t, a.Int(0, 1000), b.Int(0, 1000))
	}
}

func TestRand_IntBounds(t *testing.T) {
	r := New(1)

	for i := 0; i < 1000; i++ {
		v := r.Int(3, 9)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 9)
	}

	// Degenerate range
	assert.Equal(t, 5, r.Int(5, 5))

	// Reversed bounds are swapped
	v := r.Int(9, 3)
	assert.GreaterOrEqual(t, v, 3)
	assert.LessOrEqual(t, v, 9)
}

func TestRand_Chance(t *testing.T) {
	r := New(42)

	assert.True(t, r.Chance(100))
	assert.True(t, r.Chance(150))
	assert.False(t, r.Chance(0))
	assert.False(t, r.Chance(-5))

	hits := 0
	const rolls = 10000
	for i := 0; i < rolls; i++ {
		if r.Chance(50) {
			hits++
		}
	}
	// Loose band, we only care the roll isn't degenerate
	assert.Greater(t, hits, rolls*4/10)
	assert.Less(t, hits, rolls*6/10)
}

func TestRand_PickValue(t *testing.T) {
	r := New(3)

	v := r.PickValue(RandomValue{Min: 300, Max: 300})
	assert.Equal(t, 300, v)

	v = r.PickValue(RandomValue{Min: 600, Max: 100})
	assert.GreaterOrEqual(t, v, 100)
	assert.LessOrEqual(t, v, 600)
}

func TestShuffle_Deterministic(t *testing.T) {
	first := []int{1, 2, 3, 4, 5, 6, 7, 8}
	second := []int{1, 2, 3, 4, 5, 6, 7, 8}

	Shuffle(first, New(11))
	Shuffle(second, New(11))

	assert.Equal(t, first, second)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, first)
}

func TestPickElement(t *testing.T) {
	r := New(5)

	assert.Nil(t, PickElement[int](nil, r))

	items := []string{"a", "b", "c"}
	picked := PickElement(items, r)
	require.NotNil(t, picked)
	assert.Contains(t, items, *picked)
}

func TestConstrainedSum(t *testing.T) {
	r := New(9)

	t.Run("sums to total with positive parts", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			values := ConstrainedSum(6, 500, r)
			require.Len(t, values, 6)

			sum := 0
			for _, v := range values {
				assert.Greater(t, v, 0)
				sum += v
			}
			assert.Equal(t, 500, sum)
		}
	})

	t.Run("total smaller than parts shrinks part count", func(t *testing.T) {
		values := ConstrainedSum(6, 3, r)
		require.Len(t, values, 3)
		for _, v := range values {
			assert.Equal(t, 1, v)
		}
	})

	t.Run("degenerate inputs", func(t *testing.T) {
		assert.Nil(t, ConstrainedSum(0, 100, r))
		assert.Nil(t, ConstrainedSum(3, 0, r))
	})

	t.Run("single part takes everything", func(t *testing.T) {
		values := ConstrainedSum(1, 42, r)
		assert.Equal(t, []int{42}, values)
	})
}
