package recommend

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectDefaultTypes(t *testing.T) {
	newRng := func(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

	t.Run("high rating bar falls back to generic restaurant", func(t *testing.T) {
		got := SelectDefaultTypes(4.8, 3000, 0, newRng(1))
		assert.Equal(t, []string{"restaurant"}, got)
	})

	t.Run("rating of exactly 4.7 does not trigger the fallback", func(t *testing.T) {
		got := SelectDefaultTypes(4.7, 3000, 0, newRng(1))
		assert.Len(t, got, 2)
	})

	t.Run("500m radius falls back to generic restaurant", func(t *testing.T) {
		got := SelectDefaultTypes(3.5, 500, 0, newRng(1))
		assert.Equal(t, []string{"restaurant"}, got)
	})

	t.Run("moderately frequent visitor gets a diverse bundle", func(t *testing.T) {
		for seed := int64(0); seed < 100; seed++ {
			got := SelectDefaultTypes(3.5, 3000, 10, newRng(seed))
			assert.Contains(t, diverseSets, got, "seed %d", seed)
		}
	})

	t.Run("bundle boundaries are exclusive", func(t *testing.T) {
		for _, visits := range []int{0, 5, 20, 100} {
			got := SelectDefaultTypes(3.5, 3000, visits, newRng(7))
			require.Len(t, got, 2, "visits=%d", visits)
		}
	})

	t.Run("default pairing mixes one regional cuisine with one food style", func(t *testing.T) {
		regional := map[string]struct{}{}
		for _, c := range typeCatalog[:regionalTypeCount] {
			regional[c] = struct{}{}
		}
		for seed := int64(0); seed < 100; seed++ {
			got := SelectDefaultTypes(3.5, 3000, 0, newRng(seed))
			require.Len(t, got, 2, "seed %d", seed)
			_, firstRegional := regional[got[0]]
			_, secondRegional := regional[got[1]]
			assert.True(t, firstRegional, "seed %d: %q should be a regional cuisine", seed, got[0])
			assert.False(t, secondRegional, "seed %d: %q should be a food style", seed, got[1])
		}
	})

	t.Run("same seed reproduces the same draw", func(t *testing.T) {
		a := SelectDefaultTypes(3.5, 3000, 0, newRng(42))
		b := SelectDefaultTypes(3.5, 3000, 0, newRng(42))
		assert.Equal(t, a, b)
	})

	t.Run("returned bundle is a copy", func(t *testing.T) {
		got := SelectDefaultTypes(3.5, 3000, 10, newRng(3))
		require.NotEmpty(t, got)
		got[0] = "mutated"
		for _, set := range diverseSets {
			assert.NotContains(t, set, "mutated")
		}
	})
}
