package car

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	c := Info{CarType: "DE6", CarID: "L-054"}

	assert.Equal(t, "DE6", c.Type())
	assert.Equal(t, "L-054", c.ID())
}

func TestSkinCache(t *testing.T) {
	calls := 0
	provider := SkinFunc(func(id string) (string, bool) {
		calls++
		if id == "L-054" {
			return "weathered", true
		}
		return "", false
	})

	cache := NewSkinCache(provider)

	t.Run("caches positive lookups", func(t *testing.T) {
		skin, ok := cache.Lookup("L-054")
		assert.True(t, ok)
		assert.Equal(t, "weathered", skin)

		_, _ = cache.Lookup("L-054")
		assert.Equal(t, 1, calls, "second lookup should hit the cache")
	})

	t.Run("caches negative lookups", func(t *testing.T) {
		before := calls
		_, ok := cache.Lookup("unknown")
		assert.False(t, ok)
		_, _ = cache.Lookup("unknown")
		assert.Equal(t, before+1, calls, "negative result should be cached")
	})

	t.Run("invalidate refetches one entry", func(t *testing.T) {
		before := calls
		cache.Invalidate("L-054")
		_, _ = cache.Lookup("L-054")
		assert.Equal(t, before+1, calls)
	})

	t.Run("reset refetches everything", func(t *testing.T) {
		before := calls
		cache.Reset()
		_, _ = cache.Lookup("L-054")
		_, _ = cache.Lookup("unknown")
		assert.Equal(t, before+2, calls)
	})
}
