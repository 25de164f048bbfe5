package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-service/models"
)

func TestProductCache(t *testing.T) {
	c, err := NewProductCache(2)
	require.NoError(t, err)

	_, ok := c.Get(1)
	assert.False(t, ok)

	c.Put(1, models.ProductDTO{ID: 1, Name: "A"})
	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "A", got.Name)

	c.Invalidate(1)
	_, ok = c.Get(1)
	assert.False(t, ok)
}

func TestProductCache_InvalidateAll(t *testing.T) {
	c, err := NewProductCache(4)
	require.NoError(t, err)

	c.Put(1, models.ProductDTO{ID: 1})
	c.Put(2, models.ProductDTO{ID: 2})
	c.InvalidateAll()

	_, ok := c.Get(1)
	assert.False(t, ok)
	_, ok = c.Get(2)
	assert.False(t, ok)
}

func TestProductCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewProductCache(2)
	require.NoError(t, err)

	c.Put(1, models.ProductDTO{ID: 1})
	c.Put(2, models.ProductDTO{ID: 2})
	c.Put(3, models.ProductDTO{ID: 3})

	_, ok := c.Get(1)
	assert.False(t, ok)
	_, ok = c.Get(3)
	assert.True(t, ok)
}
