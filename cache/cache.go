// Package cache provides the product lookup cache. Callers invalidate
// explicitly on every write path so a read never observes a value staler
// than the last completed write.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"ecommerce-service/models"
)

// ProductCache is keyed by product id.
type ProductCache interface {
	Get(id int64) (models.ProductDTO, bool)
	Put(id int64, p models.ProductDTO)
	Invalidate(id int64)
	InvalidateAll()
}

type lruProductCache struct {
	c *lru.Cache[int64, models.ProductDTO]
}

// NewProductCache returns an LRU-bounded cache with the given capacity.
func NewProductCache(size int) (ProductCache, error) {
	c, err := lru.New[int64, models.ProductDTO](size)
	if err != nil {
		return nil, err
	}
	return &lruProductCache{c: c}, nil
}

func (l *lruProductCache) Get(id int64) (models.ProductDTO, bool) {
	return l.c.Get(id)
}

func (l *lruProductCache) Put(id int64, p models.ProductDTO) {
	l.c.Add(id, p)
}

func (l *lruProductCache) Invalidate(id int64) {
	l.c.Remove(id)
}

func (l *lruProductCache) InvalidateAll() {
	l.c.Purge()
}
