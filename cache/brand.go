package cache

import (
	"context"
	"time"

	"brandhub/domain/brand"
)

// BrandCache 进程内品牌读缓存，实现 brand.ICache
//
// 单实例部署使用；多实例部署应使用 RedisBrandCache，
// 否则一个实例的变更无法使其它实例的本地缓存失效。
type BrandCache struct {
	inner *Cache[int64, *brand.Brand]
}

// NewBrandCache 创建进程内品牌缓存
func NewBrandCache(maxSize int, ttl time.Duration) *BrandCache {
	return &BrandCache{
		inner: New[int64, *brand.Brand](Config{
			Name:    "brand",
			MaxSize: maxSize,
			TTL:     ttl,
		}),
	}
}

func (c *BrandCache) Get(ctx context.Context, id int64) (*brand.Brand, bool) {
	return c.inner.Get(id)
}

func (c *BrandCache) Set(ctx context.Context, b *brand.Brand) {
	if b == nil || b.ID == 0 {
		return
	}
	c.inner.Set(b.ID, b)
}

func (c *BrandCache) Invalidate(ctx context.Context, id int64) {
	c.inner.Delete(id)
}

// Stats 返回底层缓存统计
func (c *BrandCache) Stats() Stats {
	return c.inner.GetStats()
}
