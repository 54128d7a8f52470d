package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"brandhub/domain"
	"brandhub/domain/brand"
	"brandhub/logging"
)

// RedisBrandCache 基于 Redis 的品牌读缓存，实现 brand.ICache
//
// 多实例部署的共享缓存：任一实例成功变更后 Invalidate，
// 其它实例的下一次读取自然回源。缓存故障一律按 miss 处理，
// 只记日志，不影响请求结果。
type RedisBrandCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    logging.Logger
}

// NewRedisBrandCache 创建 Redis 品牌缓存
func NewRedisBrandCache(client *redis.Client, ttl time.Duration) *RedisBrandCache {
	return &RedisBrandCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: "brand:",
		logger:    logging.GetLogger(),
	}
}

// brandEnvelope Redis 序列化载体
//
// Brand 的 Version 是不可变值对象、不直接参与 JSON 序列化，
// 这里以整数值落盘，读取时经 Reconstitute 还原并重新校验。
type brandEnvelope struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Status      int              `json:"status"`
	Version     int64            `json:"version"`
	SyncRef     string           `json:"sync_ref"`
	Detail      brand.DetailInfo `json:"detail_info"`
	CreatedAt   time.Time        `json:"created_at"`
	CreatedBy   string           `json:"created_by"`
	UpdatedAt   time.Time        `json:"updated_at"`
	UpdatedBy   string           `json:"updated_by"`
}

func (c *RedisBrandCache) Get(ctx context.Context, id int64) (*brand.Brand, bool) {
	payload, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn(ctx, "redis cache get failed", logging.Int64("brand_id", id), logging.Error(err))
		return nil, false
	}

	var env brandEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		c.logger.Warn(ctx, "redis cache payload corrupt", logging.Int64("brand_id", id), logging.Error(err))
		return nil, false
	}
	status, ok := domain.StatusFromCode(env.Status)
	if !ok {
		return nil, false
	}
	b, err := brand.Reconstitute(env.ID, env.Name, env.Description, status, env.SyncRef, env.Detail, env.Version)
	if err != nil {
		return nil, false
	}
	b.CreatedAt = env.CreatedAt
	b.CreatedBy = env.CreatedBy
	b.UpdatedAt = env.UpdatedAt
	b.UpdatedBy = env.UpdatedBy
	return b, true
}

func (c *RedisBrandCache) Set(ctx context.Context, b *brand.Brand) {
	if b == nil || b.ID == 0 {
		return
	}
	env := brandEnvelope{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Status:      b.Status.Code(),
		Version:     b.Version.Value(),
		SyncRef:     b.SyncRef,
		Detail:      b.Detail,
		CreatedAt:   b.CreatedAt,
		CreatedBy:   b.CreatedBy,
		UpdatedAt:   b.UpdatedAt,
		UpdatedBy:   b.UpdatedBy,
	}
	payload, err := json.Marshal(env)
	if err != nil {
		c.logger.Warn(ctx, "redis cache marshal failed", logging.Int64("brand_id", b.ID), logging.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(b.ID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn(ctx, "redis cache set failed", logging.Int64("brand_id", b.ID), logging.Error(err))
	}
}

func (c *RedisBrandCache) Invalidate(ctx context.Context, id int64) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.logger.Warn(ctx, "redis cache invalidate failed", logging.Int64("brand_id", id), logging.Error(err))
	}
}

func (c *RedisBrandCache) key(id int64) string {
	return fmt.Sprintf("%s%d", c.keyPrefix, id)
}
