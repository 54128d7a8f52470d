package brand

import (
	"context"
	"time"
)

// ChangeEvent 实体变更通知
//
// 在每次成功持久化的变更之后发布，尽力而为：
// 发布失败只记日志，不影响请求结果。
type ChangeEvent struct {
	BrandID     int64     `json:"brand_id"`
	Action      string    `json:"action"`
	Actor       string    `json:"actor"`
	PriorStatus *int      `json:"prior_status,omitempty"`
	NewStatus   *int      `json:"new_status,omitempty"`
	Version     int64     `json:"version"`
	Timestamp   time.Time `json:"timestamp"`
}

// INotifier 变更通知发布接口
// 实现见 notify 包（内存扇出 / NATS）
type INotifier interface {
	BrandChanged(ctx context.Context, evt ChangeEvent) error
}

// ICache 品牌读缓存接口
// 实现见 cache 包（进程内 LRU / Redis）
type ICache interface {
	Get(ctx context.Context, id int64) (*Brand, bool)
	Set(ctx context.Context, b *Brand)
	Invalidate(ctx context.Context, id int64)
}
