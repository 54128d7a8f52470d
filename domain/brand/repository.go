package brand

import (
	"context"
	"time"

	"brandhub/domain"
)

// Change 更新命令：携带待变更字段，nil 表示该字段保持不变
//
// 与 id、expectedVersion 一起构成一次完整的更新请求
// `(id, fields…, expectedVersion)`。
type Change struct {
	Name        *string
	Description *string
	SyncRef     *string
	Status      *domain.Status
}

// IsEmpty 判断命令是否没有任何待变更字段
func (c Change) IsEmpty() bool {
	return c.Name == nil && c.Description == nil && c.SyncRef == nil && c.Status == nil
}

// IRepository 品牌仓储接口——并发控制核心
//
// Update/Delete 语义（原子条件写）：
//
//	UPDATE brands SET <fields>, version = version + 1
//	WHERE id = :id AND version = :expectedVersion
//
// 三种确定性结果，有且仅有其一：
//  1. 影响行数 = 1：成功，返回 version = expectedVersion.Next() 的实体
//  2. 影响行数 = 0 且 id 对应行存在：VersionConflict
//  3. 影响行数 = 0 且 id 对应行不存在：NotFound
//
// 结果 2/3 的歧义消解只在零影响行路径上做一次补充存在性检查，
// 成功路径绝不附加额外查询。
//
// 写入前仓储必须在同一事务内校验目标状态流转；当前持久化状态
// 已锁定时无条件返回 StatusLocked（连版本检查都不会发起）。
//
// expected 传入零值 Version 表示调用方被 LockPolicy 豁免，
// 仓储在事务内以当前持久化版本号代入条件写，CAS 机制本身不豁免。
//
// 禁止“读当前版本 → 应用层比较 → 无条件写”两步模式：
// 该模式在并发写者下存在检查与使用之间的时间窗口。
type IRepository interface {
	// Create 插入新实体，回填 ID
	Create(ctx context.Context, b *Brand) error

	// FindByID 按 ID 查询，第二个返回值表示是否存在
	FindByID(ctx context.Context, id int64) (*Brand, bool, error)

	// Update 原子条件更新
	Update(ctx context.Context, id int64, expected domain.Version, change Change, by string) (*Brand, error)

	// Delete 软删除：以 target = Deleted 的 Update 实现，同样的原子语义
	Delete(ctx context.Context, id int64, expected domain.Version, by string) (*Brand, error)

	// List 分页查询（默认不含已删除实体）
	List(ctx context.Context, offset, limit int) ([]*Brand, error)

	// Count 统计总数（默认不含已删除实体）
	Count(ctx context.Context) (int64, error)

	// AuditTrail 按实体维度查询审计轨迹
	AuditTrail(ctx context.Context, id int64, offset, limit int) ([]AuditRecord, error)
}

// AuditRecord 独立审计表中的一条记录
//
// 与聚合内嵌的 DetailInfo 互补：DetailInfo 随行存储、随实体加载；
// 审计表支撑跨实体的轨迹查询。两者都在条件写的同一事务内落盘。
type AuditRecord struct {
	ID          string    `json:"id"`
	BrandID     int64     `json:"brand_id"`
	Action      string    `json:"action"`
	Actor       string    `json:"actor"`
	PriorStatus *int      `json:"prior_status,omitempty"`
	NewStatus   *int      `json:"new_status,omitempty"`
	Version     int64     `json:"version"`
	Timestamp   time.Time `json:"timestamp"`
}
