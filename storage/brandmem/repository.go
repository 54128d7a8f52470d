// Package brandmem 品牌仓储的内存实现
//
// 与 brandsql 遵守完全相同的条件写语义（三种确定性结果、
// 锁定状态预检、零影响行路径消歧），以互斥锁模拟存储引擎
// 对单条语句的原子性。用于单进程部署、示例与测试。
package brandmem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"brandhub/domain"
	"brandhub/domain/brand"
)

// Repository 实现 brand.IRepository
type Repository struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*brand.Brand
	audits []brand.AuditRecord
}

// NewRepository 创建内存仓储
func NewRepository() *Repository {
	return &Repository{
		nextID: 1,
		rows:   make(map[int64]*brand.Brand),
	}
}

// Create 插入新实体并回填 ID
func (r *Repository) Create(ctx context.Context, b *brand.Brand) error {
	if err := b.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	b.ID = id

	stored := *b
	r.rows[id] = &stored

	status := b.Status.Code()
	r.audits = append(r.audits, brand.AuditRecord{
		ID:        uuid.NewString(),
		BrandID:   id,
		Action:    brand.ActionCreate,
		Actor:     b.CreatedBy,
		NewStatus: &status,
		Version:   b.Version.Value(),
		Timestamp: b.CreatedAt,
	})
	return nil
}

// FindByID 按 ID 查询
func (r *Repository) FindByID(ctx context.Context, id int64) (*brand.Brand, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.rows[id]
	if !ok {
		return nil, false, nil
	}
	copied := *stored
	return &copied, true, nil
}

// Update 原子条件更新（持锁期间完成检查与写入，模拟单语句原子性）
func (r *Repository) Update(ctx context.Context, id int64, expected domain.Version, change brand.Change, by string) (*brand.Brand, error) {
	action := brand.ActionUpdate
	if change.Status != nil {
		action = brand.ActionTransition
	}
	return r.mutate(ctx, id, expected, change, by, action)
}

// Delete 软删除：以 target = Deleted 的条件更新实现
func (r *Repository) Delete(ctx context.Context, id int64, expected domain.Version, by string) (*brand.Brand, error) {
	target := domain.StatusDeleted
	return r.mutate(ctx, id, expected, brand.Change{Status: &target}, by, brand.ActionDelete)
}

func (r *Repository) mutate(ctx context.Context, id int64, expected domain.Version, change brand.Change, by string, action string) (*brand.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.rows[id]
	if !ok {
		return nil, domain.NewNotFoundError(id)
	}
	if current.Status.IsLocked() {
		return nil, domain.NewStatusLockedError(id, current.Status)
	}
	if change.Status != nil && !current.Status.CanTransitionTo(*change.Status) {
		return nil, domain.NewInvalidTransitionError(current.Status, *change.Status)
	}

	if expected.IsZero() {
		expected = current.Version
	}
	if !current.Version.Equals(expected) {
		return nil, domain.NewVersionConflictError(id, expected.Value(), current.Version.Value())
	}

	now := time.Now()
	next := *current
	if change.Name != nil {
		next.Name = *change.Name
	}
	if change.Description != nil {
		next.Description = *change.Description
	}
	if change.SyncRef != nil {
		next.SyncRef = *change.SyncRef
	}
	if change.Status != nil {
		next.Status = *change.Status
	}
	next.SetUpdatedInfo(by, now)
	next.Version = expected.Next()

	priorCode := current.Status.Code()
	newCode := next.Status.Code()
	entry := brand.ChangeEntry{
		ID:          uuid.NewString(),
		Actor:       by,
		Action:      action,
		PriorStatus: &priorCode,
		NewStatus:   &newCode,
		At:          now,
	}
	next.Detail = current.Detail.Append(entry)

	stored := next
	r.rows[id] = &stored
	r.audits = append(r.audits, brand.AuditRecord{
		ID:          entry.ID,
		BrandID:     id,
		Action:      action,
		Actor:       by,
		PriorStatus: &priorCode,
		NewStatus:   &newCode,
		Version:     next.Version.Value(),
		Timestamp:   now,
	})

	result := next
	return &result, nil
}

// List 分页查询（不含已删除实体）
func (r *Repository) List(ctx context.Context, offset, limit int) ([]*brand.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0, len(r.rows))
	for id, b := range r.rows {
		if b.Status != domain.StatusDeleted {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if offset >= len(ids) {
		return nil, nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}

	result := make([]*brand.Brand, 0, end-offset)
	for _, id := range ids[offset:end] {
		copied := *r.rows[id]
		result = append(result, &copied)
	}
	return result, nil
}

// Count 统计总数（不含已删除实体）
func (r *Repository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.rows {
		if b.Status != domain.StatusDeleted {
			n++
		}
	}
	return n, nil
}

// AuditTrail 按实体维度查询审计轨迹
func (r *Repository) AuditTrail(ctx context.Context, id int64, offset, limit int) ([]brand.AuditRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []brand.AuditRecord
	for _, rec := range r.audits {
		if rec.BrandID == id {
			matched = append(matched, rec)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}
