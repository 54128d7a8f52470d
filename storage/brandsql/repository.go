// Package brandsql 基于 SQL 的品牌仓储实现——乐观并发控制的落地层
//
// 并发正确性完全委托给存储引擎对单条条件写语句的原子性：
// 应用不持有任何锁/租约，同一行上的 N 个并发写者中恰有一个成功，
// 其余确定性地观察到版本冲突（先提交者胜，不保证公平性）。
package brandsql

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"brandhub/domain"
	"brandhub/domain/brand"
	"brandhub/errors"
	"brandhub/logging"
	"brandhub/storage/db"
)

// Repository 实现 brand.IRepository
type Repository struct {
	db     db.IDatabase
	logger logging.Logger
}

// NewRepository 创建 SQL 品牌仓储
func NewRepository(database db.IDatabase) *Repository {
	return &Repository{db: database, logger: logging.GetLogger()}
}

// Create 插入新实体并回填 ID，审计记录随同一事务落盘
func (r *Repository) Create(ctx context.Context, b *brand.Brand) error {
	if err := b.Validate(); err != nil {
		return err
	}
	detailJSON, err := json.Marshal(b.Detail)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeInternal, "序列化变更轨迹失败")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeDatabase, "开启事务失败")
	}
	defer tx.Rollback()

	res, err := tx.Exec(ctx,
		`INSERT INTO brands (name, description, status, version, sync_ref, detail_info, created_at, created_by, updated_at, updated_by)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Name, b.Description, b.Status.Code(), b.Version.Value(), b.SyncRef, string(detailJSON),
		b.CreatedAt, b.CreatedBy, b.UpdatedAt, b.UpdatedBy)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeDatabase, "保存记录失败")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeDatabase, "获取自增主键失败")
	}

	status := b.Status.Code()
	if err := r.insertAudit(ctx, tx, brand.AuditRecord{
		ID:        uuid.NewString(),
		BrandID:   id,
		Action:    brand.ActionCreate,
		Actor:     b.CreatedBy,
		NewStatus: &status,
		Version:   b.Version.Value(),
		Timestamp: b.CreatedAt,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapError(err, errors.ErrCodeDatabase, "提交事务失败")
	}
	b.ID = id
	return nil
}

// FindByID 按 ID 查询
func (r *Repository) FindByID(ctx context.Context, id int64) (*brand.Brand, bool, error) {
	return r.findByID(ctx, r.db, id)
}

// Update 原子条件更新
//
// 执行顺序（全部在一个事务内）：
//  1. 读当前行，仅用于锁定状态预检与流转守卫（不用于版本比较）
//  2. 当前状态已锁定 → 无条件 StatusLocked，不发起版本检查
//  3. 目标状态流转不合法 → InvalidStatusTransition
//  4. 单条条件写：... WHERE id = ? AND version = ?
//  5. 影响行数为 0 时，仅在该失败路径上补一次存在性检查，
//     区分 NotFound 与 VersionConflict
//  6. 审计记录与 detail_info 追加随同一事务提交
func (r *Repository) Update(ctx context.Context, id int64, expected domain.Version, change brand.Change, by string) (*brand.Brand, error) {
	if change.IsEmpty() {
		return nil, errors.NewValidationError("更新请求没有任何待变更字段")
	}
	action := brand.ActionUpdate
	if change.Status != nil {
		action = brand.ActionTransition
	}
	return r.mutate(ctx, id, expected, change, by, action)
}

// Delete 软删除：以 target = Deleted 的条件更新实现
//
// 预检即流转守卫：当前状态必须允许流转到 Deleted
// （Draft/Inactive/Maintenance 允许；Active 必须先完结或驳回；
// 锁定状态无条件拒绝）。
func (r *Repository) Delete(ctx context.Context, id int64, expected domain.Version, by string) (*brand.Brand, error) {
	target := domain.StatusDeleted
	return r.mutate(ctx, id, expected, brand.Change{Status: &target}, by, brand.ActionDelete)
}

func (r *Repository) mutate(ctx context.Context, id int64, expected domain.Version, change brand.Change, by string, action string) (*brand.Brand, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "开启事务失败")
	}
	defer tx.Rollback()

	current, found, err := r.findByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.NewNotFoundError(id)
	}

	// 锁定状态：任何版本号都不能使变更合法，连版本检查都不发起
	if current.Status.IsLocked() {
		return nil, domain.NewStatusLockedError(id, current.Status)
	}
	if change.Status != nil && !current.Status.CanTransitionTo(*change.Status) {
		return nil, domain.NewInvalidTransitionError(current.Status, *change.Status)
	}

	// LockPolicy 豁免路径：以当前持久化版本号代入条件写。
	// 豁免的只是客户端提交版本号的义务，WHERE 子句的比较不豁免。
	if expected.IsZero() {
		expected = current.Version
	}

	now := time.Now()
	next := applyChange(current, change)
	next.SetUpdatedInfo(by, now)

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
	detail := current.Detail.Append(entry)
	detailJSON, err := json.Marshal(detail)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeInternal, "序列化变更轨迹失败")
	}

	res, err := tx.Exec(ctx,
		`UPDATE brands
            SET name = ?, description = ?, sync_ref = ?, status = ?, detail_info = ?,
                updated_at = ?, updated_by = ?, version = version + 1
          WHERE id = ? AND version = ?`,
		next.Name, next.Description, next.SyncRef, next.Status.Code(), string(detailJSON),
		now, by, id, expected.Value())
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "更新记录失败")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "读取影响行数失败")
	}

	if affected == 0 {
		// 只在零影响行路径上消解歧义：行不存在 → NotFound；
		// 存在但版本不符 → VersionConflict。成功路径绝不附加此查询。
		var stored int64
		err := tx.QueryRow(ctx, `SELECT version FROM brands WHERE id = ?`, id).Scan(&stored)
		if err == sql.ErrNoRows {
			return nil, domain.NewNotFoundError(id)
		}
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrCodeDatabase, "查询当前版本失败")
		}
		return nil, domain.NewVersionConflictError(id, expected.Value(), stored)
	}

	newVersion := expected.Next()
	if err := r.insertAudit(ctx, tx, brand.AuditRecord{
		ID:          entry.ID,
		BrandID:     id,
		Action:      action,
		Actor:       by,
		PriorStatus: &priorCode,
		NewStatus:   &newCode,
		Version:     newVersion.Value(),
		Timestamp:   now,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "提交事务失败")
	}

	next.Version = newVersion
	next.Detail = detail
	return next, nil
}

// List 分页查询（不含已删除实体）
func (r *Repository) List(ctx context.Context, offset, limit int) ([]*brand.Brand, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, description, status, version, sync_ref, detail_info, created_at, created_by, updated_at, updated_by
           FROM brands WHERE status != ? ORDER BY id LIMIT ? OFFSET ?`,
		domain.StatusDeleted.Code(), limit, offset)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "查询记录失败")
	}
	defer rows.Close()

	var result []*brand.Brand
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "遍历结果集失败")
	}
	return result, nil
}

// Count 统计总数（不含已删除实体）
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM brands WHERE status != ?`, domain.StatusDeleted.Code()).Scan(&count)
	if err != nil {
		return 0, errors.WrapError(err, errors.ErrCodeDatabase, "统计记录失败")
	}
	return count, nil
}

// AuditTrail 按实体维度查询审计轨迹
func (r *Repository) AuditTrail(ctx context.Context, id int64, offset, limit int) ([]brand.AuditRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, brand_id, action, actor, prior_status, new_status, version, timestamp
           FROM brand_audits WHERE brand_id = ? ORDER BY timestamp, version LIMIT ? OFFSET ?`,
		id, limit, offset)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "查询审计记录失败")
	}
	defer rows.Close()

	var records []brand.AuditRecord
	for rows.Next() {
		var (
			rec         brand.AuditRecord
			prior, next sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.BrandID, &rec.Action, &rec.Actor, &prior, &next, &rec.Version, &rec.Timestamp); err != nil {
			return nil, errors.WrapError(err, errors.ErrCodeDatabase, "扫描审计记录失败")
		}
		if prior.Valid {
			v := int(prior.Int64)
			rec.PriorStatus = &v
		}
		if next.Valid {
			v := int(next.Int64)
			rec.NewStatus = &v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "遍历审计结果集失败")
	}
	return records, nil
}

func (r *Repository) findByID(ctx context.Context, q db.IDatabase, id int64) (*brand.Brand, bool, error) {
	row := q.QueryRow(ctx,
		`SELECT id, name, description, status, version, sync_ref, detail_info, created_at, created_by, updated_at, updated_by
           FROM brands WHERE id = ?`, id)
	b, err := scanBrand(row)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *Repository) insertAudit(ctx context.Context, tx db.IDatabase, rec brand.AuditRecord) error {
	var prior, next any
	if rec.PriorStatus != nil {
		prior = *rec.PriorStatus
	}
	if rec.NewStatus != nil {
		next = *rec.NewStatus
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO brand_audits (id, brand_id, action, actor, prior_status, new_status, version, timestamp)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.BrandID, rec.Action, rec.Actor, prior, next, rec.Version, rec.Timestamp)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeDatabase, "保存审计记录失败")
	}
	return nil
}

// scanner 统一 IRow 与 IRows 的 Scan 入口
type scanner interface {
	Scan(dest ...any) error
}

func scanBrand(row scanner) (*brand.Brand, error) {
	var (
		id                   int64
		name, description    string
		statusCode           int
		version              int64
		syncRef, detailJSON  string
		createdAt, updatedAt time.Time
		createdBy, updatedBy string
	)
	if err := row.Scan(&id, &name, &description, &statusCode, &version, &syncRef, &detailJSON,
		&createdAt, &createdBy, &updatedAt, &updatedBy); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "扫描记录失败")
	}

	status, ok := domain.StatusFromCode(statusCode)
	if !ok {
		return nil, errors.NewError(errors.ErrCodeDatabase, "存储中的状态编码非法")
	}
	var detail brand.DetailInfo
	if detailJSON != "" {
		if err := json.Unmarshal([]byte(detailJSON), &detail); err != nil {
			return nil, errors.WrapError(err, errors.ErrCodeDatabase, "反序列化变更轨迹失败")
		}
	}

	b, err := brand.Reconstitute(id, name, description, status, syncRef, detail, version)
	if err != nil {
		return nil, err
	}
	b.CreatedAt = createdAt
	b.CreatedBy = createdBy
	b.UpdatedAt = updatedAt
	b.UpdatedBy = updatedBy
	return b, nil
}

// applyChange 把待变更字段套用到当前实体的副本上
func applyChange(current *brand.Brand, change brand.Change) *brand.Brand {
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
	return &next
}
