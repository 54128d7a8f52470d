package domain

import "time"

// IObject 最基础的对象接口，所有实体的根接口
type IObject[T comparable] interface {
	// GetID 返回对象的唯一标识
	GetID() T
}

// IEntity 实体接口，在 IObject 基础上增加乐观锁版本控制
type IEntity[T comparable] interface {
	IObject[T]

	// GetVersion 返回实体的乐观锁版本号
	GetVersion() Version
}

// IAuditable 审计追踪接口
type IAuditable interface {
	// 创建信息
	GetCreatedAt() time.Time
	GetCreatedBy() string

	// 最后修改信息
	GetUpdatedAt() time.Time
	GetUpdatedBy() string

	// 设置审计信息（由基础设施层调用）
	SetCreatedInfo(by string, at time.Time)
	SetUpdatedInfo(by string, at time.Time)
}

// IStatusful 带生命周期状态的实体接口
type IStatusful interface {
	// GetStatus 返回当前生命周期状态
	GetStatus() Status

	// RequestTransition 请求流转到目标状态（仅内存预检，见方法实现注释）
	RequestTransition(target Status) error
}

// IValidatable 可验证接口
type IValidatable interface {
	// Validate 验证实体状态是否有效
	Validate() error
}

// EntityFields 通用实体字段（用于嵌入），默认使用 int64 作为主键类型
//
// ID 为 0 表示实体尚未持久化；首次插入成功后由仓储回填，此后不可变。
type EntityFields struct {
	ID        int64     `json:"id"`
	Version   Version   `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by"`
}

// GetID 实现 IObject 接口
func (e *EntityFields) GetID() int64 { return e.ID }

// GetVersion 实现 IEntity 接口
func (e *EntityFields) GetVersion() Version { return e.Version }

// IsPersisted 判断实体是否已经持久化过
func (e *EntityFields) IsPersisted() bool { return e.ID != 0 }

func (e *EntityFields) GetCreatedAt() time.Time { return e.CreatedAt }
func (e *EntityFields) GetCreatedBy() string    { return e.CreatedBy }
func (e *EntityFields) GetUpdatedAt() time.Time { return e.UpdatedAt }
func (e *EntityFields) GetUpdatedBy() string    { return e.UpdatedBy }

func (e *EntityFields) SetCreatedInfo(by string, at time.Time) {
	e.CreatedBy = by
	e.CreatedAt = at
}

// SetUpdatedInfo 更新修改审计信息
//
// 注意：不在此处递增版本号。版本号只能由存储层的条件写递增，
// 成功后以返回的新 Version 整体替换，避免内存侧自增造成
// “读-比较-写”竞态的假象。
func (e *EntityFields) SetUpdatedInfo(by string, at time.Time) {
	e.UpdatedBy = by
	e.UpdatedAt = at
}
