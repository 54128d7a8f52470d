// Package brand 品牌聚合：带生命周期状态与乐观锁版本的业务实体
//
// Brand 是本项目的规范业务实体。后续实体复用完全相同的模式：
// EntityFields + Status + Version + DetailInfo 组合，仓储实现
// 以同样的条件写语义持久化。
package brand

import (
	"time"

	"brandhub/domain"
	"brandhub/validation"
)

// Brand 品牌聚合根
//
// 不变量：
//   - ID 为 0 当且仅当实体从未持久化
//   - Version >= 1 恒成立
//   - 任何状态变更必须满足 current.CanTransitionTo(target)
//   - “删除”是向锁定状态 Deleted 的流转（软删除），不做物理删行
type Brand struct {
	domain.EntityFields

	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      domain.Status `json:"-"`
	SyncRef     string        `json:"sync_ref,omitempty"`
	Detail      DetailInfo    `json:"detail_info"`
}

// Create 创建聚合的唯一合法工厂
//
// 初始状态必须属于可创建集合（Draft/Active），否则返回
// InvalidStatusOnCreation；结果 ID=0、Version=1。
func Create(name, description string, initial domain.Status, by string) (*Brand, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !initial.IsCreatable() {
		return nil, domain.NewInvalidStatusOnCreationError(initial)
	}

	now := time.Now()
	b := &Brand{
		Name:        name,
		Description: description,
		Status:      initial,
	}
	b.Version = domain.NewVersion()
	b.SetCreatedInfo(by, now)
	b.SetUpdatedInfo(by, now)
	b.Detail = b.Detail.Append(NewChangeEntry(by, ActionCreate, nil, &initial, now))
	return b, nil
}

// Reconstitute 从存储数据重建聚合（可信加载，不做流转守卫校验）
//
// storedVersion < 1 视为存储损坏，返回 InvalidVersion。
func Reconstitute(id int64, name, description string, status domain.Status, syncRef string, detail DetailInfo, storedVersion int64) (*Brand, error) {
	v, err := domain.VersionFromStored(storedVersion)
	if err != nil {
		return nil, err
	}
	b := &Brand{
		Name:        name,
		Description: description,
		Status:      status,
		SyncRef:     syncRef,
		Detail:      detail,
	}
	b.ID = id
	b.Version = v
	return b, nil
}

// GetStatus 实现 domain.IStatusful 接口
func (b *Brand) GetStatus() domain.Status { return b.Status }

// RequestTransition 请求流转到目标状态
//
// 仅更新内存状态，用于调用方在发起 I/O 前快速失败；
// 持久化的权威变更仍然要经过仓储的原子条件写。
func (b *Brand) RequestTransition(target domain.Status) error {
	if !b.Status.CanTransitionTo(target) {
		if b.Status.IsLocked() {
			return domain.NewStatusLockedError(b.ID, b.Status)
		}
		return domain.NewInvalidTransitionError(b.Status, target)
	}
	b.Status = target
	return nil
}

// Rename 修改名称（带校验）
func (b *Brand) Rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	b.Name = name
	return nil
}

// Validate 实现 domain.IValidatable 接口
func (b *Brand) Validate() error {
	if err := validateName(b.Name); err != nil {
		return err
	}
	if !b.Status.IsValid() {
		return validation.NewValidationError("品牌状态不在合法枚举内")
	}
	return nil
}

func validateName(name string) error {
	if err := validation.ValidateRequired(name, "品牌名称"); err != nil {
		return err
	}
	return validation.ValidateStringLength(name, "品牌名称", 1, 120)
}
