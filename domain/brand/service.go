package brand

import (
	"context"

	"brandhub/domain"
	"brandhub/logging"
	"brandhub/validation"
)

// PolicyKey LockPolicy 中本资源的规范化调用方标识
const PolicyKey = "brand"

// IService 品牌应用服务接口
type IService interface {
	Create(ctx context.Context, name, description string, statusCode int, actor string) (*Brand, error)
	Get(ctx context.Context, id int64) (*Brand, error)
	Update(ctx context.Context, id int64, lockVersion *int64, change Change, actor string) (*Brand, error)
	Delete(ctx context.Context, id int64, lockVersion *int64, actor string) (*Brand, error)
	List(ctx context.Context, offset, limit int) ([]*Brand, error)
	Count(ctx context.Context) (int64, error)
	AuditTrail(ctx context.Context, id int64, offset, limit int) ([]AuditRecord, error)

	// LockEnforced 对外暴露策略判定结果，供 API 边界决定是否要求 lock_version
	LockEnforced() bool
}

// Service 默认实现
//
// 缓存与通知均为可选协作者；两者的失败都不会影响请求结果。
type Service struct {
	repo     IRepository
	policy   domain.LockPolicy
	cache    ICache
	notifier INotifier
	logger   logging.Logger
}

// ServiceOption 服务可选依赖配置
type ServiceOption func(*Service)

// WithCache 启用读缓存
func WithCache(c ICache) ServiceOption {
	return func(s *Service) { s.cache = c }
}

// WithNotifier 启用变更通知
func WithNotifier(n INotifier) ServiceOption {
	return func(s *Service) { s.notifier = n }
}

// WithLogger 覆盖默认 Logger
func WithLogger(l logging.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// NewService 创建品牌服务
func NewService(repo IRepository, policy domain.LockPolicy, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		policy: policy,
		logger: logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LockEnforced 判断本资源是否强制版本校验
func (s *Service) LockEnforced() bool {
	return s.policy.IsEnforced(PolicyKey)
}

// Create 创建品牌
func (s *Service) Create(ctx context.Context, name, description string, statusCode int, actor string) (*Brand, error) {
	status, ok := domain.StatusFromCode(statusCode)
	if !ok {
		return nil, validation.NewValidationError("未知的状态编码")
	}
	b, err := Create(name, description, status, actor)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "brand created",
		logging.Int64("brand_id", b.ID),
		logging.String("status", b.Status.Label()),
		logging.String("actor", actor))
	s.publish(ctx, b, ActionCreate)
	return b, nil
}

// Get 按 ID 查询（读穿缓存）
func (s *Service) Get(ctx context.Context, id int64) (*Brand, error) {
	if s.cache != nil {
		if b, ok := s.cache.Get(ctx, id); ok {
			return b, nil
		}
	}
	b, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.NewNotFoundError(id)
	}
	if s.cache != nil {
		s.cache.Set(ctx, b)
	}
	return b, nil
}

// Update 更新品牌
//
// lockVersion 为客户端提交的版本号：
//   - 策略强制时必须提供，缺失返回验证错误
//   - 策略豁免且未提供时传零值 Version 给仓储，由仓储在事务内
//     以当前持久化版本号代入条件写
func (s *Service) Update(ctx context.Context, id int64, lockVersion *int64, change Change, actor string) (*Brand, error) {
	if change.IsEmpty() {
		return nil, validation.NewValidationError("更新请求没有任何待变更字段")
	}
	if change.Status != nil && !change.Status.IsValid() {
		return nil, validation.NewValidationError("未知的状态编码")
	}
	expected, err := s.resolveExpected(lockVersion)
	if err != nil {
		return nil, err
	}

	b, err := s.repo.Update(ctx, id, expected, change, actor)
	if err != nil {
		s.logMutationFailure(ctx, "update", id, err)
		return nil, err
	}
	s.afterMutation(ctx, b)
	action := ActionUpdate
	if change.Status != nil {
		action = ActionTransition
	}
	s.publish(ctx, b, action)
	s.logger.Info(ctx, "brand updated",
		logging.Int64("brand_id", b.ID),
		logging.Int64("version", b.Version.Value()),
		logging.String("actor", actor))
	return b, nil
}

// Delete 软删除品牌（向锁定状态 Deleted 流转）
func (s *Service) Delete(ctx context.Context, id int64, lockVersion *int64, actor string) (*Brand, error) {
	expected, err := s.resolveExpected(lockVersion)
	if err != nil {
		return nil, err
	}
	b, err := s.repo.Delete(ctx, id, expected, actor)
	if err != nil {
		s.logMutationFailure(ctx, "delete", id, err)
		return nil, err
	}
	s.afterMutation(ctx, b)
	s.publish(ctx, b, ActionDelete)
	s.logger.Info(ctx, "brand deleted",
		logging.Int64("brand_id", b.ID),
		logging.Int64("version", b.Version.Value()),
		logging.String("actor", actor))
	return b, nil
}

// List 分页查询
func (s *Service) List(ctx context.Context, offset, limit int) ([]*Brand, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 1000 {
		limit = 20
	}
	return s.repo.List(ctx, offset, limit)
}

// Count 统计总数
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// AuditTrail 查询审计轨迹
func (s *Service) AuditTrail(ctx context.Context, id int64, offset, limit int) ([]AuditRecord, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return s.repo.AuditTrail(ctx, id, offset, limit)
}

// resolveExpected 根据 LockPolicy 解析期望版本号
func (s *Service) resolveExpected(lockVersion *int64) (domain.Version, error) {
	if lockVersion != nil {
		return domain.VersionFromStored(*lockVersion)
	}
	if s.LockEnforced() {
		return domain.Version{}, validation.NewValidationError("缺少 lock_version 字段")
	}
	// 策略豁免：零值哨兵，仓储代入当前持久化版本号
	return domain.Version{}, nil
}

func (s *Service) afterMutation(ctx context.Context, b *Brand) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, b.ID)
	}
}

// publish 发布变更通知（尽力而为）
func (s *Service) publish(ctx context.Context, b *Brand, action string) {
	if s.notifier == nil {
		return
	}
	evt := ChangeEvent{
		BrandID:   b.ID,
		Action:    action,
		Version:   b.Version.Value(),
		Timestamp: b.UpdatedAt,
		Actor:     b.UpdatedBy,
	}
	if n := len(b.Detail); n > 0 {
		last := b.Detail[n-1]
		evt.PriorStatus = last.PriorStatus
		evt.NewStatus = last.NewStatus
		evt.Timestamp = last.At
		evt.Actor = last.Actor
	}
	if err := s.notifier.BrandChanged(ctx, evt); err != nil {
		s.logger.Warn(ctx, "brand change notification failed",
			logging.Int64("brand_id", b.ID), logging.Error(err))
	}
}

func (s *Service) logMutationFailure(ctx context.Context, op string, id int64, err error) {
	var derr *domain.DomainError
	switch {
	case domain.AsDomainError(err, &derr) && derr.Code == domain.CodeVersionConflict:
		s.logger.Warn(ctx, "optimistic lock conflict",
			logging.String("op", op),
			logging.Int64("brand_id", id),
			logging.Int64("expected", derr.Expected),
			logging.Int64("actual", derr.Actual))
	case domain.AsDomainError(err, &derr):
		s.logger.Warn(ctx, "brand mutation rejected",
			logging.String("op", op),
			logging.Int64("brand_id", id),
			logging.String("code", derr.Code))
	default:
		s.logger.Error(ctx, "brand mutation failed",
			logging.String("op", op),
			logging.Int64("brand_id", id),
			logging.Error(err))
	}
}
