package domain

import (
	"errors"
	"fmt"
)

// DomainError 领域错误
//
// 所有领域失败都以结构化错误返回，错误本身携带实体 ID、
// 期望/实际版本号、流转前后状态等数据，API 边界据此渲染响应，
// 不需要做字符串匹配或二次推导。
type DomainError struct {
	Code     string
	Message  string
	EntityID int64

	// 版本冲突相关
	Expected int64
	Actual   int64

	// 状态流转相关
	From Status
	To   Status

	Cause error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is 按错误代码匹配，使构造出的错误能与哨兵用 errors.Is 比较
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// 错误代码常量
const (
	CodeInvalidVersion          = "INVALID_VERSION"
	CodeInvalidStatusOnCreation = "INVALID_STATUS_ON_CREATION"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	CodeStatusLocked            = "STATUS_LOCKED"
	CodeVersionConflict         = "VERSION_CONFLICT"
	CodeEntityNotFound          = "ENTITY_NOT_FOUND"
)

// 哨兵错误（用于 errors.Is 比较）
var (
	ErrInvalidVersion          = &DomainError{Code: CodeInvalidVersion, Message: "invalid version: must be a positive integer"}
	ErrInvalidStatusOnCreation = &DomainError{Code: CodeInvalidStatusOnCreation, Message: "status not allowed on creation"}
	ErrInvalidStatusTransition = &DomainError{Code: CodeInvalidStatusTransition, Message: "status transition not allowed"}
	ErrStatusLocked            = &DomainError{Code: CodeStatusLocked, Message: "entity status is locked"}
	ErrVersionConflict         = &DomainError{Code: CodeVersionConflict, Message: "version conflict (optimistic lock)"}
	ErrEntityNotFound          = &DomainError{Code: CodeEntityNotFound, Message: "entity not found"}
)

// AsDomainError errors.As 的便捷封装
func AsDomainError(err error, target **DomainError) bool {
	return errors.As(err, target)
}

// NewInvalidVersionError 非法版本号（非正整数）
func NewInvalidVersionError(n int64) *DomainError {
	return &DomainError{
		Code:    CodeInvalidVersion,
		Message: fmt.Sprintf("invalid version %d: must be a positive integer", n),
		Actual:  n,
	}
}

// NewInvalidStatusOnCreationError 创建时的初始状态不在允许集合内
func NewInvalidStatusOnCreationError(s Status) *DomainError {
	return &DomainError{
		Code:    CodeInvalidStatusOnCreation,
		Message: fmt.Sprintf("status %q is not allowed on creation", s.Label()),
		To:      s,
	}
}

// NewInvalidTransitionError 非法状态流转
func NewInvalidTransitionError(from, to Status) *DomainError {
	return &DomainError{
		Code:    CodeInvalidStatusTransition,
		Message: fmt.Sprintf("cannot transition from %q to %q", from.Label(), to.Label()),
		From:    from,
		To:      to,
	}
}

// NewStatusLockedError 当前状态已锁定，任何版本号都不能使变更合法
func NewStatusLockedError(id int64, current Status) *DomainError {
	return &DomainError{
		Code:     CodeStatusLocked,
		Message:  fmt.Sprintf("entity %d is in locked status %q and cannot be modified", id, current.Label()),
		EntityID: id,
		From:     current,
	}
}

// NewVersionConflictError 乐观锁冲突（另一写入者已抢先提交）
func NewVersionConflictError(id, expected, actual int64) *DomainError {
	return &DomainError{
		Code:     CodeVersionConflict,
		Message:  fmt.Sprintf("entity %d version conflict: expected %d, stored %d", id, expected, actual),
		EntityID: id,
		Expected: expected,
		Actual:   actual,
	}
}

// NewNotFoundError 实体不存在
func NewNotFoundError(id int64) *DomainError {
	return &DomainError{
		Code:     CodeEntityNotFound,
		Message:  fmt.Sprintf("entity %d not found", id),
		EntityID: id,
	}
}
