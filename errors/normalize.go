package errors

import (
	stdErrors "errors"

	"brandhub/domain"
)

// Normalize 将领域层/基础设施层的错误规范化为 AppError。
//
// 设计目标：
//   - 对外统一暴露 ErrorCode 体系，HTTP 层按 code 映射状态码，
//     不出现字符串匹配；
//   - 保留原始错误作为 cause，方便日志与调试；
//   - 未识别的错误保持原样，交由调用方决定是否 Wrap。
func Normalize(err error) error {
	if err == nil {
		return nil
	}

	// 已经是 AppError，直接返回
	if _, ok := err.(IError); ok {
		return err
	}

	var derr *domain.DomainError
	if stdErrors.As(err, &derr) {
		switch derr.Code {
		case domain.CodeEntityNotFound:
			return WrapError(err, ErrCodeNotFound, derr.Message)
		case domain.CodeVersionConflict:
			return WrapError(err, ErrCodeConcurrency, derr.Message).
				WithContext("entity_id", derr.EntityID).
				WithContext("expected_version", derr.Expected).
				WithContext("actual_version", derr.Actual)
		case domain.CodeStatusLocked, domain.CodeInvalidStatusTransition, domain.CodeInvalidStatusOnCreation:
			return WrapError(err, ErrCodeBusinessRule, derr.Message)
		case domain.CodeInvalidVersion:
			return WrapError(err, ErrCodeInvalidInput, derr.Message)
		}
	}

	return err
}
