// Package errors 提供统一的应用错误体系
//
// 设计目标：
//  1. 错误携带稳定的 ErrorCode，HTTP 层按 code 映射状态码，不做字符串匹配
//  2. 保留原始错误作为 cause，方便日志与调试
//  3. 支持附加结构化详情（如实体 ID、期望/实际版本号）
package errors

import (
	stdErrors "errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorCode 错误代码类型
type ErrorCode string

// 预定义错误代码
const (
	// 通用错误代码
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeConflict     ErrorCode = "CONFLICT"

	// 业务错误代码
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeConcurrency  ErrorCode = "CONCURRENCY_ERROR"
	ErrCodeBusinessRule ErrorCode = "BUSINESS_RULE_VIOLATION"

	// 基础设施错误代码
	ErrCodeDatabase ErrorCode = "DATABASE_ERROR"
	ErrCodeCache    ErrorCode = "CACHE_ERROR"
)

// IError 错误接口
type IError interface {
	error

	// 获取错误代码
	Code() ErrorCode

	// 获取错误消息
	Message() string

	// 获取原始错误
	Cause() error

	// 获取错误详情
	Details() map[string]any

	// 获取堆栈信息
	Stack() string

	// 添加上下文
	WithContext(key string, value any) IError
}

// AppError 应用错误实现
type AppError struct {
	code    ErrorCode
	message string
	cause   error
	details map[string]any
	stack   string
}

// NewError 创建新错误
func NewError(code ErrorCode, message string) IError {
	return &AppError{
		code:    code,
		message: message,
		details: make(map[string]any),
		stack:   captureStack(),
	}
}

// WrapError 包装错误
func WrapError(err error, code ErrorCode, message string) IError {
	if err == nil {
		return nil
	}
	return &AppError{
		code:    code,
		message: message,
		cause:   err,
		details: make(map[string]any),
		stack:   captureStack(),
	}
}

// NewValidationError 创建验证错误
func NewValidationError(message string) IError {
	return NewError(ErrCodeValidation, message)
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

// Code 获取错误代码
func (e *AppError) Code() ErrorCode { return e.code }

// Message 获取错误消息
func (e *AppError) Message() string { return e.message }

// Cause 获取原始错误
func (e *AppError) Cause() error { return e.cause }

// Details 获取错误详情
func (e *AppError) Details() map[string]any {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	return e.details
}

// Stack 获取堆栈信息
func (e *AppError) Stack() string { return e.stack }

// Unwrap 支持 errors.Is/As 链式匹配
func (e *AppError) Unwrap() error { return e.cause }

// WithContext 添加上下文详情
func (e *AppError) WithContext(key string, value any) IError {
	e.Details()[key] = value
	return e
}

// IsErrorCode 判断错误是否为指定代码
func IsErrorCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.code == code
	}
	return false
}

// IsNotFound 判断是否为未找到错误
func IsNotFound(err error) bool {
	return IsErrorCode(err, ErrCodeNotFound)
}

// IsConflict 判断是否为并发冲突错误
func IsConflict(err error) bool {
	return IsErrorCode(err, ErrCodeConcurrency) || IsErrorCode(err, ErrCodeConflict)
}

// IsValidation 判断是否为验证错误
func IsValidation(err error) bool {
	return IsErrorCode(err, ErrCodeValidation) || IsErrorCode(err, ErrCodeInvalidInput)
}

// IsBusinessRule 判断是否为业务规则错误（非法状态流转、锁定状态等）
func IsBusinessRule(err error) bool {
	return IsErrorCode(err, ErrCodeBusinessRule)
}

// captureStack 捕获调用堆栈（跳过错误构造函数本身）
func captureStack() string {
	const depth = 16
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return sb.String()
}
