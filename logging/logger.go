// Package logging 统一的结构化日志接口
//
// 各层只依赖 Logger 接口；进程入口（cmd/brandd）装配具体实现并
// 通过 SetLogger 暴露给未显式注入的组件。字段构造函数只保留
// 本项目实际使用的类型。
package logging

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Logger 日志接口
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)

	// WithFields 返回携带追加字段的新 Logger，不修改接收者
	WithFields(fields ...Field) Logger
}

// Field 结构化日志字段
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

// StdLogger 标准库 log 实现
type StdLogger struct {
	prefix string
	fields []Field
}

// NewStdLogger 创建标准库实现；prefix 为空时使用 "[brandhub]"
func NewStdLogger(prefix string) *StdLogger {
	if prefix == "" {
		prefix = "[brandhub]"
	}
	return &StdLogger{prefix: prefix}
}

func (l *StdLogger) line(level, msg string, fields []Field) string {
	var b strings.Builder
	b.WriteString(level)
	b.WriteString(" ")
	b.WriteString(l.prefix)
	b.WriteString(" ")
	b.WriteString(msg)
	for _, f := range l.fields {
		writeField(&b, f)
	}
	for _, f := range fields {
		writeField(&b, f)
	}
	return b.String()
}

func writeField(b *strings.Builder, f Field) {
	b.WriteString(" ")
	b.WriteString(f.Key)
	b.WriteString("=")
	switch v := f.Value.(type) {
	case string:
		b.WriteString(v)
	case error:
		b.WriteString(v.Error())
	default:
		b.WriteString(fmt.Sprint(v))
	}
}

func (l *StdLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	log.Println(l.line("[DEBUG]", msg, fields))
}

func (l *StdLogger) Info(ctx context.Context, msg string, fields ...Field) {
	log.Println(l.line("[INFO]", msg, fields))
}

func (l *StdLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	log.Println(l.line("[WARN]", msg, fields))
}

func (l *StdLogger) Error(ctx context.Context, msg string, fields ...Field) {
	log.Println(l.line("[ERROR]", msg, fields))
}

func (l *StdLogger) WithFields(fields ...Field) Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &StdLogger{prefix: l.prefix, fields: merged}
}

// NoopLogger 空实现，测试中用来静默服务层日志
type NoopLogger struct{}

func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

func (l *NoopLogger) Debug(ctx context.Context, msg string, fields ...Field) {}
func (l *NoopLogger) Info(ctx context.Context, msg string, fields ...Field)  {}
func (l *NoopLogger) Warn(ctx context.Context, msg string, fields ...Field)  {}
func (l *NoopLogger) Error(ctx context.Context, msg string, fields ...Field) {}
func (l *NoopLogger) WithFields(fields ...Field) Logger                      { return l }

// 进程级默认 Logger，供未显式注入的组件取用
var globalLogger Logger = NewStdLogger("")

// SetLogger 设置进程级默认 Logger（装配阶段调用一次）
func SetLogger(logger Logger) {
	globalLogger = logger
}

// GetLogger 获取进程级默认 Logger
func GetLogger() Logger {
	return globalLogger
}
