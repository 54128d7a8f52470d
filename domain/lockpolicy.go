package domain

import "strings"

// LockPolicy 乐观锁校验策略
//
// 决定某个调用方/校验器是否必须在请求中携带版本号。
// 不可变配置对象，由应用装配阶段显式构造并传入，
// 绝不从进程级可变全局状态（如环境变量读写）中动态读取。
//
// 注意：策略豁免的只是“客户端必须提交版本号”这一义务；
// 存储层的条件写（compare-and-swap）永远不会被豁免，
// 豁免路径下由仓储在事务内以当前持久化版本号代入 WHERE 子句。
type LockPolicy struct {
	enabled     bool
	disabledFor map[string]struct{}
}

// NewLockPolicy 构造策略
// disabledFor 中的 key 会被规范化（去空白、小写）
func NewLockPolicy(enabled bool, disabledFor ...string) LockPolicy {
	m := make(map[string]struct{}, len(disabledFor))
	for _, k := range disabledFor {
		k = normalizePolicyKey(k)
		if k == "" {
			continue
		}
		m[k] = struct{}{}
	}
	return LockPolicy{enabled: enabled, disabledFor: m}
}

// IsEnforced 判断指定调用方是否需要强制版本校验
func (p LockPolicy) IsEnforced(callerKey string) bool {
	if !p.enabled {
		return false
	}
	_, exempt := p.disabledFor[normalizePolicyKey(callerKey)]
	return !exempt
}

// Enabled 返回全局开关
func (p LockPolicy) Enabled() bool {
	return p.enabled
}

func normalizePolicyKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
