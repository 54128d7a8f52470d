package domain

// Status 实体生命周期状态，封闭枚举
//
// 整数编码即对外 API 的 wire 编码，见 statusDefs 中的 code → label 映射。
type Status int

const (
	StatusInactive    Status = 1
	StatusActive      Status = 2
	StatusDraft       Status = 3
	StatusCompleted   Status = 4
	StatusDeleted     Status = 5
	StatusMaintenance Status = 6
	StatusApproved    Status = 7
	StatusRejected    Status = 8
)

// statusDef 单个状态的静态定义
type statusDef struct {
	label   string
	locked  bool
	allowed []Status
}

// statusDefs 状态流转表（穷尽、静态）
//
// 锁定状态（Completed/Deleted/Rejected）的 allowed 为空：
// 一旦进入锁定状态，任何人、任何版本号都不能再发起状态变更。
var statusDefs = map[Status]statusDef{
	StatusInactive: {
		label:   "Inactive",
		allowed: []Status{StatusActive, StatusDraft, StatusDeleted},
	},
	StatusActive: {
		label:   "Active",
		allowed: []Status{StatusCompleted, StatusApproved, StatusRejected},
	},
	StatusDraft: {
		label:   "Draft",
		allowed: []Status{StatusInactive, StatusActive, StatusDeleted, StatusMaintenance},
	},
	StatusCompleted: {
		label:  "Completed",
		locked: true,
	},
	StatusDeleted: {
		label:  "Deleted",
		locked: true,
	},
	StatusMaintenance: {
		label:   "Maintenance",
		allowed: []Status{StatusInactive, StatusActive, StatusDraft, StatusDeleted},
	},
	StatusApproved: {
		label:   "Approved",
		allowed: []Status{StatusCompleted, StatusApproved, StatusRejected},
	},
	StatusRejected: {
		label:  "Rejected",
		locked: true,
	},
}

// creatableStatuses 创建实体时允许的初始状态集合
//
// 决策记录见 DESIGN.md：采用 {Draft, Active}。
var creatableStatuses = map[Status]struct{}{
	StatusDraft:  {},
	StatusActive: {},
}

// StatusFromCode 从整数编码还原状态，未知编码返回 false
func StatusFromCode(code int) (Status, bool) {
	s := Status(code)
	if _, ok := statusDefs[s]; !ok {
		return 0, false
	}
	return s, true
}

// IsValid 判断状态是否属于封闭枚举
func (s Status) IsValid() bool {
	_, ok := statusDefs[s]
	return ok
}

// Code 返回对外 wire 编码
func (s Status) Code() int {
	return int(s)
}

// Label 返回人类可读标签，未知状态返回 "Unknown"
func (s Status) Label() string {
	def, ok := statusDefs[s]
	if !ok {
		return "Unknown"
	}
	return def.label
}

// IsLocked 判断是否为锁定（终态）状态
func (s Status) IsLocked() bool {
	def, ok := statusDefs[s]
	return ok && def.locked
}

// AllowedTransitions 返回允许流转到的状态集合（锁定状态返回空集）
func (s Status) AllowedTransitions() []Status {
	def, ok := statusDefs[s]
	if !ok || len(def.allowed) == 0 {
		return nil
	}
	out := make([]Status, len(def.allowed))
	copy(out, def.allowed)
	return out
}

// CanTransitionTo 判断能否流转到目标状态
func (s Status) CanTransitionTo(target Status) bool {
	def, ok := statusDefs[s]
	if !ok || def.locked {
		return false
	}
	for _, t := range def.allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsCreatable 判断是否属于创建时允许的初始状态
func (s Status) IsCreatable() bool {
	_, ok := creatableStatuses[s]
	return ok
}

// CreatableStatuses 返回创建时允许的初始状态集合
func CreatableStatuses() []Status {
	return []Status{StatusDraft, StatusActive}
}

// IsAllowedTransition 基于原始整数编码判断流转是否合法
// 未知或越界的编码一律返回 false，而不是报错
func IsAllowedTransition(currentRaw, targetRaw int) bool {
	current, ok := StatusFromCode(currentRaw)
	if !ok {
		return false
	}
	target, ok := StatusFromCode(targetRaw)
	if !ok {
		return false
	}
	return current.CanTransitionTo(target)
}
