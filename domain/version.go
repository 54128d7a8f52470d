// Package domain 定义领域层的核心值对象、实体抽象与错误体系
//
// 设计原则：
//  1. 值对象不可变 - Version/Status 一经创建不再修改，变更产生新值
//  2. 组合优于继承 - 能力通过显式字段 + 方法集组合，而非 mixin 注入
//  3. 权威校验在存储层 - 版本冲突的最终判定由存储层的条件写完成，
//     领域层的比较方法仅用于测试与歧义消解
package domain

// Version 乐观锁版本号值对象
//
// 约束：
//   - 取值恒 >= 1，构造时拒绝非正值
//   - 不可变：每次成功持久化的变更以 Next() 产生的新值整体替换
//   - 零值 Version{} 非法，专用作“调用方未提供版本号”的哨兵
//     （LockPolicy 豁免路径，见 brand.Service 与 brandsql.Repository）
type Version struct {
	value int64
}

// NewVersion 创建初始版本号（实体创建时恒为 1）
func NewVersion() Version {
	return Version{value: 1}
}

// VersionFromStored 从存储值重建版本号
// n < 1 时返回 InvalidVersion 错误
func VersionFromStored(n int64) (Version, error) {
	if n < 1 {
		return Version{}, NewInvalidVersionError(n)
	}
	return Version{value: n}, nil
}

// Next 返回递增后的新版本号，不修改自身
func (v Version) Next() Version {
	return Version{value: v.value + 1}
}

// Value 返回版本号整数值
func (v Version) Value() int64 {
	return v.value
}

// Equals 值相等比较
// 仅用于测试与结果歧义消解；并发冲突的权威判定发生在存储层的
// 条件写语句中，绝不通过比较两个内存版本号实现
func (v Version) Equals(other Version) bool {
	return v.value == other.value
}

// IsZero 判断是否为未指定哨兵值
func (v Version) IsZero() bool {
	return v.value == 0
}
