package brand

import (
	"time"

	"github.com/google/uuid"

	"brandhub/domain"
)

// 变更动作
const (
	ActionCreate     = "CREATE"
	ActionUpdate     = "UPDATE"
	ActionTransition = "TRANSITION"
	ActionDelete     = "DELETE"
)

// ChangeEntry 单条不可变变更记录
//
// 每次成功持久化的变更追加一条；追加与字段更新在同一个
// 存储事务内完成，不会出现实体已更新而轨迹丢失（或相反）。
type ChangeEntry struct {
	ID          string    `json:"id"`
	Actor       string    `json:"actor"`
	Action      string    `json:"action"`
	PriorStatus *int      `json:"prior_status,omitempty"`
	NewStatus   *int      `json:"new_status,omitempty"`
	At          time.Time `json:"at"`
}

// NewChangeEntry 构造变更记录
func NewChangeEntry(actor, action string, prior, next *domain.Status, at time.Time) ChangeEntry {
	e := ChangeEntry{
		ID:     uuid.NewString(),
		Actor:  actor,
		Action: action,
		At:     at,
	}
	if prior != nil {
		code := prior.Code()
		e.PriorStatus = &code
	}
	if next != nil {
		code := next.Code()
		e.NewStatus = &code
	}
	return e
}

// DetailInfo 聚合内嵌的变更轨迹（追加写，不修改已有条目）
type DetailInfo []ChangeEntry

// Append 追加一条记录，返回新切片，不修改接收者
func (d DetailInfo) Append(entry ChangeEntry) DetailInfo {
	out := make(DetailInfo, 0, len(d)+1)
	out = append(out, d...)
	out = append(out, entry)
	return out
}
