// Package notify 提供实体变更通知的发布实现
//
// 通知是尽力而为的旁路输出：请求的成败只取决于存储层的
// 条件写结果，发布失败只记日志。
package notify

import (
	"context"
	"sync"

	"brandhub/domain/brand"
)

// Subscriber 内存订阅回调
type Subscriber func(evt brand.ChangeEvent)

// MemoryNotifier 进程内扇出实现，实现 brand.INotifier
// 用于单进程部署、示例与测试
type MemoryNotifier struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewMemoryNotifier 创建内存通知器
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

// Subscribe 注册订阅回调
func (n *MemoryNotifier) Subscribe(fn Subscriber) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subscribers = append(n.subscribers, fn)
}

// BrandChanged 同步扇出给所有订阅者
func (n *MemoryNotifier) BrandChanged(ctx context.Context, evt brand.ChangeEvent) error {
	n.mu.RLock()
	subs := make([]Subscriber, len(n.subscribers))
	copy(subs, n.subscribers)
	n.mu.RUnlock()

	for _, fn := range subs {
		fn(evt)
	}
	return nil
}
