package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"brandhub/domain/brand"
	"brandhub/logging"
)

// NATSConfig NATS 通知器配置
type NATSConfig struct {
	URL           string
	SubjectPrefix string
	Logger        logging.Logger

	// 可选：复用外部连接（测试或多组件共享场景）
	Conn *nats.Conn
}

// NATSNotifier 基于 NATS 的变更通知发布器，实现 brand.INotifier
//
// 主题格式：<prefix>changed.<brand_id>，负载为 ChangeEvent 的 JSON。
type NATSNotifier struct {
	cfg      NATSConfig
	conn     *nats.Conn
	ownsConn bool
	logger   logging.Logger
}

// NewNATSNotifier 创建 NATS 通知器；cfg.Conn 为空时自行建立连接
func NewNATSNotifier(cfg NATSConfig) (*NATSNotifier, error) {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "brand."
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "notify.nats"))
	}

	n := &NATSNotifier{cfg: cfg, logger: cfg.Logger}
	if cfg.Conn != nil {
		n.conn = cfg.Conn
		return n, nil
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("brandhub-notifier"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	n.conn = conn
	n.ownsConn = true
	return n, nil
}

// BrandChanged 发布变更事件
func (n *NATSNotifier) BrandChanged(ctx context.Context, evt brand.ChangeEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}
	subject := fmt.Sprintf("%schanged.%d", n.cfg.SubjectPrefix, evt.BrandID)
	if err := n.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	n.logger.Debug(ctx, "brand change published",
		logging.String("subject", subject),
		logging.Int64("brand_id", evt.BrandID),
		logging.String("action", evt.Action))
	return nil
}

// Close 释放自有连接
func (n *NATSNotifier) Close() {
	if n.ownsConn && n.conn != nil {
		n.conn.Close()
	}
}
