package brandsql

import "context"

// 表结构
//
// version 列契约：INTEGER NOT NULL DEFAULT 1。
// detail_info 为聚合内嵌变更轨迹的 JSON 序列化。
const schemaDDL = `
CREATE TABLE IF NOT EXISTS brands (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status INTEGER NOT NULL,
    version INTEGER NOT NULL DEFAULT 1,
    sync_ref TEXT NOT NULL DEFAULT '',
    detail_info TEXT NOT NULL DEFAULT '[]',
    created_at DATETIME NOT NULL,
    created_by TEXT NOT NULL DEFAULT '',
    updated_at DATETIME NOT NULL,
    updated_by TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS brand_audits (
    id TEXT PRIMARY KEY,
    brand_id INTEGER NOT NULL,
    action TEXT NOT NULL,
    actor TEXT NOT NULL,
    prior_status INTEGER,
    new_status INTEGER,
    version INTEGER NOT NULL,
    timestamp DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_brand_audits_brand ON brand_audits(brand_id, timestamp);
`

// Migrate 建表（幂等）
func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schemaDDL)
	return err
}
