package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// DB 基于 database/sql 的最小实现，满足 IDatabase 抽象
//
// 调用方必须确保所配置的 Driver 已通过空导入注册
// （例如在 cmd 或测试层显式 `_ "modernc.org/sqlite"`）。
type DB struct {
	db     *sql.DB
	driver string
}

// New 根据 Config 创建基础数据库实例
func New(config Config) (*DB, error) {
	driver := config.Driver
	if driver == "" {
		driver = "sqlite"
	}

	dsn := config.Database
	if driver == "sqlite" {
		dsn = sqliteDSN(dsn)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// 连接池配置（可选）
	if config.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(config.ConnMaxLifetime) * time.Second)
	}

	// 基础可用性检查
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &DB{db: sqlDB, driver: driver}, nil
}

// sqliteDSN 为 sqlite DSN 附加并发写所需的连接参数
//
// 仓储的条件写事务是“读当前行 → 条件 UPDATE”的读后写：
// 默认的 deferred 事务在升级写锁时会直接以 SQLITE_BUSY 中止，
// 并发败者将看到数据库错误而不是版本冲突。
//   - _txlock=immediate：事务开始即取写锁，写者排队而非中止
//   - busy_timeout：等锁而不是立即返回 SQLITE_BUSY
//
// 调用方 DSN 中已显式设置的参数不覆盖。
func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	if !strings.Contains(dsn, "_txlock=") {
		dsn += sep + "_txlock=immediate"
		sep = "&"
	}
	if !strings.Contains(dsn, "busy_timeout") {
		dsn += sep + "_pragma=busy_timeout(10000)"
	}
	return dsn
}

func (d *DB) Query(ctx context.Context, query string, args ...any) (IRows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &wrappedRows{rows: rows}, nil
}

func (d *DB) QueryRow(ctx context.Context, query string, args ...any) IRow {
	return d.db.QueryRowContext(ctx, query, args...)
}

func (d *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return d.db.ExecContext(ctx, query, args...)
}

func (d *DB) Begin(ctx context.Context) (ITransaction, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{db: d.db, tx: tx}, nil
}

func (d *DB) Ping(ctx context.Context) error { return d.db.PingContext(ctx) }
func (d *DB) Close() error                   { return d.db.Close() }

// Driver 返回底层驱动名
func (d *DB) Driver() string { return d.driver }

// MustExecDDL 辅助：执行 DDL（用于迁移与测试环境）
func (d *DB) MustExecDDL(sqlStmt string) error {
	if d.db == nil {
		return fmt.Errorf("db is nil")
	}
	_, err := d.db.Exec(sqlStmt)
	return err
}

// Tx 事务实现，委托给 *sql.Tx，同时实现 IDatabase 以便透传给仓储
type Tx struct {
	db *sql.DB
	tx *sql.Tx
}

func (t *Tx) Query(ctx context.Context, query string, args ...any) (IRows, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &wrappedRows{rows: rows}, nil
}

func (t *Tx) QueryRow(ctx context.Context, query string, args ...any) IRow {
	return t.tx.QueryRowContext(ctx, query, args...)
}

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

// Begin 嵌套事务：明确不支持，调用方应在上层协调事务边界
func (t *Tx) Begin(ctx context.Context) (ITransaction, error) {
	return nil, fmt.Errorf("db.Tx: nested transactions are not supported")
}

func (t *Tx) Ping(ctx context.Context) error { return t.db.PingContext(ctx) }
func (t *Tx) Close() error                   { return nil }

func (t *Tx) Commit() error   { return t.tx.Commit() }
func (t *Tx) Rollback() error { return t.tx.Rollback() }

// wrappedRows 包装 sql.Rows 以实现 IRows
type wrappedRows struct{ rows *sql.Rows }

func (r *wrappedRows) Next() bool             { return r.rows.Next() }
func (r *wrappedRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *wrappedRows) Close() error           { return r.rows.Close() }
func (r *wrappedRows) Err() error             { return r.rows.Err() }
