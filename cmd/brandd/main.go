// brandd 品牌服务入口
//
// 按环境变量装配依赖（显式构造注入，不使用全局容器）：
//
//	BRAND_DB_DSN            sqlite DSN，默认 brandhub.db
//	BRAND_HTTP_HOST/PORT    监听地址，默认 0.0.0.0:8080
//	BRAND_LOCK_ENABLED      乐观锁策略全局开关，默认 true
//	BRAND_LOCK_DISABLED_FOR 豁免的调用方标识，逗号分隔
//	BRAND_REDIS_ADDR        可选，设置后使用 Redis 品牌缓存
//	BRAND_NATS_URL          可选，设置后发布变更通知到 NATS
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"brandhub/cache"
	"brandhub/domain"
	"brandhub/domain/brand"
	"brandhub/httpapi"
	"brandhub/logging"
	"brandhub/notify"
	"brandhub/server"
	"brandhub/storage/brandsql"
	"brandhub/storage/db"
)

func main() {
	logger := logging.NewStdLogger("[brandd]")
	logging.SetLogger(logger)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.New(db.Config{
		Driver:   "sqlite",
		Database: envString("BRAND_DB_DSN", "brandhub.db"),
	})
	if err != nil {
		logger.Error(ctx, "open database failed", logging.Error(err))
		os.Exit(1)
	}
	defer database.Close()

	repo := brandsql.NewRepository(database)
	if err := repo.Migrate(ctx); err != nil {
		logger.Error(ctx, "migrate schema failed", logging.Error(err))
		os.Exit(1)
	}

	policy := domain.NewLockPolicy(
		envBool("BRAND_LOCK_ENABLED", true),
		splitList(os.Getenv("BRAND_LOCK_DISABLED_FOR"))...)

	opts := []brand.ServiceOption{brand.WithLogger(logger)}

	if addr := os.Getenv("BRAND_REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		opts = append(opts, brand.WithCache(cache.NewRedisBrandCache(client, 5*time.Minute)))
	} else {
		opts = append(opts, brand.WithCache(cache.NewBrandCache(1024, 5*time.Minute)))
	}

	if url := os.Getenv("BRAND_NATS_URL"); url != "" {
		notifier, err := notify.NewNATSNotifier(notify.NATSConfig{URL: url})
		if err != nil {
			logger.Error(ctx, "connect nats failed", logging.Error(err))
			os.Exit(1)
		}
		defer notifier.Close()
		opts = append(opts, brand.WithNotifier(notifier))
	}

	service := brand.NewService(repo, policy, opts...)

	mux := http.NewServeMux()
	httpapi.NewBrandHandler(service).Register(mux)

	cfg := server.DefaultConfig()
	cfg.Host = envString("BRAND_HTTP_HOST", cfg.Host)
	cfg.Port = envInt("BRAND_HTTP_PORT", cfg.Port)

	if err := server.New(cfg, mux).Run(ctx); err != nil {
		logger.Error(ctx, "server exited with error", logging.Error(err))
		os.Exit(1)
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
