package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"Gin_postgres_redis_key_loans/config"
	"Gin_postgres_redis_key_loans/db"
	"Gin_postgres_redis_key_loans/lock"
	"Gin_postgres_redis_key_loans/metrics"
)

// 简化别名，便于 handlers 调用
type Ctx = gin.Context
type H = gin.H

// App 聚合各依赖
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client // nil when redis.addr is empty
	Locker lock.Locker
	Log    *slog.Logger
	Config *config.Config
}

// New opens the store, runs migrations, connects Redis when configured and
// builds the router with the common middleware.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	dbConn, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	var rdb *redis.Client
	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		locker = lock.NewRedisLocker(rdb, cfg.Import.LockTTL)
		log.Info("redis connected", "addr", cfg.Redis.Addr)
	} else {
		log.Info("redis disabled, import lock is in-process")
	}

	return &App{
		Router: NewRouter(cfg.Server, log),
		DB:     dbConn,
		RDB:    rdb,
		Locker: locker,
		Log:    log,
		Config: cfg,
	}, nil
}

// NewRouter returns a gin engine with recovery, request logging, metrics
// and CORS installed.
func NewRouter(cfg config.ServerConfig, log *slog.Logger) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log), metrics.Middleware())
	useCORS(r, cfg.WebOrigin)
	return r
}

func (a *App) Close() {
	if a.RDB != nil {
		_ = a.RDB.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
