package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskmanager/internal/config"
	"taskmanager/internal/handler"
	"taskmanager/internal/httpserver"
	"taskmanager/internal/repository"
	"taskmanager/internal/service/task"
	"taskmanager/pkg/db"
	"taskmanager/pkg/logger"
	"taskmanager/pkg/otel"
)

func main() {
	configDir := flag.String("config", "config", "directory holding base.yaml and environment overlays")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		zap.NewExample().Fatal("Failed to load config", zap.Error(err))
	}

	log := logger.NewLogger(cfg.Log)
	defer log.Sync()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting taskmanager...",
		zap.String("db_driver", cfg.DB.Driver),
		zap.String("port", cfg.Server.Port),
		zap.String("base_path", cfg.Server.BasePath),
	)

	shutdownTracing, err := otel.Init(cfg.Tracing, log)
	if err != nil {
		log.Fatal("Failed to init tracing", zap.Error(err))
	}
	defer shutdownTracing()

	// DB
	repo, err := openRepository(cfg, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer repo.Close()

	// schema 创建失败只记录日志，/readyz 会反映存储状态
	if err := repo.EnsureSchema(context.Background()); err != nil {
		log.Error("An error occurred creating the DB schema", zap.Error(err))
	}

	taskService := task.NewService(repo, log)
	taskHandler := handler.NewTaskHandler(taskService, log)
	router := httpserver.NewRouter(taskHandler, log, repo, cfg.Server.BasePath)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 优雅退出处理
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down taskmanager gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("taskmanager shutdown complete")
}

func openRepository(cfg *config.Config, log *zap.Logger) (repository.TaskRepository, error) {
	if cfg.DB.Driver == db.DriverPostgres {
		pool, err := db.NewConnection(cfg.DB, log)
		if err != nil {
			return nil, err
		}
		return repository.NewPostgresTaskRepository(pool, log), nil
	}

	sqlDB, err := db.OpenSQL(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	repo, err := repository.NewSQLTaskRepository(sqlDB, cfg.DB.Driver, cfg.DB.SlowQueryThreshold, log)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	return repo, nil
}
