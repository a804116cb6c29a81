// RosterOps 值班排班引擎服务
// 主程序入口

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rosterops/roster/internal/config"
	"github.com/rosterops/roster/internal/database"
	"github.com/rosterops/roster/internal/handler"
	"github.com/rosterops/roster/internal/metrics"
	"github.com/rosterops/roster/internal/middleware"
	"github.com/rosterops/roster/internal/repository"
	"github.com/rosterops/roster/pkg/logger"
	"github.com/rosterops/roster/pkg/scheduler"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: "console",
	})

	fmt.Printf("RosterOps 值班排班引擎 v%s\n", Version)
	fmt.Printf("Build: %s (%s)\n", BuildTime, GitCommit)
	fmt.Println()

	scheduler.SetMaxBacktrackAttempts(cfg.Scheduler.MaxBacktracks)

	var runs repository.ScheduleRunRepositoryInterface
	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Warn().Err(err).Msg("数据库连接失败，排班运行记录将不会持久化")
	} else {
		defer db.Close()
		runs = repository.NewScheduleRunRepository(db)
	}

	scheduleHandler := handler.NewScheduleHandler(runs, cfg.Scheduler.DefaultTimeout)
	reportsHandler := handler.NewReportsHandler(runs)

	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"rosterops"}`))
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","build_time":"%s","git_commit":"%s"}`, Version, BuildTime, GitCommit)
	})

	mux.HandleFunc("/schedules", scheduleHandler.Generate)
	mux.HandleFunc("/schedules/", routeScheduleSubpaths(scheduleHandler, reportsHandler))

	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	apiKeyMW := middleware.APIKeyMiddleware(&middleware.APIKeyConfig{
		Key:       cfg.API.APIKey,
		SkipPaths: []string{"/health", "/version", cfg.Metrics.Path},
	})

	// 中间件执行顺序：requestID -> recovery -> securityHeaders -> logging -> apiKey -> mux
	var root http.Handler = mux
	root = apiKeyMW(root)
	root = middleware.LoggingMiddleware(root)
	root = middleware.SecurityHeadersMiddleware(root)
	root = middleware.RecoveryMiddleware(root)
	root = middleware.RequestIDMiddleware(root)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      root,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().
			Int("port", cfg.App.Port).
			Str("version", Version).
			Str("url", fmt.Sprintf("http://localhost:%d", cfg.App.Port)).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}

	logger.Info().Msg("服务器已关闭")
}

// routeScheduleSubpaths 在 /schedules/ 前缀下按尾部路径分发到具体的
// 报告处理器，否则落回单记录查询。stdlib ServeMux 不支持路径参数，
// 这里手工按后缀字符串匹配分发。
func routeScheduleSubpaths(scheduleHandler *handler.ScheduleHandler, reportsHandler *handler.ReportsHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case hasSuffix(path, "/fairness"):
			reportsHandler.Fairness(w, r)
		case hasSuffix(path, "/coverage"):
			reportsHandler.Coverage(w, r)
		case hasSuffix(path, "/ical"):
			reportsHandler.ICalendar(w, r)
		case hasSuffix(path, "/spreadsheet"):
			reportsHandler.Spreadsheet(w, r)
		default:
			scheduleHandler.GetByID(w, r)
		}
	}
}

func hasSuffix(path, suffix string) bool {
	return len(path) >= len(suffix) && path[len(path)-len(suffix):] == suffix
}
