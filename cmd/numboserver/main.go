// Command numboserver exposes Numbo over HTTP: POST /solve starts a run,
// GET /solve/:run_id polls it, GET /ws streams its animation events, and
// GET /healthz reports liveness — the teacher's own cmd/server bootstrap
// shape (config, logger, gin router, graceful shutdown), trimmed from a
// multi-tenant workflow API down to Numbo's single endpoint family.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/bun"

	"github.com/smilemakc/numbo/internal/config"
	"github.com/smilemakc/numbo/internal/infrastructure/api/rest"
	"github.com/smilemakc/numbo/internal/infrastructure/logger"
	"github.com/smilemakc/numbo/internal/infrastructure/storage"
	"github.com/smilemakc/numbo/internal/infrastructure/tracing"
	"github.com/smilemakc/numbo/internal/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Logging)
	logger.SetDefault(appLogger)
	appLogger.Info("starting numboserver", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracer, err := tracing.NewProvider(ctx, tracing.Config(cfg.Tracing))
	if err != nil {
		appLogger.Error("failed to initialize tracing", "error", err)
	}
	if tracer != nil {
		defer tracer.Shutdown(context.Background())
	}

	var runRepo *storage.RunRepository
	var healthDB *bun.DB
	if cfg.Observer.EnableArchive {
		db, err := storage.NewDB(&storage.Config{
			DSN:             cfg.Database.URL,
			MaxOpenConns:    cfg.Database.MaxConnections,
			MaxIdleConns:    cfg.Database.MinConnections,
			ConnMaxLifetime: cfg.Database.MaxConnLifetime,
			ConnMaxIdleTime: cfg.Database.MaxIdleTime,
			Debug:           cfg.Logging.Level == "debug",
		})
		if err != nil {
			appLogger.Error("failed to connect to archive store, continuing without it", "error", err)
		} else {
			defer storage.Close(db)
			runRepo = storage.NewRunRepository(db)
			healthDB = db
			appLogger.Info("archive store connected")
		}
	}

	auth := rest.NewAuthMiddleware(cfg.Server.APIKeyHash)
	hub := rest.NewWebSocketHub(appLogger, cfg.Observer.WebSocketBuffer)
	runStore := rest.NewRunStore()
	observerOpts := rest.ObserverOptions{
		EnableLogger:     cfg.Observer.EnableLogger,
		EnableWebSocket:  cfg.Observer.EnableWebSocket,
		WebSocketBuffer:  cfg.Observer.WebSocketBuffer,
		NotifyBufferSize: cfg.Observer.NotifyBufferSize,
	}
	handlers := rest.NewSolveHandlers(hub, runStore, runRepo, auth, appLogger, cfg.Solver.DefaultStepCap, cfg.Solver.DecayInterval, observerOpts)
	solveLimiter := rest.NewRateLimiter(30, time.Minute, 5*time.Minute)

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(rest.NewRecoveryMiddleware(appLogger).Recovery())
	router.Use(rest.NewLoggingMiddleware(appLogger).RequestLogger())
	router.Use(rest.NewBodySizeMiddleware(appLogger, 1<<20).LimitBodySize())

	if cfg.Server.CORS {
		router.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
			c.Next()
		})
	}

	router.GET("/healthz", rest.Healthz(healthDB))
	router.POST("/solve", auth.RequireAPIKey(), solveLimiter.Middleware(), handlers.Solve)
	router.GET("/solve/:run_id", handlers.GetRun)
	if cfg.Observer.EnableWebSocket {
		router.GET("/ws", handlers.WS)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	var selfTest *schedule.SelfTest
	if cfg.Schedule.Enabled {
		selfTest, err = schedule.NewSelfTest(cfg.Schedule.Interval, appLogger, runRepo)
		if err != nil {
			appLogger.Error("failed to start self-test scheduler", "error", err)
		} else {
			selfTest.Start()
			defer selfTest.Stop()
			appLogger.Info("self-test scheduler started", "cron", cfg.Schedule.Interval)
		}
	}

	serverErrors := make(chan error, 1)
	go func() {
		appLogger.Info("http server listening", "addr", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			appLogger.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		appLogger.Info("shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("graceful shutdown failed", "error", err)
			_ = server.Close()
		}
		appLogger.Info("server stopped")
	}
}
