package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"brightonhub/backend/internal/auth"
	jwtpkg "brightonhub/backend/internal/auth/jwt"
	"brightonhub/backend/internal/config"
	"brightonhub/backend/internal/health"
	"brightonhub/backend/internal/logger"
	"brightonhub/backend/internal/monitoring"
	"brightonhub/backend/internal/notify"
	"brightonhub/backend/internal/service"
	"brightonhub/backend/internal/storage"
	"brightonhub/backend/internal/storage/memory"
	"brightonhub/backend/internal/storage/redis"
	sqlstore "brightonhub/backend/internal/storage/sql"
	httptransport "brightonhub/backend/internal/transport/http"
	"brightonhub/backend/internal/websocket"
)

// main 启动 BrightonHub 后端服务。
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 设置 Gin 模式（基于开发环境标志）
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 初始化日志系统
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	log.Info("starting brightonhub server",
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("development", cfg.Log.Development),
	)

	// 初始化存储层
	var store storage.Store
	if cfg.Database.Driver != "" {
		store, err = sqlstore.NewStore(sqlstore.Config{
			Driver:          cfg.Database.Driver,
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			panic(fmt.Sprintf("failed to initialize database storage: %v", err))
		}
		log.Info("using database storage", zap.String("driver", cfg.Database.Driver))
	} else {
		store = memory.NewStore()
		log.Info("using memory storage (development mode)")
	}

	// 初始化 Redis 缓存（可选，失败时降级为无缓存运行）
	var cache *redis.Cache
	if cfg.Redis.Enabled {
		cache, err = redis.NewCache(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unavailable, continuing without cache", zap.Error(err))
			cache = nil
		} else {
			log.Info("redis cache initialized", zap.String("address", cfg.Redis.Address))
		}
	}

	// 初始化监控与健康检查
	metrics := monitoring.NewMetrics()
	healthChecker := health.NewHealthChecker(store, cache, log)

	// 初始化认证
	authService := auth.NewService(store)
	jwtManager := jwtpkg.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	log.Info("JWT configuration",
		zap.String("issuer", cfg.JWT.Issuer),
		zap.Duration("access_expiry", cfg.JWT.AccessExpiry),
		zap.Duration("refresh_expiry", cfg.JWT.RefreshExpiry),
	)

	// 初始化服务层
	catalogService := service.NewCatalogService(store, cache, log)
	categoryService := service.NewCategoryService(store, cache, log)
	categoryService.SetMetrics(metrics)
	messageService := service.NewMessageService(store, store, catalogService, log)
	messageService.SetMetrics(metrics)
	vendorService := service.NewVendorService(store, store, log)

	// 初始化邮件通知投递器（可选）
	var dispatcher *notify.Dispatcher
	if cfg.Notify.Enabled {
		mailer := notify.NewMailer(notify.MailerConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			AdminTo:  cfg.SMTP.AdminTo,
		})
		dispatcher = notify.NewDispatcher(notify.DispatcherConfig{
			Workers:       cfg.Notify.Workers,
			QueueSize:     cfg.Notify.QueueSize,
			RatePerSecond: cfg.Notify.RatePerSecond,
			Burst:         cfg.Notify.Burst,
		}, mailer, store, store, log)
		dispatcher.SetMetrics(metrics)
		dispatcher.Start()
		messageService.SetNotifier(dispatcher)
		log.Info("email notification dispatcher started",
			zap.String("smtp_host", cfg.SMTP.Host),
			zap.Int("workers", cfg.Notify.Workers),
		)
	}

	// 创建 WebSocket Hub 并接入新消息推送
	wsHub := websocket.NewHub(cfg.CORS.AllowedOrigins, jwtManager, log)
	messageService.SetEventPublisher(wsHub)

	// 创建 HTTP 服务器
	httpAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	router := httptransport.NewRouter(httptransport.RouterDependencies{
		Config:          cfg,
		MessageService:  messageService,
		CategoryService: categoryService,
		CatalogService:  catalogService,
		VendorService:   vendorService,
		AuthService:     authService,
		JWTManager:      jwtManager,
		WebSocketHub:    wsHub,
		HealthChecker:   healthChecker,
		Metrics:         metrics,
		Cache:           cache,
		Logger:          log,
	})

	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// 信号处理
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	// HTTP 服务器 goroutine
	group.Go(func() error {
		log.Info("starting HTTP server", zap.String("address", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	})

	// WebSocket Hub goroutine
	group.Go(func() error {
		log.Info("starting WebSocket hub")
		wsHub.Run(groupCtx)
		return nil
	})

	// 优雅关闭 goroutine
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", zap.Error(err))
		}

		// 等待在途通知投递完成
		if dispatcher != nil {
			dispatcher.Stop()
		}

		if cache != nil {
			if err := cache.Close(); err != nil {
				log.Error("redis close error", zap.Error(err))
			}
		}
		if err := store.Close(); err != nil {
			log.Error("storage close error", zap.Error(err))
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited with error", zap.Error(err))
	}
	log.Info("server stopped")
	_ = log.Sync()
}
