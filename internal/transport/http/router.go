package httptransport

import (
	"time"

	gincors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"brightonhub/backend/internal/auth"
	jwtpkg "brightonhub/backend/internal/auth/jwt"
	"brightonhub/backend/internal/config"
	"brightonhub/backend/internal/domain"
	"brightonhub/backend/internal/health"
	"brightonhub/backend/internal/middleware"
	"brightonhub/backend/internal/monitoring"
	"brightonhub/backend/internal/service"
	"brightonhub/backend/internal/storage/redis"
	"brightonhub/backend/internal/websocket"
)

// v1 接口限流参数：每 IP 每分钟 300 次
const (
	rateLimitPerWindow = 300
	rateLimitWindow    = time.Minute
)

// RouterDependencies 路由器依赖项
type RouterDependencies struct {
	Config          *config.Config
	MessageService  *service.MessageService
	CategoryService *service.CategoryService
	CatalogService  *service.CatalogService
	VendorService   *service.VendorService
	AuthService     *auth.Service
	JWTManager      *jwtpkg.Manager
	WebSocketHub    *websocket.Hub        // 可为 nil
	HealthChecker   *health.HealthChecker // 可为 nil
	Metrics         *monitoring.Metrics   // 可为 nil
	Cache           *redis.Cache          // 可为 nil，为空时不启用限流
	Logger          *zap.Logger
}

// NewRouter 创建并返回 Gin 路由实例。
func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.New()

	// 使用自定义中间件替代默认中间件
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.SecurityHeaders())

	// 全局请求体大小限制 10MB
	router.Use(middleware.BodySizeLimit(middleware.DefaultBodyLimit))

	if deps.Metrics != nil {
		mon := middleware.NewMonitoringMiddleware(deps.Metrics, deps.Logger)
		router.Use(mon.PanicRecovery())
		router.Use(mon.HTTPMetrics())
		router.Use(mon.RateLimitMetrics())
	} else {
		router.Use(gin.Recovery())
	}

	// CORS 配置
	corsConfig := gincors.Config{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	// 如果允许所有来源，则需清空凭证支持。
	for _, origin := range corsConfig.AllowOrigins {
		if origin == "*" {
			corsConfig.AllowCredentials = false
			break
		}
	}
	router.Use(gincors.New(corsConfig))

	// 创建处理器
	authHandler := NewAuthHandler(deps.AuthService, deps.JWTManager, deps.Logger)
	messageHandler := NewMessageHandler(deps.MessageService, deps.Logger)
	categoryHandler := NewCategoryHandler(deps.CategoryService, deps.Logger)
	catalogHandler := NewCatalogHandler(deps.CatalogService, deps.Logger)
	vendorHandler := NewVendorHandler(deps.VendorService, deps.Logger)

	// 创建中间件
	jwtAuth := middleware.NewJWTAuth(deps.JWTManager, deps.Logger)
	adminAuth := middleware.NewAdminAuth(deps.AuthService)

	// 健康检查与指标
	if deps.HealthChecker != nil {
		router.GET("/health", func(c *gin.Context) {
			Success(c, deps.HealthChecker.CheckHealth())
		})
		router.GET("/health/live", gin.WrapH(deps.HealthChecker.Handler()))
		router.GET("/health/ready", gin.WrapH(deps.HealthChecker.Handler()))
	} else {
		router.GET("/health", func(c *gin.Context) {
			Success(c, gin.H{"status": "ok"})
		})
	}
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// V1 API
	v1 := router.Group("/v1")
	if deps.Cache != nil {
		v1.Use(middleware.RateLimitByIP(deps.Cache, deps.Logger, rateLimitPerWindow, rateLimitWindow))
	}
	{
		// ========== Auth Routes ==========
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.Refresh)
			authRoutes.GET("/me", jwtAuth.RequireAuth(), authHandler.Me)
			authRoutes.POST("/change-password", jwtAuth.RequireAuth(), authHandler.ChangePassword)
		}

		// ========== Contact Message Routes ==========
		messageRoutes := v1.Group("/contact-messages")
		{
			// 匿名访客可提交，登录用户身份以会话为准
			messageRoutes.POST("", jwtAuth.OptionalAuth(), messageHandler.CreateMessage)
			messageRoutes.GET("", jwtAuth.RequireAuth(), messageHandler.ListMessages)
			messageRoutes.PATCH("", jwtAuth.RequireAuth(), messageHandler.BatchUpdateMessages)
			messageRoutes.GET("/:id", jwtAuth.RequireAuth(), messageHandler.GetMessage)
		}

		// ========== Category Routes ==========
		categoryRoutes := v1.Group("/categories")
		{
			categoryRoutes.GET("", categoryHandler.ListCategories)
			categoryRoutes.GET("/:id", categoryHandler.GetCategory)
			categoryRoutes.GET("/type/:type/slug/:slug", categoryHandler.GetCategoryBySlug)

			// 写操作需要管理员权限
			categoryRoutes.POST("", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), categoryHandler.CreateCategory)
			categoryRoutes.PATCH("/:id", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), categoryHandler.UpdateCategory)
			categoryRoutes.DELETE("/:id", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), categoryHandler.DeleteCategory)
		}

		// ========== Catalog Routes ==========
		propertyRoutes := v1.Group("/properties")
		{
			propertyRoutes.GET("", catalogHandler.ListProperties)
			propertyRoutes.GET("/:id", catalogHandler.GetProperty)
			propertyRoutes.POST("", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), catalogHandler.CreateProperty)
			propertyRoutes.PATCH("/:id", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), catalogHandler.UpdateProperty)
			propertyRoutes.DELETE("/:id", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), catalogHandler.DeleteProperty)
		}

		foodRoutes := v1.Group("/food-items")
		{
			foodRoutes.GET("", catalogHandler.ListFoodItems)
			foodRoutes.GET("/:id", catalogHandler.GetFoodItem)
			foodRoutes.POST("", jwtAuth.RequireAuth(), adminAuth.RequireRole(domain.RoleAdmin, domain.RoleSuper, domain.RoleVendor), catalogHandler.CreateFoodItem)
			foodRoutes.PATCH("/:id", jwtAuth.RequireAuth(), adminAuth.RequireRole(domain.RoleAdmin, domain.RoleSuper, domain.RoleVendor), catalogHandler.UpdateFoodItem)
			foodRoutes.DELETE("/:id", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), catalogHandler.DeleteFoodItem)
		}

		productRoutes := v1.Group("/store-products")
		{
			productRoutes.GET("", catalogHandler.ListStoreProducts)
			productRoutes.GET("/:id", catalogHandler.GetStoreProduct)
			productRoutes.POST("", jwtAuth.RequireAuth(), adminAuth.RequireRole(domain.RoleAdmin, domain.RoleSuper, domain.RoleVendor), catalogHandler.CreateStoreProduct)
			productRoutes.PATCH("/:id", jwtAuth.RequireAuth(), adminAuth.RequireRole(domain.RoleAdmin, domain.RoleSuper, domain.RoleVendor), catalogHandler.UpdateStoreProduct)
			productRoutes.DELETE("/:id", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), catalogHandler.DeleteStoreProduct)
		}

		projectRoutes := v1.Group("/projects")
		{
			projectRoutes.GET("", catalogHandler.ListProjects)
			projectRoutes.GET("/:id", catalogHandler.GetProject)
			projectRoutes.POST("", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), catalogHandler.CreateProject)
			projectRoutes.PATCH("/:id", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), catalogHandler.UpdateProject)
			projectRoutes.DELETE("/:id", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), catalogHandler.DeleteProject)
		}

		blogRoutes := v1.Group("/blog-posts")
		{
			blogRoutes.GET("", catalogHandler.ListBlogPosts)
			blogRoutes.GET("/:id", catalogHandler.GetBlogPost)
			blogRoutes.POST("", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), catalogHandler.CreateBlogPost)
			blogRoutes.PATCH("/:id", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), catalogHandler.UpdateBlogPost)
			blogRoutes.DELETE("/:id", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), catalogHandler.DeleteBlogPost)
		}

		// ========== Vendor Routes ==========
		vendorRoutes := v1.Group("/vendors")
		{
			vendorRoutes.GET("", vendorHandler.ListListings)
			vendorRoutes.GET("/:id", vendorHandler.GetListing)
			vendorRoutes.PATCH("/:id", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), vendorHandler.UpdateListing)

			vendorRoutes.POST("/applications", jwtAuth.RequireAuth(), vendorHandler.Apply)
			vendorRoutes.GET("/applications", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), vendorHandler.ListApplications)
			vendorRoutes.GET("/applications/:id", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), vendorHandler.GetApplication)
			vendorRoutes.POST("/applications/:id/review", jwtAuth.RequireAuth(), adminAuth.RequireAdmin(), vendorHandler.ReviewApplication)
		}

		// ========== WebSocket Routes ==========
		if deps.WebSocketHub != nil {
			v1.GET("/ws", websocket.HandleWebSocket(deps.WebSocketHub))
		}
	}

	return router
}
