package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/hanbit/bookstore/docs" // swagger文档
	appcart "github.com/hanbit/bookstore/internal/application/cart"
	apporder "github.com/hanbit/bookstore/internal/application/order"
	appranking "github.com/hanbit/bookstore/internal/application/ranking"
	"github.com/hanbit/bookstore/internal/application/scheduler"
	appsettlement "github.com/hanbit/bookstore/internal/application/settlement"
	appuser "github.com/hanbit/bookstore/internal/application/user"
	"github.com/hanbit/bookstore/internal/domain/user"
	"github.com/hanbit/bookstore/internal/infrastructure/config"
	"github.com/hanbit/bookstore/internal/infrastructure/persistence/mysql"
	"github.com/hanbit/bookstore/internal/infrastructure/persistence/redis"
	"github.com/hanbit/bookstore/internal/interface/http/handler"
	"github.com/hanbit/bookstore/internal/interface/http/middleware"
	"github.com/hanbit/bookstore/pkg/jwt"
	"github.com/hanbit/bookstore/pkg/logger"
	"github.com/hanbit/bookstore/pkg/metrics"
	"github.com/hanbit/bookstore/pkg/response"
)

// @title           Bookstore API
// @version         1.0
// @description     在线书店：订单管道、定算批处理、榜单引擎
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	zapLogger, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	zapLogger.Info("配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("database", fmt.Sprintf("%s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()))

	// 3. 初始化数据库与Redis
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 4. 依赖注入（手动组装）
	// 依赖链：Repository ← Service ← UseCase ← Handler

	// 基础设施层
	m := metrics.New()
	userRepo := mysql.NewUserRepository(db)
	sellerRepo := mysql.NewSellerRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	settlementRepo := mysql.NewSettlementRepository(db)
	rankingRepo := mysql.NewRankingRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	rankingCache := redis.NewRankingCache(redisClient, cfg.Cache.RankingTTL)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore, zapLogger)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)
	cartUseCase := appcart.NewUseCase(cartRepo, bookRepo)
	createOrderUseCase := apporder.NewCreateOrderUseCase(cartRepo, bookRepo, orderRepo, txManager, m, zapLogger)
	cancelOrderUseCase := apporder.NewCancelOrderUseCase(orderRepo, bookRepo, txManager, m, zapLogger)
	getOrderUseCase := apporder.NewGetOrderUseCase(orderRepo, bookRepo)
	listOrdersUseCase := apporder.NewListOrdersUseCase(orderRepo, bookRepo)
	listAllOrdersUseCase := apporder.NewListAllOrdersUseCase(orderRepo, bookRepo)
	markStatusUseCase := apporder.NewMarkStatusUseCase(orderRepo, zapLogger)
	calculateUseCase := appsettlement.NewCalculateUseCase(settlementRepo, txManager, m, zapLogger)
	listSettlementsUseCase := appsettlement.NewListUseCase(settlementRepo, sellerRepo)
	refreshRankingsUseCase := appranking.NewRefreshUseCase(bookRepo, rankingRepo, rankingCache, txManager, m, zapLogger)
	getRankingsUseCase := appranking.NewGetUseCase(rankingRepo, rankingCache, m, zapLogger)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase)
	cartHandler := handler.NewCartHandler(cartUseCase)
	orderHandler := handler.NewOrderHandler(createOrderUseCase, cancelOrderUseCase, getOrderUseCase, listOrdersUseCase)
	rankingHandler := handler.NewRankingHandler(getRankingsUseCase)
	settlementHandler := handler.NewSettlementHandler(listSettlementsUseCase)
	adminHandler := handler.NewAdminHandler(listAllOrdersUseCase, markStatusUseCase, calculateUseCase, refreshRankingsUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 5. 后台批处理调度器（定算+榜单重算）
	sched := scheduler.New(calculateUseCase, refreshRankingsUseCase, cfg.Scheduler, zapLogger)
	sched.Start()

	// 6. 初始化Gin引擎并注册路由
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	registerRoutes(r, m, userHandler, cartHandler, orderHandler, rankingHandler, settlementHandler, adminHandler, authMiddleware)

	// 7. 启动服务（优雅停机：先停HTTP，再停调度器）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zapLogger.Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	<-ctx.Done()
	zapLogger.Info("收到停机信号，开始优雅停机")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("HTTP服务停机失败", zap.Error(err))
	}

	sched.Stop()
	zapLogger.Info("服务已退出")
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	m *metrics.Metrics,
	userHandler *handler.UserHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	rankingHandler *handler.RankingHandler,
	settlementHandler *handler.SettlementHandler,
	adminHandler *handler.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(m.Handler()))

	// Swagger文档（访问 /swagger/index.html）
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 用户模块
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
		}

		// 榜单模块（公开接口）
		v1.GET("/rankings", rankingHandler.Get)

		// 需要登录的路由
		authorized := v1.Group("")
		authorized.Use(authMiddleware.RequireAuth())
		{
			// 购物车模块
			authorized.GET("/cart", cartHandler.List)
			authorized.POST("/cart/items", cartHandler.Add)
			authorized.PUT("/cart/items/:id", cartHandler.UpdateQuantity)
			authorized.DELETE("/cart/items/:id", cartHandler.Remove)

			// 订单模块
			authorized.POST("/orders", orderHandler.Create)
			authorized.GET("/orders", orderHandler.List)
			authorized.GET("/orders/:id", orderHandler.Get)
			authorized.POST("/orders/:id/cancel", orderHandler.Cancel)

			// 定算模块（卖家侧）
			authorized.GET("/settlements/me", settlementHandler.ListMine)
		}

		// 管理端路由
		admin := v1.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
		{
			admin.GET("/orders", adminHandler.ListOrders)
			admin.PUT("/orders/:id/status", adminHandler.MarkOrderStatus)
			admin.POST("/settlements/run", adminHandler.RunSettlement)
			admin.POST("/rankings/refresh", adminHandler.RefreshRankings)
		}
	}
}
