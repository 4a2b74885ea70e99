//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 说明：
// 1. Wire在编译期生成依赖组装代码（wire gen ./cmd/api → wire_gen.go）
// 2. 优势：零运行时开销、类型安全、编译期检测循环依赖
// 3. 当前main.go使用手动注入，本文件与之保持同构，
//    作为迁移到生成式注入的入口

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appcart "github.com/hanbit/bookstore/internal/application/cart"
	apporder "github.com/hanbit/bookstore/internal/application/order"
	appranking "github.com/hanbit/bookstore/internal/application/ranking"
	appsettlement "github.com/hanbit/bookstore/internal/application/settlement"
	appuser "github.com/hanbit/bookstore/internal/application/user"
	"github.com/hanbit/bookstore/internal/domain/ranking"
	"github.com/hanbit/bookstore/internal/domain/user"
	"github.com/hanbit/bookstore/internal/infrastructure/config"
	"github.com/hanbit/bookstore/internal/infrastructure/persistence/mysql"
	"github.com/hanbit/bookstore/internal/infrastructure/persistence/redis"
	"github.com/hanbit/bookstore/internal/interface/http/handler"
	"github.com/hanbit/bookstore/internal/interface/http/middleware"
	"github.com/hanbit/bookstore/pkg/jwt"
	"github.com/hanbit/bookstore/pkg/logger"
	"github.com/hanbit/bookstore/pkg/metrics"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
	metrics.New,
	provideLogger,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewSellerRepository,
	mysql.NewBookRepository,
	mysql.NewCartRepository,
	mysql.NewOrderRepository,
	mysql.NewSettlementRepository,
	mysql.NewRankingRepository,
	mysql.NewTxManager,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appcart.NewUseCase,
	apporder.NewCreateOrderUseCase,
	apporder.NewCancelOrderUseCase,
	apporder.NewGetOrderUseCase,
	apporder.NewListOrdersUseCase,
	apporder.NewListAllOrdersUseCase,
	apporder.NewMarkStatusUseCase,
	appsettlement.NewCalculateUseCase,
	appsettlement.NewListUseCase,
	appranking.NewRefreshUseCase,
	appranking.NewGetUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	provideRankingCache,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
	handler.NewRankingHandler,
	handler.NewSettlementHandler,
	handler.NewAdminHandler,
)

// provideLogger 从配置创建zap日志器
func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideRankingCache 从Redis客户端与配置创建榜单缓存
func provideRankingCache(client *goredis.Client, cfg *config.Config) ranking.Cache {
	return redis.NewRankingCache(client, cfg.Cache.RankingTTL)
}

// provideGinEngine 创建并配置Gin引擎（注册全部路由）
func provideGinEngine(
	cfg *config.Config,
	m *metrics.Metrics,
	userHandler *handler.UserHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	rankingHandler *handler.RankingHandler,
	settlementHandler *handler.SettlementHandler,
	adminHandler *handler.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	registerRoutes(r, m, userHandler, cartHandler, orderHandler, rankingHandler, settlementHandler, adminHandler, authMiddleware)
	return r
}

// InitializeApp Wire注入器：组装完整的Gin引擎
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
