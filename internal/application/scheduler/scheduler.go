package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hanbit/bookstore/internal/application/ranking"
	"github.com/hanbit/bookstore/internal/application/settlement"
	"github.com/hanbit/bookstore/internal/infrastructure/config"
)

// Scheduler 后台批处理调度器
// 设计说明:
//  1. 显式组件:由main持有,随服务启动/停止,不藏在init里
//  2. 启动后先延迟一小段时间跑一轮(服务刚起时榜单不能是空的),
//     之后按固定周期触发
//  3. 单轮失败只记日志,不中断调度:下一个周期照常触发
//  4. 两条批处理线互相独立,定算挂了不影响榜单刷新
//  5. Stop等待在途批次跑完再返回(优雅停机)
type Scheduler struct {
	settlementUC *settlement.CalculateUseCase
	rankingUC    *ranking.RefreshUseCase
	cfg          config.SchedulerConfig
	logger       *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New 创建调度器
func New(
	settlementUC *settlement.CalculateUseCase,
	rankingUC *ranking.RefreshUseCase,
	cfg config.SchedulerConfig,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		settlementUC: settlementUC,
		rankingUC:    rankingUC,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start 启动调度循环(非阻塞)
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(2)
	go s.loop(ctx, "settlement", s.cfg.SettlementInterval, s.runSettlement)
	go s.loop(ctx, "ranking", s.cfg.RankingInterval, s.runRanking)

	s.logger.Info("调度器已启动",
		zap.Duration("settlement_interval", s.cfg.SettlementInterval),
		zap.Duration("ranking_interval", s.cfg.RankingInterval),
		zap.Duration("startup_delay", s.cfg.StartupDelay))
}

// Stop 停止调度,等待在途批次完成
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("调度器已停止")
}

// loop 单条批处理线:启动延迟跑一轮,之后按周期触发
func (s *Scheduler) loop(ctx context.Context, name string, interval time.Duration, run func(ctx context.Context)) {
	defer s.wg.Done()

	// 启动首轮(带延迟,等依赖组件就绪)
	select {
	case <-time.After(s.cfg.StartupDelay):
		run(ctx)
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			run(ctx)
		case <-ctx.Done():
			s.logger.Info("批处理线退出", zap.String("job", name))
			return
		}
	}
}

// runSettlement 跑一轮定算(失败只记日志)
func (s *Scheduler) runSettlement(ctx context.Context) {
	summary, err := s.settlementUC.Execute(ctx)
	if err != nil {
		s.logger.Error("定算批处理出错", zap.Error(err))
		return
	}
	s.logger.Info("定算批处理结束",
		zap.Int("created_settlements", summary.CreatedSettlements),
		zap.Int("processed_orders", summary.TotalProcessedOrders))
}

// runRanking 跑一轮榜单重算(失败只记日志)
func (s *Scheduler) runRanking(ctx context.Context) {
	if err := s.rankingUC.Execute(ctx); err != nil {
		s.logger.Error("榜单重算出错", zap.Error(err))
	}
}
