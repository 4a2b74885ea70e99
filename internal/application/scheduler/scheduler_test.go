package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appranking "github.com/hanbit/bookstore/internal/application/ranking"
	appsettlement "github.com/hanbit/bookstore/internal/application/settlement"
	"github.com/hanbit/bookstore/internal/domain/book"
	"github.com/hanbit/bookstore/internal/domain/ranking"
	"github.com/hanbit/bookstore/internal/infrastructure/config"
	"github.com/hanbit/bookstore/internal/infrastructure/persistence/mysql"
	"github.com/hanbit/bookstore/internal/testutil"
	"github.com/hanbit/bookstore/pkg/metrics"
)

// noopCache 丢弃写入的空缓存(调度器测试不关心缓存路径)
type noopCache struct{}

func (noopCache) Get(context.Context, ranking.Type, string, string) (*ranking.Snapshot, error) {
	return nil, nil
}

func (noopCache) Set(context.Context, *ranking.Snapshot) error { return nil }

func newScheduler(t *testing.T, cfg config.SchedulerConfig) (*Scheduler, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)

	bookRepo := mysql.NewBookRepository(db)
	rankingRepo := mysql.NewRankingRepository(db)
	settlementRepo := mysql.NewSettlementRepository(db)
	txManager := mysql.NewTxManager(db)
	m := metrics.New()
	logger := zap.NewNop()

	settlementUC := appsettlement.NewCalculateUseCase(settlementRepo, txManager, m, logger)
	rankingUC := appranking.NewRefreshUseCase(bookRepo, rankingRepo, noopCache{}, txManager, m, logger)

	return New(settlementUC, rankingUC, cfg, logger), db
}

// TestScheduler_StartupRound 启动延迟后立即跑首轮,榜单不为空
func TestScheduler_StartupRound(t *testing.T) {
	sched, db := newScheduler(t, config.SchedulerConfig{
		SettlementInterval: time.Hour,
		RankingInterval:    time.Hour,
		StartupDelay:       10 * time.Millisecond,
	})

	b := book.NewBook(1, "启动轮图书", "作者", "出版社", "ISBN-启动轮", 10000)
	b.Status = book.StatusOnSale
	require.NoError(t, mysql.NewBookRepository(db).Create(context.Background(), b))
	require.NoError(t, db.Table("books").Where("id = ?", b.ID).Update("purchase_count", 5).Error)

	sched.Start()
	defer sched.Stop()

	// 轮询等首轮落库(周期设为1小时,之后不会再有第二轮)
	deadline := time.Now().Add(3 * time.Second)
	for {
		var total int64
		db.Table("rankings").Count(&total)
		if total > 0 {
			assert.Equal(t, int64(1), total, "首轮重算应写入购买榜一条")
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("启动首轮在限期内未执行")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// TestScheduler_StopBeforeStartup 首轮未到即停,不得卡死也不得执行批次
func TestScheduler_StopBeforeStartup(t *testing.T) {
	sched, db := newScheduler(t, config.SchedulerConfig{
		SettlementInterval: time.Hour,
		RankingInterval:    time.Hour,
		StartupDelay:       time.Hour,
	})

	sched.Start()

	done := make(chan struct{})
	go func() {
		sched.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop未在限期内返回")
	}

	var total int64
	db.Table("rankings").Count(&total)
	assert.Zero(t, total, "未到启动延迟不应执行任何批次")
}
