package ranking

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hanbit/bookstore/internal/domain/book"
	"github.com/hanbit/bookstore/internal/domain/ranking"
	"github.com/hanbit/bookstore/internal/infrastructure/persistence/mysql"
	"github.com/hanbit/bookstore/internal/testutil"
	"github.com/hanbit/bookstore/pkg/metrics"
)

// fakeCache 内存版榜单缓存,支持故障注入与读写计数
type fakeCache struct {
	store  map[string]*ranking.Snapshot
	getErr error
	setErr error

	getCalls int
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]*ranking.Snapshot)}
}

func (c *fakeCache) key(typ ranking.Type, ageGroup, gender string) string {
	return fmt.Sprintf("%s:%s:%s", typ, ageGroup, gender)
}

func (c *fakeCache) Get(_ context.Context, typ ranking.Type, ageGroup, gender string) (*ranking.Snapshot, error) {
	c.getCalls++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.store[c.key(typ, ageGroup, gender)], nil
}

func (c *fakeCache) Set(_ context.Context, snap *ranking.Snapshot) error {
	c.setCalls++
	if c.setErr != nil {
		return c.setErr
	}
	c.store[c.key(snap.Type, snap.AgeGroup, snap.Gender)] = snap
	return nil
}

// countingRankingRepo 统计Find调用次数的仓储包装
type countingRankingRepo struct {
	ranking.Repository
	findCalls int
}

func (r *countingRankingRepo) Find(ctx context.Context, q ranking.Query) ([]*ranking.Ranking, error) {
	r.findCalls++
	return r.Repository.Find(ctx, q)
}

type testEnv struct {
	db          *gorm.DB
	bookRepo    book.Repository
	rankingRepo *countingRankingRepo
	cache       *fakeCache
	txManager   *mysql.TxManager
	metrics     *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	return &testEnv{
		db:          db,
		bookRepo:    mysql.NewBookRepository(db),
		rankingRepo: &countingRankingRepo{Repository: mysql.NewRankingRepository(db)},
		cache:       newFakeCache(),
		txManager:   mysql.NewTxManager(db),
		metrics:     metrics.New(),
	}
}

func (e *testEnv) refreshUseCase() *RefreshUseCase {
	return NewRefreshUseCase(e.bookRepo, e.rankingRepo, e.cache, e.txManager, e.metrics, zap.NewNop())
}

func (e *testEnv) getUseCase() *GetUseCase {
	return NewGetUseCase(e.rankingRepo, e.cache, e.metrics, zap.NewNop())
}

// seedBook 造一本书并把聚合字段调到指定值
func (e *testEnv) seedBook(t *testing.T, title string, status book.Status, purchaseCount, reviewCount int, avgRating int64) *book.Book {
	t.Helper()
	b := book.NewBook(1, title, "作者", "出版社", "ISBN-"+title, 10000)
	b.Status = status
	require.NoError(t, e.bookRepo.Create(context.Background(), b))

	err := e.db.Table("books").Where("id = ?", b.ID).Updates(map[string]interface{}{
		"purchase_count": purchaseCount,
		"review_count":   reviewCount,
		"average_rating": avgRating,
	}).Error
	require.NoError(t, err)
	b.PurchaseCount = purchaseCount
	b.ReviewCount = reviewCount
	b.AverageRating = avgRating
	return b
}

// TestRefresh_Rankings 重算后两张榜单名次连续且按指标降序
func TestRefresh_Rankings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b1 := env.seedBook(t, "销量冠军", book.StatusOnSale, 100, 5, 300)
	b2 := env.seedBook(t, "销量亚军", book.StatusOnSale, 50, 8, 450)
	b3 := env.seedBook(t, "销量季军", book.StatusOnSale, 10, 3, 400)

	require.NoError(t, env.refreshUseCase().Execute(ctx))

	t.Run("购买榜", func(t *testing.T) {
		rows, err := env.rankingRepo.Find(ctx, ranking.Query{Type: ranking.TypePurchaseCount}.Normalize())
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []uint{b1.ID, b2.ID, b3.ID}, []uint{rows[0].BookID, rows[1].BookID, rows[2].BookID})
		for i, row := range rows {
			assert.Equal(t, i+1, row.Rank, "名次应1..N连续")
		}
		assert.Equal(t, "销量冠军", rows[0].BookTitle, "联表填充标题")
	})

	t.Run("评分榜", func(t *testing.T) {
		rows, err := env.rankingRepo.Find(ctx, ranking.Query{Type: ranking.TypeAverageRating}.Normalize())
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []uint{b2.ID, b3.ID, b1.ID}, []uint{rows[0].BookID, rows[1].BookID, rows[2].BookID})
		assert.Equal(t, int64(450), rows[0].AverageRating)
	})
}

// TestRefresh_Eligibility 非在售图书与零评论图书的上榜资格
func TestRefresh_Eligibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	onSale := env.seedBook(t, "在售", book.StatusOnSale, 10, 2, 400)
	env.seedBook(t, "售罄", book.StatusSoldOut, 999, 9, 500)
	env.seedBook(t, "待售", book.StatusToBeSold, 888, 9, 500)
	noReview := env.seedBook(t, "零评论", book.StatusOnSale, 5, 0, 0)

	require.NoError(t, env.refreshUseCase().Execute(ctx))

	// 购买榜:只排在售,零评论不影响
	rows, err := env.rankingRepo.Find(ctx, ranking.Query{Type: ranking.TypePurchaseCount}.Normalize())
	require.NoError(t, err)
	require.Len(t, rows, 2, "非在售图书不上购买榜")
	assert.Equal(t, onSale.ID, rows[0].BookID)
	assert.Equal(t, noReview.ID, rows[1].BookID)

	// 评分榜:零评论图书也被排除
	rows, err = env.rankingRepo.Find(ctx, ranking.Query{Type: ranking.TypeAverageRating}.Normalize())
	require.NoError(t, err)
	require.Len(t, rows, 1, "零评论图书不上评分榜")
	assert.Equal(t, onSale.ID, rows[0].BookID)
}

// TestRefresh_Replaces 重算整表替换,旧榜单不残留
func TestRefresh_Replaces(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b1 := env.seedBook(t, "第一轮冠军", book.StatusOnSale, 100, 1, 100)
	b2 := env.seedBook(t, "第一轮亚军", book.StatusOnSale, 50, 1, 100)

	require.NoError(t, env.refreshUseCase().Execute(ctx))

	// 名次逆转后重算
	require.NoError(t, env.db.Table("books").Where("id = ?", b2.ID).Update("purchase_count", 200).Error)
	require.NoError(t, env.refreshUseCase().Execute(ctx))

	rows, err := env.rankingRepo.Find(ctx, ranking.Query{Type: ranking.TypePurchaseCount}.Normalize())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, b2.ID, rows[0].BookID, "重算后新冠军登顶")
	assert.Equal(t, b1.ID, rows[1].BookID)

	var total int64
	env.db.Table("rankings").Count(&total)
	assert.Equal(t, int64(4), total, "先删后插,两张榜各2条,无残留")
}

// failingTopRepo 可按榜单类型注入Top查询故障的仓储包装
type failingTopRepo struct {
	book.Repository
	failPurchase bool
	failRating   bool
}

func (r *failingTopRepo) TopByPurchaseCount(ctx context.Context, limit int) ([]*book.Book, error) {
	if r.failPurchase {
		return nil, fmt.Errorf("购买榜查询超时")
	}
	return r.Repository.TopByPurchaseCount(ctx, limit)
}

func (r *failingTopRepo) TopByAverageRating(ctx context.Context, limit int) ([]*book.Book, error) {
	if r.failRating {
		return nil, fmt.Errorf("评分榜查询超时")
	}
	return r.Repository.TopByAverageRating(ctx, limit)
}

// TestRefresh_TypeIsolation 两张榜单是独立故障域:
// 一张榜的查询失败不中止另一张的重算与缓存写入
func TestRefresh_TypeIsolation(t *testing.T) {
	t.Run("购买榜失败时评分榜照常重算", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()

		env.seedBook(t, "图书A", book.StatusOnSale, 10, 2, 450)

		failing := &failingTopRepo{Repository: env.bookRepo, failPurchase: true}
		uc := NewRefreshUseCase(failing, env.rankingRepo, env.cache, env.txManager, env.metrics, zap.NewNop())

		err := uc.Execute(ctx)
		assert.Error(t, err, "失败的那张榜要上报")

		rows, err := env.rankingRepo.Find(ctx, ranking.Query{Type: ranking.TypeAverageRating}.Normalize())
		require.NoError(t, err)
		assert.Len(t, rows, 1, "评分榜应照常落库")

		snap, err := env.cache.Get(ctx, ranking.TypeAverageRating, ranking.SegmentAll, ranking.SegmentAll)
		require.NoError(t, err)
		assert.NotNil(t, snap, "评分榜缓存应照常写入")

		rows, err = env.rankingRepo.Find(ctx, ranking.Query{Type: ranking.TypePurchaseCount}.Normalize())
		require.NoError(t, err)
		assert.Empty(t, rows, "失败的购买榜不产生条目")
	})

	t.Run("评分榜失败时购买榜保留旧版", func(t *testing.T) {
		env := newTestEnv(t)
		ctx := context.Background()

		old := env.seedBook(t, "第一轮图书", book.StatusOnSale, 10, 1, 400)
		require.NoError(t, env.refreshUseCase().Execute(ctx))

		// 第二轮:新书上架,评分榜查询故障
		fresh := env.seedBook(t, "第二轮图书", book.StatusOnSale, 99, 1, 500)
		failing := &failingTopRepo{Repository: env.bookRepo, failRating: true}
		uc := NewRefreshUseCase(failing, env.rankingRepo, env.cache, env.txManager, env.metrics, zap.NewNop())
		assert.Error(t, uc.Execute(ctx))

		// 购买榜已更新到第二轮
		rows, err := env.rankingRepo.Find(ctx, ranking.Query{Type: ranking.TypePurchaseCount}.Normalize())
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, fresh.ID, rows[0].BookID)

		// 评分榜保留第一轮的完整内容,不残留半张榜
		rows, err = env.rankingRepo.Find(ctx, ranking.Query{Type: ranking.TypeAverageRating}.Normalize())
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, old.ID, rows[0].BookID)
	})
}

// TestRefresh_CacheWriteThrough 重算成功后写缓存,缓存故障不影响重算结果
func TestRefresh_CacheWriteThrough(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedBook(t, "图书A", book.StatusOnSale, 10, 1, 400)

	t.Run("正常写缓存", func(t *testing.T) {
		require.NoError(t, env.refreshUseCase().Execute(ctx))
		assert.Equal(t, 2, env.cache.setCalls, "两张榜各写一次缓存")

		snap, err := env.cache.Get(ctx, ranking.TypePurchaseCount, ranking.SegmentAll, ranking.SegmentAll)
		require.NoError(t, err)
		require.NotNil(t, snap)
		require.Len(t, snap.Rankings, 1)
		assert.Equal(t, "4.00", snap.Rankings[0].AverageRating)
	})

	t.Run("缓存写失败不算重算失败", func(t *testing.T) {
		env.cache.setErr = fmt.Errorf("redis连不上")
		assert.NoError(t, env.refreshUseCase().Execute(ctx))
		env.cache.setErr = nil
	})
}

// TestGet_CacheAside 读路径:未命中回源并回填,命中不再查库
func TestGet_CacheAside(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b := env.seedBook(t, "图书A", book.StatusOnSale, 10, 1, 450)

	// 只落库不写缓存,制造冷缓存
	require.NoError(t, env.txManager.Transaction(ctx, func(txCtx context.Context) error {
		rows := []*ranking.Ranking{{
			BookID: b.ID, Type: ranking.TypePurchaseCount, Rank: 1,
			PurchaseCount: 10, AverageRating: 450,
			AgeGroup: ranking.SegmentAll, Gender: ranking.SegmentAll, Region: ranking.SegmentAll,
		}}
		return env.rankingRepo.CreateBatch(txCtx, rows)
	}))

	q := ranking.Query{Type: ranking.TypePurchaseCount}

	// 第一次:未命中→回源→回填
	snap, err := env.getUseCase().Execute(ctx, q)
	require.NoError(t, err)
	require.Len(t, snap.Rankings, 1)
	assert.Equal(t, "4.50", snap.Rankings[0].AverageRating)
	assert.Equal(t, 1, env.rankingRepo.findCalls)
	assert.Equal(t, 1, env.cache.setCalls, "未命中后应回填缓存")

	// 第二次:命中,不再查库
	snap, err = env.getUseCase().Execute(ctx, q)
	require.NoError(t, err)
	require.Len(t, snap.Rankings, 1)
	assert.Equal(t, 1, env.rankingRepo.findCalls, "缓存命中不应回源")
}

// TestGet_CacheFailure 缓存读故障降级回源,用户无感知
func TestGet_CacheFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.seedBook(t, "图书A", book.StatusOnSale, 10, 1, 400)
	require.NoError(t, env.refreshUseCase().Execute(ctx))

	env.cache.getErr = fmt.Errorf("redis连不上")

	snap, err := env.getUseCase().Execute(ctx, ranking.Query{Type: ranking.TypePurchaseCount})
	require.NoError(t, err, "缓存故障不应暴露给调用方")
	require.Len(t, snap.Rankings, 1)
	assert.GreaterOrEqual(t, env.rankingRepo.findCalls, 1, "故障时回源数据库")
}

// TestGet_LimitAndValidation limit截断与榜单类型校验
func TestGet_LimitAndValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		env.seedBook(t, fmt.Sprintf("图书%d", i), book.StatusOnSale, 100-i, 1, 400)
	}
	require.NoError(t, env.refreshUseCase().Execute(ctx))

	t.Run("limit截断", func(t *testing.T) {
		snap, err := env.getUseCase().Execute(ctx, ranking.Query{Type: ranking.TypePurchaseCount, Limit: 3})
		require.NoError(t, err)
		assert.Len(t, snap.Rankings, 3)
		assert.Equal(t, 1, snap.Rankings[0].Rank)
	})

	t.Run("limit超界回落默认", func(t *testing.T) {
		snap, err := env.getUseCase().Execute(ctx, ranking.Query{Type: ranking.TypePurchaseCount, Limit: 100})
		require.NoError(t, err)
		assert.Len(t, snap.Rankings, 5)
	})

	t.Run("非法榜单类型", func(t *testing.T) {
		_, err := env.getUseCase().Execute(ctx, ranking.Query{Type: "bestseller"})
		assert.Error(t, err)
	})
}
