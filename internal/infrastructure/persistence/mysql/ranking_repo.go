package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hanbit/bookstore/internal/domain/ranking"
	apperrors "github.com/hanbit/bookstore/pkg/errors"
)

// rankingRepository 榜单仓储实现(MySQL)
type rankingRepository struct {
	db *gorm.DB
}

// NewRankingRepository 创建榜单仓储
func NewRankingRepository(db *gorm.DB) ranking.Repository {
	return &rankingRepository{db: db}
}

// DeleteByType 清空某一类型的榜单
// 每轮重算先删后插,必须与CreateBatch同事务:
// 事务中途失败时整体回滚,读方永远看不到空榜或半张榜。
// 删除按ranking_type圈定,一张榜的替换不触碰另一张。
func (r *rankingRepository) DeleteByType(ctx context.Context, typ ranking.Type) error {
	err := getDB(ctx, r.db).
		Where("ranking_type = ?", string(typ)).
		Delete(&RankingModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "清空榜单失败")
	}
	return nil
}

// CreateBatch 批量写入榜单条目
func (r *rankingRepository) CreateBatch(ctx context.Context, rankings []*ranking.Ranking) error {
	if len(rankings) == 0 {
		return nil
	}

	models := make([]RankingModel, len(rankings))
	for i, rk := range rankings {
		models[i] = RankingModel{
			BookID:        rk.BookID,
			RankingType:   string(rk.Type),
			Rank:          rk.Rank,
			PurchaseCount: rk.PurchaseCount,
			AverageRating: rk.AverageRating,
			AgeGroup:      rk.AgeGroup,
			Gender:        rk.Gender,
			Region:        rk.Region,
		}
	}

	if err := getDB(ctx, r.db).Create(&models).Error; err != nil {
		return apperrors.Wrap(err, "写入榜单失败")
	}

	for i := range models {
		rankings[i].ID = models[i].ID
		rankings[i].CreatedAt = models[i].CreatedAt
	}
	return nil
}

// rankingRow 联表查询的扫描结果
type rankingRow struct {
	ID            uint
	BookID        uint
	RankingType   string
	Rank          int
	PurchaseCount int
	AverageRating int64
	AgeGroup      string
	Gender        string
	Region        string
	CreatedAt     time.Time
	BookTitle     string
	BookAuthor    string
}

// Find 查询某细分榜单(按名次升序)
// 联books表填充标题/作者,避免调用方逐条回查
func (r *rankingRepository) Find(ctx context.Context, q ranking.Query) ([]*ranking.Ranking, error) {
	q = q.Normalize()

	var rows []rankingRow
	err := getDB(ctx, r.db).
		Table("rankings AS r").
		Select("r.id, r.book_id, r.ranking_type, r.`rank`, r.purchase_count, r.average_rating, "+
			"r.age_group, r.gender, r.region, r.created_at, "+
			"b.title AS book_title, b.author AS book_author").
		Joins("JOIN books b ON b.id = r.book_id").
		Where("r.ranking_type = ?", string(q.Type)).
		Where("r.age_group = ?", q.AgeGroup).
		Where("r.gender = ?", q.Gender).
		// rank是MySQL 8的保留字,必须反引号转义(SQLite同样接受)
		Order("r.`rank` ASC").
		Limit(q.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询榜单失败")
	}

	rankings := make([]*ranking.Ranking, len(rows))
	for i, row := range rows {
		rankings[i] = &ranking.Ranking{
			ID:            row.ID,
			BookID:        row.BookID,
			Type:          ranking.Type(row.RankingType),
			Rank:          row.Rank,
			PurchaseCount: row.PurchaseCount,
			AverageRating: row.AverageRating,
			AgeGroup:      row.AgeGroup,
			Gender:        row.Gender,
			Region:        row.Region,
			CreatedAt:     row.CreatedAt,
			BookTitle:     row.BookTitle,
			BookAuthor:    row.BookAuthor,
		}
	}
	return rankings, nil
}
