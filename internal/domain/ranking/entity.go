package ranking

import (
	"time"
)

// Type 榜单类型
type Type string

const (
	TypePurchaseCount Type = "purchaseCount" // 购买数榜
	TypeAverageRating Type = "averageRating" // 评分榜
)

// Valid 校验榜单类型
func (t Type) Valid() bool {
	return t == TypePurchaseCount || t == TypeAverageRating
}

// Ranking 榜单条目
// 设计说明：
//  1. (Type, Gender, Region, AgeGroup, BookID)唯一，
//     (Type, Gender, Region, AgeGroup, Rank)也唯一——
//     同一细分榜单内不允许两本书共享名次
//  2. Rank是重算时赋予的1..N连续序号，每轮全量替换
//     （先删后插），不做增量修补
//  3. BookTitle/BookAuthor由查询时联表填充，仅用于展示
type Ranking struct {
	ID            uint
	BookID        uint
	Type          Type
	Rank          int
	PurchaseCount int
	AverageRating int64 // 评分×100，与Book一致的定点表示
	AgeGroup      string
	Gender        string
	Region        string
	CreatedAt     time.Time

	// 联表填充的展示字段（不落ranking表）
	BookTitle  string
	BookAuthor string
}

// SegmentAll 细分维度的默认值（全量榜单）
const SegmentAll = "ALL"

// Query 榜单查询条件
// AgeGroup/Gender为空时按ALL处理
type Query struct {
	Type     Type
	AgeGroup string
	Gender   string
	Limit    int
}

// Normalize 填充默认细分维度与条数上限
func (q Query) Normalize() Query {
	if q.AgeGroup == "" {
		q.AgeGroup = SegmentAll
	}
	if q.Gender == "" {
		q.Gender = SegmentAll
	}
	if q.Limit <= 0 || q.Limit > 10 {
		q.Limit = 10
	}
	return q
}

// Item 榜单展示条目（缓存快照的元素）
type Item struct {
	Rank          int    `json:"rank"`
	BookID        uint   `json:"book_id"`
	BookTitle     string `json:"book_title"`
	BookAuthor    string `json:"book_author"`
	PurchaseCount int    `json:"purchase_count"`
	AverageRating string `json:"average_rating"` // 定点字符串，如"4.50"
}

// Snapshot 某一细分榜单的完整快照（即缓存值与接口响应体）
type Snapshot struct {
	Type     Type   `json:"ranking_type"`
	AgeGroup string `json:"age_group"`
	Gender   string `json:"gender"`
	Rankings []Item `json:"rankings"`
}

// Truncate 按limit截断（缓存里存的是全量Top10，读取时再裁剪）
func (s *Snapshot) Truncate(limit int) *Snapshot {
	if limit > 0 && len(s.Rankings) > limit {
		out := *s
		out.Rankings = s.Rankings[:limit]
		return &out
	}
	return s
}
