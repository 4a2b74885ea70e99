package book

import (
	"fmt"
	"time"
)

// Status 图书上架状态
// 说明：使用int类型而非string（节省存储空间，便于索引）
type Status int

const (
	StatusOnSale   Status = 1 // 在售
	StatusSoldOut  Status = 2 // 售罄
	StatusToBeSold Status = 3 // 待售
)

// String 实现Stringer接口（对外展示与日志输出）
func (s Status) String() string {
	switch s {
	case StatusOnSale:
		return "ONSALE"
	case StatusSoldOut:
		return "SOLDOUT"
	case StatusToBeSold:
		return "TOBESOLD"
	default:
		return "UNKNOWN"
	}
}

// Book 图书实体（聚合根）
// 设计说明：
//  1. 价格使用int64存储"分"为单位（避免浮点数精度问题）
//  2. AverageRating同样定点存储，单位为百分之一分（450 = 4.50分）
//  3. PurchaseCount / AverageRating / ReviewCount是冗余聚合值：
//     真实来源是订单明细与评论表，这里只是为读路径做的反范式缓存。
//     购买路径上PurchaseCount的唯一写入方是订单管道（下单+1、取消-1），
//     评分类字段的写入方是评论子系统。任何可能使其失效的写入
//     必须在同一事务内重算并落库。
type Book struct {
	ID            uint
	SellerID      uint   // 卖家档案ID
	Status        Status // 上架状态
	Title         string
	Author        string
	Publisher     string
	ISBN          string // 唯一业务标识
	Price         int64  // 价格（分）
	AverageRating int64  // 平均评分×100（反范式聚合）
	ReviewCount   int    // 评论数（反范式聚合）
	PurchaseCount int    // 累计购买册数（反范式聚合）
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBook 创建新图书（工厂方法）
func NewBook(sellerID uint, title, author, publisher, isbn string, price int64) *Book {
	now := time.Now()
	return &Book{
		SellerID:  sellerID,
		Status:    StatusToBeSold,
		Title:     title,
		Author:    author,
		Publisher: publisher,
		ISBN:      isbn,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsOnSale 是否在售（榜单只统计在售图书）
func (b *Book) IsOnSale() bool {
	return b.Status == StatusOnSale
}

// RatingString 格式化平均评分（450 → "4.50"）
func (b *Book) RatingString() string {
	return fmt.Sprintf("%d.%02d", b.AverageRating/100, b.AverageRating%100)
}
