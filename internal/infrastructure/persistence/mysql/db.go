package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hanbit/bookstore/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 自动迁移表结构（开发环境）
	// 注意：生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
// 导出给测试使用（测试基于内存sqlite建同样的表）
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&SellerProfileModel{},
		&BookModel{},
		&CartModel{},
		&OrderModel{},
		&OrderItemModel{},
		&SettlementModel{},
		&SettlementOrderModel{},
		&RankingModel{},
	)
}

// UserModel GORM用户模型
// 说明：infrastructure层的数据模型，包含GORM tag；
// domain层实体不依赖GORM，Repository负责两者转换。
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Role      string         `gorm:"size:10;not null;default:user;comment:角色(user/admin)"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码(bcrypt加密)"`
	Name      string         `gorm:"size:50;not null;comment:姓名"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// SellerProfileModel GORM卖家档案模型
// 说明：一个用户最多一个卖家档案；Book/Settlement引用档案ID
type SellerProfileModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"uniqueIndex;not null;comment:用户ID"`
	StoreName string    `gorm:"size:100;not null;comment:店铺名"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (SellerProfileModel) TableName() string {
	return "seller_profiles"
}

// BookModel GORM图书模型
// 设计说明：
//  1. 价格使用int64存储"分"为单位（避免浮点数精度问题）
//  2. AverageRating定点存储（×100），与价格同理
//  3. PurchaseCount/AverageRating/ReviewCount是反范式聚合值，
//     购买路径上PurchaseCount只由订单管道写；榜单查询依赖
//     (status, purchase_count)与(status, average_rating)组合条件
type BookModel struct {
	ID            uint      `gorm:"primaryKey"`
	SellerID      uint      `gorm:"index;not null;comment:卖家档案ID"`
	Status        int       `gorm:"index;type:tinyint;not null;default:3;comment:状态(1在售2售罄3待售)"`
	Title         string    `gorm:"size:200;not null;comment:书名"`
	Author        string    `gorm:"size:100;not null;comment:作者"`
	Publisher     string    `gorm:"size:100;not null;comment:出版社"`
	ISBN          string    `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Price         int64     `gorm:"not null;comment:价格(分)"`
	AverageRating int64     `gorm:"not null;default:0;comment:平均评分×100"`
	ReviewCount   int       `gorm:"not null;default:0;comment:评论数"`
	PurchaseCount int       `gorm:"index;not null;default:0;comment:累计购买册数"`
	CreatedAt     time.Time `gorm:"comment:创建时间"`
	UpdatedAt     time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// CartModel GORM购物车模型
// 说明：(UserID, BookID)唯一；下单成功后条目被删除
type CartModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"uniqueIndex:uq_cart_user_book;not null;comment:用户ID"`
	BookID    uint      `gorm:"uniqueIndex:uq_cart_user_book;not null;comment:图书ID"`
	Quantity  int       `gorm:"not null;default:1;comment:数量(≥1)"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CartModel) TableName() string {
	return "carts"
}

// OrderModel GORM订单模型
// 说明：
// 1. 与OrderItemModel是一对多关系，明细随订单级联删除
// 2. TotalAmount是下单时刻快照，之后不再重算
// 3. Status使用tinyint（1已创建2已发货3已送达4已退款）
type OrderModel struct {
	ID          uint             `gorm:"primaryKey"`
	UserID      uint             `gorm:"index;not null;comment:买家用户ID"`
	OrderDate   time.Time        `gorm:"not null;comment:下单时间"`
	TotalAmount int64            `gorm:"not null;comment:订单总金额(分)"`
	Status      int              `gorm:"index;type:tinyint;not null;default:1;comment:订单状态(1已创建2已发货3已送达4已退款)"`
	Items       []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt   time.Time        `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// 说明：
//  1. Price/TotalAmount是下单时的价格快照
//  2. (OrderID, BookID)唯一
//  3. IsSettled是定算状态的反范式镜像，权威依据是settlement_orders表，
//     两者只在定算事务内同时更新
type OrderItemModel struct {
	ID          uint      `gorm:"primaryKey"`
	OrderID     uint      `gorm:"uniqueIndex:uq_order_item_book;not null;comment:订单ID"`
	BookID      uint      `gorm:"uniqueIndex:uq_order_item_book;index;not null;comment:图书ID"`
	Price       int64     `gorm:"not null;comment:下单时单价(分)"`
	TotalAmount int64     `gorm:"not null;comment:明细小计(分)"`
	Quantity    int       `gorm:"not null;default:1;comment:购买数量"`
	IsSettled   bool      `gorm:"not null;default:false;comment:已定算镜像标记"`
	CreatedAt   time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}

// SettlementModel GORM定算模型
// 说明：创建后不可变，冲正只能追加新记录
type SettlementModel struct {
	ID             uint      `gorm:"primaryKey"`
	SellerID       uint      `gorm:"index;not null;comment:卖家档案ID"`
	TotalSales     int64     `gorm:"not null;comment:销售总额(分)"`
	Commission     int64     `gorm:"not null;comment:平台佣金(分)"`
	FinalPayout    int64     `gorm:"not null;comment:最终打款额(分)"`
	PeriodStart    time.Time `gorm:"not null;comment:覆盖区间起(本批全局最早明细日期)"`
	PeriodEnd      time.Time `gorm:"not null;comment:覆盖区间止(本批全局最晚明细日期)"`
	SettlementDate time.Time `gorm:"index;not null;comment:批处理运行日期"`
	CreatedAt      time.Time `gorm:"comment:创建时间"`
	UpdatedAt      time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (SettlementModel) TableName() string {
	return "settlements"
}

// SettlementOrderModel GORM定算-明细中间表模型
// 说明：OrderItemID全局唯一——一条明细只允许被定算一次，
// 这条唯一索引是幂等语义在约束层的兜底。
type SettlementOrderModel struct {
	ID           uint      `gorm:"primaryKey"`
	SettlementID uint      `gorm:"index;not null;comment:定算ID"`
	OrderItemID  uint      `gorm:"uniqueIndex;not null;comment:订单明细ID"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (SettlementOrderModel) TableName() string {
	return "settlement_orders"
}

// RankingModel GORM榜单模型
// 说明：
// 1. (类型,性别,地区,年龄段,图书)唯一——同一本书在同一细分榜单只出现一次
// 2. (类型,性别,地区,年龄段,名次)也唯一——一个名次只能有一本书
// 3. 每轮重算整表先删后插，不做增量更新
type RankingModel struct {
	ID            uint      `gorm:"primaryKey"`
	BookID        uint      `gorm:"uniqueIndex:uq_ranking_book;not null;comment:图书ID"`
	RankingType   string    `gorm:"uniqueIndex:uq_ranking_book;uniqueIndex:uq_ranking_rank;size:20;not null;comment:榜单类型"`
	Rank          int       `gorm:"uniqueIndex:uq_ranking_rank;not null;comment:名次(1..N连续)"`
	PurchaseCount int       `gorm:"not null;default:0;comment:计入榜单时的购买数"`
	AverageRating int64     `gorm:"not null;default:0;comment:计入榜单时的平均评分×100"`
	AgeGroup      string    `gorm:"uniqueIndex:uq_ranking_book;uniqueIndex:uq_ranking_rank;size:10;not null;default:ALL;comment:年龄段"`
	Gender        string    `gorm:"uniqueIndex:uq_ranking_book;uniqueIndex:uq_ranking_rank;size:10;not null;default:ALL;comment:性别"`
	Region        string    `gorm:"uniqueIndex:uq_ranking_book;uniqueIndex:uq_ranking_rank;size:50;not null;default:ALL;comment:地区"`
	CreatedAt     time.Time `gorm:"comment:创建时间"`
	UpdatedAt     time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (RankingModel) TableName() string {
	return "rankings"
}
