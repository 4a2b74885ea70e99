// Package testutil 测试专用的基础设施替身。
// 用内存sqlite跑真实的GORM事务与回滚，
// 不依赖外部MySQL也能验证事务语义。
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hanbit/bookstore/internal/infrastructure/persistence/mysql"
)

var dbSeq atomic.Int64

// NewDB 创建一个独立的内存sqlite数据库并建表
// 说明：
//  1. 每次调用得到互不干扰的库（命名内存库+共享缓存，
//     连接池内所有连接看到同一份数据）
//  2. 表结构与生产环境相同（同一份AutoMigrate）
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}

	// 内存库随最后一个连接关闭而消失，保持单连接最稳妥
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取SQL DB失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := mysql.AutoMigrate(db); err != nil {
		t.Fatalf("建表失败: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}
