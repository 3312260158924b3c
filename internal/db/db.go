package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultPath 为未配置 DATABASE_PATH 时使用的数据库文件。
const DefaultPath = "writespace.db"

// Open 打开 sqlite 数据库并执行自动迁移。
// 连接池限制为单连接，并发写入在池内排队而不会返回 database is locked。
// databasePath 为空时将回退到默认值 writespace.db。
func Open(databasePath string) (*gorm.DB, error) {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = DefaultPath
	}

	if !strings.HasPrefix(path, "file:") {
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	// sqlite 同一时刻只允许一个写者，连接池收敛为单连接，事务与计数更新排队执行。
	sqlDB.SetMaxOpenConns(1)
	if err := gdb.Exec("PRAGMA busy_timeout = 5000").Error; err != nil {
		return nil, err
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate 为核心模型创建表
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&User{}, &Post{})
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
