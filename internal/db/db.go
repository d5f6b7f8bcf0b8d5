package db

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models 列出需要自动迁移的全部模型，测试与初始化共用。
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Post{},
		&Comment{},
	}
}

// Init 打开数据库连接并执行自动迁移。
// driver 为 postgres 时 dsn 是连接串，否则视为 SQLite 文件路径，空值回退到 myblog.db。
func Init(driver, dsn string) (*gorm.DB, error) {
	dialector, err := openDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: newLogger(), NowFunc: NowUTC})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	return gdb, nil
}

// NowUTC 作为 gorm 的 NowFunc，统一以 UTC 写入时间戳，
// 保证 SQLite 中按字符串比较的时间区间查询结果正确。
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Migrate 为核心模型建表。
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	return nil
}

func openDialector(driver, dsn string) (gorm.Dialector, error) {
	trimmed := strings.TrimSpace(dsn)

	if driver == "postgres" {
		if trimmed == "" {
			return nil, errors.New("postgres dsn is required")
		}
		return postgres.New(postgres.Config{
			DSN:                  trimmed,
			PreferSimpleProtocol: true,
		}), nil
	}

	if trimmed == "" {
		trimmed = "myblog.db"
	}
	if err := ensureParentDir(trimmed); err != nil {
		return nil, err
	}
	return sqlite.Open(withForeignKeys(trimmed)), nil
}

// withForeignKeys 打开 SQLite 外键约束，使 ON DELETE CASCADE 在数据库层同样生效。
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

func newLogger() logger.Interface {
	return logger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func ensureParentDir(path string) error {
	if strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory") {
		return nil
	}

	clean := strings.TrimPrefix(path, "file:")
	clean = strings.SplitN(clean, "?", 2)[0]
	dir := filepath.Dir(clean)
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
