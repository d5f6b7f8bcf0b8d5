package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/myblog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared&_foreign_keys=on", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: db.NowUTC,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func seedCategory(t *testing.T, gdb *gorm.DB, title string) *db.Category {
	t.Helper()
	category, err := NewCategoryService(gdb).Create(context.Background(), CategoryInput{Title: title})
	if err != nil {
		t.Fatalf("seed category %q: %v", title, err)
	}
	return category
}

// seedPost 创建文章并把 created_at 固定为给定时间，保证排序断言稳定。
func seedPost(t *testing.T, gdb *gorm.DB, categoryID uint, title, status string, createdAt time.Time) *db.Post {
	t.Helper()
	post, err := NewPostService(gdb).Create(context.Background(), PostInput{
		CategoryID: categoryID,
		Title:      title,
		Intro:      "intro of " + title,
		Body:       "body of " + title,
		Status:     status,
	})
	if err != nil {
		t.Fatalf("seed post %q: %v", title, err)
	}
	if err := gdb.Model(&db.Post{}).Where("id = ?", post.ID).UpdateColumn("created_at", createdAt).Error; err != nil {
		t.Fatalf("pin created_at for %q: %v", title, err)
	}
	post.CreatedAt = createdAt
	return post
}

func postTitles(posts []db.Post) []string {
	titles := make([]string, 0, len(posts))
	for _, post := range posts {
		titles = append(titles, post.Title)
	}
	return titles
}
