package main

import (
	"context"
	"fmt"
	"time"

	"github.com/myblog/internal/db"
	"github.com/myblog/internal/service"
	"gorm.io/gorm"
)

type seedSummary struct {
	Categories int
	Posts      int
	Drafts     int
	Comments   int
}

type seedComment struct {
	name  string
	email string
	body  string
}

type seedPost struct {
	title    string
	slug     string
	intro    string
	body     string
	content  string
	status   string
	daysAgo  int
	comments []seedComment
}

type seedCategory struct {
	title string
	slug  string
	posts []seedPost
}

var seedCategories = []seedCategory{
	{
		title: "Engineering",
		slug:  "engineering",
		posts: []seedPost{
			{
				title:   "使用Go语言构建高性能Web服务",
				slug:    "go-web-services",
				intro:   "探索如何使用 **Go** 构建高性能的 Web 服务。",
				body:    "Go 语言因其出色的并发性能和简洁的语法，成为构建 Web 服务的理想选择。\n\n## 框架选择\n\n本文使用 gin 作为路由层。",
				content: "- goroutine 与 channel\n- 连接池配置\n- 优雅退出",
				status:  db.PostStatusActive,
				daysAgo: 12,
				comments: []seedComment{
					{name: "Alice", email: "alice@example.com", body: "写得很清楚，期待下一篇。"},
					{name: "Bob", email: "bob@example.com", body: "连接池那部分能展开讲讲吗？"},
				},
			},
			{
				title:   "GORM使用技巧与最佳实践",
				slug:    "gorm-tips",
				intro:   "总结 GORM 的常用用法和性能优化建议。",
				body:    "GORM 是 Go 语言中最流行的 ORM 库之一。\n\n```go\ndb.Preload(\"Comments\").Find(&posts)\n```",
				status:  db.PostStatusActive,
				daysAgo: 6,
				comments: []seedComment{
					{name: "Carol", email: "carol@example.com", body: "Preload 的排序技巧很实用。"},
				},
			},
			{
				title:   "Gin框架中间件开发实战",
				slug:    "gin-middleware",
				intro:   "从日志到恢复，手写几个常用中间件。",
				body:    "草稿：还差恢复中间件的示例代码。",
				status:  db.PostStatusDraft,
				daysAgo: 1,
			},
		},
	},
	{
		title: "Databases",
		slug:  "databases",
		posts: []seedPost{
			{
				title:   "SQLite数据库优化实践",
				slug:    "sqlite-tuning",
				intro:   "索引、事务与外键约束的实践经验。",
				body:    "SQLite 作为轻量级数据库，在很多场景下都有出色表现。\n\n记得打开 `_foreign_keys=on`。",
				status:  db.PostStatusActive,
				daysAgo: 9,
			},
			{
				title:   "从SQLite迁移到PostgreSQL",
				slug:    "sqlite-to-postgres",
				intro:   "同一套模型如何在两种数据库之间切换。",
				body:    "只需要切换驱动与连接串，模型定义保持不变。",
				status:  db.PostStatusDraft,
				daysAgo: 2,
			},
		},
	},
	{
		title: "Notes",
		slug:  "notes",
		posts: []seedPost{
			{
				title:   "个人知识管理系统的设计与实现",
				slug:    "personal-knowledge-base",
				intro:   "分享知识管理工具的设计理念与技术选型。",
				body:    "在信息爆炸的时代，如何有效管理个人知识成为一个重要课题。",
				content: "1. 记录\n2. 整理\n3. 输出",
				status:  db.PostStatusActive,
				daysAgo: 20,
				comments: []seedComment{
					{name: "Dave", email: "dave@example.com", body: "第三步最难坚持。"},
					{name: "Erin", email: "erin@example.com", body: "请问用的什么笔记软件？"},
					{name: "Frank", email: "frank@example.com", body: "收藏了。"},
				},
			},
		},
	},
}

// seed 清空分类、文章与评论后重新写入一组示例数据，可重复执行。
func seed(ctx context.Context, gdb *gorm.DB) (seedSummary, error) {
	var summary seedSummary

	if err := resetContent(ctx, gdb); err != nil {
		return summary, err
	}

	categories := service.NewCategoryService(gdb)
	posts := service.NewPostService(gdb)
	comments := service.NewCommentService(gdb)
	now := db.NowUTC()

	for _, item := range seedCategories {
		category, err := categories.Create(ctx, service.CategoryInput{Title: item.title, Slug: item.slug})
		if err != nil {
			return summary, fmt.Errorf("create category %s: %w", item.slug, err)
		}
		summary.Categories++

		for _, p := range item.posts {
			post, err := posts.Create(ctx, service.PostInput{
				CategoryID: category.ID,
				Title:      p.title,
				Slug:       p.slug,
				Intro:      p.intro,
				Body:       p.body,
				Content:    p.content,
				Status:     p.status,
			})
			if err != nil {
				return summary, fmt.Errorf("create post %s: %w", p.slug, err)
			}
			summary.Posts++
			if p.status == db.PostStatusDraft {
				summary.Drafts++
			}

			// 回填发布时间，让列表顺序更接近真实数据
			createdAt := now.Add(-time.Duration(p.daysAgo) * 24 * time.Hour)
			if err := gdb.WithContext(ctx).Model(&db.Post{}).Where("id = ?", post.ID).
				UpdateColumns(map[string]interface{}{"created_at": createdAt, "updated_at": createdAt}).Error; err != nil {
				return summary, fmt.Errorf("backdate post %s: %w", p.slug, err)
			}

			for _, c := range p.comments {
				if _, err := comments.Submit(ctx, post.ID, service.CommentInput{Name: c.name, Email: c.email, Body: c.body}); err != nil {
					return summary, fmt.Errorf("create comment on %s: %w", p.slug, err)
				}
				summary.Comments++
			}
		}
	}

	return summary, nil
}

// 清理旧评论、文章与分类
func resetContent(ctx context.Context, gdb *gorm.DB) error {
	tx := gdb.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{&db.Comment{}, &db.Post{}, &db.Category{}} {
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("reset content: %w", err)
		}
	}
	return nil
}
