package main

import (
	"context"
	"fmt"
	"log"

	"github.com/myblog/internal/config"
	"github.com/myblog/internal/db"
)

func main() {
	cfg := config.Load()

	gdb, err := db.Init(cfg.DatabaseDriver, cfg.DSN())
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	if err := db.EnsureUser(gdb, "admin", "admin123"); err != nil {
		log.Fatal("创建管理员失败:", err)
	}
	fmt.Println("✅ 管理员账号就绪 (admin / admin123，已存在时保持原密码)")

	summary, err := seed(context.Background(), gdb)
	if err != nil {
		log.Fatal("生成测试数据失败:", err)
	}

	fmt.Printf("✅ 分类 %d 个\n", summary.Categories)
	fmt.Printf("✅ 文章 %d 篇 (草稿 %d 篇)\n", summary.Posts, summary.Drafts)
	fmt.Printf("✅ 评论 %d 条\n", summary.Comments)
	fmt.Println("🎉 测试数据生成完毕")
}
