package main

import (
	"fmt"
	"log"

	"github.com/myblog/internal/config"
	"github.com/myblog/internal/db"
)

const (
	defaultUsername = "admin"
	defaultPassword = "admin123"
)

func main() {
	cfg := config.Load()

	// 初始化数据库
	gdb, err := db.Init(cfg.DatabaseDriver, cfg.DSN())
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	// 检查是否已存在用户
	var count int64
	if err := gdb.Model(&db.User{}).Count(&count).Error; err != nil {
		log.Fatal("查询用户失败:", err)
	}
	if count > 0 {
		fmt.Println("用户已存在，无需初始化")
		return
	}

	username, password := credentials(cfg)
	if err := db.EnsureUser(gdb, username, password); err != nil {
		log.Fatal("创建用户失败:", err)
	}

	fmt.Println("管理员用户创建成功")
	fmt.Println("用户名:", username)
	if password == defaultPassword {
		fmt.Println("密码:", defaultPassword)
	}
}

// credentials 优先使用 SUPER_ROOT_* 环境变量，缺省时回退到默认账号。
func credentials(cfg config.AppConfig) (string, string) {
	if cfg.SuperRootUserName != "" && cfg.SuperRootPassword != "" {
		return cfg.SuperRootUserName, cfg.SuperRootPassword
	}
	return defaultUsername, defaultPassword
}
