package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// DriverSQLite 使用本地 SQLite 文件存储。
	DriverSQLite = "sqlite"
	// DriverPostgres 使用 PostgreSQL，连接串来自 DATABASE_URL。
	DriverPostgres = "postgres"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabaseDriver    string
	DatabasePath      string
	DatabaseURL       string
	SessionSecret     string
	GinMode           string
	UploadDir         string
	UploadURLPath     string
	SuperRootUserName string
	SuperRootPassword string
	SiteBaseURL       string
	SiteName          string
	LogLevel          string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// 工作目录下存在 .env 文件时会先加载它，已设置的环境变量优先。
func Load() AppConfig {
	_ = godotenv.Load()

	port := env("PORT", "8080")

	return AppConfig{
		ListenAddr:        env("LISTEN_ADDR", fmt.Sprintf(":%s", port)),
		Port:              port,
		DatabaseDriver:    normalizeDriver(os.Getenv("DATABASE_DRIVER")),
		DatabasePath:      env("DATABASE_PATH", "myblog.db"),
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SessionSecret:     env("SESSION_SECRET", "myblog-dev-secret"),
		GinMode:           env("GIN_MODE", "release"),
		UploadDir:         env("UPLOAD_DIR", "uploads"),
		UploadURLPath:     normalizeURLPath(env("UPLOAD_URL_PATH", "/uploads")),
		SuperRootUserName: strings.TrimSpace(os.Getenv("SUPER_ROOT_USER_NAME")),
		SuperRootPassword: strings.TrimSpace(os.Getenv("SUPER_ROOT_PASSWORD")),
		SiteBaseURL:       strings.TrimRight(env("SITE_BASE_URL", "http://localhost:8080"), "/"),
		SiteName:          env("SITE_NAME", "My Blog"),
		LogLevel:          strings.ToLower(env("LOG_LEVEL", "info")),
	}
}

// DSN 返回当前驱动对应的连接串。
func (c AppConfig) DSN() string {
	if c.DatabaseDriver == DriverPostgres {
		return c.DatabaseURL
	}
	return c.DatabasePath
}

func normalizeDriver(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "postgresql", "pg":
		return DriverPostgres
	default:
		return DriverSQLite
	}
}

// normalizeURLPath 保证路径以 / 开头且不以 / 结尾。
func normalizeURLPath(raw string) string {
	trimmed := strings.Trim(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return "/uploads"
	}
	return "/" + trimmed
}

func env(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
