package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/myblog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubHTMLRender 记录最近一次渲染的模板名与数据，避免测试依赖真实模板。
type stubHTMLRender struct {
	name string
	data gin.H
}

type stubHTMLInstance struct{}

func (r *stubHTMLRender) Instance(name string, data interface{}) render.Render {
	r.name = name
	if payload, ok := data.(gin.H); ok {
		r.data = payload
	}
	return &stubHTMLInstance{}
}

func (r *stubHTMLInstance) Render(http.ResponseWriter) error {
	return nil
}

func (r *stubHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared&_foreign_keys=on", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: db.NowUTC,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func newTestEngine(t *testing.T, gdb *gorm.DB) (*gin.Engine, *API, *stubHTMLRender) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := NewAPI(gdb, SiteOptions{
		Name:      "Test Blog",
		BaseURL:   "https://blog.example.com/",
		UploadDir: t.TempDir(),
		UploadURL: "/uploads/",
	})

	stub := &stubHTMLRender{}
	r := gin.New()
	r.HTMLRender = stub
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	return r, api, stub
}
