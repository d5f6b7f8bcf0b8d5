package router

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/myblog/internal/config"
	"github.com/myblog/internal/handler"
	"github.com/myblog/internal/middleware"
	"github.com/myblog/web"
	"gorm.io/gorm"
)

const sessionName = "myblog_session"

// reservedSegments 是下方固定路由的首段路径，分类 slug 与其重名时页面无法访问。
var reservedSegments = []string{"admin", "about", "search", "static", "healthz", "ping"}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, cfg config.AppConfig) (*gin.Engine, error) {
	uploadURL := strings.TrimRight(cfg.UploadURLPath, "/")
	if uploadURL == "" || uploadURL == "/static" || strings.HasPrefix(uploadURL, "/static/") {
		return nil, fmt.Errorf("upload url path %q conflicts with /static", cfg.UploadURLPath)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(slog.Default()), middleware.Recoverer(slog.Default()))

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// 加载内嵌模板并添加自定义函数
	tmpl, err := web.Templates(templateFuncs())
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// 静态文件服务
	r.StaticFS("/static", http.FS(web.Static()))
	r.Static(uploadURL, cfg.UploadDir)

	api := handler.NewAPI(gdb, handler.SiteOptions{
		Name:      cfg.SiteName,
		BaseURL:   cfg.SiteBaseURL,
		UploadDir: cfg.UploadDir,
		UploadURL: uploadURL,

		ReservedSlugs: reservedSegments,
	})

	r.GET("/ping", handler.Ping)
	r.GET("/healthz", api.HealthCheck)
	r.GET("/robots.txt", api.Robots)
	r.GET("/sitemap.xml", api.Sitemap)

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.GET("/login", api.ShowLoginPage)
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/dashboard", api.ShowDashboard)

			// API路由
			apiGroup := auth.Group("/api")
			{
				apiGroup.GET("/categories", api.GetCategories)
				apiGroup.POST("/categories", api.CreateCategory)
				apiGroup.PUT("/categories/:id", api.UpdateCategory)
				apiGroup.DELETE("/categories/:id", api.DeleteCategory)

				apiGroup.GET("/posts", api.GetPosts)
				apiGroup.GET("/posts/:id", api.GetPost)
				apiGroup.POST("/posts", api.CreatePost)
				apiGroup.PUT("/posts/:id", api.UpdatePost)
				apiGroup.DELETE("/posts/:id", api.DeletePost)
				apiGroup.POST("/posts/:id/comments", api.CreatePostComment)

				apiGroup.GET("/comments", api.GetComments)
				apiGroup.DELETE("/comments/:id", api.DeleteComment)

				apiGroup.POST("/uploads", api.UploadImage)
			}
		}
	}

	// 前台路由，分类与文章路径放在最后
	r.GET("/", api.ShowHome)
	r.GET("/about/", api.ShowAbout)
	r.GET("/search/", api.Search)
	r.GET("/:category_slug/", api.ShowCategory)
	r.GET("/:category_slug/:slug/", api.ShowPostDetail)
	r.POST("/:category_slug/:slug/", api.SubmitComment)

	r.NoRoute(api.NotFound)

	return r, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
		"isoDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.UTC().Format(time.RFC3339)
		},
	}
}
