package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/myblog/internal/db"
	"github.com/myblog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	categories *service.CategoryService
	posts      *service.PostService
	comments   *service.CommentService
	sitemap    *service.SitemapService
	site       SiteOptions
}

// SiteOptions 描述站点级别的展示与上传配置。
type SiteOptions struct {
	Name      string
	BaseURL   string
	UploadDir string
	UploadURL string

	// ReservedSlugs 是固定路由占用的首段路径，分类不能使用。
	ReservedSlugs []string
}

const navCategoriesContextKey = "__nav_categories"

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, site SiteOptions) *API {
	site.Name = strings.TrimSpace(site.Name)
	if site.Name == "" {
		site.Name = "My Blog"
	}
	site.BaseURL = strings.TrimRight(strings.TrimSpace(site.BaseURL), "/")
	if site.UploadDir == "" {
		site.UploadDir = "uploads"
	}
	if site.UploadURL == "" {
		site.UploadURL = "/uploads"
	}
	site.UploadURL = strings.TrimRight(site.UploadURL, "/")

	categories := service.NewCategoryService(gdb)
	categories.ReserveSlugs(site.ReservedSlugs...)
	categories.ReserveSlugs(firstPathSegment(site.UploadURL))

	return &API{
		db:         gdb,
		categories: categories,
		posts:      service.NewPostService(gdb),
		comments:   service.NewCommentService(gdb),
		sitemap:    service.NewSitemapService(gdb),
		site:       site,
	}
}

func firstPathSegment(path string) string {
	trimmed := strings.TrimLeft(path, "/")
	if idx := strings.Index(trimmed, "/"); idx >= 0 {
		return trimmed[:idx]
	}
	return trimmed
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// navCategories 读取导航栏使用的分类列表，同一请求内只查询一次。
func (a *API) navCategories(c *gin.Context) []db.Category {
	if cached, exists := c.Get(navCategoriesContextKey); exists {
		if categories, ok := cached.([]db.Category); ok {
			return categories
		}
	}

	categories, err := a.categories.List(c.Request.Context())
	if err != nil {
		// 导航失败不影响正文渲染
		_ = c.Error(err)
		slog.Warn("load navigation categories", "error", err)
		categories = nil
	}

	c.Set(navCategoriesContextKey, categories)
	return categories
}

func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["siteName"]; !exists {
		payload["siteName"] = a.site.Name
	}
	if _, exists := payload["navCategories"]; !exists {
		payload["navCategories"] = a.navCategories(c)
	}
	if _, exists := payload["query"]; !exists {
		payload["query"] = ""
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().Year()
	}

	c.HTML(status, template, payload)
}

func (a *API) renderNotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "not_found.html", gin.H{
		"title": "Page not found",
	})
}

func (a *API) renderServerError(c *gin.Context, op string, err error) {
	_ = c.Error(err)
	slog.Error(op, "error", err, "path", c.Request.URL.Path)
	a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
		"title": "Something went wrong",
	})
}

// NotFound 作为路由未命中时的兜底处理。
func (a *API) NotFound(c *gin.Context) {
	a.renderNotFound(c)
}
