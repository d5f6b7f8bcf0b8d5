package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	SitemapKindCategory = "category"
	SitemapKindPost     = "post"
)

// SitemapEntry 描述站点地图中的一条记录。分类没有 LastMod。
type SitemapEntry struct {
	Kind    string
	Loc     string
	LastMod *time.Time
}

// SitemapService 汇总需要提交给搜索引擎的页面。
type SitemapService struct {
	categories *CategoryService
	posts      *PostService
}

// NewSitemapService creates a SitemapService instance.
func NewSitemapService(gdb *gorm.DB) *SitemapService {
	return &SitemapService{
		categories: NewCategoryService(gdb),
		posts:      NewPostService(gdb),
	}
}

// Entries 先列出全部分类，再列出全部前台文章（lastmod 取创建时间）。
func (s *SitemapService) Entries(ctx context.Context, baseURL string) ([]SitemapEntry, error) {
	base := strings.TrimRight(baseURL, "/")

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("sitemap categories: %w", err)
	}
	posts, err := s.posts.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("sitemap posts: %w", err)
	}

	entries := make([]SitemapEntry, 0, len(categories)+len(posts))
	for _, category := range categories {
		entries = append(entries, SitemapEntry{
			Kind: SitemapKindCategory,
			Loc:  base + category.URL(),
		})
	}
	for _, post := range posts {
		createdAt := post.CreatedAt
		entries = append(entries, SitemapEntry{
			Kind:    SitemapKindPost,
			Loc:     base + post.URL(),
			LastMod: &createdAt,
		})
	}
	return entries, nil
}
