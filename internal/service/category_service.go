package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/myblog/internal/db"
	"github.com/myblog/internal/slug"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrSlugRequired     = errors.New("slug is required")
	ErrSlugReserved     = errors.New("slug is reserved by a site route")
)

// CategoryService wraps category related operations.
type CategoryService struct {
	db       *gorm.DB
	reserved map[string]struct{}
}

// CategoryInput represents fields accepted when creating or updating a category.
type CategoryInput struct {
	Title string
	Slug  string
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb, reserved: map[string]struct{}{}}
}

// ReserveSlugs 登记被站点固定路由占用的路径段，这些 slug 不能再分配给分类。
func (s *CategoryService) ReserveSlugs(segments ...string) {
	for _, segment := range segments {
		if normalized := slug.Generate(segment); normalized != "" {
			s.reserved[normalized] = struct{}{}
		}
	}
}

// List returns all categories ordered by title.
func (s *CategoryService) List(ctx context.Context) ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.WithContext(ctx).
		Order("categories.title asc").
		Order("categories.id asc").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListWithCounts 返回后台列表所需的分类及文章数量，search 按标题模糊匹配。
func (s *CategoryService) ListWithCounts(ctx context.Context, search string) ([]db.Category, error) {
	query := s.db.WithContext(ctx).
		Model(&db.Category{}).
		Select("categories.*, COUNT(posts.id) AS post_count").
		Joins("LEFT JOIN posts ON posts.category_id = categories.id").
		Group("categories.id")

	if trimmed := strings.TrimSpace(search); trimmed != "" {
		query = query.Where(`LOWER(categories.title) LIKE LOWER(?) ESCAPE '\'`, containsPattern(trimmed))
	}

	var categories []db.Category
	if err := query.
		Order("categories.title asc").
		Order("categories.id asc").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories with counts: %w", err)
	}
	return categories, nil
}

// Get fetches a category by id.
func (s *CategoryService) Get(ctx context.Context, id uint) (*db.Category, error) {
	var category db.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &category, nil
}

// GetBySlug fetches a category by slug. slug 不强制唯一，重复时取最早创建的一条。
func (s *CategoryService) GetBySlug(ctx context.Context, categorySlug string) (*db.Category, error) {
	var category db.Category
	if err := s.db.WithContext(ctx).
		Where("slug = ?", categorySlug).
		Order("id asc").
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category by slug: %w", err)
	}
	return &category, nil
}

// Create inserts a new category, deriving the slug from the title when omitted.
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*db.Category, error) {
	title, categorySlug, err := s.normalizeInput(input)
	if err != nil {
		return nil, err
	}

	category := db.Category{Title: title, Slug: categorySlug}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

// Update changes the title and slug of an existing category.
func (s *CategoryService) Update(ctx context.Context, id uint, input CategoryInput) (*db.Category, error) {
	title, categorySlug, err := s.normalizeInput(input)
	if err != nil {
		return nil, err
	}

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Title = title
	category.Slug = categorySlug
	if err := s.db.WithContext(ctx).
		Model(category).
		Select("title", "slug", "updated_at").
		Updates(category).Error; err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// Delete removes a category together with its posts and their comments.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category db.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}

		postIDs := tx.Model(&db.Post{}).Select("id").Where("category_id = ?", id)
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&db.Comment{}).Error; err != nil {
			return fmt.Errorf("delete category comments: %w", err)
		}
		if err := tx.Where("category_id = ?", id).Delete(&db.Post{}).Error; err != nil {
			return fmt.Errorf("delete category posts: %w", err)
		}
		if err := tx.Delete(&category).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}

// Count returns the total number of categories.
func (s *CategoryService) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&db.Category{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *CategoryService) normalizeInput(input CategoryInput) (string, string, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", "", ErrTitleRequired
	}

	categorySlug := slug.Generate(input.Slug)
	if categorySlug == "" {
		categorySlug = slug.Generate(title)
	}
	if categorySlug == "" {
		return "", "", ErrSlugRequired
	}
	if _, taken := s.reserved[categorySlug]; taken {
		return "", "", fmt.Errorf("%w: %s", ErrSlugReserved, categorySlug)
	}
	return title, categorySlug, nil
}
