package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/myblog/internal/db"
	"github.com/myblog/internal/slug"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrCategoryRequired = errors.New("category is required")
	ErrInvalidStatus    = errors.New("status must be active or draft")
)

const publicOrder = "posts.created_at desc, posts.id desc"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostService wraps post related database operations.
type PostService struct {
	db *gorm.DB
}

// PostFilter describes admin filters for listing posts.
type PostFilter struct {
	Search     string
	CategoryID uint
	Status     string
	StartDate  *time.Time
	EndDate    *time.Time
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	CategoryID uint
	Title      string
	Slug       string
	Intro      string
	Body       string
	Content    string
	Status     string
	// Image 为 nil 时更新操作保留原配图，创建时视为无配图。
	Image *string
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// Get fetches a post by id with its category and comments, regardless of status.
func (s *PostService) Get(ctx context.Context, id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Comments", orderComments).
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// GetPublished 按分类 slug 与文章 slug 查找前台可见的文章，分类不匹配或为草稿时返回 ErrPostNotFound。
func (s *PostService) GetPublished(ctx context.Context, categorySlug, postSlug string) (*db.Post, error) {
	categoryIDs := s.db.Model(&db.Category{}).Select("id").Where("slug = ?", categorySlug)

	var post db.Post
	if err := s.db.WithContext(ctx).
		Preload("Category").
		Preload("Comments", orderComments).
		Where("posts.slug = ? AND posts.status = ?", postSlug, db.PostStatusActive).
		Where("posts.category_id IN (?)", categoryIDs).
		Order("posts.id asc").
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get published post: %w", err)
	}
	return &post, nil
}

// ListPublished returns every active post, newest first.
func (s *PostService) ListPublished(ctx context.Context) ([]db.Post, error) {
	var posts []db.Post
	if err := s.publishedQuery(ctx).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return posts, nil
}

// ListPublishedByCategory returns the active posts owned by a category, newest first.
func (s *PostService) ListPublishedByCategory(ctx context.Context, categoryID uint) ([]db.Post, error) {
	var posts []db.Post
	if err := s.publishedQuery(ctx).
		Where("posts.category_id = ?", categoryID).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list category posts: %w", err)
	}
	return posts, nil
}

// Search 返回标题、导语或正文包含关键字（不区分大小写）的前台文章；空关键字匹配全部文章。
func (s *PostService) Search(ctx context.Context, query string) ([]db.Post, error) {
	var posts []db.Post
	if err := applySearch(s.publishedQuery(ctx), query).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return posts, nil
}

// List provides posts for the admin screens with search and list filters.
func (s *PostService) List(ctx context.Context, filter PostFilter) ([]db.Post, error) {
	query := s.db.WithContext(ctx).Model(&db.Post{}).Preload("Category")

	if strings.TrimSpace(filter.Search) != "" {
		query = applySearch(query, strings.TrimSpace(filter.Search))
	}
	if filter.CategoryID != 0 {
		query = query.Where("posts.category_id = ?", filter.CategoryID)
	}
	if filter.Status != "" {
		query = query.Where("posts.status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("posts.created_at >= ?", filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("posts.created_at <= ?", filter.EndDate)
	}

	var posts []db.Post
	if err := query.Order(publicOrder).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// CountByStatus returns post totals keyed by status.
func (s *PostService) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := s.db.WithContext(ctx).
		Model(&db.Post{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	counts := map[string]int64{db.PostStatusActive: 0, db.PostStatusDraft: 0}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Create persists a new post under an existing category.
func (s *PostService) Create(ctx context.Context, input PostInput) (*db.Post, error) {
	normalized, err := normalizePostInput(input)
	if err != nil {
		return nil, err
	}

	post := db.Post{
		CategoryID: normalized.CategoryID,
		Title:      normalized.Title,
		Slug:       normalized.Slug,
		Intro:      normalized.Intro,
		Body:       normalized.Body,
		Content:    normalized.Content,
		Status:     normalized.Status,
	}
	if normalized.Image != nil {
		post.Image = *normalized.Image
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCategory(tx, post.CategoryID); err != nil {
			return err
		}
		return tx.Omit("Category", "Comments").Create(&post).Error
	})
	if err != nil {
		return nil, wrapPostError("create post", err)
	}

	return s.Get(ctx, post.ID)
}

// Update applies updates to an existing post. created_at 永远不会被改写。
func (s *PostService) Update(ctx context.Context, id uint, input PostInput) (*db.Post, error) {
	normalized, err := normalizePostInput(input)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing db.Post
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		if err := ensureCategory(tx, normalized.CategoryID); err != nil {
			return err
		}

		existing.CategoryID = normalized.CategoryID
		existing.Title = normalized.Title
		existing.Slug = normalized.Slug
		existing.Intro = normalized.Intro
		existing.Body = normalized.Body
		existing.Content = normalized.Content
		existing.Status = normalized.Status
		if normalized.Image != nil {
			existing.Image = *normalized.Image
		}
		existing.UpdatedAt = db.NowUTC()

		return tx.Model(&existing).
			Select("category_id", "title", "slug", "intro", "body", "content", "status", "image", "updated_at").
			Updates(&existing).Error
	})
	if err != nil {
		return nil, wrapPostError("update post", err)
	}

	return s.Get(ctx, id)
}

// SetImage 仅更新文章配图路径。
func (s *PostService) SetImage(ctx context.Context, id uint, image string) error {
	result := s.db.WithContext(ctx).
		Model(&db.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"image": strings.TrimSpace(image), "updated_at": db.NowUTC()})
	if result.Error != nil {
		return fmt.Errorf("set post image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Delete removes a post and its comments.
func (s *PostService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
			return fmt.Errorf("delete post comments: %w", err)
		}
		result := tx.Delete(&db.Post{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete post: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrPostNotFound
		}
		return nil
	})
}

func (s *PostService) publishedQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&db.Post{}).
		Preload("Category").
		Where("posts.status = ?", db.PostStatusActive).
		Order(publicOrder)
}

func applySearch(query *gorm.DB, text string) *gorm.DB {
	pattern := containsPattern(text)
	return query.Where(
		`(LOWER(posts.title) LIKE LOWER(?) ESCAPE '\' OR LOWER(posts.intro) LIKE LOWER(?) ESCAPE '\' OR LOWER(posts.body) LIKE LOWER(?) ESCAPE '\')`,
		pattern, pattern, pattern,
	)
}

// containsPattern 构造子串匹配的 LIKE 模式，用户输入中的通配符按字面匹配。
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

func orderComments(tx *gorm.DB) *gorm.DB {
	return tx.Order("comments.created_at asc, comments.id asc")
}

func ensureCategory(tx *gorm.DB, categoryID uint) error {
	var count int64
	if err := tx.Model(&db.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func normalizePostInput(input PostInput) (PostInput, error) {
	out := PostInput{
		CategoryID: input.CategoryID,
		Title:      strings.TrimSpace(input.Title),
		Intro:      input.Intro,
		Body:       input.Body,
		Content:    input.Content,
		Status:     strings.ToLower(strings.TrimSpace(input.Status)),
	}
	if input.Image != nil {
		image := strings.TrimSpace(*input.Image)
		out.Image = &image
	}

	if out.CategoryID == 0 {
		return PostInput{}, ErrCategoryRequired
	}
	if out.Title == "" {
		return PostInput{}, ErrTitleRequired
	}
	if out.Status == "" {
		out.Status = db.PostStatusActive
	}
	if !db.ValidPostStatus(out.Status) {
		return PostInput{}, ErrInvalidStatus
	}

	out.Slug = slug.Generate(input.Slug)
	if out.Slug == "" {
		out.Slug = slug.Generate(out.Title)
	}
	if out.Slug == "" {
		return PostInput{}, ErrSlugRequired
	}

	return out, nil
}

func wrapPostError(op string, err error) error {
	if errors.Is(err, ErrPostNotFound) || errors.Is(err, ErrCategoryNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
