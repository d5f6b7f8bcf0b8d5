package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/myblog/internal/db"
	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

// CommentService wraps comment related database operations.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// Submit validates the input and attaches a new comment to the post.
// 校验失败时返回 *ValidationError，不写入任何数据。
func (s *CommentService) Submit(ctx context.Context, postID uint, input CommentInput) (*db.Comment, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	normalized := input.Normalized()

	comment := db.Comment{
		PostID: postID,
		Name:   normalized.Name,
		Email:  normalized.Email,
		Body:   normalized.Body,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&db.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrPostNotFound
		}
		return tx.Omit("Post").Create(&comment).Error
	})
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &comment, nil
}

// ListByPost returns comments of a post, oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("comments.created_at asc, comments.id asc").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// List 返回后台评论列表，postID 为 0 时列出全部，最新的排在前面。
func (s *CommentService) List(ctx context.Context, postID uint) ([]db.Comment, error) {
	query := s.db.WithContext(ctx).Preload("Post").Preload("Post.Category")
	if postID != 0 {
		query = query.Where("post_id = ?", postID)
	}

	var comments []db.Comment
	if err := query.Order("comments.created_at desc, comments.id desc").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Count returns the number of comments attached to a post, or of all comments when postID is 0.
func (s *CommentService) Count(ctx context.Context, postID uint) (int64, error) {
	query := s.db.WithContext(ctx).Model(&db.Comment{})
	if postID != 0 {
		query = query.Where("post_id = ?", postID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete removes a single comment.
func (s *CommentService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&db.Comment{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}
