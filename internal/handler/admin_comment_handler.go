package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myblog/internal/service"
)

// GetComments 获取评论列表，可按文章过滤
func (a *API) GetComments(c *gin.Context) {
	postID, err := parseUintQuery(c, "post_id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	comments, err := a.comments.List(c.Request.Context(), postID)
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to list comments")
		return
	}

	response := make([]gin.H, 0, len(comments))
	for _, comment := range comments {
		item := gin.H{
			"id":         comment.ID,
			"name":       comment.Name,
			"email":      comment.Email,
			"body":       comment.Body,
			"post_id":    comment.PostID,
			"created_at": comment.CreatedAt,
		}
		if comment.Post != nil {
			item["post"] = comment.Post.Title
		}
		response = append(response, item)
	}

	c.JSON(http.StatusOK, gin.H{"comments": response})
}

// CreatePostComment 在后台文章页内联添加评论，校验规则与前台一致
func (a *API) CreatePostComment(c *gin.Context) {
	postID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	var input service.CommentInput
	if !bindJSON(c, &input, "invalid comment payload") {
		return
	}

	comment, err := a.comments.Submit(c.Request.Context(), postID, input)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment", "fields": verr.Fields})
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "post not found")
		default:
			_ = c.Error(err)
			respondError(c, http.StatusInternalServerError, "failed to create comment")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "comment created", "comment": comment})
}

// DeleteComment 删除单条评论
func (a *API) DeleteComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid comment id")
		return
	}

	if err := a.comments.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			respondError(c, http.StatusNotFound, "comment not found")
			return
		}
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to delete comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}
