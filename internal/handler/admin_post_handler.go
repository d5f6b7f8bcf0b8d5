package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myblog/internal/db"
	"github.com/myblog/internal/service"
)

type postRequest struct {
	CategoryID uint    `json:"category_id" binding:"required"`
	Title      string  `json:"title" binding:"required"`
	Slug       string  `json:"slug"`
	Intro      string  `json:"intro"`
	Body       string  `json:"body"`
	Content    string  `json:"content"`
	Status     string  `json:"status"`
	Image      *string `json:"image"`
}

func (r postRequest) toInput() service.PostInput {
	return service.PostInput{
		CategoryID: r.CategoryID,
		Title:      r.Title,
		Slug:       r.Slug,
		Intro:      r.Intro,
		Body:       r.Body,
		Content:    r.Content,
		Status:     r.Status,
		Image:      r.Image,
	}
}

// GetPosts 获取后台文章列表，支持搜索、分类、状态与创建时间区间过滤
func (a *API) GetPosts(c *gin.Context) {
	categoryID, err := parseUintQuery(c, "category_id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	start, err := parseDateQuery(c, "start", false)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDateQuery(c, "end", true)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	status := c.Query("status")
	if status != "" && !db.ValidPostStatus(status) {
		respondError(c, http.StatusBadRequest, "invalid status")
		return
	}

	posts, err := a.posts.List(c.Request.Context(), service.PostFilter{
		Search:     c.Query("search"),
		CategoryID: categoryID,
		Status:     status,
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to list posts")
		return
	}

	response := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		response = append(response, gin.H{
			"id":         post.ID,
			"title":      post.Title,
			"slug":       post.Slug,
			"category":   post.Category.Title,
			"created_at": post.CreatedAt,
			"status":     post.Status,
			"url":        post.URL(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"posts": response})
}

// GetPost 获取单篇文章，附带内联评论
func (a *API) GetPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	post, err := a.posts.Get(c.Request.Context(), id)
	if err != nil {
		respondPostError(c, err, "failed to load post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost 创建新文章
func (a *API) CreatePost(c *gin.Context) {
	var req postRequest
	if !bindJSON(c, &req, "category_id and title are required") {
		return
	}

	post, err := a.posts.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondPostError(c, err, "failed to create post")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "post created", "post": post})
}

// UpdatePost 更新文章，创建时间保持不变
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	var req postRequest
	if !bindJSON(c, &req, "category_id and title are required") {
		return
	}

	post, err := a.posts.Update(c.Request.Context(), id, req.toInput())
	if err != nil {
		respondPostError(c, err, "failed to update post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post updated", "post": post})
}

// DeletePost 删除文章及其评论
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := a.posts.Delete(c.Request.Context(), id); err != nil {
		respondPostError(c, err, "failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

func respondPostError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		respondError(c, http.StatusNotFound, "post not found")
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusBadRequest, "category does not exist")
	case errors.Is(err, service.ErrCategoryRequired),
		errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSlugRequired):
		respondError(c, http.StatusBadRequest, "slug must contain letters or digits")
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
