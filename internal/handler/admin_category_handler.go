package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myblog/internal/service"
)

type categoryRequest struct {
	Title string `json:"title" binding:"required"`
	Slug  string `json:"slug"`
}

// GetCategories 获取分类列表，支持按标题搜索，并附带文章数量
func (a *API) GetCategories(c *gin.Context) {
	categories, err := a.categories.ListWithCounts(c.Request.Context(), c.Query("search"))
	if err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to list categories")
		return
	}

	response := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		response = append(response, gin.H{
			"id":         category.ID,
			"title":      category.Title,
			"slug":       category.Slug,
			"url":        category.URL(),
			"post_count": category.PostCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{"categories": response})
}

// CreateCategory 创建新分类，slug 留空时根据标题生成
func (a *API) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req, "title is required") {
		return
	}

	category, err := a.categories.Create(c.Request.Context(), service.CategoryInput{Title: req.Title, Slug: req.Slug})
	if err != nil {
		respondCategoryError(c, err, "failed to create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "category created", "category": category})
}

// UpdateCategory 更新分类
func (a *API) UpdateCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryRequest
	if !bindJSON(c, &req, "title is required") {
		return
	}

	category, err := a.categories.Update(c.Request.Context(), id, service.CategoryInput{Title: req.Title, Slug: req.Slug})
	if err != nil {
		respondCategoryError(c, err, "failed to update category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category updated", "category": category})
}

// DeleteCategory 删除分类及其下全部文章与评论
func (a *API) DeleteCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := a.categories.Delete(c.Request.Context(), id); err != nil {
		respondCategoryError(c, err, "failed to delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}

func respondCategoryError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusNotFound, "category not found")
	case errors.Is(err, service.ErrTitleRequired):
		respondError(c, http.StatusBadRequest, "title is required")
	case errors.Is(err, service.ErrSlugRequired):
		respondError(c, http.StatusBadRequest, "slug must contain letters or digits")
	case errors.Is(err, service.ErrSlugReserved):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, fallback)
	}
}
