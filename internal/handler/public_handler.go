package handler

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/myblog/internal/db"
	"github.com/myblog/internal/service"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// ShowHome renders every active post, newest first.
func (a *API) ShowHome(c *gin.Context) {
	posts, err := a.posts.ListPublished(c.Request.Context())
	if err != nil {
		a.renderServerError(c, "list home posts", err)
		return
	}

	a.renderHTML(c, http.StatusOK, "home.html", gin.H{
		"title": a.site.Name,
		"posts": posts,
	})
}

// ShowPostDetail renders a published post together with its comments and an empty form.
func (a *API) ShowPostDetail(c *gin.Context) {
	post, ok := a.lookupPublishedPost(c)
	if !ok {
		return
	}

	a.renderPostDetail(c, http.StatusOK, post, service.CommentInput{}, nil)
}

// SubmitComment 处理访客评论：校验通过后保存并 303 跳回文章页，否则带着错误与原输入重新渲染。
func (a *API) SubmitComment(c *gin.Context) {
	post, ok := a.lookupPublishedPost(c)
	if !ok {
		return
	}

	var input service.CommentInput
	if err := c.ShouldBind(&input); err != nil {
		a.renderPostDetail(c, http.StatusBadRequest, post, input, map[string]string{
			"form": "The comment form could not be read.",
		})
		return
	}

	if _, err := a.comments.Submit(c.Request.Context(), post.ID, input); err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			a.renderPostDetail(c, http.StatusUnprocessableEntity, post, input, verr.Fields)
		case errors.Is(err, service.ErrPostNotFound):
			a.renderNotFound(c)
		default:
			a.renderServerError(c, "submit comment", err)
		}
		return
	}

	c.Redirect(http.StatusSeeOther, post.URL())
}

// ShowCategory lists the active posts of one category.
func (a *API) ShowCategory(c *gin.Context) {
	ctx := c.Request.Context()

	category, err := a.categories.GetBySlug(ctx, c.Param("category_slug"))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			a.renderNotFound(c)
			return
		}
		a.renderServerError(c, "get category", err)
		return
	}

	posts, err := a.posts.ListPublishedByCategory(ctx, category.ID)
	if err != nil {
		a.renderServerError(c, "list category posts", err)
		return
	}

	a.renderHTML(c, http.StatusOK, "category.html", gin.H{
		"title":    category.Title,
		"category": category,
		"posts":    posts,
	})
}

// Search 在标题、导语与正文中查找关键字，空关键字返回全部文章。关键字按原样匹配，不做裁剪。
func (a *API) Search(c *gin.Context) {
	query := c.Query("query")

	posts, err := a.posts.Search(c.Request.Context(), query)
	if err != nil {
		a.renderServerError(c, "search posts", err)
		return
	}

	a.renderHTML(c, http.StatusOK, "search.html", gin.H{
		"title": "Search",
		"query": query,
		"posts": posts,
	})
}

// ShowAbout renders the static about page.
func (a *API) ShowAbout(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "about.html", gin.H{
		"title": "About",
	})
}

func (a *API) lookupPublishedPost(c *gin.Context) (*db.Post, bool) {
	post, err := a.posts.GetPublished(c.Request.Context(), c.Param("category_slug"), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.renderNotFound(c)
			return nil, false
		}
		a.renderServerError(c, "get post", err)
		return nil, false
	}
	return post, true
}

func (a *API) renderPostDetail(c *gin.Context, status int, post *db.Post, form service.CommentInput, formErrors map[string]string) {
	intro, err := renderMarkdown(post.Intro)
	if err != nil {
		a.renderServerError(c, "render post intro", err)
		return
	}
	body, err := renderMarkdown(post.Body)
	if err != nil {
		a.renderServerError(c, "render post body", err)
		return
	}
	content, err := renderMarkdown(post.Content)
	if err != nil {
		a.renderServerError(c, "render post content", err)
		return
	}

	if formErrors == nil {
		formErrors = map[string]string{}
	}

	a.renderHTML(c, status, "post_detail.html", gin.H{
		"title":      post.Title,
		"post":       post,
		"intro":      intro,
		"body":       body,
		"content":    content,
		"comments":   post.Comments,
		"form":       form,
		"formErrors": formErrors,
	})
}

func renderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	safe := sanitizer.SanitizeBytes(buf.Bytes())
	return template.HTML(safe), nil
}
