package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/myblog/internal/db"
	"gorm.io/gorm"
)

const (
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
)

// ShowLoginPage 渲染登录页面
func (a *API) ShowLoginPage(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title":    "Admin login",
		"username": "",
	})
}

// Login 校验用户名与密码并写入会话
func (a *API) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	var user db.User
	if err := a.db.WithContext(c.Request.Context()).Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("lookup admin user", "error", err)
		}
		a.renderLoginError(c, username)
		return
	}

	if !user.CheckPassword(password) {
		a.renderLoginError(c, username)
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	session.Set(sessionUsernameKey, user.Username)
	if err := session.Save(); err != nil {
		a.renderServerError(c, "save session", err)
		return
	}

	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (a *API) renderLoginError(c *gin.Context, username string) {
	a.renderHTML(c, http.StatusUnauthorized, "login.html", gin.H{
		"title":    "Admin login",
		"error":    "Invalid username or password.",
		"username": username,
	})
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		a.renderServerError(c, "clear session", err)
		return
	}
	c.Redirect(http.StatusFound, "/admin/login")
}

// ShowDashboard 渲染后台主面板
func (a *API) ShowDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	session := sessions.Default(c)

	categoryCount, err := a.categories.Count(ctx)
	if err != nil {
		a.renderServerError(c, "count categories", err)
		return
	}
	postCounts, err := a.posts.CountByStatus(ctx)
	if err != nil {
		a.renderServerError(c, "count posts", err)
		return
	}
	commentCount, err := a.comments.Count(ctx, 0)
	if err != nil {
		a.renderServerError(c, "count comments", err)
		return
	}

	a.renderHTML(c, http.StatusOK, "dashboard.html", gin.H{
		"title":         "Dashboard",
		"username":      session.Get(sessionUsernameKey),
		"categoryCount": categoryCount,
		"activeCount":   postCounts[db.PostStatusActive],
		"draftCount":    postCounts[db.PostStatusDraft],
		"commentCount":  commentCount,
	})
}

// AuthRequired 是一个简单的认证中间件，未登录时页面跳转登录，API 返回 401。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get(sessionUserIDKey) == nil {
			if strings.HasPrefix(c.Request.URL.Path, "/admin/api/") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
				return
			}
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
