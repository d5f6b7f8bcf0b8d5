package handler

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/myblog/internal/service"
	_ "golang.org/x/image/webp"
)

const maxUploadSize = 10 << 20

var imageExtensions = map[string]string{
	"png":  ".png",
	"jpeg": ".jpg",
	"gif":  ".gif",
	"webp": ".webp",
}

// UploadImage 处理图片上传请求，可选 post_id 字段会把图片设置为文章配图
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "image file is required")
		return
	}
	if file.Size > maxUploadSize {
		respondError(c, http.StatusBadRequest, "image is larger than 10MB")
		return
	}

	format, width, height, err := inspectImage(file)
	if err != nil {
		respondError(c, http.StatusBadRequest, "only png, jpeg, gif and webp images are allowed")
		return
	}

	// 关联文章须在落盘前确认存在
	var postID uint
	if raw := strings.TrimSpace(c.PostForm("post_id")); raw != "" {
		postID, err = parseUintValue(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid post id")
			return
		}
		if _, err := a.posts.Get(c.Request.Context(), postID); err != nil {
			respondPostError(c, err, "failed to load post")
			return
		}
	}

	if err := os.MkdirAll(a.site.UploadDir, 0o755); err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to create upload directory")
		return
	}

	// 生成唯一文件名
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.NewString(), imageExtensions[format])
	savedPath := filepath.Join(a.site.UploadDir, newFilename)
	if err := c.SaveUploadedFile(file, savedPath); err != nil {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "failed to save image")
		return
	}

	fileURL := a.site.UploadURL + "/" + newFilename

	if postID != 0 {
		if err := a.posts.SetImage(c.Request.Context(), postID, fileURL); err != nil {
			if removeErr := os.Remove(savedPath); removeErr != nil {
				slog.Warn("remove orphaned upload", "path", savedPath, "error", removeErr)
			}
			if errors.Is(err, service.ErrPostNotFound) {
				respondError(c, http.StatusNotFound, "post not found")
				return
			}
			_ = c.Error(err)
			respondError(c, http.StatusInternalServerError, "failed to attach image")
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "image uploaded",
		"url":     fileURL,
		"width":   width,
		"height":  height,
	})
}

// inspectImage 仅解码图片头部，确认格式受支持并返回尺寸。
func inspectImage(file *multipart.FileHeader) (string, int, int, error) {
	src, err := file.Open()
	if err != nil {
		return "", 0, 0, err
	}
	defer src.Close()

	cfg, format, err := image.DecodeConfig(src)
	if err != nil {
		return "", 0, 0, err
	}
	if _, ok := imageExtensions[format]; !ok {
		return "", 0, 0, fmt.Errorf("unsupported image format %q", format)
	}
	return format, cfg.Width, cfg.Height, nil
}
