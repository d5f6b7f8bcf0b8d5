package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// Sitemap 输出全部分类与前台文章的 sitemap.xml。
func (a *API) Sitemap(c *gin.Context) {
	entries, err := a.sitemap.Entries(c.Request.Context(), a.baseURL(c))
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "sitemap unavailable")
		return
	}

	set := sitemapURLSet{XMLNS: sitemapNamespace, URLs: make([]sitemapURL, 0, len(entries))}
	for _, entry := range entries {
		item := sitemapURL{Loc: entry.Loc}
		if entry.LastMod != nil {
			item.LastMod = entry.LastMod.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, item)
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "sitemap unavailable")
		return
	}

	c.Data(http.StatusOK, "application/xml; charset=utf-8", append([]byte(xml.Header), body...))
}

// Robots serves robots.txt pointing crawlers at the sitemap.
func (a *API) Robots(c *gin.Context) {
	c.String(http.StatusOK, "User-agent: *\nDisallow: /admin/\nSitemap: %s/sitemap.xml\n", a.baseURL(c))
}

// baseURL 优先使用配置的站点地址，未配置时根据当前请求推断。
func (a *API) baseURL(c *gin.Context) string {
	if a.site.BaseURL != "" {
		return a.site.BaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.Request.Host)
}
