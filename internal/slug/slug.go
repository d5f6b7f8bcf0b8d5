// Package slug 根据标题生成 URL 友好的 slug，供后台自动填充使用。
package slug

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars    = regexp.MustCompile(`[^\p{L}\p{N}\s_-]`)
	whitespaceRun   = regexp.MustCompile(`[\s_]+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate 将任意标题转换为 slug，例如 "Hello, World! 2024" → "hello-world-2024"。
// 保留 Unicode 字母与数字，便于中文标题生成可读的路径。
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonSlugChars.ReplaceAllString(result, "")
	result = whitespaceRun.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Valid 判断 slug 是否可以直接用作路径片段。
func Valid(s string) bool {
	return s != "" && s == Generate(s)
}
