package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// CleanText 去掉所有 HTML 标签，返回未转义的纯文本；重复处理直到稳定，转义过的标签也会被去掉
func CleanText(s string) string {
	if s == "" {
		return s
	}
	for i := 0; i < 3; i++ {
		out := html.UnescapeString(strict.Sanitize(s))
		if out == s {
			break
		}
		s = out
	}
	return strings.TrimSpace(s)
}
