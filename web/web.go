// Package web 内嵌 HTML 模板。页面只做最小渲染，不包含前端资源。
package web

import (
	"embed"
	"html/template"
	"time"
	"unicode/utf8"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates 解析全部内嵌模板；mediaURL 把存储引用转换为公开访问地址
func Templates(mediaURL func(ref string) string) (*template.Template, error) {
	funcs := template.FuncMap{
		"mediaURL": mediaURL,
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"excerpt": excerpt,
		"add":     func(a, b int) int { return a + b },
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// excerpt 按字符截断正文
func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}
