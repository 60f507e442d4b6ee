package web

import (
	"embed"
	"html/template"
	"onlinecourse_backend/internal/util"
	"strconv"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format(util.DateFormat)
	},
	"percent": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64)
	},
}

// Templates 解析内嵌的全部页面模板
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
