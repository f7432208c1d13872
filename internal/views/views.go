// Package views holds the server-rendered pages.
package views

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templates embed.FS

const (
	Layout       = "layout"
	CourseList   = "course_list"
	CourseDetail = "course_detail"
	Registration = "registration"
	Login        = "login"
	ExamResult   = "exam_result"
	Error        = "error"
)

// NewEngine returns the html engine over the embedded templates.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("date", func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("Jan 2, 2006")
	})
	engine.AddFunc("inc", func(i int) int { return i + 1 })
	return engine
}
