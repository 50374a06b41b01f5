package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// viewData carries the dynamic parts of a rendered view
type viewData struct {
	Error string
	Story string
}

// renderer renders the embedded HTML views
type renderer struct {
	templates         *template.Template
	internalErrorHook func(err error)
}

func newRenderer(internalErrorHook func(err error)) (*renderer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &renderer{
		templates:         templates,
		internalErrorHook: internalErrorHook,
	}, nil
}

// render writes a fully rendered view to the response.
// The view is rendered into a buffer first so that a template error results in
// a plain 500 instead of a half-written page.
func (renderer *renderer) render(writer http.ResponseWriter, name string, data viewData) {
	buf := &bytes.Buffer{}
	if err := renderer.templates.ExecuteTemplate(buf, name, data); err != nil {
		renderer.internalErrorHook(err)
		http.Error(writer, "internal error", http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(writer)
}
