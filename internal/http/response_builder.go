package http

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"cleanlog/internal/log"
)

// Generic message for failures the user cannot fix.
const msgInternalError = "Something went wrong. Please try again later."

// PageResponse provides a fluent API for rendering a full HTML page.
// The template is executed into a buffer first, so a failing template never
// leaves a half-written page behind.
type PageResponse struct {
	name       string
	data       any
	statusCode int
	headers    map[string]string
}

// NewPage creates a response rendering template name with data and status 200.
func NewPage(name string, data any) *PageResponse {
	return &PageResponse{
		name:       name,
		data:       data,
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (p *PageResponse) Status(code int) *PageResponse {
	p.statusCode = code
	return p
}

func (p *PageResponse) Header(name, value string) *PageResponse {
	p.headers[name] = value
	return p
}

// Write renders the page. A missing or failing template turns into a plain
// 500 response.
func (p *PageResponse) Write(w http.ResponseWriter, r *http.Request, t *template.Template) {
	if t == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded",
			log.FieldComponent, log.ComponentTemplate,
			log.FieldPath, r.URL.Path)
		http.Error(w, msgInternalError, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, p.name, p.data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed",
			log.FieldComponent, log.ComponentTemplate,
			log.FieldOperation, log.OpRender,
			"template", p.name,
			log.FieldError, err)
		http.Error(w, msgInternalError, http.StatusInternalServerError)
		return
	}

	for name, value := range p.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(p.statusCode)
	_, _ = buf.WriteTo(w)
}

type errorPage struct {
	Title   string
	Message string
}

// ErrorPage renders error.html with a fixed user-facing message.
func ErrorPage(statusCode int, message string) *PageResponse {
	return NewPage("error.html", errorPage{Title: http.StatusText(statusCode), Message: message}).
		Status(statusCode)
}

// InternalServerError renders the generic failure page.
func InternalServerError() *PageResponse {
	return ErrorPage(http.StatusInternalServerError, msgInternalError)
}

// SeeOther redirects after a successful form post.
func SeeOther(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}
