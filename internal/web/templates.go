// Package web renders the HTML pages of the site from embedded templates.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"
)

//go:embed templates/*.html templates/partials/*.html
var templatesFS embed.FS

// Templates holds one parsed template set per page. Every set shares the
// layout and partials, and the page file overrides the "title" and
// "content" blocks.
type Templates struct {
	pages    map[string]*template.Template
	partials *template.Template
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		return t.Format("2 January 2006")
	},
	"datetime": func(t time.Time) string {
		return t.Format("2 January 2006 15:04")
	},
	// pageURL returns the listing URL of page n, keeping the other query parameters
	"pageURL": func(query url.Values, n int) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(n))
		return "?" + q.Encode()
	},
	"deref": func(p *int64) int64 {
		if p == nil {
			return 0
		}
		return *p
	},
}

// NewTemplates creates a new Templates instance by parsing all embedded templates.
func NewTemplates() (*Templates, error) {
	base, err := template.New("layout.html").Funcs(funcs).
		ParseFS(templatesFS, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pageFiles, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, file := range pageFiles {
		name := path.Base(file)
		if name == "layout.html" {
			continue
		}
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layout for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templatesFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		pages[name] = clone
	}

	partials, err := base.Clone()
	if err != nil {
		return nil, fmt.Errorf("failed to clone partials: %w", err)
	}

	return &Templates{pages: pages, partials: partials}, nil
}

// Render renders a page inside the layout with the given status code.
// Output is buffered so a template error never produces a half-written page.
func (t *Templates) Render(w http.ResponseWriter, status int, name string, data interface{}) error {
	tmpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to execute template %q: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// RenderFragment executes a partial (e.g. "post_list") to bytes
func (t *Templates) RenderFragment(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.partials.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to execute fragment %q: %w", name, err)
	}
	return buf.Bytes(), nil
}
