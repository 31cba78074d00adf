// Package templates handles HTML template rendering for Datastar SSE responses.
package templates

import (
	"bytes"
	"html/template"
	"io/fs"
	"sync"
)

// funcMap provides common template functions.
var funcMap = template.FuncMap{
	// inc turns a 0-based index into a 1-based position
	"inc": func(i int) int { return i + 1 },
}

// Renderer manages HTML fragment templates.
type Renderer struct {
	templates *template.Template
	fsys      fs.FS
	patterns  []string
	mu        sync.RWMutex
}

// New creates a renderer from the templates in fsys matching patterns,
// e.g. "templates/*.html", "templates/fragments/*.html".
func New(fsys fs.FS, patterns ...string) (*Renderer, error) {
	tmpl, err := parse(fsys, patterns)
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: tmpl, fsys: fsys, patterns: patterns}, nil
}

func parse(fsys fs.FS, patterns []string) (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(fsys, patterns...)
}

// Render renders a named template to a string.
func (r *Renderer) Render(name string, data any) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Reload re-parses the templates (useful for dev hot-reload with os.DirFS).
func (r *Renderer) Reload() error {
	tmpl, err := parse(r.fsys, r.patterns)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.templates = tmpl
	r.mu.Unlock()

	return nil
}
