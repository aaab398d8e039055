// Package web renders HTML documents from embedded Go templates.
package web

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
)

// ErrViewNotFound is returned when rendering a view that was not registered.
var ErrViewNotFound = errors.New("view not found")

// ViewDef defines a renderable view by name, template file, and title.
type ViewDef struct {
	Name     string
	Template string
	Title    string
}

// ViewData contains the data passed to the layout during rendering.
// Layouts hand Data to the view's "content" template.
type ViewData struct {
	Title string
	Data  any
}

// TemplateSet holds pre-parsed templates. Each view gets its own clone of the
// layouts so views can define the same block names.
type TemplateSet struct {
	views  map[string]*template.Template
	titles map[string]string
	layout string
}

// NewTemplateSet parses layouts matching layoutGlob from fsys and clones them
// for each view found under viewSubdir. layout names the template executed on Render.
func NewTemplateSet(
	fsys fs.FS,
	layoutGlob, viewSubdir, layout string,
	funcs template.FuncMap,
	views []ViewDef,
) (*TemplateSet, error) {
	layouts, err := template.New(layout).Funcs(funcs).ParseFS(fsys, layoutGlob)
	if err != nil {
		return nil, err
	}

	viewSub, err := fs.Sub(fsys, viewSubdir)
	if err != nil {
		return nil, err
	}

	ts := &TemplateSet{
		views:  make(map[string]*template.Template, len(views)),
		titles: make(map[string]string, len(views)),
		layout: layout,
	}

	for _, v := range views {
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", v.Template, err)
		}
		if _, err := t.ParseFS(viewSub, v.Template); err != nil {
			return nil, fmt.Errorf("parse template: %s: %w", v.Template, err)
		}
		ts.views[v.Name] = t
		ts.titles[v.Name] = v.Title
	}

	return ts, nil
}

// Render executes the layout for the named view.
func (ts *TemplateSet) Render(w io.Writer, name string, data any) error {
	t, ok := ts.views[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrViewNotFound, name)
	}
	return t.ExecuteTemplate(w, ts.layout, ViewData{Title: ts.titles[name], Data: data})
}

// WriteHTML writes a rendered document as an HTML response.
func WriteHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}
