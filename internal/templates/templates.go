// Package templates renders the storefront pages. Each page template defines
// "content" and is parsed together with the shared "base" layout.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"sync"

	"github.com/a-h/templ"

	"keycraftcaps.com/keycraft-web/internal/cart"
	"keycraftcaps.com/keycraft-web/internal/format"
	"keycraftcaps.com/keycraft-web/internal/order"
)

//go:embed layout.tmpl pages/*.tmpl
var embedded embed.FS

const layoutFile = "layout.tmpl"

// Page names a renderable page.
type Page string

const (
	PageHome    Page = "home"
	PageProduct Page = "product"
	PageOrder   Page = "order"
)

// Pages lists every page template.
var Pages = []Page{PageHome, PageProduct, PageOrder}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"price":       format.Price,
		"stars":       format.Stars,
		"markdown":    format.Markdown,
		"plain":       format.PlainText,
		"displayIcon": order.DisplayIcon,
		"inc":         func(i int) int { return i + 1 },
		"maxQty":      func() int { return cart.MaxQuantity },
	}
}

// Renderer holds the parsed page set. In dev mode it re-parses from disk on
// every call so template edits show up without a restart.
type Renderer struct {
	source fs.FS
	dev    bool

	mu    sync.RWMutex
	pages map[Page]*template.Template
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithDevDir re-reads templates from dir on every render.
func WithDevDir(dir string) Option {
	return func(r *Renderer) {
		if dir == "" {
			return
		}
		r.source = os.DirFS(dir)
		r.dev = true
	}
}

// New parses the templates once and fails fast on syntax errors.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{source: embedded}
	for _, opt := range opts {
		opt(r)
	}
	pages, err := parse(r.source)
	if err != nil {
		return nil, err
	}
	r.pages = pages
	return r, nil
}

func parse(src fs.FS) (map[Page]*template.Template, error) {
	base, err := template.New(layoutFile).Funcs(Funcs()).ParseFS(src, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	out := make(map[Page]*template.Template, len(Pages))
	for _, p := range Pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", p, err)
		}
		t, err := clone.ParseFS(src, "pages/"+string(p)+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", p, err)
		}
		out[p] = t
	}
	return out, nil
}

func (r *Renderer) lookup(p Page) (*template.Template, error) {
	if r.dev {
		pages, err := parse(r.source)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.pages = pages
		r.mu.Unlock()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.pages[p]
	if !ok {
		return nil, fmt.Errorf("unknown page %q", p)
	}
	return t, nil
}

// Component returns page p as a templ component. Fragments render only the
// page content, for htmx swaps into #content.
func (r *Renderer) Component(p Page, data PageData, fragment bool) (templ.Component, error) {
	t, err := r.lookup(p)
	if err != nil {
		return nil, err
	}
	name := "base"
	if fragment {
		name = "content"
	}
	named := t.Lookup(name)
	if named == nil {
		return nil, fmt.Errorf("page %s has no %q template", p, name)
	}
	return templ.FromGoHTML(named, data), nil
}
