package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/jo-hoe/publicgallery/internal/gallery"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	gridTemplate    = "grid.html"
	overlayTemplate = "overlay.html"

	// EmptyGalleryMessage is shown instead of the grid when there are no images.
	EmptyGalleryMessage = "No public images yet. Add some images to get started!"
	// DeleteConfirmMessage and ClearConfirmMessage are the questions asked before
	// removing images.
	DeleteConfirmMessage = "Are you sure you want to delete this image?"
	ClearConfirmMessage  = "Are you sure you want to clear all images? This action cannot be undone."
)

// Renderer turns gallery records into HTML fragments. Rendering has no side effects.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	templates, err := template.New("").Funcs(template.FuncMap{
		"imageSrc": imageSrc,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse view templates: %w", err)
	}
	return &Renderer{templates: templates}, nil
}

type gridData struct {
	Images        []gallery.ImageRecord
	EmptyMessage  string
	DeleteConfirm string
}

// RenderGrid renders the full image grid for records.
func (r *Renderer) RenderGrid(records []gallery.ImageRecord) (string, error) {
	return r.execute(gridTemplate, gridData{
		Images:        records,
		EmptyMessage:  EmptyGalleryMessage,
		DeleteConfirm: DeleteConfirmMessage,
	})
}

// RenderOverlay renders a full size viewer for record that removes itself when clicked.
func (r *Renderer) RenderOverlay(record gallery.ImageRecord) (string, error) {
	return r.execute(overlayTemplate, record)
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var b bytes.Buffer
	if err := r.templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return b.String(), nil
}

// imageSrc lets image data URLs through the URL sanitiser, anything else is escaped as usual.
func imageSrc(dataURL string) any {
	if strings.HasPrefix(dataURL, "data:image/") {
		return template.URL(dataURL)
	}
	return dataURL
}

// Region holds the markup currently shown in the display area. Only Replace changes it.
type Region struct {
	mu     sync.RWMutex
	markup string
}

func (r *Region) Replace(markup string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markup = markup
}

func (r *Region) Markup() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.markup
}
