package view

import (
	"strings"
	"testing"

	"github.com/jo-hoe/publicgallery/internal/gallery"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer error: %v", err)
	}
	return r
}

func sampleRecords() []gallery.ImageRecord {
	return []gallery.ImageRecord{
		{ID: 1001, Name: "sunset.png", Size: "1.5 KB", DataURL: "data:image/png;base64,iVBORw0KGgo=", DateAdded: "2024-01-01T00:00:00.000Z"},
		{ID: 1002, Name: "dog.jpg", Size: "2 MB", DataURL: "data:image/jpeg;base64,/9j/4AAQ", DateAdded: "2024-01-01T00:00:01.000Z"},
	}
}

func TestRenderGrid_Empty(t *testing.T) {
	r := newTestRenderer(t)

	for _, records := range [][]gallery.ImageRecord{nil, {}} {
		html, err := r.RenderGrid(records)
		if err != nil {
			t.Fatalf("RenderGrid error: %v", err)
		}
		if html != `<div class="empty-gallery">`+EmptyGalleryMessage+`</div>` {
			t.Fatalf("expected only the placeholder, got %q", html)
		}
	}
}

func TestRenderGrid_Items(t *testing.T) {
	r := newTestRenderer(t)

	html, err := r.RenderGrid(sampleRecords())
	if err != nil {
		t.Fatalf("RenderGrid error: %v", err)
	}

	if strings.Contains(html, "empty-gallery") {
		t.Error("placeholder must not be shown for a non-empty gallery")
	}
	if got := strings.Count(html, `class="image-item"`); got != 2 {
		t.Errorf("expected 2 items, got %d", got)
	}
	for _, want := range []string{
		`data-id="1001"`,
		`src="data:image/png;base64,iVBORw0KGgo="`,
		`hx-get="/htmx/image/1001/view"`,
		`hx-delete="/htmx/image/1002?confirmed=true"`,
		`<div class="image-name">dog.jpg</div>`,
		`<div class="image-size">2 MB</div>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %s in grid:\n%s", want, html)
		}
	}

	// Display order follows gallery order
	if strings.Index(html, "sunset.png") > strings.Index(html, "dog.jpg") {
		t.Error("items are not rendered in gallery order")
	}
}

func TestRenderGrid_Idempotent(t *testing.T) {
	r := newTestRenderer(t)
	records := sampleRecords()

	first, err := r.RenderGrid(records)
	if err != nil {
		t.Fatalf("RenderGrid #1 error: %v", err)
	}
	second, err := r.RenderGrid(records)
	if err != nil {
		t.Fatalf("RenderGrid #2 error: %v", err)
	}
	if first != second {
		t.Fatal("rendering the same records twice produced different output")
	}
}

func TestRenderGrid_EscapesNames(t *testing.T) {
	r := newTestRenderer(t)

	html, err := r.RenderGrid([]gallery.ImageRecord{
		{ID: 1, Name: `<script>alert("x")</script>.png`, Size: "1 Bytes", DataURL: "javascript:alert(1)"},
	})
	if err != nil {
		t.Fatalf("RenderGrid error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("file name was not escaped:\n%s", html)
	}
	if strings.Contains(html, "javascript:alert") {
		t.Errorf("non-image url was not sanitised:\n%s", html)
	}
}

func TestRenderOverlay(t *testing.T) {
	r := newTestRenderer(t)

	html, err := r.RenderOverlay(sampleRecords()[1])
	if err != nil {
		t.Fatalf("RenderOverlay error: %v", err)
	}
	for _, want := range []string{
		`class="image-viewer"`,
		`onclick="this.remove()"`,
		`src="data:image/jpeg;base64,/9j/4AAQ"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %s in overlay:\n%s", want, html)
		}
	}
}

func TestRegion(t *testing.T) {
	var region Region
	if region.Markup() != "" {
		t.Fatal("expected empty region")
	}
	region.Replace("<p>a</p>")
	region.Replace("<p>b</p>")
	if region.Markup() != "<p>b</p>" {
		t.Fatalf("expected last replaced markup, got %q", region.Markup())
	}
}
