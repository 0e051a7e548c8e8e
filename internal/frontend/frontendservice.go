package frontend

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"html/template"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"

	"github.com/jo-hoe/publicgallery/internal/core"
	"github.com/jo-hoe/publicgallery/internal/gallery"
	"github.com/jo-hoe/publicgallery/internal/view"
	"github.com/labstack/echo/v4"
)

const (
	MainPageName    = "index.html"
	UploadFieldName = "images"
	mimePNG         = "image/png"

	noticeEvent = "galleryNotice"
)

type FrontendService struct {
	coreService *core.CoreService

	iconOnce sync.Once
	iconPNG  []byte
	iconErr  error
}

func NewFrontendService(coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
	}
}

type indexData struct {
	Grid         template.HTML
	UploadField  string
	ClearConfirm string
}

// imageRequest addresses a single image, Confirmed is set once the user accepted the dialog.
type imageRequest struct {
	ID        int64 `param:"id" validate:"gt=0"`
	Confirmed bool  `query:"confirmed"`
}

type confirmRequest struct {
	Confirmed bool `query:"confirmed"`
}

// rootRedirectHandler redirects root path to index.html
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, "/"+MainPageName)
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	// Create template renderer
	e.Renderer = &Template{
		templates: template.Must(template.New("").ParseFS(templateFS, viewsPattern)),
	}

	e.GET("/", service.rootRedirectHandler) // Redirect root to index.html
	e.GET("/"+MainPageName, service.indexHandler)
	e.GET("/probe", service.probeHandler)

	// Grid, ingestion and clearing operate on the whole gallery
	e.GET("/htmx/images", service.htmxListImagesHandler)
	e.POST("/htmx/images", service.htmxUploadImagesHandler)
	e.DELETE("/htmx/images", service.htmxClearGalleryHandler)

	e.GET("/htmx/image/:id/view", service.htmxViewImageHandler)
	e.DELETE("/htmx/image/:id", service.htmxDeleteImageHandler)

	e.GET("/export", service.exportHandler)

	// Favicon routes
	e.GET("/icon.svg", service.iconHandler)
	e.GET("/icon.png", service.iconPNGHandler)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	service.setNoCache(ctx)
	return ctx.Render(http.StatusOK, MainPageName, indexData{
		Grid:         template.HTML(service.coreService.GridHTML()),
		UploadField:  UploadFieldName,
		ClearConfirm: view.ClearConfirmMessage,
	})
}

func (service *FrontendService) probeHandler(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "OK")
}

func (service *FrontendService) htmxListImagesHandler(ctx echo.Context) error {
	// Prevent caching so the latest images are always shown
	service.setNoCache(ctx)
	return ctx.HTML(http.StatusOK, service.coreService.GridHTML())
}

func (service *FrontendService) htmxUploadImagesHandler(ctx echo.Context) error {
	var files []gallery.File
	form, err := ctx.MultipartForm()
	if err != nil {
		// A request without a multipart body carries no files
		slog.Warn("htmxUploadImagesHandler: no multipart form in request", "error", err)
	} else {
		for _, header := range form.File[UploadFieldName] {
			files = append(files, toGalleryFile(header))
		}
	}

	prompter := newRequestPrompter(false)
	result, err := service.coreService.AddImages(ctx.Request().Context(), files, prompter)
	if errors.Is(err, gallery.ErrNoFiles) {
		return service.noticeResponse(ctx, prompter.notices)
	}
	if err != nil {
		slog.Error("htmxUploadImagesHandler: failed to add images",
			"status", http.StatusInternalServerError, "error", err, "files", len(files))
		return ctx.String(http.StatusInternalServerError, "Failed to add images")
	}

	// Return the upload summary plus an out-of-band swap refreshing the grid
	gridOOB := fmt.Sprintf(`<div id="image-grid" class="image-grid" hx-swap-oob="true">%s</div>`, service.coreService.GridHTML())
	service.setNoCache(ctx)
	return ctx.HTML(http.StatusOK, uploadSummaryHTML(result)+gridOOB)
}

func (service *FrontendService) htmxDeleteImageHandler(ctx echo.Context) error {
	var request imageRequest
	if err := service.bindAndValidate(ctx, &request); err != nil {
		slog.Warn("htmxDeleteImageHandler: invalid request",
			"status", http.StatusBadRequest, "route", "/htmx/image/:id", "error", err)
		return ctx.String(http.StatusBadRequest, "Invalid image ID")
	}

	service.coreService.DeleteImage(ctx.Request().Context(), request.ID, newRequestPrompter(request.Confirmed))

	// Prevent caching so the latest state is shown
	service.setNoCache(ctx)

	// Return grid HTML (to swap into #image-grid)
	return ctx.HTML(http.StatusOK, service.coreService.GridHTML())
}

func (service *FrontendService) htmxClearGalleryHandler(ctx echo.Context) error {
	var request confirmRequest
	if err := ctx.Bind(&request); err != nil {
		slog.Warn("htmxClearGalleryHandler: invalid request", "status", http.StatusBadRequest, "error", err)
		return ctx.String(http.StatusBadRequest, "Invalid request")
	}

	service.coreService.ClearGallery(ctx.Request().Context(), newRequestPrompter(request.Confirmed))

	service.setNoCache(ctx)
	return ctx.HTML(http.StatusOK, service.coreService.GridHTML())
}

func (service *FrontendService) htmxViewImageHandler(ctx echo.Context) error {
	var request imageRequest
	if err := service.bindAndValidate(ctx, &request); err != nil {
		slog.Warn("htmxViewImageHandler: invalid request",
			"status", http.StatusBadRequest, "route", "/htmx/image/:id/view", "error", err)
		return ctx.String(http.StatusBadRequest, "Invalid image ID")
	}

	markup, found, err := service.coreService.ViewImage(request.ID)
	if err != nil {
		slog.Error("htmxViewImageHandler: failed to render viewer",
			"status", http.StatusInternalServerError, "image_id", request.ID, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to render image")
	}
	if !found {
		slog.Warn("htmxViewImageHandler: image not available",
			"status", http.StatusNotFound, "image_id", request.ID)
		return ctx.String(http.StatusNotFound, "Image not available")
	}

	return ctx.HTML(http.StatusOK, markup)
}

func (service *FrontendService) exportHandler(ctx echo.Context) error {
	data, err := service.coreService.Export()
	if err != nil {
		slog.Error("exportHandler: failed to export gallery",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to export gallery")
	}

	service.setNoCache(ctx)
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, core.ExportFileName))
	return ctx.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	data, err := assetsFS.ReadFile("views/icon.svg")
	if err != nil {
		slog.Error("iconHandler: failed to read icon.svg", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, "image/svg+xml", data)
}

func (service *FrontendService) iconPNGHandler(ctx echo.Context) error {
	service.iconOnce.Do(func() {
		var svg []byte
		svg, service.iconErr = assetsFS.ReadFile("views/icon.svg")
		if service.iconErr != nil {
			return
		}
		service.iconPNG, service.iconErr = rasterizeIcon(svg, iconPNGSize)
	})
	if service.iconErr != nil {
		slog.Error("iconPNGHandler: failed to rasterize icon", "status", http.StatusInternalServerError, "error", service.iconErr)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, mimePNG, service.iconPNG)
}

// noticeResponse shows notices in the upload result and raises a client event so the
// page can display them as a blocking alert.
func (service *FrontendService) noticeResponse(ctx echo.Context, notices []string) error {
	message := strings.Join(notices, "\n")
	trigger, err := json.Marshal(map[string]string{noticeEvent: message})
	if err != nil {
		slog.Error("noticeResponse: failed to encode trigger", "error", err)
	} else {
		ctx.Response().Header().Set("HX-Trigger", string(trigger))
	}
	return ctx.HTML(http.StatusOK, fmt.Sprintf(`<div id="upload-result" role="alert">%s</div>`, html.EscapeString(message)))
}

func (service *FrontendService) bindAndValidate(ctx echo.Context, request any) error {
	if err := ctx.Bind(request); err != nil {
		return err
	}
	return ctx.Validate(request)
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}

func toGalleryFile(header *multipart.FileHeader) gallery.File {
	return gallery.File{
		Name:        header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Open: func() (io.ReadCloser, error) {
			file, err := header.Open()
			if err != nil {
				return nil, err
			}
			return file, nil
		},
	}
}

func uploadSummaryHTML(result gallery.IngestResult) string {
	var b strings.Builder
	b.WriteString(`<div id="upload-result">`)
	b.WriteString(fmt.Sprintf("Added %d image(s).", len(result.Added)))

	var failed []string
	for _, f := range result.Failed {
		failed = append(failed, f.Name)
	}
	for _, f := range result.Rejected {
		failed = append(failed, f.Name)
	}
	if len(failed) > 0 {
		b.WriteString(" Could not add: ")
		b.WriteString(html.EscapeString(strings.Join(failed, ", ")))
	}
	b.WriteString(`</div>`)
	return b.String()
}
