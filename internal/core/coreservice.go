package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jo-hoe/publicgallery/internal/backend/database"
	"github.com/jo-hoe/publicgallery/internal/gallery"
	"github.com/jo-hoe/publicgallery/internal/view"
)

// ExportFileName is the name offered for the exported gallery document.
const ExportFileName = "public-images-gallery.json"

// CoreService owns the gallery of a running session. Every mutation follows the same
// pipeline: change the gallery, persist it, re-render the grid.
type CoreService struct {
	config          *ServiceConfig
	databaseService database.DatabaseService

	// mu serialises mutate, persist and render so each step sees the state it follows
	mu        sync.Mutex
	gallery   *gallery.Gallery
	persister *gallery.Persister
	ids       *gallery.IDGenerator
	ingestor  *gallery.Ingestor
	renderer  *view.Renderer
	grid      view.Region
}

func NewCoreService(config *ServiceConfig) (*CoreService, error) {
	databaseService, err := getDatabaseService(config)
	if err != nil {
		return nil, err
	}
	service, err := newCoreService(config, databaseService)
	if err != nil {
		_ = databaseService.Close()
		return nil, err
	}
	return service, nil
}

func newCoreService(config *ServiceConfig, databaseService database.DatabaseService) (*CoreService, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	ids := gallery.NewIDGenerator(nil)
	service := &CoreService{
		config:          config,
		databaseService: databaseService,
		gallery:         gallery.New(config.Gallery.MaxImages),
		persister:       gallery.NewPersister(databaseService, config.Storage.SlotKey),
		ids:             ids,
		ingestor: gallery.NewIngestor(ids, gallery.IngestOptions{
			Workers:                config.Gallery.DecodeWorkers,
			PreserveSelectionOrder: config.Gallery.PreserveSelectionOrder,
		}),
		renderer: renderer,
	}
	service.Load(context.Background())
	return service, nil
}

func getDatabaseService(config *ServiceConfig) (database.DatabaseService, error) {
	databaseService, err := database.NewDatabase(config.Storage.Type, config.Storage.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Storage.Type, "quota_bytes", config.Storage.QuotaBytes)
	return database.WithQuota(databaseService, config.Storage.QuotaBytes), nil
}

// Load replaces the gallery with the persisted snapshot and renders it.
func (service *CoreService) Load(ctx context.Context) {
	service.mu.Lock()
	defer service.mu.Unlock()

	for _, record := range service.persister.Load(ctx, service.gallery) {
		service.ids.Observe(record.ID)
	}
	service.render()
}

// AddImages ingests files. Without files the user is alerted once and nothing changes.
// Each decoded image is appended, persisted and rendered as soon as it is ready.
func (service *CoreService) AddImages(ctx context.Context, files []gallery.File, prompter Prompter) (gallery.IngestResult, error) {
	if len(files) == 0 {
		prompter.Alert(NoFilesMessage)
		return gallery.IngestResult{}, gallery.ErrNoFiles
	}

	result, err := service.ingestor.Ingest(ctx, files, func(record gallery.ImageRecord) error {
		return service.mutate(ctx, func(g *gallery.Gallery) error {
			return g.Append(record)
		})
	})
	if err != nil {
		return result, err
	}
	slog.InfoContext(ctx, "images ingested",
		"added", len(result.Added), "skipped", len(result.Skipped),
		"failed", len(result.Failed), "rejected", len(result.Rejected))
	return result, nil
}

// DeleteImage removes the image with id after the user confirmed. It reports whether
// the gallery changed.
func (service *CoreService) DeleteImage(ctx context.Context, id int64, prompter Prompter) bool {
	if !prompter.Confirm(view.DeleteConfirmMessage) {
		return false
	}
	removed := false
	_ = service.mutate(ctx, func(g *gallery.Gallery) error {
		removed = g.Remove(id)
		return nil
	})
	if removed {
		slog.InfoContext(ctx, "image deleted", "image_id", id)
	}
	return removed
}

// ClearGallery removes all images after the user confirmed.
func (service *CoreService) ClearGallery(ctx context.Context, prompter Prompter) bool {
	if !prompter.Confirm(view.ClearConfirmMessage) {
		return false
	}
	_ = service.mutate(ctx, func(g *gallery.Gallery) error {
		g.Reset()
		return nil
	})
	slog.InfoContext(ctx, "gallery cleared")
	return true
}

// ViewImage returns the full size viewer markup for id. found is false for unknown ids.
func (service *CoreService) ViewImage(id int64) (markup string, found bool, err error) {
	record, ok := service.gallery.Find(id)
	if !ok {
		return "", false, nil
	}
	markup, err = service.renderer.RenderOverlay(record)
	if err != nil {
		return "", true, err
	}
	return markup, true, nil
}

// Export serialises the whole gallery as an indented JSON document.
func (service *CoreService) Export() ([]byte, error) {
	return gallery.ExportRecords(service.gallery.Records())
}

// GridHTML returns the currently displayed grid.
func (service *CoreService) GridHTML() string {
	return service.grid.Markup()
}

// Images returns the gallery in display order.
func (service *CoreService) Images() []gallery.ImageRecord {
	return service.gallery.Records()
}

func (service *CoreService) Close() error {
	return service.databaseService.Close()
}

// mutate applies change and, if it succeeded, persists and re-renders the gallery.
func (service *CoreService) mutate(ctx context.Context, change func(*gallery.Gallery) error) error {
	service.mu.Lock()
	defer service.mu.Unlock()

	if err := change(service.gallery); err != nil {
		return err
	}
	service.persister.Save(ctx, service.gallery)
	service.render()
	return nil
}

// render must be called with mu held.
func (service *CoreService) render() {
	markup, err := service.renderer.RenderGrid(service.gallery.Records())
	if err != nil {
		slog.Error("failed to render gallery", "error", err)
		return
	}
	service.grid.Replace(markup)
}
