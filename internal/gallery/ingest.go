package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrNoFiles is returned when an ingestion is started without any file.
var ErrNoFiles = errors.New("no files selected")

// File is a user selected file. ContentType is the type declared by the client.
type File struct {
	Name        string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FileError ties a failure to the file it happened for.
type FileError struct {
	Name string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// IngestResult summarises one ingestion.
type IngestResult struct {
	Added    []ImageRecord
	Skipped  []string    // not an image
	Failed   []FileError // could not be read
	Rejected []FileError // decoded but refused by the sink
}

// IngestOptions configures an Ingestor.
type IngestOptions struct {
	// Workers bounds the number of concurrent decodes, <= 0 means one goroutine per file.
	Workers int
	// PreserveSelectionOrder hands records to the sink in selection order once all
	// decodes finished instead of in completion order.
	PreserveSelectionOrder bool
}

// Ingestor turns selected files into image records.
type Ingestor struct {
	ids     *IDGenerator
	options IngestOptions
	now     func() time.Time
}

func NewIngestor(ids *IDGenerator, options IngestOptions) *Ingestor {
	return &Ingestor{
		ids:     ids,
		options: options,
		now:     time.Now,
	}
}

type decoded struct {
	index  int
	record ImageRecord
}

// Ingest decodes every image file concurrently and passes each record to sink as soon
// as its decode completes. Record names are made valid UTF-8 so they survive
// persistence unchanged. sink may be called from several goroutines at once and
// must serialise itself. Decodes are not cancelled once started, ctx only carries
// values. Non-image files are skipped.
func (in *Ingestor) Ingest(ctx context.Context, files []File, sink func(ImageRecord) error) (IngestResult, error) {
	var result IngestResult
	if len(files) == 0 {
		return result, ErrNoFiles
	}
	ctx = context.WithoutCancel(ctx)

	var (
		mu      sync.Mutex
		ordered []decoded
	)
	deliver := func(d decoded, name string) {
		err := sink(d.record)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			slog.WarnContext(ctx, "image rejected", "name", name, "error", err)
			result.Rejected = append(result.Rejected, FileError{Name: name, Err: err})
			return
		}
		result.Added = append(result.Added, d.record)
	}

	var group errgroup.Group
	if in.options.Workers > 0 {
		group.SetLimit(in.options.Workers)
	}

	for i, file := range files {
		if !IsImageContentType(file.ContentType) {
			slog.DebugContext(ctx, "skipping non-image file", "name", file.Name, "content_type", file.ContentType)
			result.Skipped = append(result.Skipped, file.Name)
			continue
		}

		group.Go(func() error {
			record, err := in.decode(file)
			if err != nil {
				slog.WarnContext(ctx, "could not decode image", "name", file.Name, "error", err)
				mu.Lock()
				result.Failed = append(result.Failed, FileError{Name: file.Name, Err: err})
				mu.Unlock()
				return nil
			}

			d := decoded{index: i, record: record}
			if in.options.PreserveSelectionOrder {
				mu.Lock()
				ordered = append(ordered, d)
				mu.Unlock()
				return nil
			}
			deliver(d, file.Name)
			return nil
		})
	}
	// decode goroutines never return errors, failures are collected per file
	_ = group.Wait()

	if in.options.PreserveSelectionOrder {
		slices.SortFunc(ordered, func(a, b decoded) int { return a.index - b.index })
		for _, d := range ordered {
			deliver(d, d.record.Name)
		}
	}

	return result, nil
}

func (in *Ingestor) decode(file File) (ImageRecord, error) {
	if file.Open == nil {
		return ImageRecord{}, errors.New("file has no content")
	}
	src, err := file.Open()
	if err != nil {
		return ImageRecord{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Warn("failed to close uploaded file reader", "name", file.Name, "error", cerr)
		}
	}()

	data, err := io.ReadAll(src)
	if err != nil {
		return ImageRecord{}, fmt.Errorf("failed to read file: %w", err)
	}

	return ImageRecord{
		ID:        in.ids.Next(),
		Name:      strings.ToValidUTF8(file.Name, "\uFFFD"),
		Size:      FormatFileSize(int64(len(data))),
		DataURL:   EncodeDataURL(file.ContentType, data),
		DateAdded: formatDateAdded(in.now()),
	}, nil
}
