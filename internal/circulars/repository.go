package circulars

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/civicdoc/pkg/formatting"
	"github.com/JaimeStill/civicdoc/pkg/pagination"
	"github.com/JaimeStill/civicdoc/pkg/storage"
)

const pdfContentType = "application/pdf"

type repo struct {
	store      Store
	blobs      storage.System
	extractor  Extractor
	analyzer   *Analyzer
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a circular system implementing the System interface.
func New(
	store Store,
	blobs storage.System,
	extractor Extractor,
	analyzer *Analyzer,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		store:      store,
		blobs:      blobs,
		extractor:  extractor,
		analyzer:   analyzer,
		logger:     logger.With("system", "circulars"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) Create(ctx context.Context, cmd UploadCommand) (*Circular, error) {
	if !strings.EqualFold(filepath.Ext(cmd.Filename), ".pdf") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFile, cmd.Filename)
	}
	if !bytes.HasPrefix(cmd.Data, []byte("%PDF-")) {
		return nil, fmt.Errorf("%w: missing PDF header", ErrInvalidFile)
	}

	key := buildStorageKey(uuid.New(), sanitizeFilename(cmd.Filename))

	var ext Extraction
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := r.blobs.Upload(gctx, key, bytes.NewReader(cmd.Data), pdfContentType); err != nil {
			return fmt.Errorf("upload circular blob: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		e, err := r.extractor.Extract(gctx, cmd.Data)
		if err != nil {
			return err
		}
		ext = e
		return nil
	})

	if err := g.Wait(); err != nil {
		r.removeBlob(ctx, key)
		return nil, err
	}

	a := r.analyzer.Analyze(ext.Text)

	c, err := r.store.Insert(ctx, Circular{
		Filename:    filepath.Base(cmd.Filename),
		StorageKey:  key,
		SizeBytes:   int64(len(cmd.Data)),
		PageCount:   ext.PageCount,
		Summary:     a.Summary,
		Language:    a.Language,
		Rules:       a.Rules,
		Eligibility: a.Eligibility,
		Deadlines:   a.Deadlines,
	})
	if err != nil {
		r.removeBlob(ctx, key)
		return nil, err
	}

	r.logger.Info(
		"circular created",
		"id", c.ID,
		"filename", c.Filename,
		"size", formatting.FormatBytes(c.SizeBytes, 1),
		"pages", c.PageCount,
		"rules", len(c.Rules),
	)
	return c, nil
}

func (r *repo) Find(ctx context.Context, id int64) (*Circular, error) {
	return r.store.Get(ctx, id)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Circular], error) {
	page.Normalize(r.pagination)
	page.Sort = page.Sort.Known(projection.Has)
	return r.store.List(ctx, page, filters)
}

func (r *repo) Open(ctx context.Context, id int64) (*Circular, io.ReadCloser, error) {
	c, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	body, err := r.blobs.Download(ctx, c.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("download circular %d: %w", id, err)
	}
	return c, body, nil
}

// removeBlob deletes a partially ingested blob. It runs even when ctx is canceled.
func (r *repo) removeBlob(ctx context.Context, key string) {
	err := r.blobs.Delete(context.WithoutCancel(ctx), key)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		r.logger.Warn("compensating blob delete failed", "key", key, "error", err)
	}
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("circulars/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" || name == string(filepath.Separator) {
		name = "circular.pdf"
	}
	for strings.Contains(name, "..") {
		name = strings.ReplaceAll(name, "..", ".")
	}
	return url.PathEscape(name)
}
