package circulars_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/civicdoc/internal/circulars"
	"github.com/JaimeStill/civicdoc/internal/enrichment"
	"github.com/JaimeStill/civicdoc/pkg/lifecycle"
	"github.com/JaimeStill/civicdoc/pkg/pagination"
	"github.com/JaimeStill/civicdoc/pkg/query"
	"github.com/JaimeStill/civicdoc/pkg/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memStore struct {
	rows      []circulars.Circular
	insertErr error
	lastPage  pagination.PageRequest
}

func (s *memStore) Insert(_ context.Context, c circulars.Circular) (*circulars.Circular, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	c.ID = int64(len(s.rows) + 1)
	c.UploadedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.rows = append(s.rows, c)
	return &c, nil
}

func (s *memStore) Get(_ context.Context, id int64) (*circulars.Circular, error) {
	for _, c := range s.rows {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, circulars.ErrNotFound
}

func (s *memStore) List(_ context.Context, page pagination.PageRequest, _ circulars.Filters) (*pagination.PageResult[circulars.Circular], error) {
	s.lastPage = page
	result := pagination.NewPageResult(s.rows, len(s.rows), page.Page, page.PageSize)
	return &result, nil
}

type memBlobs struct {
	mu        sync.Mutex
	data      map[string][]byte
	types     map[string]string
	deleted   []string
	uploadErr error
}

func newBlobs() *memBlobs {
	return &memBlobs{data: map[string][]byte{}, types: map[string]string{}}
}

func (b *memBlobs) Start(*lifecycle.Coordinator) error { return nil }

func (b *memBlobs) Upload(_ context.Context, key string, r io.Reader, contentType string) error {
	if b.uploadErr != nil {
		return b.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = data
	b.types[key] = contentType
	return nil
}

func (b *memBlobs) Download(_ context.Context, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *memBlobs) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, key)
	if _, ok := b.data[key]; !ok {
		return storage.ErrNotFound
	}
	delete(b.data, key)
	return nil
}

func (b *memBlobs) Exists(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.data[key]
	return ok, nil
}

type stubExtractor struct {
	extraction circulars.Extraction
	err        error
}

func (e stubExtractor) Extract(context.Context, []byte) (circulars.Extraction, error) {
	return e.extraction, e.err
}

var pdfData = []byte("%PDF-1.4\nstub body")

const circularText = "Road cutting permits must be obtained from the ward engineer.\nContractors are eligible for renewal after inspection.\nApply before 30/06/2026."

type fixture struct {
	store *memStore
	blobs *memBlobs
	sys   circulars.System
}

func newFixture(ext circulars.Extractor) *fixture {
	f := &fixture{store: &memStore{}, blobs: newBlobs()}
	f.sys = circulars.New(
		f.store,
		f.blobs,
		ext,
		circulars.NewAnalyzer(enrichment.NewDetector()),
		discardLogger(),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
	return f
}

func okExtractor() stubExtractor {
	return stubExtractor{extraction: circulars.Extraction{Text: circularText, PageCount: 2}}
}

func TestCreate(t *testing.T) {
	f := newFixture(okExtractor())

	c, err := f.sys.Create(context.Background(), circulars.UploadCommand{Filename: "road permits.pdf", Data: pdfData})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if c.ID != 1 || c.Filename != "road permits.pdf" {
		t.Errorf("circular = %+v", c)
	}
	if c.SizeBytes != int64(len(pdfData)) || c.PageCount != 2 {
		t.Errorf("size = %d, pages = %d", c.SizeBytes, c.PageCount)
	}
	if !strings.HasPrefix(c.StorageKey, "circulars/") || !strings.HasSuffix(c.StorageKey, "/road%20permits.pdf") {
		t.Errorf("storage key = %q", c.StorageKey)
	}
	if c.Language != "en" {
		t.Errorf("language = %q", c.Language)
	}
	if len(c.Rules) != 1 || c.Rules[0].Keywords[0] != "must" {
		t.Errorf("rules = %+v", c.Rules)
	}
	if !strings.HasPrefix(c.Eligibility, "eligible for renewal") {
		t.Errorf("eligibility = %q", c.Eligibility)
	}
	if len(c.Deadlines) != 1 || c.Deadlines[0] != "30/06/2026" {
		t.Errorf("deadlines = %q", c.Deadlines)
	}

	stored, ok := f.blobs.data[c.StorageKey]
	if !ok || !bytes.Equal(stored, pdfData) {
		t.Errorf("blob not stored at %q", c.StorageKey)
	}
	if f.blobs.types[c.StorageKey] != "application/pdf" {
		t.Errorf("content type = %q", f.blobs.types[c.StorageKey])
	}
}

func TestCreateDistinctKeys(t *testing.T) {
	f := newFixture(okExtractor())
	cmd := circulars.UploadCommand{Filename: "notice.pdf", Data: pdfData}

	a, err := f.sys.Create(context.Background(), cmd)
	if err != nil {
		t.Fatal(err)
	}
	b, err := f.sys.Create(context.Background(), cmd)
	if err != nil {
		t.Fatal(err)
	}

	if a.StorageKey == b.StorageKey {
		t.Errorf("uploads share storage key %q", a.StorageKey)
	}
}

func TestCreateRejectsNonPDF(t *testing.T) {
	tests := []struct {
		name string
		cmd  circulars.UploadCommand
	}{
		{"wrong extension", circulars.UploadCommand{Filename: "notice.docx", Data: pdfData}},
		{"no extension", circulars.UploadCommand{Filename: "notice", Data: pdfData}},
		{"missing header", circulars.UploadCommand{Filename: "notice.pdf", Data: []byte("GIF89a")}},
		{"empty", circulars.UploadCommand{Filename: "notice.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(okExtractor())

			_, err := f.sys.Create(context.Background(), tt.cmd)
			if !errors.Is(err, circulars.ErrInvalidFile) {
				t.Errorf("err = %v, want ErrInvalidFile", err)
			}
			if len(f.blobs.data) != 0 || len(f.store.rows) != 0 {
				t.Error("rejected upload left state behind")
			}
		})
	}
}

func TestCreateAcceptsUppercaseExtension(t *testing.T) {
	f := newFixture(okExtractor())

	if _, err := f.sys.Create(context.Background(), circulars.UploadCommand{Filename: "NOTICE.PDF", Data: pdfData}); err != nil {
		t.Errorf("Create: %v", err)
	}
}

func TestCreateCompensates(t *testing.T) {
	insertErr := errors.New("insert failed")

	tests := []struct {
		name      string
		extractor stubExtractor
		insertErr error
		wantErr   error
	}{
		{
			name:      "extraction failure",
			extractor: stubExtractor{err: circulars.ErrExtractionFailed},
			wantErr:   circulars.ErrExtractionFailed,
		},
		{
			name:      "insert failure",
			extractor: okExtractor(),
			insertErr: insertErr,
			wantErr:   insertErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.extractor)
			f.store.insertErr = tt.insertErr

			_, err := f.sys.Create(context.Background(), circulars.UploadCommand{Filename: "notice.pdf", Data: pdfData})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}

			if len(f.blobs.data) != 0 {
				t.Errorf("blob left behind: %v", f.blobs.data)
			}
			if len(f.blobs.deleted) != 1 {
				t.Errorf("deletes = %v, want one compensating delete", f.blobs.deleted)
			}
			if len(f.store.rows) != 0 {
				t.Errorf("rows = %d, want 0", len(f.store.rows))
			}
		})
	}
}

func TestCreateUploadFailure(t *testing.T) {
	f := newFixture(okExtractor())
	f.blobs.uploadErr = errors.New("bucket unavailable")

	_, err := f.sys.Create(context.Background(), circulars.UploadCommand{Filename: "notice.pdf", Data: pdfData})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(f.store.rows) != 0 {
		t.Error("row inserted after failed upload")
	}
}

func TestFind(t *testing.T) {
	f := newFixture(okExtractor())
	created, err := f.sys.Create(context.Background(), circulars.UploadCommand{Filename: "notice.pdf", Data: pdfData})
	if err != nil {
		t.Fatal(err)
	}

	got, err := f.sys.Find(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.StorageKey != created.StorageKey {
		t.Errorf("storage key = %q, want %q", got.StorageKey, created.StorageKey)
	}

	if _, err := f.sys.Find(context.Background(), 99); !errors.Is(err, circulars.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestOpen(t *testing.T) {
	f := newFixture(okExtractor())
	created, err := f.sys.Create(context.Background(), circulars.UploadCommand{Filename: "notice.pdf", Data: pdfData})
	if err != nil {
		t.Fatal(err)
	}

	c, body, err := f.sys.Open(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer body.Close()

	data, _ := io.ReadAll(body)
	if !bytes.Equal(data, pdfData) || c.ID != created.ID {
		t.Errorf("opened %d bytes for circular %d", len(data), c.ID)
	}
}

func TestOpenMissingBlob(t *testing.T) {
	f := newFixture(okExtractor())
	created, err := f.sys.Create(context.Background(), circulars.UploadCommand{Filename: "notice.pdf", Data: pdfData})
	if err != nil {
		t.Fatal(err)
	}
	delete(f.blobs.data, created.StorageKey)

	_, _, err = f.sys.Open(context.Background(), created.ID)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want storage.ErrNotFound", err)
	}
	if circulars.MapHTTPStatus(err) != 404 {
		t.Errorf("status = %d, want 404", circulars.MapHTTPStatus(err))
	}
}

func TestListSortWhitelist(t *testing.T) {
	f := newFixture(okExtractor())

	page := pagination.PageRequest{
		Page:     0,
		PageSize: 500,
		Sort: []query.SortField{
			{Field: "UploadedAt", Descending: true},
			{Field: "1; DROP TABLE circulars"},
		},
	}
	if _, err := f.sys.List(context.Background(), page, circulars.Filters{}); err != nil {
		t.Fatalf("List: %v", err)
	}

	got := f.store.lastPage
	if got.Page != 1 || got.PageSize != 100 {
		t.Errorf("page = %d, size = %d", got.Page, got.PageSize)
	}
	if len(got.Sort) != 1 || got.Sort[0].Field != "UploadedAt" {
		t.Errorf("sort = %+v", got.Sort)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{circulars.ErrNotFound, 404},
		{storage.ErrNotFound, 404},
		{circulars.ErrDuplicate, 409},
		{circulars.ErrInvalidID, 400},
		{circulars.ErrInvalidFile, 400},
		{circulars.ErrFileTooLarge, 413},
		{circulars.ErrExtractionFailed, 422},
		{errors.New("boom"), 500},
	}

	for _, tt := range tests {
		if got := circulars.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
