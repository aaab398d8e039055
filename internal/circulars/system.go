package circulars

import (
	"context"
	"io"

	"github.com/JaimeStill/civicdoc/pkg/pagination"
)

// System defines circular ingestion and retrieval.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Create stores the PDF and its analysis. A failed upload, extraction,
	// or insert leaves no blob behind.
	Create(ctx context.Context, cmd UploadCommand) (*Circular, error)
	Find(ctx context.Context, id int64) (*Circular, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Circular], error)
	// Open returns the circular and a reader over its original PDF. The caller closes the reader.
	Open(ctx context.Context, id int64) (*Circular, io.ReadCloser, error)
}
