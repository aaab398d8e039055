package complaints

import (
	"context"

	"github.com/JaimeStill/civicdoc/pkg/pagination"
)

// System defines the complaint intake and management contract.
type System interface {
	Handler() *Handler

	// Create validates cmd, enriches it, and persists a pending complaint.
	// Nothing is stored when any enrichment stage fails.
	Create(ctx context.Context, cmd CreateCommand) (*Complaint, error)
	// Submit is Create guarded by an idempotency key. A repeated key returns
	// the original complaint with replayed set to true.
	Submit(ctx context.Context, key string, cmd CreateCommand) (c *Complaint, replayed bool, err error)
	Find(ctx context.Context, id int64) (*Complaint, error)
	ListAll(ctx context.Context) ([]Complaint, error)
	// Sorted returns every complaint ordered by urgency, highest first.
	Sorted(ctx context.Context) ([]Complaint, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Complaint, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Complaint], error)
}
