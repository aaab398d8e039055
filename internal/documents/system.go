package documents

import "context"

// System defines document generation. Referenced complaints and circulars
// that cannot be found are rendered as placeholders, not errors.
type System interface {
	Handler() *Handler

	RTI(ctx context.Context, req RTIRequest) ([]byte, error)
	SchemeApplication(ctx context.Context, req SchemeApplicationRequest) ([]byte, error)
	OfficialNotice(ctx context.Context, req NoticeRequest) ([]byte, error)
	WorkOrder(ctx context.Context, req WorkOrderRequest) (*WorkOrder, error)
	// WorkOrderImage renders the work order as a PNG.
	WorkOrderImage(ctx context.Context, req WorkOrderRequest) ([]byte, error)
}
