package documents

import (
	"time"

	"github.com/JaimeStill/civicdoc/internal/circulars"
	"github.com/JaimeStill/civicdoc/internal/complaints"
)

// Kind names a generated document type.
type Kind string

const (
	KindRTI               Kind = "rti"
	KindSchemeApplication Kind = "scheme_application"
	KindOfficialNotice    Kind = "official_notice"
	KindWorkOrder         Kind = "work_order"
)

// Text used when a referenced record is unavailable.
const (
	PlaceholderDepartment    = "[Department Name]"
	PlaceholderOfficeAddress = "[Office Address]"
	PlaceholderMunicipality  = "[City/Municipality]"
	PlaceholderCallerContact = "N/A (Contact via Complaint System)"
	PlaceholderNoticeBody    = "No specific details provided for this notice. Please add content or link to a complaint/circular."
)

// RTIRequest asks for a Right to Information application.
type RTIRequest struct {
	ApplicantName     string `json:"applicant_name"`
	Address           string `json:"address"`
	InformationSought string `json:"information_sought"`
	ComplaintID       *int64 `json:"complaint_id,omitempty"`
	CircularID        *int64 `json:"circular_id,omitempty"`
}

// SchemeApplicationRequest asks for an application to a circular's scheme.
type SchemeApplicationRequest struct {
	ApplicantName     string   `json:"applicant_name"`
	Address           string   `json:"address"`
	SchemeName        string   `json:"scheme_name"`
	RequiredDocuments []string `json:"required_documents,omitempty"`
	CircularID        *int64   `json:"circular_id,omitempty"`
}

// NoticeRequest asks for an official notice. Body is optional when a
// complaint or circular is referenced.
type NoticeRequest struct {
	Recipient   string `json:"recipient"`
	Sender      string `json:"sender"`
	Subject     string `json:"subject"`
	Body        string `json:"body,omitempty"`
	ComplaintID *int64 `json:"complaint_id,omitempty"`
	CircularID  *int64 `json:"circular_id,omitempty"`
}

// WorkOrderRequest asks for a work order. Empty fields are filled from the
// referenced complaint.
type WorkOrderRequest struct {
	ComplaintID        *int64            `json:"complaint_id,omitempty"`
	AssignedDepartment string            `json:"assigned_department,omitempty"`
	TaskDescription    string            `json:"task_description,omitempty"`
	CallerName         string            `json:"caller_name,omitempty"`
	CallerContact      string            `json:"caller_contact,omitempty"`
	EstimatedCost      *float64          `json:"estimated_cost,omitempty"`
	SuggestedActions   []string          `json:"suggested_actions,omitempty"`
	Status             complaints.Status `json:"status,omitempty"`
}

// WorkOrder is a generated work order with its rendered HTML.
type WorkOrder struct {
	ComplaintID        *int64            `json:"complaint_id,omitempty"`
	AssignedDepartment string            `json:"assigned_department"`
	TaskDescription    string            `json:"task_description"`
	CallerName         string            `json:"caller_name"`
	CallerContact      string            `json:"caller_contact"`
	EstimatedCost      *float64          `json:"estimated_cost,omitempty"`
	SuggestedActions   []string          `json:"suggested_actions"`
	Status             complaints.Status `json:"status"`
	Municipality       string            `json:"municipality"`
	GeneratedAt        time.Time         `json:"generated_at"`
	GeneratedHTML      string            `json:"generated_html"`
}

type rtiView struct {
	RTIRequest
	Department      string
	OfficeAddress   string
	CircularSummary string
	Rules           []circulars.Rule
	GeneratedAt     time.Time
}

type schemeView struct {
	SchemeApplicationRequest
	CircularSummary string
	Eligibility     string
	Deadlines       []string
	GeneratedAt     time.Time
}

type noticeView struct {
	NoticeRequest
	Municipality string
	GeneratedAt  time.Time
}
