package documents

import "github.com/JaimeStill/civicdoc/pkg/openapi"

var referenceID = &openapi.Schema{Type: "integer", Format: "int64"}

var schemas = map[string]*openapi.Schema{
	"RTIRequest": {
		Type:     "object",
		Required: []string{"applicant_name", "address", "information_sought"},
		Properties: map[string]*openapi.Schema{
			"applicant_name":     {Type: "string"},
			"address":            {Type: "string"},
			"information_sought": {Type: "string"},
			"complaint_id":       referenceID,
			"circular_id":        referenceID,
		},
	},
	"SchemeApplicationRequest": {
		Type:     "object",
		Required: []string{"applicant_name", "address", "scheme_name"},
		Properties: map[string]*openapi.Schema{
			"applicant_name":     {Type: "string"},
			"address":            {Type: "string"},
			"scheme_name":        {Type: "string"},
			"required_documents": {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"circular_id":        referenceID,
		},
	},
	"NoticeRequest": {
		Type:     "object",
		Required: []string{"recipient", "sender", "subject"},
		Properties: map[string]*openapi.Schema{
			"recipient":    {Type: "string"},
			"sender":       {Type: "string"},
			"subject":      {Type: "string"},
			"body":         {Type: "string", Description: "Composed from referenced records when omitted"},
			"complaint_id": referenceID,
			"circular_id":  referenceID,
		},
	},
	"WorkOrderRequest": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"complaint_id":        referenceID,
			"assigned_department": {Type: "string"},
			"task_description":    {Type: "string"},
			"caller_name":         {Type: "string"},
			"caller_contact":      {Type: "string"},
			"estimated_cost":      {Type: "number"},
			"suggested_actions":   {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"status":              {Type: "string", Example: "pending"},
		},
	},
	"WorkOrder": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"complaint_id":        referenceID,
			"assigned_department": {Type: "string"},
			"task_description":    {Type: "string"},
			"caller_name":         {Type: "string"},
			"caller_contact":      {Type: "string"},
			"estimated_cost":      {Type: "number"},
			"suggested_actions":   {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"status":              {Type: "string"},
			"municipality":        {Type: "string"},
			"generated_at":        {Type: "string", Format: "date-time"},
			"generated_html":      {Type: "string"},
		},
	},
}

var htmlResponse = &openapi.Response{
	Description: "Rendered document",
	Content: map[string]*openapi.MediaType{
		"text/html": {Schema: &openapi.Schema{Type: "string"}},
	},
}

func htmlOperation(summary, schema string) *openapi.Operation {
	return &openapi.Operation{
		Summary:     summary,
		RequestBody: openapi.RequestBodyJSON(schema, true),
		Security:    openapi.BearerAuth,
		Responses: map[int]*openapi.Response{
			200: htmlResponse,
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			403: openapi.ResponseRef("Forbidden"),
		},
	}
}

var ops = struct {
	rti       *openapi.Operation
	scheme    *openapi.Operation
	notice    *openapi.Operation
	workOrder *openapi.Operation
}{
	rti:    htmlOperation("Generate RTI application", "RTIRequest"),
	scheme: htmlOperation("Generate scheme application", "SchemeApplicationRequest"),
	notice: htmlOperation("Generate official notice", "NoticeRequest"),
	workOrder: &openapi.Operation{
		Summary:     "Generate work order",
		Parameters:  []*openapi.Parameter{openapi.QueryParam("format", "string", "png for an image rendering", false)},
		RequestBody: openapi.RequestBodyJSON("WorkOrderRequest", true),
		Security:    openapi.BearerAuth,
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Work order",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: openapi.SchemaRef("WorkOrder")},
					"image/png":        {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
				},
			},
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			403: openapi.ResponseRef("Forbidden"),
		},
	},
}
