package complaints

import (
	"github.com/JaimeStill/civicdoc/internal/enrichment"
	"github.com/JaimeStill/civicdoc/pkg/openapi"
)

var stringList = &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}

var schemas = map[string]*openapi.Schema{
	"Complaint": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":                 {Type: "integer", Format: "int64"},
			"citizen_id":         {Type: "string"},
			"description":        {Type: "string"},
			"language":           {Type: "string", Example: "en"},
			"category":           {Type: "string", Enum: categoryEnum()},
			"urgency_score":      {Type: "integer", Description: "0 to 100, null for legacy records"},
			"department":         {Type: "string", Example: "PWD"},
			"estimated_cost":     {Type: "number"},
			"required_resources": stringList,
			"suggested_actions":  stringList,
			"tools_required":     stringList,
			"safety_notes":       stringList,
			"sla_hours":          {Type: "integer"},
			"status":             {Type: "string", Enum: statusEnum()},
			"created_at":         {Type: "string", Format: "date-time"},
		},
	},
	"CreateComplaint": {
		Type:     "object",
		Required: []string{"description"},
		Properties: map[string]*openapi.Schema{
			"description": {Type: "string", Example: "Huge pothole on Main Street, urgent repair needed"},
			"language":    {Type: "string", Description: "BCP 47 tag; detected when omitted"},
		},
	},
	"ComplaintStatus": {
		Type:     "object",
		Required: []string{"status"},
		Properties: map[string]*openapi.Schema{
			"status": {Type: "string", Enum: statusEnum()},
		},
	},
	"ComplaintPage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        {Type: "array", Items: openapi.SchemaRef("Complaint")},
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
		},
	},
}

var ops = struct {
	create       *openapi.Operation
	list         *openapi.Operation
	sorted       *openapi.Operation
	find         *openapi.Operation
	updateStatus *openapi.Operation
}{
	create: &openapi.Operation{
		Summary:     "Submit complaint",
		Description: "Enriches and stores a complaint for the calling citizen.",
		Parameters:  []*openapi.Parameter{openapi.HeaderParam(IdempotencyHeader, "Client key for safe retries")},
		RequestBody: openapi.RequestBodyJSON("CreateComplaint", true),
		Security:    openapi.BearerAuth,
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Previously submitted complaint", "Complaint"),
			201: openapi.ResponseJSON("Complaint created", "Complaint"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			403: openapi.ResponseRef("Forbidden"),
			409: openapi.ResponseRef("Conflict"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
	list: &openapi.Operation{
		Summary: "List complaints",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search description and department", false),
			openapi.QueryParam("sort", "string", "Sort fields, e.g. -UrgencyScore,CreatedAt", false),
			openapi.QueryParam("status", "string", "Comma-separated statuses", false),
			openapi.QueryParam("category", "string", "Category", false),
			openapi.QueryParam("department", "string", "Department contains", false),
			openapi.QueryParam("language", "string", "Language code", false),
			openapi.QueryParam("citizen_id", "string", "Submitting citizen", false),
			openapi.QueryParam("min_urgency", "integer", "Lowest urgency score, inclusive", false),
			openapi.QueryParam("max_urgency", "integer", "Highest urgency score, inclusive", false),
		},
		Security: openapi.BearerAuth,
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Complaint page", "ComplaintPage"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			403: openapi.ResponseRef("Forbidden"),
		},
	},
	sorted: &openapi.Operation{
		Summary:  "List complaints by urgency",
		Security: openapi.BearerAuth,
		Responses: map[int]*openapi.Response{
			200: {
				Description: "All complaints, most urgent first",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Complaint")}},
				},
			},
			401: openapi.ResponseRef("Unauthorized"),
			403: openapi.ResponseRef("Forbidden"),
		},
	},
	find: &openapi.Operation{
		Summary:    "Get complaint",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Complaint ID")},
		Security:   openapi.BearerAuth,
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Complaint", "Complaint"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	updateStatus: &openapi.Operation{
		Summary:     "Update complaint status",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Complaint ID")},
		RequestBody: openapi.RequestBodyJSON("ComplaintStatus", true),
		Security:    openapi.BearerAuth,
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated complaint", "Complaint"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			403: openapi.ResponseRef("Forbidden"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

func statusEnum() []any {
	var out []any
	for _, s := range Statuses() {
		out = append(out, string(s))
	}
	return out
}

func categoryEnum() []any {
	var out []any
	for _, c := range enrichment.Categories() {
		out = append(out, string(c))
	}
	return out
}
