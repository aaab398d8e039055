package circulars

import "github.com/JaimeStill/civicdoc/pkg/openapi"

var schemas = map[string]*openapi.Schema{
	"Circular": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":              {Type: "integer", Format: "int64"},
			"filename":        {Type: "string"},
			"storage_key":     {Type: "string"},
			"size_bytes":      {Type: "integer", Format: "int64"},
			"page_count":      {Type: "integer"},
			"content_summary": {Type: "string"},
			"language":        {Type: "string"},
			"extracted_rules": {
				Type: "array",
				Items: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"rule_text": {Type: "string"},
						"keywords":  {Type: "array", Items: &openapi.Schema{Type: "string"}},
					},
				},
			},
			"eligibility_criteria": {Type: "string"},
			"deadlines":            {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"uploaded_at":          {Type: "string", Format: "date-time"},
		},
	},
	"CircularPage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        {Type: "array", Items: openapi.SchemaRef("Circular")},
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
		},
	},
}

var ops = struct {
	upload   *openapi.Operation
	list     *openapi.Operation
	find     *openapi.Operation
	download *openapi.Operation
}{
	upload: &openapi.Operation{
		Summary:  "Upload circular",
		Security: openapi.BearerAuth,
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {
					Schema: &openapi.Schema{
						Type:     "object",
						Required: []string{"file"},
						Properties: map[string]*openapi.Schema{
							"file": {Type: "string", Format: "binary", Description: "PDF circular"},
						},
					},
				},
			},
		},
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Circular ingested", "Circular"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			403: openapi.ResponseRef("Forbidden"),
			413: {Description: "File exceeds maximum upload size"},
			422: {Description: "Text extraction failed"},
		},
	},
	list: &openapi.Operation{
		Summary: "List circulars",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search filename and summary", false),
			openapi.QueryParam("sort", "string", "Sort fields, e.g. -UploadedAt", false),
			openapi.QueryParam("filename", "string", "Filename contains", false),
			openapi.QueryParam("language", "string", "Language code", false),
		},
		Security: openapi.BearerAuth,
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Circular page", "CircularPage"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
	find: &openapi.Operation{
		Summary:    "Get circular",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Circular ID")},
		Security:   openapi.BearerAuth,
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Circular", "Circular"),
			400: openapi.ResponseRef("BadRequest"),
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	download: &openapi.Operation{
		Summary:    "Download circular PDF",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Circular ID")},
		Security:   openapi.BearerAuth,
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Original PDF",
				Content: map[string]*openapi.MediaType{
					"application/pdf": {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
				},
			},
			401: openapi.ResponseRef("Unauthorized"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}
