package users

import "github.com/JaimeStill/civicdoc/pkg/openapi"

var schemas = map[string]*openapi.Schema{
	"User": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":         {Type: "integer", Format: "int64"},
			"email":      {Type: "string", Format: "email"},
			"role":       {Type: "string", Enum: []any{"citizen", "department_admin"}},
			"is_active":  {Type: "boolean"},
			"created_at": {Type: "string", Format: "date-time"},
		},
	},
	"Register": {
		Type:     "object",
		Required: []string{"email", "password"},
		Properties: map[string]*openapi.Schema{
			"email":    {Type: "string", Format: "email"},
			"password": {Type: "string", Description: "8 to 72 bytes"},
			"role":     {Type: "string", Enum: []any{"citizen", "department_admin"}, Default: "citizen"},
		},
	},
	"Login": {
		Type:     "object",
		Required: []string{"email", "password"},
		Properties: map[string]*openapi.Schema{
			"email":    {Type: "string", Format: "email"},
			"password": {Type: "string"},
		},
	},
	"Token": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"access_token": {Type: "string"},
			"token_type":   {Type: "string", Example: "bearer"},
			"expires_in":   {Type: "integer", Description: "Seconds until expiry"},
		},
	},
}

var ops = struct {
	register *openapi.Operation
	login    *openapi.Operation
	me       *openapi.Operation
}{
	register: &openapi.Operation{
		Summary:     "Register account",
		RequestBody: openapi.RequestBodyJSON("Register", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Account created", "User"),
			400: openapi.ResponseRef("BadRequest"),
			403: openapi.ResponseRef("Forbidden"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	login: &openapi.Operation{
		Summary:     "Issue access token",
		RequestBody: openapi.RequestBodyJSON("Login", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Access token", "Token"),
			401: openapi.ResponseRef("Unauthorized"),
			403: openapi.ResponseRef("Forbidden"),
		},
	},
	me: &openapi.Operation{
		Summary:  "Current account",
		Security: openapi.BearerAuth,
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Account", "User"),
			401: openapi.ResponseRef("Unauthorized"),
		},
	},
}
