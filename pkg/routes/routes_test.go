package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/civicdoc/pkg/openapi"
	"github.com/JaimeStill/civicdoc/pkg/routes"
)

func TestRegisterHandlers(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/complaints",
		Routes: []routes.Route{
			{
				Method:  "GET",
				Pattern: "",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				},
			},
			{
				Method:  "GET",
				Pattern: "/{id}",
				Handler: func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				},
			},
		},
	})

	tests := []struct {
		name   string
		method string
		path   string
		wantOK bool
	}{
		{"list complaints", "GET", "/complaints", true},
		{"get complaint", "GET", "/complaints/123", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			mux.ServeHTTP(rec, req)

			if tt.wantOK && rec.Code != http.StatusOK {
				t.Errorf("status: got %d, want 200", rec.Code)
			}
		})
	}
}

func TestNestedGroups(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/api",
		Children: []routes.Group{
			{
				Prefix: "/v1",
				Routes: []routes.Route{
					{
						Method:  "GET",
						Pattern: "/complaints",
						Handler: func(w http.ResponseWriter, r *http.Request) {
							w.WriteHeader(http.StatusOK)
						},
					},
				},
			},
		},
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/complaints", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("nested route: got %d, want 200", rec.Code)
	}
}

func TestDocument(t *testing.T) {
	noop := func(w http.ResponseWriter, r *http.Request) {}

	group := routes.Group{
		Prefix: "/circulars",
		Tags:   []string{"Circulars"},
		Schemas: map[string]*openapi.Schema{
			"Circular": {Type: "object"},
		},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: noop, OpenAPI: &openapi.Operation{Summary: "List circulars"}},
			{Method: "GET", Pattern: "/{id}", Handler: noop, OpenAPI: &openapi.Operation{Summary: "Find circular", Tags: []string{"Custom"}}},
			{Method: "PATCH", Pattern: "/{id}", Handler: noop, OpenAPI: &openapi.Operation{Summary: "Patch circular"}},
			{Method: "GET", Pattern: "/{key...}", Handler: noop, OpenAPI: &openapi.Operation{Summary: "By key"}},
			{Method: "DELETE", Pattern: "/{id}", Handler: noop},
		},
	}

	spec := openapi.NewSpec("test", "1.0.0")
	routes.Document(spec, "", group)

	list := spec.Paths["/circulars"]
	if list == nil || list.Get == nil {
		t.Fatal("missing GET /circulars")
	}
	if len(list.Get.Tags) != 1 || list.Get.Tags[0] != "Circulars" {
		t.Errorf("group tags not applied: %v", list.Get.Tags)
	}

	item := spec.Paths["/circulars/{id}"]
	if item == nil || item.Get == nil || item.Patch == nil {
		t.Fatal("missing operations on /circulars/{id}")
	}
	if item.Get.Tags[0] != "Custom" {
		t.Errorf("route tags overridden: %v", item.Get.Tags)
	}
	if item.Delete != nil {
		t.Error("undocumented route should be left out")
	}

	if _, ok := spec.Paths["/circulars/{key}"]; !ok {
		t.Error("wildcard pattern should become a path template")
	}
	if _, ok := spec.Components.Schemas["Circular"]; !ok {
		t.Error("group schemas should be added to components")
	}
}
