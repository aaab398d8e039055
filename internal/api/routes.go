package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/civicdoc/internal/config"
	"github.com/JaimeStill/civicdoc/pkg/openapi"
	"github.com/JaimeStill/civicdoc/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) error {
	groups := []routes.Group{
		domain.Users.Handler().Routes(),
		domain.Complaints.Handler().Routes(),
		domain.Circulars.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Documents.Handler().Routes(),
	}

	routes.Register(mux, groups...)

	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	routes.Document(spec, "", groups...)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	return nil
}
