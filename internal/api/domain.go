package api

import (
	"fmt"

	"github.com/JaimeStill/civicdoc/internal/circulars"
	"github.com/JaimeStill/civicdoc/internal/complaints"
	"github.com/JaimeStill/civicdoc/internal/config"
	"github.com/JaimeStill/civicdoc/internal/documents"
	"github.com/JaimeStill/civicdoc/internal/enrichment"
	"github.com/JaimeStill/civicdoc/internal/users"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Complaints complaints.System
	Circulars  circulars.System
	Documents  documents.System
	Users      users.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	rules, err := enrichment.LoadRules(cfg.Enrichment.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("load enrichment rules: %w", err)
	}

	codec, err := complaints.NewListCodec(cfg.Enrichment.ListEncoding)
	if err != nil {
		return nil, err
	}

	complaintsSystem := complaints.New(
		complaints.NewStore(runtime.Database.Connection(), codec),
		enrichment.NewPipeline(rules, runtime.Logger),
		runtime.Logger,
		runtime.Pagination,
		complaints.WithEvents(runtime.Events),
		complaints.WithIdempotency(runtime.Idempotency),
	)

	circularsSystem := circulars.New(
		circulars.NewStore(runtime.Database.Connection()),
		runtime.Storage,
		circulars.NewPDFExtractor(),
		circulars.NewAnalyzer(enrichment.NewDetector()),
		runtime.Logger,
		runtime.Pagination,
	)

	documentsSystem, err := documents.New(
		complaintsSystem,
		circularsSystem,
		runtime.Logger,
		cfg.Documents.Municipality,
	)
	if err != nil {
		return nil, err
	}

	usersSystem := users.New(
		users.NewStore(runtime.Database.Connection()),
		runtime.Tokens,
		runtime.Logger,
		users.WithAdminSignup(cfg.Auth.AllowAdminSignup),
	)

	return &Domain{
		Complaints: complaintsSystem,
		Circulars:  circularsSystem,
		Documents:  documentsSystem,
		Users:      usersSystem,
	}, nil
}
