package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/civicdoc/internal/complaints"
)

const (
	EnvEnrichmentRulesFile    = "CIVICDOC_ENRICHMENT_RULES_FILE"
	EnvEnrichmentListEncoding = "CIVICDOC_ENRICHMENT_LIST_ENCODING"
	EnvDocumentsMunicipality  = "CIVICDOC_DOCUMENTS_MUNICIPALITY"
)

// EnrichmentConfig selects the enrichment rule tables and how complaint list
// fields are stored. An empty RulesFile uses the embedded defaults.
type EnrichmentConfig struct {
	RulesFile    string `toml:"rules_file"`
	ListEncoding string `toml:"list_encoding"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EnrichmentConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EnrichmentConfig) Merge(overlay *EnrichmentConfig) {
	if overlay.RulesFile != "" {
		c.RulesFile = overlay.RulesFile
	}
	if overlay.ListEncoding != "" {
		c.ListEncoding = overlay.ListEncoding
	}
}

func (c *EnrichmentConfig) loadDefaults() {
	if c.ListEncoding == "" {
		c.ListEncoding = complaints.EncodingJSON
	}
}

func (c *EnrichmentConfig) loadEnv() {
	if v := os.Getenv(EnvEnrichmentRulesFile); v != "" {
		c.RulesFile = v
	}
	if v := os.Getenv(EnvEnrichmentListEncoding); v != "" {
		c.ListEncoding = v
	}
}

func (c *EnrichmentConfig) validate() error {
	if _, err := complaints.NewListCodec(c.ListEncoding); err != nil {
		return err
	}
	if c.RulesFile != "" {
		if _, err := os.Stat(c.RulesFile); err != nil {
			return fmt.Errorf("rules_file: %w", err)
		}
	}
	return nil
}

// DocumentsConfig holds settings for generated civic documents.
type DocumentsConfig struct {
	Municipality string `toml:"municipality"`
}

// Finalize applies defaults and environment variable overrides.
func (c *DocumentsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *DocumentsConfig) Merge(overlay *DocumentsConfig) {
	if overlay.Municipality != "" {
		c.Municipality = overlay.Municipality
	}
}

func (c *DocumentsConfig) loadDefaults() {
	if c.Municipality == "" {
		c.Municipality = "[City/Municipality]"
	}
}

func (c *DocumentsConfig) loadEnv() {
	if v := os.Getenv(EnvDocumentsMunicipality); v != "" {
		c.Municipality = v
	}
}
