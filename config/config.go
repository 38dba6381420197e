// Package config resolves orchestrator configuration from the environment.
// All variables use the BRIDGE_ prefix, e.g. BRIDGE_STRUCTURAL_AGENT_URL.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the resolved endpoints and timeouts for the four remote
// agents and the shared transport.
type Config struct {
	// StructuralAgentURL is the base URL of the SQL-style structural data agent.
	StructuralAgentURL string `envconfig:"STRUCTURAL_AGENT_URL" default:"http://localhost:10008"`

	// VisualizationAgentURL is the base URL of the code-execution/chart agent.
	VisualizationAgentURL string `envconfig:"VISUALIZATION_AGENT_URL" default:"http://localhost:10009"`

	// CatalogAgentURL is the base URL of the catalog/standards agent.
	CatalogAgentURL string `envconfig:"CATALOG_AGENT_URL" default:"http://localhost:10010"`

	// SearchAgentURL is the base URL of the web-grounded costing agent.
	SearchAgentURL string `envconfig:"SEARCH_AGENT_URL" default:"http://localhost:10011"`

	// HTTPTimeout bounds each remote agent call on the shared transport.
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"60s"`

	// DiscoveryTimeout bounds each agent-card handshake.
	DiscoveryTimeout time.Duration `envconfig:"DISCOVERY_TIMEOUT" default:"10s"`

	// Environment labels emitted telemetry (e.g. "dev", "prod").
	Environment string `envconfig:"ENVIRONMENT" default:"dev"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("bridge", &cfg); err != nil {
		return nil, fmt.Errorf("config: process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for completeness and sane ranges.
func (c *Config) Validate() error {
	return NewValidator().
		RequireURL("structural_agent_url", c.StructuralAgentURL).
		RequireURL("visualization_agent_url", c.VisualizationAgentURL).
		RequireURL("catalog_agent_url", c.CatalogAgentURL).
		RequireURL("search_agent_url", c.SearchAgentURL).
		RequirePositiveDuration("http_timeout", c.HTTPTimeout).
		RequirePositiveDuration("discovery_timeout", c.DiscoveryTimeout).
		Err()
}
