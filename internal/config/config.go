// Package config loads the service configuration from an optional YAML
// file. The four axes the near-duplicate variants of the original form
// disagreed on (row count, numbering scheme, quantity mode, renderer) are
// all configuration here; there is exactly one code path.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"doform/internal/donum"
	"doform/internal/dorec"
)

// Renderer values.
const (
	RendererExcel = "excel"
	RendererNone  = "none"
)

// Admin is the bootstrapped operator account.
type Admin struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Config holds the full service configuration.
type Config struct {
	Port      int    `yaml:"port"`
	DBPath    string `yaml:"db"`
	StoreRoot string `yaml:"store_root"`

	RowCount     int                `yaml:"row_count"`
	Scheme       donum.Scheme       `yaml:"numbering_scheme"`
	QuantityMode dorec.QuantityMode `yaml:"quantity_mode"`
	Renderer     string             `yaml:"renderer"`

	Admin Admin `yaml:"admin"`
}

// Default returns the built-in configuration: a 5-row table, global
// numbering, direct quantities and the Excel renderer.
func Default() *Config {
	return &Config{
		Port:         9000,
		DBPath:       "doform.db",
		StoreRoot:    "do_data",
		RowCount:     5,
		Scheme:       donum.SchemeGlobal,
		QuantityMode: dorec.QuantityDirect,
		Renderer:     RendererExcel,
		Admin:        Admin{Username: "admin", Password: "admin"},
	}
}

// Load returns the defaults overlaid with the YAML file at path. An empty
// path means defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enum fields and ranges.
func (c *Config) Validate() error {
	if c.RowCount <= 0 {
		return fmt.Errorf("config: row_count must be positive, got %d", c.RowCount)
	}
	if !c.Scheme.Valid() {
		return fmt.Errorf("config: numbering_scheme must be %q or %q, got %q",
			donum.SchemeGlobal, donum.SchemePerDay, c.Scheme)
	}
	if !c.QuantityMode.Valid() {
		return fmt.Errorf("config: quantity_mode must be %q or %q, got %q",
			dorec.QuantityDirect, dorec.QuantityDerived, c.QuantityMode)
	}
	if c.Renderer != RendererExcel && c.Renderer != RendererNone {
		return fmt.Errorf("config: renderer must be %q or %q, got %q",
			RendererExcel, RendererNone, c.Renderer)
	}
	if c.Admin.Username == "" || c.Admin.Password == "" {
		return fmt.Errorf("config: admin username and password are required")
	}
	return nil
}
