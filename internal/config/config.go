// Package config loads knowgraph.yaml: marker tags, the status enumeration,
// validation severities, and indexing include/exclude patterns.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/knowgraph/knowgraph/internal/model"
	"github.com/knowgraph/knowgraph/internal/validate"
)

// Config represents the knowgraph configuration.
type Config struct {
	// Markers are the annotation marker tags recognized in comments.
	Markers []string `yaml:"markers"`
	// Statuses is the allowed lifecycle status enumeration.
	Statuses []string `yaml:"statuses"`
	// Include/Exclude are glob patterns applied to relative paths during
	// discovery. An empty include list means every supported file.
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
	// DBPath overrides the default database location.
	DBPath     string           `yaml:"db_path"`
	Validation ValidationConfig `yaml:"validation"`
}

// ValidationConfig tunes the baseline rule set.
type ValidationConfig struct {
	RequiredFields []string `yaml:"required_fields"`
	// RequiredSeverity is "warning" or "error" for missing required fields.
	RequiredSeverity string `yaml:"required_severity"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Markers:  []string{"knowgraph", "codegraph"},
		Statuses: validate.DefaultStatuses(),
		Validation: ValidationConfig{
			RequiredFields:   validate.DefaultRequiredFields(),
			RequiredSeverity: string(model.SeverityWarning),
		},
	}
}

// Load reads configuration from file, falling back to defaults.
// If configPath is empty, it looks for knowgraph.yaml in the current
// directory. Values present in the file replace defaults (no merging).
func Load(configPath string) (*Config, error) {
	defaults := Default()

	if configPath == "" {
		configPath = "knowgraph.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults, nil
		}
		return nil, err
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, err
	}

	defaults.Merge(&fileCfg)
	return defaults, nil
}

// LoadFromDir loads configuration from the specified directory.
func LoadFromDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, "knowgraph.yaml"))
}

// Merge combines another config into this one, with other taking precedence.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if len(other.Markers) > 0 {
		c.Markers = other.Markers
	}
	if len(other.Statuses) > 0 {
		c.Statuses = other.Statuses
	}
	if len(other.Include) > 0 {
		c.Include = other.Include
	}
	if len(other.Exclude) > 0 {
		c.Exclude = other.Exclude
	}
	if other.DBPath != "" {
		c.DBPath = other.DBPath
	}
	if len(other.Validation.RequiredFields) > 0 {
		c.Validation.RequiredFields = other.Validation.RequiredFields
	}
	if other.Validation.RequiredSeverity != "" {
		c.Validation.RequiredSeverity = other.Validation.RequiredSeverity
	}
}

// Engine builds the validation engine described by this config.
func (c *Config) Engine() *validate.Engine {
	severity := model.Severity(c.Validation.RequiredSeverity)
	if severity != model.SeverityError {
		severity = model.SeverityWarning
	}
	return validate.NewEngine(
		&validate.RequiredFieldsRule{Fields: c.Validation.RequiredFields, Severity: severity},
		&validate.StatusRule{Allowed: c.Statuses},
	)
}
