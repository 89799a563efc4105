package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/knowgraph/knowgraph/internal/model"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if len(cfg.Markers) != 2 || cfg.Markers[0] != "knowgraph" {
		t.Errorf("markers = %v", cfg.Markers)
	}
	if len(cfg.Statuses) != 4 {
		t.Errorf("statuses = %v", cfg.Statuses)
	}
	if cfg.Validation.RequiredSeverity != string(model.SeverityWarning) {
		t.Errorf("severity = %q", cfg.Validation.RequiredSeverity)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Markers) != 2 {
		t.Errorf("markers = %v", cfg.Markers)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`markers:
  - meta
exclude:
  - vendor/**
db_path: /tmp/graph.db
validation:
  required_severity: error
`)
	if err := os.WriteFile(filepath.Join(dir, "knowgraph.yaml"), content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Markers) != 1 || cfg.Markers[0] != "meta" {
		t.Errorf("markers = %v", cfg.Markers)
	}
	if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "vendor/**" {
		t.Errorf("exclude = %v", cfg.Exclude)
	}
	if cfg.DBPath != "/tmp/graph.db" {
		t.Errorf("db_path = %q", cfg.DBPath)
	}
	// Unset keys keep their defaults.
	if len(cfg.Statuses) != 4 {
		t.Errorf("statuses = %v", cfg.Statuses)
	}
	if len(cfg.Validation.RequiredFields) != 4 {
		t.Errorf("required fields = %v", cfg.Validation.RequiredFields)
	}
	if cfg.Validation.RequiredSeverity != string(model.SeverityError) {
		t.Errorf("severity = %q", cfg.Validation.RequiredSeverity)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowgraph.yaml")
	if err := os.WriteFile(path, []byte("markers: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestEngineSeverity(t *testing.T) {
	cfg := Default()
	cfg.Validation.RequiredSeverity = "error"
	cfg.Validation.RequiredFields = []string{"owner"}
	cfg.Statuses = []string{"live"}

	engine := cfg.Engine()
	issues := engine.Evaluate(&model.ParseResult{
		Source: "a.go",
		Entities: []*model.Entity{
			{Name: "x", Status: "stable"},
		},
	})
	// Missing owner escalates to error; "stable" is outside the custom enum.
	if len(issues) != 2 {
		t.Fatalf("issues = %+v", issues)
	}
	for _, i := range issues {
		if i.Severity != model.SeverityError {
			t.Errorf("issue = %+v", i)
		}
	}
}

func TestEngineUnknownSeverityFallsBackToWarning(t *testing.T) {
	cfg := Default()
	cfg.Validation.RequiredSeverity = "fatal"
	cfg.Validation.RequiredFields = []string{"owner"}

	issues := cfg.Engine().Evaluate(&model.ParseResult{
		Source:   "a.go",
		Entities: []*model.Entity{{Name: "x"}},
	})
	if len(issues) != 1 || issues[0].Severity != model.SeverityWarning {
		t.Errorf("issues = %+v", issues)
	}
}
