package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if !cfg.Datestamp.Enabled || cfg.Datestamp.Placement != "dirs" {
		t.Fatalf("unexpected datestamp defaults: %+v", cfg.Datestamp)
	}
}

func TestEnsureCreatesAndLoadsConfig(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, ProjectDir, ConfigFile)
	cfg, err := Ensure(path)
	if err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if cfg.Version != SchemaVersion {
		t.Fatalf("expected schema version %d, got %d", SchemaVersion, cfg.Version)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file should exist: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Paths.Gitignore != ".gitignore" || !loaded.Behavior.AutoCreate {
		t.Fatalf("defaults did not survive a round trip: %+v", loaded)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	doc := `version = 1

[paths]
root = "data"
outputs = "results"

[datestamp]
placement = "files"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Paths.Root != "data" || cfg.Paths.Outputs != "results" {
		t.Fatalf("paths not loaded: %+v", cfg.Paths)
	}
	if cfg.Datestamp.Placement != "files" {
		t.Fatalf("placement not loaded: %q", cfg.Datestamp.Placement)
	}
	if !cfg.Datestamp.Enabled || !cfg.Behavior.AutoCreate || !cfg.Ledger.Persist {
		t.Fatalf("missing boolean keys should keep defaults: %+v", cfg)
	}
	if cfg.Datestamp.Format != "%Y_%m_%d" {
		t.Fatalf("format default lost: %q", cfg.Datestamp.Format)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code string
	}{
		{"bad toml", "version = [", "CFG_PARSE"},
		{"bad version", "version = 7", "CFG_VERSION"},
		{"bad placement", "[datestamp]\nplacement = \"sideways\"", "CFG_DATESTAMP"},
		{"bad log format", "[logging]\nformat = \"xml\"", "CFG_LOGGING"},
		{"bad requires", "requires = \"not-a-version\"", "CFG_REQUIRES"},
		{"bad template root", "[[templates]]\nname = \"x\"\nroot = \"nowhere\"", "CFG_TEMPLATE"},
		{"template with both shapes", "[[templates]]\nname = \"x\"\npattern = [\"a\"]\nfiles = { a = \"a.txt\" }", "CFG_TEMPLATE"},
		{"duplicate template", "[[templates]]\nname = \"x\"\n[[templates]]\nname = \"x\"", "CFG_TEMPLATE"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.doc), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected error for %q", tc.doc)
			}
			if !strings.Contains(err.Error(), tc.code) {
				t.Fatalf("expected %s in error, got %v", tc.code, err)
			}
		})
	}
}

func TestTemplatesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	off := false
	if err := AddTemplate(&cfg, TemplateConfig{
		Name:      "embedding",
		Under:     []string{"embeddings"},
		Pattern:   []string{"{run}", "{name}"},
		Ext:       ".npy",
		Datestamp: &off,
	}); err != nil {
		t.Fatalf("add template: %v", err)
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, ok := FindTemplate(loaded, "embedding")
	if !ok {
		t.Fatal("template lost in round trip")
	}
	if got.Ext != ".npy" || len(got.Pattern) != 2 || got.Datestamp == nil || *got.Datestamp {
		t.Fatalf("unexpected template: %+v", got)
	}
	if got.Root != "" {
		t.Fatalf("root should stay empty when under is set, got %q", got.Root)
	}
}

func TestAddTemplateRejectsDuplicate(t *testing.T) {
	cfg := DefaultConfig()
	if err := AddTemplate(&cfg, TemplateConfig{Name: "t", Pattern: []string{"a"}}); err != nil {
		t.Fatal(err)
	}
	if err := AddTemplate(&cfg, TemplateConfig{Name: "t", Pattern: []string{"b"}}); err == nil {
		t.Fatalf("expected duplicate template error")
	}
	if cfg.Templates[0].Root != "outputs" {
		t.Fatalf("root should default to outputs, got %q", cfg.Templates[0].Root)
	}
}

func TestRemoveTemplate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Templates = []TemplateConfig{{Name: "a"}, {Name: "b"}}
	if err := RemoveTemplate(&cfg, "a"); err != nil {
		t.Fatal(err)
	}
	if len(cfg.Templates) != 1 || cfg.Templates[0].Name != "b" {
		t.Fatalf("unexpected templates: %+v", cfg.Templates)
	}
	if err := RemoveTemplate(&cfg, "a"); err == nil {
		t.Fatal("expected not found error")
	}
}

func TestCheckRequires(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "dev"
	if err := CheckRequires("99.0.0"); err != nil {
		t.Fatalf("dev builds should satisfy any requirement: %v", err)
	}

	Version = "v1.4.0"
	tests := []struct {
		requires string
		wantErr  bool
	}{
		{"", false},
		{"1.0.0", false},
		{"v1.4.0", false},
		{"1.5.0", true},
		{"v2.0.0", true},
		{"garbage", true},
	}
	for _, tc := range tests {
		err := CheckRequires(tc.requires)
		if (err != nil) != tc.wantErr {
			t.Errorf("CheckRequires(%q): err=%v, wantErr=%v", tc.requires, err, tc.wantErr)
		}
	}
}
