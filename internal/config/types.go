package config

// Config is the v1 schema of .projio/config.toml.
type Config struct {
	Version   int              `toml:"version" json:"version"`
	Requires  string           `toml:"requires,omitempty" json:"requires,omitempty"`
	Paths     PathsConfig      `toml:"paths" json:"paths"`
	Datestamp DatestampConfig  `toml:"datestamp" json:"datestamp"`
	Behavior  BehaviorConfig   `toml:"behavior" json:"behavior"`
	Logging   LoggingConfig    `toml:"logging" json:"logging"`
	Ledger    LedgerConfig     `toml:"ledger" json:"ledger"`
	Templates []TemplateConfig `toml:"templates,omitempty" json:"templates,omitempty"`
}

// PathsConfig holds the project directories. Relative values are resolved
// against the directory that contains .projio/. Empty inputs/outputs follow
// root.
type PathsConfig struct {
	Root      string `toml:"root" json:"root"`
	Inputs    string `toml:"inputs,omitempty" json:"inputs,omitempty"`
	Outputs   string `toml:"outputs,omitempty" json:"outputs,omitempty"`
	Resources string `toml:"resources,omitempty" json:"resources,omitempty"`
	Gitignore string `toml:"gitignore" json:"gitignore"`
}

type DatestampConfig struct {
	Enabled   bool   `toml:"enabled" json:"enabled"`
	Placement string `toml:"placement" json:"placement"`
	Format    string `toml:"format" json:"format"`
}

type BehaviorConfig struct {
	AutoCreate      bool `toml:"auto_create" json:"autoCreate"`
	DryRun          bool `toml:"dry_run" json:"dryRun"`
	ManageGitignore bool `toml:"manage_gitignore" json:"manageGitignore"`
}

type LoggingConfig struct {
	Level  string `toml:"level" json:"level"`
	Format string `toml:"format" json:"format"`
}

// LedgerConfig controls where producer records are persisted between runs.
type LedgerConfig struct {
	Persist bool   `toml:"persist" json:"persist"`
	Path    string `toml:"path" json:"path"`
}

// TemplateConfig declares a project-specific path template. Exactly one of
// Pattern and Files is set; an empty Pattern with no Files names a
// directory.
type TemplateConfig struct {
	Name      string            `toml:"name" json:"name"`
	Root      string            `toml:"root,omitempty" json:"root,omitempty"`
	Under     []string          `toml:"under,omitempty" json:"under,omitempty"`
	Pattern   []string          `toml:"pattern,omitempty" json:"pattern,omitempty"`
	Files     map[string]string `toml:"files,omitempty" json:"files,omitempty"`
	Ext       string            `toml:"ext,omitempty" json:"ext,omitempty"`
	Datestamp *bool             `toml:"datestamp,omitempty" json:"datestamp,omitempty"`
	Create    *bool             `toml:"create,omitempty" json:"create,omitempty"`
	Dir       bool              `toml:"dir,omitempty" json:"dir,omitempty"`
}
