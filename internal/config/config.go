package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/MimeLyc/locpipe/pkg/log"
)

// Config holds all pipeline configuration.
// The source-tree layout and tool names are compiled-in defaults; only the
// operational knobs below read the environment.
//
// Environment Variables:
// - LOCPIPE_VERBOSE: log level (DEBUG/INFO/WARN/ERROR, default: INFO)
// - LOCPIPE_JOBS: per-locale worker bound for the compile stage (default: 1)
type Config struct {
	// SourceRoot is the root of the localized application's source tree.
	SourceRoot string `json:"source_root"`

	// DataDir is the application-data subtree (relative to SourceRoot)
	// holding UI-definition and markup files. Its presence is the
	// precondition for every pipeline run.
	DataDir string `json:"data_dir"`

	// LocaleDir (relative to SourceRoot) holds the template catalog and the
	// editable per-locale catalogs.
	LocaleDir string `json:"locale_dir"`

	// MoDir (relative to SourceRoot) is the runtime-visible root the
	// compiled catalogs are placed under.
	MoDir string `json:"mo_dir"`

	// TextDomain names the template catalog and every compiled artifact.
	TextDomain string `json:"text_domain"`

	// Tools holds the external collaborator command names.
	Tools ToolsConfig `json:"tools"`

	// Jobs bounds the compile stage's per-locale worker pool. 1 keeps the
	// strictly sequential registry-order behaviour.
	Jobs int `json:"jobs"`

	// LogLevel is the verbosity for the run.
	LogLevel log.LogLevel `json:"log_level"`
}

// ToolsConfig holds the command names of the external gettext collaborators.
type ToolsConfig struct {
	UIExtract  string `json:"ui_extract"`  // sidecar extraction from UI files
	MsgExtract string `json:"msg_extract"` // template catalog build
	CatInit    string `json:"cat_init"`    // per-locale catalog bootstrap
	CatMerge   string `json:"cat_merge"`   // per-locale catalog merge
	CatCompile string `json:"cat_compile"` // binary catalog compilation
}

// Option is a function type for configuring Config
type Option func(*Config)

// WithSourceRoot overrides the source tree root.
func WithSourceRoot(root string) Option {
	return func(c *Config) {
		c.SourceRoot = root
	}
}

// WithJobs overrides the compile-stage worker bound.
func WithJobs(jobs int) Option {
	return func(c *Config) {
		c.Jobs = jobs
	}
}

// WithTextDomain overrides the text domain.
func WithTextDomain(domain string) Option {
	return func(c *Config) {
		c.TextDomain = domain
	}
}

// New creates a Config with compiled-in defaults, environment overrides for
// the operational knobs, and any custom options applied on top.
func New(opts ...Option) (*Config, error) {
	config := &Config{
		SourceRoot: ".",
		DataDir:    "data",
		LocaleDir:  "locale",
		MoDir:      filepath.Join("data", "locale"),
		TextDomain: "deskscan",
		Tools: ToolsConfig{
			UIExtract:  "intltool-extract",
			MsgExtract: "xgettext",
			CatInit:    "msginit",
			CatMerge:   "msgmerge",
			CatCompile: "msgfmt",
		},
		Jobs:     getEnvInt("LOCPIPE_JOBS", 1),
		LogLevel: log.ParseLevel(getEnvString("LOCPIPE_VERBOSE", "INFO")),
	}

	for _, opt := range opts {
		opt(config)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks that every required field is set.
func (c *Config) validate() error {
	if c.SourceRoot == "" {
		return fmt.Errorf("source root is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data dir is required")
	}
	if c.LocaleDir == "" {
		return fmt.Errorf("locale dir is required")
	}
	if c.MoDir == "" {
		return fmt.Errorf("mo dir is required")
	}
	if c.TextDomain == "" {
		return fmt.Errorf("text domain is required")
	}
	for _, tool := range []string{
		c.Tools.UIExtract, c.Tools.MsgExtract,
		c.Tools.CatInit, c.Tools.CatMerge, c.Tools.CatCompile,
	} {
		if tool == "" {
			return fmt.Errorf("tool command names are required")
		}
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	return nil
}

// DataPath is the absolute-or-relative path of the application-data subtree.
func (c Config) DataPath() string {
	return filepath.Join(c.SourceRoot, c.DataDir)
}

// PotPath is the template catalog path.
func (c Config) PotPath() string {
	return filepath.Join(c.SourceRoot, c.LocaleDir, c.TextDomain+".pot")
}

// PoPath is the per-locale catalog path for a short code.
func (c Config) PoPath(code string) string {
	return filepath.Join(c.SourceRoot, c.LocaleDir, code+".po")
}

// MoLocalePath is the compiled-output directory for a short code.
func (c Config) MoLocalePath(code string) string {
	return filepath.Join(c.SourceRoot, c.MoDir, code)
}

// MoPath is the compiled catalog path for a short code.
func (c Config) MoPath(code string) string {
	return filepath.Join(c.MoLocalePath(code), "LC_MESSAGES", c.TextDomain+".mo")
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
