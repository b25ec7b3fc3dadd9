package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/BRBCoffeeDebuff/DocMeta/internal/graph"
	"github.com/BRBCoffeeDebuff/DocMeta/internal/jsonutil"
)

// ProjectFileName is the optional per-project configuration file at the
// repository root.
const ProjectFileName = "docmeta.config.json"

// ProjectConfig is what a project may add on top of the defaults.
type ProjectConfig struct {
	Aliases       []graph.AliasPair `json:"aliases,omitempty"`
	EntryPatterns []string          `json:"entryPatterns,omitempty"`
	IgnoreDirs    []string          `json:"ignoreDirs,omitempty"`
}

// S3Config configures the snapshot export sink.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Config is the fully resolved run configuration. Every table the core
// consumes (aliases, entry patterns, ignore dirs) is threaded from here as
// a plain value; run behavior is a pure function of this struct.
type Config struct {
	IgnoreDirs    []string
	AliasPairs    []graph.AliasPair
	EntryPatterns []string

	RegistryPath string
	RegistryDSN  string

	S3 S3Config

	GeminiModel string
}

// DefaultIgnoreDirs lists VCS and dependency directories skipped by scans.
func DefaultIgnoreDirs() []string {
	return []string{".git", ".hg", ".svn", "node_modules", "vendor", "target", "build", ".next", ".cache"}
}

// DefaultAliasPairs always maps the two project-root aliases, even absent
// project configuration.
func DefaultAliasPairs() []graph.AliasPair {
	return []graph.AliasPair{
		{Pattern: "@/*", Targets: []string{"/*"}},
		{Pattern: "~/*", Targets: []string{"/*"}},
	}
}

// DefaultEntryPatterns matches the usual executable surfaces.
func DefaultEntryPatterns() []string {
	return []string{
		"**/main.*",
		"**/index.*",
		"**/app.*",
		"**/server.*",
		"**/cli.*",
	}
}

// Load resolves the run configuration: .env, environment, built-in
// defaults, and the project's docmeta.config.json (defaults first, project
// additions appended in order).
func Load(root string) Config {
	_ = godotenv.Load()

	cfg := Config{
		IgnoreDirs:    DefaultIgnoreDirs(),
		AliasPairs:    DefaultAliasPairs(),
		EntryPatterns: DefaultEntryPatterns(),
		RegistryPath:  firstNonEmpty(strings.TrimSpace(os.Getenv("DOCMETA_REGISTRY_PATH")), defaultRegistryPath()),
		RegistryDSN:   strings.TrimSpace(os.Getenv("DOCMETA_REGISTRY_PG_DSN")),
		S3: S3Config{
			Endpoint:  strings.TrimSpace(os.Getenv("DOCMETA_S3_ENDPOINT")),
			Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("DOCMETA_S3_REGION")), "us-east-1"),
			AccessKey: strings.TrimSpace(os.Getenv("DOCMETA_S3_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("DOCMETA_S3_SECRET_KEY")),
			Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("DOCMETA_S3_BUCKET")), "docmeta-snapshots"),
			UseSSL:    strings.EqualFold(strings.TrimSpace(os.Getenv("DOCMETA_S3_USE_SSL")), "true"),
		},
		GeminiModel: firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_MODEL")), "gemini-2.5-flash"),
	}

	if pc, ok := loadProjectFile(root); ok {
		cfg.AliasPairs = append(cfg.AliasPairs, pc.Aliases...)
		cfg.EntryPatterns = append(cfg.EntryPatterns, pc.EntryPatterns...)
		cfg.IgnoreDirs = append(cfg.IgnoreDirs, pc.IgnoreDirs...)
	}
	return cfg
}

func loadProjectFile(root string) (ProjectConfig, bool) {
	if strings.TrimSpace(root) == "" {
		return ProjectConfig{}, false
	}
	data, err := os.ReadFile(filepath.Join(root, ProjectFileName))
	if err != nil {
		return ProjectConfig{}, false
	}
	var pc ProjectConfig
	if err := jsonutil.Unmarshal(data, &pc); err != nil {
		// A broken project file falls back to defaults rather than
		// aborting the run.
		return ProjectConfig{}, false
	}
	return pc, true
}

func defaultRegistryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "docmeta-registry.json"
	}
	return filepath.Join(home, ".docmeta", "registry.json")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
