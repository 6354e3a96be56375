// Package config provides hierarchical configuration management for
// autobump using koanf. Configuration is loaded with priority: environment
// variables > project config (.autobump.yml) > user config
// (~/.config/autobump/config.yml) > defaults. A project-level
// .autobump.json is also accepted for teams that keep JSON configs.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configuration represents the autobump CLI tool configuration.
type Configuration struct {
	// Project pins the project type ("node", "python", "rust") instead of
	// presence-based detection. Empty means detect.
	Project string `koanf:"project" validate:"omitempty,oneof=node python rust"`

	// ManifestPath overrides the conventional manifest location.
	ManifestPath string `koanf:"manifest_path"`

	// AllowDirty permits bumping with uncommitted changes in the tree.
	AllowDirty bool `koanf:"allow_dirty"`

	// TagPrefix is prepended to the version when naming tags. Default "v".
	TagPrefix string `koanf:"tag_prefix"`

	// CommitMessage is the bump commit message template. {current} and
	// {new} expand to the old and new version strings.
	CommitMessage string `koanf:"commit_message"`

	// TagMessage is the annotated tag message template. {tag} expands to
	// the tag name.
	TagMessage string `koanf:"tag_message"`

	// SkipConfirmations suppresses interactive prompts (also settable via
	// AUTOBUMP_YES).
	SkipConfirmations bool `koanf:"skip_confirmations"`

	// Changelog configures changelog rendering.
	Changelog ChangelogConfig `koanf:"changelog"`
}

// ChangelogConfig controls what the changelog command includes.
type ChangelogConfig struct {
	// IncludeUnrecognized lists non-conventional commits under "Other".
	IncludeUnrecognized bool `koanf:"include_unrecognized"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default:
	// .autobump.yml). Used by tests.
	ProjectConfigPath string
	// WarningWriter receives warnings (default: os.Stderr).
	WarningWriter io.Writer
}

// Load loads configuration from user, project, and environment sources.
// Priority: environment variables > project config > user config > defaults.
func Load() (*Configuration, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range Defaults() {
		k.Set(key, value)
	}

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(k, opts.ProjectConfigPath); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("AUTOBUMP_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	if os.Getenv("AUTOBUMP_YES") != "" {
		cfg.SkipConfirmations = true
	}

	return &cfg, nil
}

// loadUserConfig loads the XDG user-level YAML config when present.
func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil {
		return nil
	}
	if !fileExists(path) {
		return nil
	}
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating user config: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading user config %s: %w", path, err)
	}
	return nil
}

// loadProjectConfig loads .autobump.yml, or .autobump.json as a fallback.
func loadProjectConfig(k *koanf.Koanf, customPath string) error {
	yamlPath := ProjectConfigPath()
	if customPath != "" {
		yamlPath = customPath
	}

	if fileExists(yamlPath) {
		if strings.HasSuffix(yamlPath, ".json") {
			if err := k.Load(file.Provider(yamlPath), json.Parser()); err != nil {
				return fmt.Errorf("loading project config %s: %w", yamlPath, err)
			}
			return nil
		}
		if err := ValidateYAMLSyntax(yamlPath); err != nil {
			return fmt.Errorf("validating project config: %w", err)
		}
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading project config %s: %w", yamlPath, err)
		}
		return nil
	}

	jsonPath := ProjectJSONConfigPath()
	if customPath == "" && fileExists(jsonPath) {
		if err := k.Load(file.Provider(jsonPath), json.Parser()); err != nil {
			return fmt.Errorf("loading project config %s: %w", jsonPath, err)
		}
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// AUTOBUMP_TAG_PREFIX -> tag_prefix;
// AUTOBUMP_CHANGELOG__INCLUDE_UNRECOGNIZED -> changelog.include_unrecognized.
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "AUTOBUMP_"))
	return strings.ReplaceAll(key, "__", ".")
}

// fileExists returns true if the file exists and is readable.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// ExpandCommitMessage fills the commit message template.
func (c *Configuration) ExpandCommitMessage(current, next string) string {
	msg := strings.ReplaceAll(c.CommitMessage, "{current}", current)
	return strings.ReplaceAll(msg, "{new}", next)
}

// ExpandTagMessage fills the tag message template.
func (c *Configuration) ExpandTagMessage(tag string) string {
	return strings.ReplaceAll(c.TagMessage, "{tag}", tag)
}
