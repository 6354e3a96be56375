package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user-config lookup at an empty directory so the
// developer's real config never leaks into tests.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithOptions(LoadOptions{ProjectConfigPath: filepath.Join(t.TempDir(), "missing.yml")})
	require.NoError(t, err)

	assert.Equal(t, "v", cfg.TagPrefix)
	assert.Equal(t, "chore: bump version {current} -> {new}", cfg.CommitMessage)
	assert.Equal(t, "Release {tag}", cfg.TagMessage)
	assert.False(t, cfg.AllowDirty)
	assert.False(t, cfg.SkipConfirmations)
	assert.False(t, cfg.Changelog.IncludeUnrecognized)
	assert.Empty(t, cfg.Project)
}

func TestLoad_ProjectConfigOverridesDefaults(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	content := "tag_prefix: release-\nproject: rust\nchangelog:\n  include_unrecognized: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadWithOptions(LoadOptions{ProjectConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, "release-", cfg.TagPrefix)
	assert.Equal(t, "rust", cfg.Project)
	assert.True(t, cfg.Changelog.IncludeUnrecognized)
	// Untouched keys keep their defaults.
	assert.Equal(t, "Release {tag}", cfg.TagMessage)
}

func TestLoad_JSONProjectConfig(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"allow_dirty": true}`), 0o644))

	cfg, err := LoadWithOptions(LoadOptions{ProjectConfigPath: path})
	require.NoError(t, err)
	assert.True(t, cfg.AllowDirty)
}

func TestLoad_EnvironmentWinsOverFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("tag_prefix: release-\n"), 0o644))
	t.Setenv("AUTOBUMP_TAG_PREFIX", "ver-")

	cfg, err := LoadWithOptions(LoadOptions{ProjectConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "ver-", cfg.TagPrefix)
}

func TestLoad_NestedEnvKey(t *testing.T) {
	isolate(t)
	t.Setenv("AUTOBUMP_CHANGELOG__INCLUDE_UNRECOGNIZED", "true")

	cfg, err := LoadWithOptions(LoadOptions{ProjectConfigPath: filepath.Join(t.TempDir(), "missing.yml")})
	require.NoError(t, err)
	assert.True(t, cfg.Changelog.IncludeUnrecognized)
}

func TestLoad_YesEnvSkipsConfirmations(t *testing.T) {
	isolate(t)
	t.Setenv("AUTOBUMP_YES", "1")

	cfg, err := LoadWithOptions(LoadOptions{ProjectConfigPath: filepath.Join(t.TempDir(), "missing.yml")})
	require.NoError(t, err)
	assert.True(t, cfg.SkipConfirmations)
}

func TestLoad_InvalidYAMLSurfacesFileName(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("tag_prefix: [unclosed\n"), 0o644))

	_, err := LoadWithOptions(LoadOptions{ProjectConfigPath: path})
	require.Error(t, err)
	assert.ErrorContains(t, err, "config.yml")
}

func TestValidate(t *testing.T) {
	cfg := &Configuration{Project: "erlang", CommitMessage: "chore: bump {new}"}
	err := Validate(cfg)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "project", verr.Field)
	assert.Contains(t, verr.Message, "must be one of")

	cfg = &Configuration{CommitMessage: "no placeholder"}
	err = Validate(cfg)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "commit_message", verr.Field)

	assert.NoError(t, Validate(&Configuration{Project: "node", CommitMessage: "bump to {new}"}))
	assert.NoError(t, Validate(&Configuration{CommitMessage: "bump to {new}"}))
}

func TestExpandTemplates(t *testing.T) {
	cfg := &Configuration{
		CommitMessage: "chore: bump version {current} -> {new}",
		TagMessage:    "Release {tag}",
	}
	assert.Equal(t, "chore: bump version 1.2.3 -> 1.3.0", cfg.ExpandCommitMessage("1.2.3", "1.3.0"))
	assert.Equal(t, "Release v1.3.0", cfg.ExpandTagMessage("v1.3.0"))
}
