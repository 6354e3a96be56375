package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/autobump/internal/config"
	apperrors "github.com/ariel-frischer/autobump/internal/errors"
	"github.com/ariel-frischer/autobump/internal/git"
	"github.com/ariel-frischer/autobump/internal/manifest"
	"github.com/ariel-frischer/autobump/internal/semver"
)

// runContext bundles the collaborators every command needs: loaded
// configuration, the enclosing git repository, and the resolved manifest
// descriptor with its adapter.
type runContext struct {
	cfg        *config.Configuration
	repo       *git.Repository
	descriptor manifest.Descriptor
	adapter    manifest.Adapter
}

// newRunContext loads configuration and resolves the repository and
// manifest. Flag values take precedence over configuration values.
func newRunContext(projectFlag, manifestFlag string) (*runContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, apperrors.WrapWithMessage(err, apperrors.Configuration, "loading configuration",
			"Check .autobump.yml and ~/.config/autobump/config.yml for mistakes")
	}

	repo, err := git.Open("")
	if err != nil {
		return nil, apperrors.WrapWithMessage(err, apperrors.Repository, "opening repository",
			"Run autobump inside a git repository")
	}

	descriptor, err := resolveDescriptor(cfg, projectFlag, manifestFlag)
	if err != nil {
		return nil, err
	}

	adapter, err := manifest.For(descriptor.Variant)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Manifest)
	}

	return &runContext{cfg: cfg, repo: repo, descriptor: descriptor, adapter: adapter}, nil
}

// resolveDescriptor picks the manifest descriptor: an explicit project type
// (flag or config) bypasses detection, otherwise the working directory is
// probed for a supported manifest.
func resolveDescriptor(cfg *config.Configuration, projectFlag, manifestFlag string) (manifest.Descriptor, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return manifest.Descriptor{}, fmt.Errorf("getting current directory: %w", err)
	}

	project := projectFlag
	if project == "" {
		project = cfg.Project
	}
	manifestPath := manifestFlag
	if manifestPath == "" {
		manifestPath = cfg.ManifestPath
	}

	if project != "" {
		return manifest.ForProject(manifest.ProjectType(project), cwd, manifestPath)
	}

	d, _, err := manifest.Detect(cwd)
	if err != nil {
		return manifest.Descriptor{}, err
	}
	if manifestPath != "" {
		d.Path = manifestPath
	}
	return d, nil
}

// confirm asks a yes/no question on the command's input stream. Anything
// but an explicit "y"/"yes" declines.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	reader := bufio.NewReader(cmd.InOrStdin())
	answer, _ := reader.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// previewManifestChange runs the target version through the real adapter
// write path against a scratch copy, so the rendered diff shows exactly
// the bytes a real apply would produce.
func previewManifestChange(rc *runContext, target semver.Version) (before, after string, err error) {
	data, err := os.ReadFile(rc.descriptor.Path)
	if err != nil {
		return "", "", fmt.Errorf("reading manifest: %w", err)
	}

	scratchDir, err := os.MkdirTemp("", "autobump-preview-*")
	if err != nil {
		return "", "", fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(scratchDir)

	scratch := rc.descriptor
	scratch.Path = filepath.Join(scratchDir, filepath.Base(rc.descriptor.Path))
	if err := os.WriteFile(scratch.Path, data, 0o644); err != nil {
		return "", "", fmt.Errorf("copying manifest: %w", err)
	}

	if err := rc.adapter.WriteVersion(scratch, target); err != nil {
		return "", "", err
	}

	updated, err := os.ReadFile(scratch.Path)
	if err != nil {
		return "", "", fmt.Errorf("reading scratch manifest: %w", err)
	}
	return string(data), string(updated), nil
}
