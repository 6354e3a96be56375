package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ProjectType names a supported project ecosystem.
type ProjectType string

const (
	ProjectNode   ProjectType = "node"
	ProjectPython ProjectType = "python"
	ProjectRust   ProjectType = "rust"
)

// probe binds a project type to its manifest file and descriptor shape.
// Probes run in order; the first present file wins.
type probe struct {
	Type    ProjectType
	File    string
	Variant Variant
	KeyPath string
}

var probes = []probe{
	{ProjectNode, "package.json", VariantJSON, "version"},
	{ProjectPython, "pyproject.toml", VariantTOML, "project.version"},
	{ProjectRust, "Cargo.toml", VariantTOML, "package.version"},
}

// UnsupportedProjectError reports a directory with no recognizable manifest
// or an unknown explicit project type.
type UnsupportedProjectError struct {
	Dir     string
	Project string
}

func (e *UnsupportedProjectError) Error() string {
	if e.Project != "" {
		return fmt.Sprintf("unsupported project type %q (supported: %s)", e.Project, supportedTypes())
	}
	return fmt.Sprintf("no supported manifest found in %s (looked for: %s)", e.Dir, supportedFiles())
}

// Detect probes dir for a supported manifest and returns its descriptor and
// project type. Probing order gives package.json priority over
// pyproject.toml over Cargo.toml, matching common polyglot layouts.
func Detect(dir string) (Descriptor, ProjectType, error) {
	for _, p := range probes {
		path := filepath.Join(dir, p.File)
		if _, err := os.Stat(path); err == nil {
			return Descriptor{Path: path, Variant: p.Variant, KeyPath: p.KeyPath}, p.Type, nil
		}
	}
	return Descriptor{}, "", &UnsupportedProjectError{Dir: dir}
}

// ForProject returns the descriptor for an explicitly named project type,
// bypassing presence probing. An empty manifestPath uses the conventional
// file name inside dir.
func ForProject(project ProjectType, dir, manifestPath string) (Descriptor, error) {
	for _, p := range probes {
		if p.Type != project {
			continue
		}
		path := manifestPath
		if path == "" {
			path = filepath.Join(dir, p.File)
		}
		if _, err := os.Stat(path); err != nil {
			return Descriptor{}, fmt.Errorf("manifest not found: %s", path)
		}
		return Descriptor{Path: path, Variant: p.Variant, KeyPath: p.KeyPath}, nil
	}
	return Descriptor{}, &UnsupportedProjectError{Project: string(project)}
}

// SupportedProjects lists the project types Detect understands.
func SupportedProjects() []ProjectType {
	types := make([]ProjectType, len(probes))
	for i, p := range probes {
		types[i] = p.Type
	}
	return types
}

func supportedTypes() string {
	names := make([]string, len(probes))
	for i, p := range probes {
		names[i] = string(p.Type)
	}
	return strings.Join(names, ", ")
}

func supportedFiles() string {
	files := make([]string, len(probes))
	for i, p := range probes {
		files[i] = p.File
	}
	return strings.Join(files, ", ")
}
