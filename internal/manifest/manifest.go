// Package manifest reads and writes the version field of a project manifest
// (package.json, pyproject.toml, Cargo.toml). Writes are byte-preserving:
// only the bytes spanning the version value change, so hand-edited
// manifests never pick up spurious diffs. Each schema variant implements
// the same two-operation Adapter contract; adding a variant requires no
// change to callers.
package manifest

import (
	"fmt"

	"github.com/ariel-frischer/autobump/internal/semver"
)

// Variant identifies the manifest schema a descriptor refers to.
type Variant string

const (
	// VariantTOML stores the version under a dotted key path inside a
	// table-structured document (pyproject.toml, Cargo.toml).
	VariantTOML Variant = "toml"
	// VariantJSON stores the version under a top-level key (package.json).
	VariantJSON Variant = "json"
)

// Descriptor resolves a manifest file: where it lives, which schema variant
// it uses, and the key path of the version field inside it.
type Descriptor struct {
	// Path is the manifest file location.
	Path string
	// Variant selects the adapter implementation.
	Variant Variant
	// KeyPath is the dotted path to the version field, e.g.
	// "project.version" (TOML) or "version" (JSON).
	KeyPath string
}

// Adapter is the two-operation capability interface over a manifest schema
// variant.
type Adapter interface {
	// ReadVersion returns the semantic version stored at the descriptor's
	// key path. It fails with *VersionFieldNotFoundError when the key path
	// is absent and *semver.InvalidVersionError when the value does not
	// parse.
	ReadVersion(d Descriptor) (semver.Version, error)
	// WriteVersion replaces the version value with v, preserving every
	// other byte of the file exactly. Writing the same value twice yields
	// byte-identical output both times.
	WriteVersion(d Descriptor, v semver.Version) error
}

// VersionFieldNotFoundError reports a manifest that lacks the expected
// version key path.
type VersionFieldNotFoundError struct {
	Path    string
	KeyPath string
}

func (e *VersionFieldNotFoundError) Error() string {
	return fmt.Sprintf("no %q field found in %s", e.KeyPath, e.Path)
}

// For returns the adapter implementing the given schema variant.
func For(v Variant) (Adapter, error) {
	switch v {
	case VariantTOML:
		return tomlAdapter{}, nil
	case VariantJSON:
		return jsonAdapter{}, nil
	default:
		return nil, fmt.Errorf("unsupported manifest variant %q", v)
	}
}
