package manifest

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/ariel-frischer/autobump/internal/semver"
)

// jsonAdapter handles JSON manifests such as package.json, where the
// version lives under a top-level key. sjson replaces the value in the raw
// document bytes, which keeps indentation, key ordering, and every
// unrelated byte intact.
type jsonAdapter struct{}

func (jsonAdapter) ReadVersion(d Descriptor) (semver.Version, error) {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return semver.Version{}, fmt.Errorf("reading manifest: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return semver.Version{}, fmt.Errorf("parsing %s: not valid JSON", d.Path)
	}

	result := gjson.GetBytes(data, d.KeyPath)
	if !result.Exists() {
		return semver.Version{}, &VersionFieldNotFoundError{Path: d.Path, KeyPath: d.KeyPath}
	}
	if result.Type != gjson.String {
		return semver.Version{}, &semver.InvalidVersionError{
			Input:  result.Raw,
			Reason: fmt.Sprintf("%s in %s is not a string", d.KeyPath, d.Path),
		}
	}
	return semver.Parse(result.String())
}

func (jsonAdapter) WriteVersion(d Descriptor, v semver.Version) error {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("parsing %s: not valid JSON", d.Path)
	}
	if !gjson.GetBytes(data, d.KeyPath).Exists() {
		return &VersionFieldNotFoundError{Path: d.Path, KeyPath: d.KeyPath}
	}

	updated, err := sjson.SetBytesOptions(data, d.KeyPath, v.String(), &sjson.Options{ReplaceInPlace: false})
	if err != nil {
		return fmt.Errorf("updating %s: %w", d.KeyPath, err)
	}

	return writeFilePreservingMode(d.Path, updated)
}
