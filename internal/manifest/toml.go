package manifest

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ariel-frischer/autobump/internal/semver"
)

// tomlAdapter handles table-structured TOML manifests such as
// pyproject.toml ([project] version) and Cargo.toml ([package] version).
//
// Reads go through a full TOML decode so malformed documents and absent
// keys are detected reliably. Writes cannot round-trip through the decoder
// (re-encoding would reorder keys and drop comments), so the new value is
// spliced into the raw bytes at the exact span of the existing one.
type tomlAdapter struct{}

func (tomlAdapter) ReadVersion(d Descriptor) (semver.Version, error) {
	data, err := os.ReadFile(d.Path)
	if err != nil {
		return semver.Version{}, fmt.Errorf("reading manifest: %w", err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return semver.Version{}, fmt.Errorf("parsing %s: %w", d.Path, err)
	}

	value, ok := lookupKeyPath(doc, d.KeyPath)
	if !ok {
		return semver.Version{}, &VersionFieldNotFoundError{Path: d.Path, KeyPath: d.KeyPath}
	}
	text, ok := value.(string)
	if !ok {
		return semver.Version{}, &semver.InvalidVersionError{
			Input:  fmt.Sprintf("%v", value),
			Reason: fmt.Sprintf("%s in %s is not a string", d.KeyPath, d.Path),
		}
	}
	return semver.Parse(text)
}

func (a tomlAdapter) WriteVersion(d Descriptor, v semver.Version) error {
	// Validate the document and key presence first so a malformed manifest
	// never gets partially rewritten.
	if _, err := a.ReadVersion(d); err != nil {
		if _, invalid := err.(*semver.InvalidVersionError); !invalid {
			return err
		}
	}

	data, err := os.ReadFile(d.Path)
	if err != nil {
		return fmt.Errorf("reading manifest: %w", err)
	}

	updated, err := spliceTOMLVersion(string(data), d, v.String())
	if err != nil {
		return err
	}

	return writeFilePreservingMode(d.Path, []byte(updated))
}

// spliceTOMLVersion replaces the quoted value of the version key within its
// table, leaving every other byte untouched. Both basic ("...") and literal
// ('...') strings are accepted, and the original quote style is kept. The
// key path's last segment is the key name; the leading segments name the
// enclosing table header.
func spliceTOMLVersion(content string, d Descriptor, newVersion string) (string, error) {
	table, key := splitKeyPath(d.KeyPath)
	quoted := regexp.QuoteMeta(key)
	keyPatterns := []*regexp.Regexp{
		regexp.MustCompile(`^(\s*` + quoted + `\s*=\s*")([^"]*)(")`),
		regexp.MustCompile(`^(\s*` + quoted + `\s*=\s*')([^']*)(')`),
	}

	lines := strings.Split(content, "\n")
	currentTable := ""
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			currentTable = strings.Trim(trimmed, "[]")
			continue
		}
		if currentTable != table {
			continue
		}
		for _, pattern := range keyPatterns {
			if m := pattern.FindStringSubmatchIndex(line); m != nil {
				lines[i] = line[:m[4]] + newVersion + line[m[5]:]
				return strings.Join(lines, "\n"), nil
			}
		}
	}

	return "", &VersionFieldNotFoundError{Path: d.Path, KeyPath: d.KeyPath}
}

// splitKeyPath splits "project.version" into table "project" and key
// "version". A path without a dot addresses a top-level key.
func splitKeyPath(keyPath string) (table, key string) {
	if i := strings.LastIndexByte(keyPath, '.'); i >= 0 {
		return keyPath[:i], keyPath[i+1:]
	}
	return "", keyPath
}

// lookupKeyPath walks a decoded document along a dotted key path.
func lookupKeyPath(doc map[string]any, keyPath string) (any, bool) {
	segments := strings.Split(keyPath, ".")
	var current any = doc
	for _, seg := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// writeFilePreservingMode writes data to path keeping the existing file
// mode when the file already exists.
func writeFilePreservingMode(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
