package config

import (
	"fmt"
	"os"
)

// starterConfig is the project config written by "autobump init". Every key
// is present but commented out, so the file documents itself and changes
// nothing until edited.
const starterConfig = `# autobump project configuration.
# Every key is optional; uncomment what you want to change.
# Environment variables (AUTOBUMP_*) override these values.

# Project type: node, python, or rust. Leave unset to auto-detect.
# project: node

# Path to the manifest, when it is not in the repository root.
# manifest_path: packages/app/package.json

# Proceed even when the working tree has uncommitted changes.
# allow_dirty: false

# Prefix for release tags.
# tag_prefix: v

# Commit message template. {current} and {new} are replaced.
# commit_message: "chore: bump version {current} -> {new}"

# Annotated tag message template. {tag} is replaced.
# tag_message: "Release {tag}"

# Skip all confirmation prompts.
# skip_confirmations: false

# changelog:
#   # List non-conventional commits under "Other".
#   include_unrecognized: false
`

// WriteStarterConfig writes the starter project config to path. An existing
// file is never overwritten unless force is set.
func WriteStarterConfig(path string, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("writing starter config: %w", err)
	}
	return nil
}
