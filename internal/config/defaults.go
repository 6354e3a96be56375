package config

// Defaults returns the default configuration values as koanf keys.
func Defaults() map[string]any {
	return map[string]any{
		"project":                        "",
		"manifest_path":                  "",
		"allow_dirty":                    false,
		"tag_prefix":                     "v",
		"commit_message":                 "chore: bump version {current} -> {new}",
		"tag_message":                    "Release {tag}",
		"skip_confirmations":             false,
		"changelog.include_unrecognized": false,
	}
}
