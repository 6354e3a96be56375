// Package semver models semantic versions for autobump. It parses the
// strict MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD] grammar, exposes the
// individual components for manifest editing, and implements the bump
// arithmetic the planner applies. Precedence comparison is delegated to
// golang.org/x/mod/semver, which implements SemVer 2.0 ordering.
package semver

import (
	"fmt"
	"strconv"
	"strings"

	xsemver "golang.org/x/mod/semver"
)

// Version is a parsed semantic version. The zero value is "0.0.0".
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease []string // dot-separated identifiers, nil when absent
	Build      string   // opaque build metadata, ignored in comparisons
}

// InvalidVersionError reports a string that does not parse as a semantic
// version, with the reason the grammar rejected it.
type InvalidVersionError struct {
	Input  string
	Reason string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid semantic version %q: %s", e.Input, e.Reason)
}

// Parse validates text against the canonical semver grammar and returns the
// parsed version. Deviations (non-numeric core components, empty
// identifiers, leading zeros in numeric identifiers) fail with
// *InvalidVersionError.
func Parse(text string) (Version, error) {
	var v Version
	rest := text

	// Split off build metadata first; it is opaque but must be non-empty
	// and limited to [0-9A-Za-z-.] identifiers per the grammar.
	if i := strings.IndexByte(rest, '+'); i >= 0 {
		build := rest[i+1:]
		rest = rest[:i]
		if err := validateIdentifiers(text, build, "build"); err != nil {
			return Version{}, err
		}
		v.Build = build
	}

	if i := strings.IndexByte(rest, '-'); i >= 0 {
		pre := rest[i+1:]
		rest = rest[:i]
		if err := validateIdentifiers(text, pre, "prerelease"); err != nil {
			return Version{}, err
		}
		for _, id := range strings.Split(pre, ".") {
			if isNumeric(id) && len(id) > 1 && id[0] == '0' {
				return Version{}, &InvalidVersionError{Input: text, Reason: "leading zero in numeric prerelease identifier"}
			}
		}
		v.Prerelease = strings.Split(pre, ".")
	}

	core := strings.Split(rest, ".")
	if len(core) != 3 {
		return Version{}, &InvalidVersionError{Input: text, Reason: "expected MAJOR.MINOR.PATCH core"}
	}
	nums := make([]int, 3)
	for i, part := range core {
		n, err := parseCoreComponent(text, part)
		if err != nil {
			return Version{}, err
		}
		nums[i] = n
	}
	v.Major, v.Minor, v.Patch = nums[0], nums[1], nums[2]
	return v, nil
}

// MustParse parses text and panics on failure. Intended for tests and
// compile-time-constant versions.
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// parseCoreComponent parses one numeric core component, rejecting empty
// strings, non-digits, and leading zeros.
func parseCoreComponent(input, part string) (int, error) {
	if part == "" {
		return 0, &InvalidVersionError{Input: input, Reason: "empty core component"}
	}
	if !isNumeric(part) {
		return 0, &InvalidVersionError{Input: input, Reason: fmt.Sprintf("non-numeric core component %q", part)}
	}
	if len(part) > 1 && part[0] == '0' {
		return 0, &InvalidVersionError{Input: input, Reason: fmt.Sprintf("leading zero in core component %q", part)}
	}
	n, err := strconv.Atoi(part)
	if err != nil {
		return 0, &InvalidVersionError{Input: input, Reason: fmt.Sprintf("core component %q out of range", part)}
	}
	return n, nil
}

// validateIdentifiers checks a dot-separated identifier sequence for empty
// identifiers and characters outside [0-9A-Za-z-].
func validateIdentifiers(input, seq, what string) error {
	if seq == "" {
		return &InvalidVersionError{Input: input, Reason: "empty " + what}
	}
	for _, id := range strings.Split(seq, ".") {
		if id == "" {
			return &InvalidVersionError{Input: input, Reason: "empty " + what + " identifier"}
		}
		for _, r := range id {
			if !isIdentChar(r) {
				return &InvalidVersionError{Input: input, Reason: fmt.Sprintf("illegal character %q in %s identifier", r, what)}
			}
		}
	}
	return nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isIdentChar(r rune) bool {
	return r == '-' ||
		(r >= '0' && r <= '9') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z')
}

// String returns the canonical form. Parse(v.String()) always round-trips.
func (v Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if len(v.Prerelease) > 0 {
		b.WriteByte('-')
		b.WriteString(strings.Join(v.Prerelease, "."))
	}
	if v.Build != "" {
		b.WriteByte('+')
		b.WriteString(v.Build)
	}
	return b.String()
}

// Compare returns -1, 0, or +1 ordering a against b by SemVer precedence.
// Build metadata is ignored; a release outranks any prerelease of the same
// core; prerelease identifiers compare pairwise with numeric identifiers
// sorting below alphanumeric ones.
func Compare(a, b Version) int {
	return xsemver.Compare("v"+a.String(), "v"+b.String())
}

// Bump returns the version after applying level. The prerelease tag and
// build metadata never carry forward: bumping a prerelease produces the
// corresponding plain release of the incremented core.
func (v Version) Bump(level Level) Version {
	switch level {
	case LevelMajor:
		return Version{Major: v.Major + 1}
	case LevelMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	case LevelPatch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch, Prerelease: v.Prerelease, Build: v.Build}
	}
}
